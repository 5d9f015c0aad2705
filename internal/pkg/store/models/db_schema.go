package models

import (
	"loan-case-tracker/internal/pkg/consts"
	"time"
)

// Row types double as mongo documents and gorm models; table and collection
// names match.

type LoanCaseRow struct {
	ID              string    `bson:"_id" gorm:"column:id;primaryKey"`
	ApplicantName   string    `bson:"applicant_name" gorm:"column:applicant_name"`
	LoanAmount      float64   `bson:"loan_amount" gorm:"column:loan_amount"`
	LoanType        string    `bson:"loan_type" gorm:"column:loan_type"`
	CaseType        string    `bson:"case_type" gorm:"column:case_type"`
	ContactNumber   string    `bson:"contact_number" gorm:"column:contact_number"`
	Email           string    `bson:"email" gorm:"column:email"`
	Address         string    `bson:"address" gorm:"column:address"`
	ApplicationDate time.Time `bson:"application_date" gorm:"column:application_date"`
	TeamMember      string    `bson:"team_member" gorm:"column:team_member;index"`
	Status          string    `bson:"status" gorm:"column:status;index"`
	Notes           string    `bson:"notes" gorm:"column:notes"`
	Salary          float64   `bson:"salary" gorm:"column:salary"`
	Location        string    `bson:"location" gorm:"column:location"`
	DOB             string    `bson:"dob" gorm:"column:dob"`
	PANCardNumber   string    `bson:"pan_card_number" gorm:"column:pan_card_number"`
	JobProfile      string    `bson:"job_profile" gorm:"column:job_profile"`
	JobDesignation  string    `bson:"job_designation" gorm:"column:job_designation"`
	ReferenceName   string    `bson:"reference_name" gorm:"column:reference_name"`
	BankName        string    `bson:"bank_name" gorm:"column:bank_name;index"`
	OtherBankName   *string   `bson:"other_bank_name" gorm:"column:other_bank_name"`
	BankOfficeSM    string    `bson:"bank_office_sm" gorm:"column:bank_office_sm"`
	Tenure          int       `bson:"tenure" gorm:"column:tenure"`
	Obligation      float64   `bson:"obligation" gorm:"column:obligation"`
	ApprovedAmount  *float64  `bson:"approved_amount" gorm:"column:approved_amount"`
	ROI             *float64  `bson:"roi" gorm:"column:roi"`
	ApprovedTenure  *int      `bson:"approved_tenure" gorm:"column:approved_tenure"`
	ProcessingFee   *float64  `bson:"processing_fee" gorm:"column:processing_fee"`
	InsuranceAmount *float64  `bson:"insurance_amount" gorm:"column:insurance_amount"`
	CreatedAt       time.Time `bson:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time `bson:"updated_at" gorm:"column:updated_at"`
}

func (LoanCaseRow) TableName() string { return consts.LoanCasesCollection }

type CaseHistoryRow struct {
	ID        string    `bson:"_id" gorm:"column:id;primaryKey" json:"id"`
	CaseID    string    `bson:"case_id" gorm:"column:case_id;index" json:"caseId"`
	Timestamp time.Time `bson:"timestamp" gorm:"column:timestamp" json:"timestamp"`
	Status    string    `bson:"status" gorm:"column:status" json:"status"`
	Remarks   string    `bson:"remarks" gorm:"column:remarks" json:"remarks"`
	CreatedAt time.Time `bson:"created_at" gorm:"column:created_at" json:"createdAt"`
}

func (CaseHistoryRow) TableName() string { return consts.CaseHistoryCollection }

type CaseDocumentRow struct {
	ID           string    `bson:"_id" gorm:"column:id;primaryKey" json:"id"`
	CaseID       string    `bson:"case_id" gorm:"column:case_id;uniqueIndex:idx_case_document" json:"caseId"`
	DocumentType string    `bson:"document_type" gorm:"column:document_type;uniqueIndex:idx_case_document" json:"documentType"`
	Uploaded     bool      `bson:"uploaded" gorm:"column:uploaded" json:"uploaded"`
	FileURL      *string   `bson:"file_url" gorm:"column:file_url" json:"fileUrl,omitempty"`
	SizeBytes    int64     `bson:"size_bytes" gorm:"column:size_bytes" json:"sizeBytes"`
	CreatedAt    time.Time `bson:"created_at" gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" gorm:"column:updated_at" json:"updatedAt"`
}

func (CaseDocumentRow) TableName() string { return consts.CaseDocumentsCollection }

type AppConfigurationRow struct {
	ID           string    `bson:"_id" gorm:"column:id;primaryKey"`
	Category     string    `bson:"category" gorm:"column:category;index"`
	Value        string    `bson:"value" gorm:"column:value"`
	IsActive     bool      `bson:"is_active" gorm:"column:is_active"`
	DisplayOrder int       `bson:"display_order" gorm:"column:display_order"`
	CreatedAt    time.Time `bson:"created_at" gorm:"column:created_at"`
}

func (AppConfigurationRow) TableName() string { return consts.AppConfigurationCollection }
