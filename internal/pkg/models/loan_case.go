package models

import "time"

// CaseStatus is one of the configured case states. The named values are the
// well-known states; the recognised set at runtime is the CASE_STATUS allow-list.
type CaseStatus string

const (
	StatusDocumentPending CaseStatus = "Document Pending"
	StatusLogin           CaseStatus = "Login"
	StatusInProgress      CaseStatus = "In Progress"
	StatusHold            CaseStatus = "Hold"
	StatusRIC             CaseStatus = "RIC"
	StatusComplete        CaseStatus = "Complete"
	StatusApproved        CaseStatus = "Approved"
	StatusDisbursed       CaseStatus = "Disbursed"
	StatusReject          CaseStatus = "Reject"
)

// IsApprovalLike reports whether approval details are meaningful for s.
func (s CaseStatus) IsApprovalLike() bool {
	return s == StatusApproved || s == StatusDisbursed
}

type HistoryEntry struct {
	Timestamp time.Time  `json:"timestamp"`
	Status    CaseStatus `json:"status"`
	Remarks   string     `json:"remarks"`
}

type CaseDocument struct {
	Type      string `json:"type"`
	Uploaded  bool   `json:"uploaded"`
	FileURL   string `json:"fileUrl,omitempty"`
	SizeBytes int64  `json:"sizeBytes,omitempty"`
}

// ApprovalDetails are the optional fields populated on transition into an
// approval-like status. Nil pointers mean "not supplied".
type ApprovalDetails struct {
	ApprovedAmount  *float64 `json:"approvedAmount,omitempty" validate:"omitempty,gte=0"`
	ROI             *float64 `json:"roi,omitempty" validate:"omitempty,gte=0"`
	ApprovedTenure  *int     `json:"approvedTenure,omitempty" validate:"omitempty,gt=0"`
	ProcessingFee   *float64 `json:"processingFee,omitempty" validate:"omitempty,gte=0"`
	InsuranceAmount *float64 `json:"insuranceAmount,omitempty" validate:"omitempty,gte=0"`
}

// IsEmpty reports whether no approval field was supplied.
func (d ApprovalDetails) IsEmpty() bool {
	return d.ApprovedAmount == nil && d.ROI == nil && d.ApprovedTenure == nil &&
		d.ProcessingFee == nil && d.InsuranceAmount == nil
}

type LoanCase struct {
	ID              string         `json:"id"`
	ApplicantName   string         `json:"applicantName"`
	LoanAmount      float64        `json:"loanAmount"`
	LoanType        string         `json:"loanType"`
	CaseType        string         `json:"caseType"`
	ContactNumber   string         `json:"contactNumber"`
	Email           string         `json:"email"`
	Address         string         `json:"address"`
	ApplicationDate time.Time      `json:"applicationDate"`
	TeamMember      string         `json:"teamMember"`
	Status          CaseStatus     `json:"status"`
	Notes           string         `json:"notes"`
	History         []HistoryEntry `json:"history"`
	Salary          float64        `json:"salary"`
	Location        string         `json:"location"`
	DOB             string         `json:"dob"`
	PANCardNumber   string         `json:"panCardNumber"`
	JobProfile      string         `json:"jobProfile"`
	JobDesignation  string         `json:"jobDesignation"`
	ReferenceName   string         `json:"referenceName"`
	BankName        string         `json:"bankName"`
	OtherBankName   string         `json:"otherBankName,omitempty"`
	BankOfficeSM    string         `json:"bankOfficeSm"`
	Documents       []CaseDocument `json:"documents"`
	Tenure          int            `json:"tenure"`
	Obligation      float64        `json:"obligation"`
	ApprovalDetails
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy so callers never share slices or pointers with
// the store's state.
func (c LoanCase) Clone() LoanCase {
	out := c
	out.History = append([]HistoryEntry(nil), c.History...)
	out.Documents = append([]CaseDocument(nil), c.Documents...)
	out.ApprovalDetails = ApprovalDetails{
		ApprovedAmount:  cloneFloat(c.ApprovedAmount),
		ROI:             cloneFloat(c.ROI),
		ApprovedTenure:  cloneInt(c.ApprovedTenure),
		ProcessingFee:   cloneFloat(c.ProcessingFee),
		InsuranceAmount: cloneFloat(c.InsuranceAmount),
	}
	return out
}

// UploadedBytes sums the recorded size of every uploaded slot except skipType.
func (c LoanCase) UploadedBytes(skipType string) int64 {
	var total int64
	for _, d := range c.Documents {
		if d.Uploaded && d.Type != skipType {
			total += d.SizeBytes
		}
	}
	return total
}

// CaseDraft is the add-case payload.
type CaseDraft struct {
	ApplicantName   string     `json:"applicantName" validate:"min=2"`
	LoanAmount      float64    `json:"loanAmount" validate:"gt=0"`
	LoanType        string     `json:"loanType" validate:"allowed=LOAN_TYPE"`
	CaseType        string     `json:"caseType" validate:"allowed=CASE_TYPE"`
	ContactNumber   string     `json:"contactNumber" validate:"phone"`
	Email           string     `json:"email" validate:"required,email"`
	Address         string     `json:"address" validate:"min=5"`
	ApplicationDate time.Time  `json:"applicationDate" validate:"required"`
	TeamMember      string     `json:"teamMember" validate:"allowed=TEAM_MEMBER"`
	Status          CaseStatus `json:"status" validate:"omitempty,allowed=CASE_STATUS"`
	Notes           string     `json:"notes"`
	Salary          float64    `json:"salary" validate:"gt=0"`
	Location        string     `json:"location" validate:"min=2"`
	DOB             string     `json:"dob" validate:"required,datetime=2006-01-02"`
	PANCardNumber   string     `json:"panCardNumber" validate:"pan"`
	JobProfile      string     `json:"jobProfile" validate:"allowed=JOB_PROFILE"`
	JobDesignation  string     `json:"jobDesignation" validate:"min=2"`
	ReferenceName   string     `json:"referenceName" validate:"min=2"`
	BankName        string     `json:"bankName" validate:"allowed=BANK_NAME"`
	OtherBankName   string     `json:"otherBankName"`
	BankOfficeSM    string     `json:"bankOfficeSm" validate:"min=2"`
	Tenure          int        `json:"tenure" validate:"gt=0"`
	Obligation      float64    `json:"obligation" validate:"gte=0"`
	ApprovalDetails
}

// StatusUpdate is the update-status payload.
type StatusUpdate struct {
	Status  CaseStatus `json:"status" validate:"allowed=CASE_STATUS"`
	Remarks string     `json:"remarks" validate:"required"`
	ApprovalDetails
}

// StatusChange is what the gateway persists for one status update.
type StatusChange struct {
	Status    CaseStatus
	Entry     HistoryEntry
	Details   ApprovalDetails
	UpdatedAt time.Time
}

// Attachment is a file submitted with a new case or a document upload.
type Attachment struct {
	DocumentType string
	FileName     string
	ContentType  string
	Data         []byte
}

// Size is the attachment length in bytes.
func (a Attachment) Size() int64 {
	return int64(len(a.Data))
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
