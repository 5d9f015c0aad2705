package models

// SuggestionInput carries two JSON-encoded strings: the applicant's financial
// data and historical case outcomes.
type SuggestionInput struct {
	ApplicantData       string `json:"applicantData" validate:"required,json"`
	ApprovalHistoryData string `json:"approvalHistoryData" validate:"omitempty,json"`
}

type SuggestionOutput struct {
	SuggestedLoanAmount     float64 `json:"suggestedLoanAmount" validate:"gt=0"`
	SuggestedLoanType       string  `json:"suggestedLoanType" validate:"required"`
	SuggestedRepaymentTerms string  `json:"suggestedRepaymentTerms" validate:"required"`
	Rationale               string  `json:"rationale" validate:"required,maxsentences=5"`
}

// ApprovalHistoryRecord is one historical outcome fed to the model.
type ApprovalHistoryRecord struct {
	LoanAmount float64    `json:"loanAmount"`
	LoanType   string     `json:"loanType"`
	Status     CaseStatus `json:"status"`
}
