package validation

const (
	msgUnknownCategory = "Unknown configuration category."
	msgNameRequired    = "Name is required."
	msgInvalidValue    = "Invalid value."
)

var fieldMessages = map[string]string{
	"applicantName":   "Applicant name must be at least 2 characters.",
	"loanAmount":      "Loan amount must be a positive number.",
	"loanType":        "Please select a valid loan type.",
	"caseType":        "Please select a valid case type.",
	"contactNumber":   "Invalid phone number format.",
	"email":           "Please enter a valid email address.",
	"address":         "Address must be at least 5 characters.",
	"applicationDate": "An application date is required.",
	"teamMember":      "Please select a valid team member.",
	"status":          "Please select a valid status.",
	"salary":          "Salary must be a positive number.",
	"location":        "Location is required.",
	"dob":             "Date of birth is required.",
	"panCardNumber":   "Invalid PAN card number format.",
	"jobProfile":      "Please select a valid job profile.",
	"jobDesignation":  "Job designation is required.",
	"referenceName":   "Reference name is required.",
	"bankName":        "Please select a valid bank.",
	"otherBankName":   "Please specify the bank name when \"Other\" is selected.",
	"bankOfficeSm":    "Bank Office/SM is required.",
	"tenure":          "Tenure must be a positive number (in months).",
	"obligation":      "Obligation must be a positive number.",
	"remarks":         "Remarks are required for a status update.",

	"approvedAmount":  "Approved amount must not be negative.",
	"roi":             "ROI must not be negative.",
	"approvedTenure":  "Approved tenure must be a positive number (in months).",
	"processingFee":   "Processing fee must not be negative.",
	"insuranceAmount": "Insurance amount must not be negative.",

	"applicantData":       "Applicant data must be a valid JSON string.",
	"approvalHistoryData": "Approval history data must be a valid JSON string.",

	"suggestedLoanAmount":     "Suggested loan amount must be a positive number.",
	"suggestedLoanType":       "Suggested loan type is required.",
	"suggestedRepaymentTerms": "Suggested repayment terms are required.",
	"rationale":               "Rationale is required and must be at most 5 sentences.",

	"category": "Category is required.",
	"value":    "Value is required.",
}

// tagMessages override fieldMessages for a specific field and failing rule.
var tagMessages = map[string]map[string]string{
	"dob": {"datetime": "Date of birth must be a valid date (YYYY-MM-DD)."},
}

func messageFor(field, tag string) string {
	if msg, ok := tagMessages[field][tag]; ok {
		return msg
	}
	if msg, ok := fieldMessages[field]; ok {
		return msg
	}
	return msgInvalidValue
}
