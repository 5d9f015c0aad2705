package consts

// Configuration categories stored in app_configuration.category.
const (
	CategoryLoanType     = "LOAN_TYPE"
	CategoryCaseType     = "CASE_TYPE"
	CategoryJobProfile   = "JOB_PROFILE"
	CategoryCaseStatus   = "CASE_STATUS"
	CategoryDocumentType = "DOCUMENT_TYPE"
	CategoryBankName     = "BANK_NAME"
	CategoryTeamMember   = "TEAM_MEMBER"
)

// Categories lists every known category in seeding order.
var Categories = []string{
	CategoryLoanType,
	CategoryCaseType,
	CategoryJobProfile,
	CategoryCaseStatus,
	CategoryDocumentType,
	CategoryBankName,
	CategoryTeamMember,
}

// DefaultOptions are the option lists used for the initial seed and as a
// fallback for categories that have no active rows.
var DefaultOptions = map[string][]string{
	CategoryLoanType:   {"Personal", "Home", "Car", "Business", "Education"},
	CategoryCaseType:   {"New", "BT", "Top-Up"},
	CategoryJobProfile: {"Government", "Private", "Business"},
	CategoryCaseStatus: {
		"Document Pending", "Login", "In Progress", "Hold", "RIC",
		"Complete", "Approved", "Disbursed", "Reject",
	},
	CategoryDocumentType: {
		"TVR Form", "Aadhaar Card", "Pan Card", "Salary Slip", "Bank Statement", "Loan Tracks",
	},
	CategoryBankName: {
		"HDFC Bank",
		"ICICI Bank",
		"Axis Bank",
		"Kotak Mahindra Bank",
		"IndusInd Bank",
		"Yes Bank",
		"Bajaj Finance Ltd.",
		"Tata Capital Financial Services",
		"HDB Financial Services (HDFC Group)",
		"Aditya Birla Finance Ltd.",
		"Mahindra & Mahindra Financial Services",
		"L&T Finance Ltd.",
		"Piramal Capital & Housing Finance",
		"Shriram Finance Ltd.",
		"Cholamandalam Investment & Finance",
		"Muthoot Finance Ltd.",
		"Fullerton India",
		"IIFL Finance",
		"Hero FinCorp",
		OtherBankName,
	},
	CategoryTeamMember: {"John Doe", "Jane Smith", "Peter Jones", "Mary Williams"},
}

// IsKnownCategory reports whether category is one of Categories.
func IsKnownCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
