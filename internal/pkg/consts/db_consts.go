package consts

const (
	LoanCasesCollection        = "loan_cases"
	CaseHistoryCollection      = "case_history"
	CaseDocumentsCollection    = "case_documents"
	AppConfigurationCollection = "app_configuration"
)

const (
	DatabaseDriverMongo    = "mongo"
	DatabaseDriverPostgres = "postgres"
)
