package consts

const (
	// OtherBankName is the bank sentinel that requires an explicit otherBankName.
	OtherBankName = "Other"

	CaseDocumentsFolder = "case-documents"

	// DefaultMaxCaseUploadBytes is the per-case ceiling on cumulative uploaded document size.
	DefaultMaxCaseUploadBytes int64 = 5 * 1024 * 1024

	CaseCreatedRemarks = "Case created"

	DateFormat  = "2006-01-02"
	MonthFormat = "2006-01"
)

const (
	StorageProviderGCS  = "gcs"
	StorageProviderS3   = "s3"
	StorageProviderSFTP = "sftp"
)

const (
	EventCaseCreated      = "CASE_CREATED"
	EventStatusUpdated    = "STATUS_UPDATED"
	EventDocumentUploaded = "DOCUMENT_UPLOADED"
)

const (
	RepairKindHistory   = "history"
	RepairKindDocuments = "documents"

	RepairQueueKey      = "loancase:repair"
	RepairDeadLetterKey = "loancase:repair:dead"

	SuggestionCacheKeyPrefix = "loancase:suggestion:"
)
