package log_messages

const (
	ServerStartFailure         = "failed to start server"
	ServerExiting              = "Server exiting"
	FailedLoadingConfiguration = "Failed to load configuration"
	ConfigurationLoaded        = "Configuration loaded successfully"
	CleanupStarted             = "Starting cleanup of resources..."
	CleanupCompleted           = "All resources cleaned up successfully"
	TracingExporterUnavailable = "OTLP exporter unavailable, spans are dropped"

	// Redis
	RedisConnecting  = "Connecting to Redis"
	RedisConnected   = "Connected to Redis"
	RedisPingFailed  = "Redis ping failed"
	RedisTLSRejected = "Redis TLS material rejected"

	// Case store
	CaseStoreLoaded          = "Case store loaded"
	CaseStoreLoadFailed      = "Failed to load case store"
	CaseCreated              = "Loan case created"
	CaseCreateFailed         = "Failed to create loan case"
	CaseStatusUpdated        = "Loan case status updated"
	CaseStatusUpdateFailed   = "Failed to update loan case status"
	CaseDocumentUploaded     = "Case document uploaded"
	CaseDocumentUploadFailed = "Failed to upload case document"
	RosterRenameCascaded     = "Roster rename cascaded to cases"
	ConfigItemAdded          = "Configuration item added"
	ConfigItemDeleted        = "Configuration item deleted"
	ConfigurationSeeded      = "Configuration seeded with default options"

	// Gateway
	PartialWriteQueuedForRepair = "Child write failed after parent write, queued for repair"
	RepairEnqueueFailed         = "Failed to enqueue repair job, store left inconsistent until reload"
	HistoryFetchFailed          = "Failed to fetch case history"
	DocumentsFetchFailed        = "Failed to fetch case documents"

	// Repair
	RepairJobEnqueued  = "Repair job enqueued"
	RepairJobApplied   = "Repair job applied"
	RepairJobRequeued  = "Repair job failed, requeued"
	RepairJobDead      = "Repair job exhausted retries, moved to dead letter"
	RepairDrainFailed  = "Repair drain failed"
	RepairWorkerStart  = "Repair worker started"
	RepairWorkerStop   = "Repair worker stopped"
	InvalidRepairEntry = "Invalid repair queue entry dropped"

	// Storage
	ErrorClosingGCSClient        = "Error closing GCS client"
	ErrorUploadingToGCSBucket    = "Error uploading to GCS bucket"
	ErrorClosingGCSWriter        = "Error closing GCS writer"
	UploadedToGCSBucket          = "Uploaded object to GCS bucket"
	UploadedToS3Bucket           = "Uploaded object to S3 bucket"
	ErrorUploadingToS3Bucket     = "Error uploading to S3 bucket"
	UploadedToSFTP               = "Uploaded object over SFTP"
	ErrorUploadingToSFTP         = "Error uploading over SFTP"
	StorageClientClosed          = "Object storage client closed successfully"
	UploadRejectedOverCeiling    = "Upload rejected, per-case size ceiling exceeded"
	UploadRejectedUnknownDocType = "Upload rejected, unknown document type"

	// Events
	PubsubPublisherCreated = "PubSub publisher created"
	KafkaProducerCreated   = "Kafka producer created"
	CaseEventPublishFailed = "Failed to publish case event"

	// Suggestion
	SuggestionRequestFailed  = "Suggestion request failed"
	SuggestionCacheHit       = "Suggestion served from cache"
	SuggestionCacheWriteFail = "Failed to cache suggestion"
	SuggestionInvalidOutput  = "Suggestion output failed validation"
)
