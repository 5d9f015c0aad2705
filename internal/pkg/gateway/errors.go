package gateway

import "errors"

var (
	// ErrPartialWrite means the parent row was written but a child write
	// failed and was queued for repair.
	ErrPartialWrite = errors.New("partial write queued for repair")

	ErrConfigurationInitialized = errors.New("configuration already initialized (table not empty)")
	ErrConfigItemNotFound       = errors.New("configuration item not found")
	ErrCaseNotFound             = errors.New("case not found")
)
