package operations

// Step IDs in execution order
const (
	StepIDLoad        = "load"
	StepIDClean       = "clean"
	StepIDEnrichWrite = "enrich_write"
	StepIDReport      = "report"
)

// Step display names
const (
	StepNameLoad        = "Load Sales Data"
	StepNameClean       = "Clean Records"
	StepNameEnrichWrite = "Enrich and Write"
	StepNameReport      = "Build Report"
)

// Context keys for values handed from one step to the next
const (
	ContextKeyInput    = "input"
	ContextKeyTable    = "table"
	ContextKeyCleaning = "cleaning"
	ContextKeyWritten  = "written"
	ContextKeyReport   = "report"
)

// OperationStatus represents the overall status of a run
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusRunning   OperationStatus = "running"
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
)

// InputInfo describes the raw file a run loaded
type InputInfo struct {
	Path      string `json:"path"`
	Encoding  string `json:"encoding"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum_blake2b_256"`
}
