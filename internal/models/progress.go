package models

type ProgressEventType string

const (
	ProgressFetching      ProgressEventType = "fetching"
	ProgressSensitiveInfo ProgressEventType = "sensitive_info_redacted"
	ProgressGenerating    ProgressEventType = "generating_concept"
	ProgressStored        ProgressEventType = "video_stored"
)

// ProgressEvent reports a pipeline step to interactive callers such as the CLI spinner.
type ProgressEvent struct {
	Type    ProgressEventType
	Message string
	Data    map[string]interface{}
}
