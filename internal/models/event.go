package models

// Stream event discriminants. One JSON object per line goes on the wire with
// Type as the discriminant field.
const (
	EventFile     = "file"
	EventBranch   = "branch"
	EventStatus   = "status"
	EventWarning  = "warning"
	EventError    = "error"
	EventComplete = "complete"
)

// StreamEvent is the wire union for everything the materializer emits. Exactly
// one of the field groups is populated depending on Type; a file event carries
// the TreeEntry fields flattened, with the entry's own type field displaced by
// the discriminant.
type StreamEvent struct {
	Type string `json:"type"`

	// file
	Path string `json:"path,omitempty"`
	Mode string `json:"mode,omitempty"`
	SHA  string `json:"sha,omitempty"`
	Size *int64 `json:"size,omitempty"`
	URL  string `json:"url,omitempty"`

	// branch
	Name string `json:"name,omitempty"`

	// status / warning / error
	Message        string `json:"message,omitempty"`
	FilesProcessed *int   `json:"files_processed,omitempty"`

	// complete
	TotalFiles       *int `json:"total_files,omitempty"`
	TotalDirectories *int `json:"total_directories,omitempty"`
}

// IsTerminal reports whether the event ends a well-formed stream.
func (e StreamEvent) IsTerminal() bool {
	return e.Type == EventError || e.Type == EventComplete
}

// NewFileEvent creates a file event from a blob entry. The entry's Path must
// already be fully qualified.
func NewFileEvent(entry TreeEntry) StreamEvent {
	return StreamEvent{
		Type: EventFile,
		Path: entry.Path,
		Mode: entry.Mode,
		SHA:  entry.SHA,
		Size: entry.Size,
		URL:  entry.URL,
	}
}

// NewBranchEvent creates a branch event carrying the resolved branch name.
func NewBranchEvent(name string) StreamEvent {
	return StreamEvent{Type: EventBranch, Name: name}
}

// NewStatusEvent creates a status event with no file count.
func NewStatusEvent(message string) StreamEvent {
	return StreamEvent{Type: EventStatus, Message: message}
}

// NewProgressEvent creates a status event carrying the running file count.
func NewProgressEvent(message string, filesProcessed int) StreamEvent {
	return StreamEvent{Type: EventStatus, Message: message, FilesProcessed: &filesProcessed}
}

// NewWarningEvent creates a warning event for a recovered partial failure.
func NewWarningEvent(message string, filesProcessed int) StreamEvent {
	return StreamEvent{Type: EventWarning, Message: message, FilesProcessed: &filesProcessed}
}

// NewErrorEvent creates the fatal terminal event.
func NewErrorEvent(message string) StreamEvent {
	return StreamEvent{Type: EventError, Message: message}
}

// NewCompleteEvent creates the successful terminal event with final totals.
func NewCompleteEvent(totalFiles, totalDirectories int) StreamEvent {
	return StreamEvent{
		Type:             EventComplete,
		TotalFiles:       &totalFiles,
		TotalDirectories: &totalDirectories,
	}
}
