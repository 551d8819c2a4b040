package streamclient

// State is the rolled-up view of one stream: everything a consumer needs to
// render a file listing with a live progress line. Created fresh per request;
// not safe for concurrent mutation, feed it from a single goroutine.
type State struct {
	Files            []FileEntry
	Branch           string
	Message          string
	FilesProcessed   int
	TotalFiles       int
	TotalDirectories int
	Loading          bool
	Err              string

	terminal bool
}

// Terminal reports whether a complete or error event has arrived.
func (s *State) Terminal() bool {
	return s.terminal
}

// NewAggregator returns a fresh state and the handlers that fold events into
// it. Files append in arrival order, the upstream already deduplicates.
func NewAggregator() (*State, Handlers) {
	s := &State{Loading: true}
	return s, Handlers{
		OnFile: func(entry FileEntry) {
			s.Files = append(s.Files, entry)
		},
		OnBranch: func(name string) {
			s.Branch = name
		},
		OnStatus:  s.noteProgress,
		OnWarning: s.noteProgress,
		OnError: func(message string) {
			s.Err = message
			s.Loading = false
			s.terminal = true
		},
		OnComplete: func(totalFiles, totalDirectories int) {
			s.TotalFiles = totalFiles
			s.TotalDirectories = totalDirectories
			s.Loading = false
			s.terminal = true
		},
	}
}

// noteProgress replaces the status line and ratchets the displayed count.
// Counts arrive from mixed sources (structured fields, mined prose), so a
// late smaller number must never roll the display backwards.
func (s *State) noteProgress(message string, filesProcessed *int) {
	s.Message = message
	if filesProcessed != nil && *filesProcessed > s.FilesProcessed {
		s.FilesProcessed = *filesProcessed
	}
}
