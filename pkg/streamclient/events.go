package streamclient

// FileEntry is one file record decoded from the stream.
type FileEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
	SHA  string `json:"sha,omitempty"`
	Size int64  `json:"size"`
	URL  string `json:"url,omitempty"`
}

// Handlers receives decoded events. Nil callbacks are skipped, so consumers
// only wire what they care about. For status and warning, filesProcessed is
// nil when the event carried no count and none could be mined from the
// message.
type Handlers struct {
	OnFile     func(entry FileEntry)
	OnBranch   func(name string)
	OnStatus   func(message string, filesProcessed *int)
	OnWarning  func(message string, filesProcessed *int)
	OnError    func(message string)
	OnComplete func(totalFiles, totalDirectories int)
}

// envelope is the superset of every wire shape; the type field picks the
// interpretation. Size is a float so that producers writing fractional or
// scientific-notation numbers still pass the "numeric size" test.
type envelope struct {
	Type             string   `json:"type"`
	Path             string   `json:"path"`
	Mode             string   `json:"mode"`
	SHA              string   `json:"sha"`
	Size             *float64 `json:"size"`
	URL              string   `json:"url"`
	Name             string   `json:"name"`
	Message          string   `json:"message"`
	FilesProcessed   *int     `json:"files_processed"`
	TotalFiles       *int     `json:"total_files"`
	TotalDirectories *int     `json:"total_directories"`
}
