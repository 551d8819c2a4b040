package streamclient

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
)

// Some producers only mention progress in prose. These patterns pull a file
// count out of a status message when the structured field is missing. First
// match wins, so the running total outranks per-directory counts.
var countPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)total:\s*(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s+files?\s+loaded`),
	regexp.MustCompile(`(?i)processed\s+(\d+)\s+files?`),
	regexp.MustCompile(`(?i)(\d+)\s+files?\s+found`),
}

// Decoder turns a newline-delimited JSON byte stream into handler calls. Feed
// it arbitrary chunks with Write; chunk boundaries carry no meaning, bytes are
// buffered until a full line is available. Call Flush once the stream ends to
// salvage whatever sits after the final newline. Malformed input is dropped,
// never surfaced: the decoder is deliberately lenient about the wire.
type Decoder struct {
	handlers Handlers
	buf      []byte
}

// NewDecoder creates a decoder dispatching into handlers.
func NewDecoder(handlers Handlers) *Decoder {
	return &Decoder{handlers: handlers}
}

// Write buffers p and dispatches every completed line. It implements
// io.Writer and never fails, so the response body can be copied straight in.
func (d *Decoder) Write(p []byte) (int, error) {
	d.buf = append(d.buf, p...)
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := d.buf[:i]
		d.buf = d.buf[i+1:]
		d.dispatchLine(line)
	}
	return len(p), nil
}

// Flush consumes the residual after the final newline. A well-formed stream
// leaves nothing here; a truncated one may still end in one parseable event,
// and a corrupt tail can hold several concatenated objects worth recovering.
func (d *Decoder) Flush() {
	residual := bytes.TrimSpace(d.buf)
	d.buf = nil
	if len(residual) == 0 {
		return
	}
	if d.dispatch(residual) {
		return
	}
	d.scan(residual)
}

func (d *Decoder) dispatchLine(line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}
	d.dispatch(line)
}

// dispatch parses one JSON value and routes it by its type field. The return
// reports whether the bytes parsed at all, not whether anything was routed:
// a well-formed object nobody recognizes is consumed and dropped.
func (d *Decoder) dispatch(data []byte) bool {
	var ev envelope
	if err := json.Unmarshal(data, &ev); err != nil {
		return false
	}

	switch ev.Type {
	case "file":
		d.file(ev)
	case "branch":
		if d.handlers.OnBranch != nil {
			d.handlers.OnBranch(ev.Name)
		}
	case "status":
		d.progress(ev, d.handlers.OnStatus)
	case "warning":
		d.progress(ev, d.handlers.OnWarning)
	case "error":
		if d.handlers.OnError != nil {
			d.handlers.OnError(ev.Message)
		}
	case "complete":
		if d.handlers.OnComplete != nil {
			totalFiles, totalDirs := 0, 0
			if ev.TotalFiles != nil {
				totalFiles = *ev.TotalFiles
			}
			if ev.TotalDirectories != nil {
				totalDirs = *ev.TotalDirectories
			}
			d.handlers.OnComplete(totalFiles, totalDirs)
		}
	default:
		// Unknown or missing type, but it still looks like a file entry.
		if ev.Path != "" && ev.Size != nil {
			d.file(ev)
		}
	}
	return true
}

func (d *Decoder) file(ev envelope) {
	if d.handlers.OnFile == nil {
		return
	}
	entry := FileEntry{
		Path: ev.Path,
		Mode: ev.Mode,
		SHA:  ev.SHA,
		URL:  ev.URL,
	}
	if ev.Size != nil {
		entry.Size = int64(*ev.Size)
	}
	d.handlers.OnFile(entry)
}

func (d *Decoder) progress(ev envelope, fn func(string, *int)) {
	if fn == nil {
		return
	}
	count := ev.FilesProcessed
	if count == nil {
		count = mineCount(ev.Message)
	}
	fn(ev.Message, count)
}

// mineCount extracts a file count from prose. Only called when the event
// carried no structured count; a mined number never overrides one.
func mineCount(message string) *int {
	for _, re := range countPatterns {
		m := re.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return &n
	}
	return nil
}

// scan recovers objects from a tail that did not parse whole. It tracks brace
// depth outside strings; each span that closes back to depth zero is tried as
// one object. When a candidate fails to parse, exactly one leading character
// is dropped and the scan resumes from the next brace.
func (d *Decoder) scan(data []byte) {
	for len(data) > 0 {
		start := bytes.IndexByte(data, '{')
		if start < 0 {
			return
		}
		data = data[start:]

		end, closed := objectEnd(data)
		if closed && d.dispatch(data[:end]) {
			data = data[end:]
			continue
		}
		data = data[1:]
	}
}

// objectEnd returns the index one past the position where brace depth first
// returns to zero. Braces inside strings do not count; backslash escapes keep
// a quoted quote from ending the string. closed is false when the object never
// closes.
func objectEnd(data []byte) (end int, closed bool) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(data); i++ {
		b := data[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
