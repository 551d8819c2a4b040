package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/treestream-io/treestream/internal/models"
)

// ContentType is the MIME type of the event stream.
const ContentType = "application/x-ndjson"

// Encoder writes stream events as newline-delimited JSON, one object per
// line. Each Encode call flushes when the sink supports it, so events reach
// the client as they happen instead of when a buffer fills.
type Encoder struct {
	w io.Writer
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes one event followed by a newline.
func (e *Encoder) Encode(ev models.StreamEvent) error {
	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	line = append(line, '\n')

	if _, err := e.w.Write(line); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	if f, ok := e.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
