package streamclient

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder flattens every callback into a tagged string so sequences compare
// directly.
type recorder struct {
	events []string
}

func (r *recorder) handlers() Handlers {
	return Handlers{
		OnFile: func(entry FileEntry) {
			r.events = append(r.events, fmt.Sprintf("file:%s:%d", entry.Path, entry.Size))
		},
		OnBranch: func(name string) {
			r.events = append(r.events, "branch:"+name)
		},
		OnStatus: func(message string, filesProcessed *int) {
			r.events = append(r.events, "status:"+message+":"+countLabel(filesProcessed))
		},
		OnWarning: func(message string, filesProcessed *int) {
			r.events = append(r.events, "warning:"+message+":"+countLabel(filesProcessed))
		},
		OnError: func(message string) {
			r.events = append(r.events, "error:"+message)
		},
		OnComplete: func(totalFiles, totalDirectories int) {
			r.events = append(r.events, fmt.Sprintf("complete:%d:%d", totalFiles, totalDirectories))
		},
	}
}

func countLabel(count *int) string {
	if count == nil {
		return "-"
	}
	return strconv.Itoa(*count)
}

func decodeAll(input string) []string {
	rec := &recorder{}
	dec := NewDecoder(rec.handlers())
	dec.Write([]byte(input))
	dec.Flush()
	return rec.events
}

func TestDecoder_DispatchesAllEventTypes(t *testing.T) {
	input := `{"type":"branch","name":"main"}
{"type":"status","message":"Fetching repository tree..."}
{"type":"file","path":"file1.txt","mode":"100644","sha":"a1","size":10}
{"type":"warning","message":"Could not load directory broken/: boom","files_processed":1}
{"type":"error","message":"nope"}
{"type":"complete","total_files":2,"total_directories":1}
`

	assert.Equal(t, []string{
		"branch:main",
		"status:Fetching repository tree...:-",
		"file:file1.txt:10",
		"warning:Could not load directory broken/: boom:1",
		"error:nope",
		"complete:2:1",
	}, decodeAll(input))
}

func TestDecoder_ChunkBoundaryIndependence(t *testing.T) {
	// Multi-byte paths make byte-level splits land inside runes.
	input := `{"type":"branch","name":"főágazat"}
{"type":"file","path":"földer/ファイル.txt","sha":"a1","size":10}
{"type":"status","message":"Root directory: 1 files, 1 folders","files_processed":1}
{"type":"file","path":"folder1/file2.txt","sha":"b2","size":20}
{"type":"complete","total_files":2,"total_directories":1}
`
	want := decodeAll(input)
	require.NotEmpty(t, want)

	data := []byte(input)
	for _, chunkSize := range []int{1, 2, 3, 5, 7, 16, 64, len(data)} {
		t.Run(fmt.Sprintf("chunk size %d", chunkSize), func(t *testing.T) {
			rec := &recorder{}
			dec := NewDecoder(rec.handlers())
			for start := 0; start < len(data); start += chunkSize {
				end := start + chunkSize
				if end > len(data) {
					end = len(data)
				}
				dec.Write(data[start:end])
			}
			dec.Flush()
			assert.Equal(t, want, rec.events)
		})
	}
}

func TestDecoder_LenientDispatch(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  []string
	}{
		{
			name: "bare object with path and size is a file",
			line: `{"path":"bare.bin","size":7}`,
			want: []string{"file:bare.bin:7"},
		},
		{
			name: "unknown type with path and size is a file",
			line: `{"type":"mystery","path":"odd.bin","size":3}`,
			want: []string{"file:odd.bin:3"},
		},
		{
			name: "fractional size is truncated",
			line: `{"path":"frac.bin","size":12.5}`,
			want: []string{"file:frac.bin:12"},
		},
		{
			name: "unknown type without file shape is dropped",
			line: `{"type":"mystery","foo":1}`,
			want: nil,
		},
		{
			name: "path without size is dropped",
			line: `{"path":"nosize.bin"}`,
			want: nil,
		},
		{
			name: "string size is dropped",
			line: `{"path":"strsize.bin","size":"12"}`,
			want: nil,
		},
		{
			name: "garbage is dropped",
			line: `this is not json`,
			want: nil,
		},
		{
			name: "non-object json is dropped",
			line: `[1,2,3]`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeAll(tt.line+"\n"))
		})
	}
}

func TestDecoder_SkipsBlankAndPaddedLines(t *testing.T) {
	input := "\n\n{\"type\":\"branch\",\"name\":\"main\"}\r\n   \n{\"type\":\"complete\",\"total_files\":0,\"total_directories\":0}\n"
	assert.Equal(t, []string{"branch:main", "complete:0:0"}, decodeAll(input))
}

func TestDecoder_FlushParsesResidual(t *testing.T) {
	rec := &recorder{}
	dec := NewDecoder(rec.handlers())

	// No trailing newline on the final event.
	dec.Write([]byte(`{"type":"branch","name":"main"}` + "\n"))
	dec.Write([]byte(`{"type":"complete","total_files":1,"total_directories":0}`))
	assert.Equal(t, []string{"branch:main"}, rec.events)

	dec.Flush()
	assert.Equal(t, []string{"branch:main", "complete:1:0"}, rec.events)

	// Flush is idempotent once drained.
	dec.Flush()
	assert.Equal(t, []string{"branch:main", "complete:1:0"}, rec.events)
}

func TestDecoder_FlushRecoversConcatenatedObjects(t *testing.T) {
	tests := []struct {
		name string
		tail string
		want []string
	}{
		{
			name: "two objects",
			tail: `{"type":"status","message":"a"}{"type":"status","message":"b"}`,
			want: []string{"status:a:-", "status:b:-"},
		},
		{
			name: "invalid object between valid ones",
			tail: `{"type":"status","message":"a"}{invalid}{"type":"complete","total_files":1,"total_directories":2}`,
			want: []string{"status:a:-", "complete:1:2"},
		},
		{
			name: "three objects",
			tail: `{"type":"branch","name":"main"}{"type":"status","message":"x"}{"type":"complete","total_files":0,"total_directories":0}`,
			want: []string{"branch:main", "status:x:-", "complete:0:0"},
		},
		{
			name: "braces and escaped quotes inside strings",
			tail: `{"type":"status","message":"a } b \" { c"}{"type":"status","message":"d"}`,
			want: []string{`status:a } b " { c:-`, "status:d:-"},
		},
		{
			name: "unterminated tail yields nothing",
			tail: `{"type":"status","message":"a`,
			want: nil,
		},
		{
			name: "valid object before unterminated tail",
			tail: `{"type":"status","message":"a"}{"type":"status","mess`,
			want: []string{"status:a:-"},
		},
		{
			name: "garbage before the first object",
			tail: `garbage{"type":"status","message":"a"}`,
			want: []string{"status:a:-"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			dec := NewDecoder(rec.handlers())
			dec.Write([]byte(tt.tail))
			dec.Flush()
			assert.Equal(t, tt.want, rec.events)
		})
	}
}

func TestDecoder_CountMining(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "files loaded",
			line: `{"type":"status","message":"12 files loaded from src"}`,
			want: "status:12 files loaded from src:12",
		},
		{
			name: "processed files",
			line: `{"type":"status","message":"Processed 3 files"}`,
			want: "status:Processed 3 files:3",
		},
		{
			name: "files found",
			line: `{"type":"status","message":"folder1: 7 files found"}`,
			want: "status:folder1: 7 files found:7",
		},
		{
			name: "single file",
			line: `{"type":"status","message":"1 file loaded"}`,
			want: "status:1 file loaded:1",
		},
		{
			name: "total outranks directory count",
			line: `{"type":"status","message":"5 files loaded from folder1 (total: 42)"}`,
			want: "status:5 files loaded from folder1 (total: 42):42",
		},
		{
			name: "structured count is never overridden",
			line: `{"type":"status","message":"total: 99","files_processed":5}`,
			want: "status:total: 99:5",
		},
		{
			name: "no count anywhere",
			line: `{"type":"status","message":"Scanning folder1/"}`,
			want: "status:Scanning folder1/:-",
		},
		{
			name: "mining applies to warnings too",
			line: `{"type":"warning","message":"only 4 files loaded before failure"}`,
			want: "warning:only 4 files loaded before failure:4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeAll(tt.line + "\n")
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}
