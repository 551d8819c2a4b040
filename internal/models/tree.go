package models

// Tree entry kinds as reported by the GitHub git/trees API.
const (
	EntryTypeBlob = "blob"
	EntryTypeTree = "tree"
)

// TreeEntry is a single node in one level of a repository tree listing.
// Size is only present for blobs. Path is repo-relative once the traverser
// has qualified it; straight off the API it is just the entry's own segment.
type TreeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
	Size *int64 `json:"size,omitempty"`
	URL  string `json:"url,omitempty"`
}

// IsBlob reports whether the entry is a file.
func (e TreeEntry) IsBlob() bool {
	return e.Type == EntryTypeBlob
}

// IsTree reports whether the entry is a directory.
func (e TreeEntry) IsTree() bool {
	return e.Type == EntryTypeTree
}

// Tree is one level of a repository tree: the direct children of a single
// tree object, never recursive. Truncated is set when GitHub silently dropped
// entries from the listing.
type Tree struct {
	SHA       string      `json:"sha"`
	URL       string      `json:"url,omitempty"`
	Entries   []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

// RepositoryInfo holds the repository metadata surfaced by the service.
type RepositoryInfo struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	URL           string `json:"html_url"`
	Language      string `json:"language"`
	StarsCount    int    `json:"stargazers_count"`
	ForksCount    int    `json:"forks_count"`
	DefaultBranch string `json:"default_branch"`
}

// BranchInfo identifies a branch and the commit its head points at. CommitSHA
// anchors the root of a tree traversal.
type BranchInfo struct {
	Name      string `json:"name"`
	CommitSHA string `json:"commit_sha"`
	Protected bool   `json:"protected"`
}

// RateLimit mirrors the core resource of the GitHub rate-limit endpoint.
// Reset is epoch seconds.
type RateLimit struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Used      int   `json:"used"`
	Reset     int64 `json:"reset"`
}
