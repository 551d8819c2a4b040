package traverse

// directory is a tree object queued for expansion, addressed by its
// repo-relative path and tree SHA.
type directory struct {
	path string
	sha  string
}

// frontier accumulates the next generation of directories while the current
// one is being drained. The walk swaps generations between levels, which is
// what makes the traversal breadth-first.
type frontier struct {
	next []directory
}

func (f *frontier) push(d directory) {
	f.next = append(f.next, d)
}

// swap hands back the accumulated generation and starts an empty one.
func (f *frontier) swap() []directory {
	batch := f.next
	f.next = nil
	return batch
}

func (f *frontier) pending() int {
	return len(f.next)
}

// shaSet tracks object SHAs already handled so shared blobs and subtrees are
// visited once no matter how many paths reach them.
type shaSet map[string]struct{}

func (s shaSet) add(sha string) {
	s[sha] = struct{}{}
}

func (s shaSet) has(sha string) bool {
	_, ok := s[sha]
	return ok
}

// joinPath qualifies a child segment against its parent directory path.
func joinPath(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + "/" + segment
}
