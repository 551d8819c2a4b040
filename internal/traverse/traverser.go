package traverse

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/treestream-io/treestream/internal/config"
	"github.com/treestream-io/treestream/internal/errors"
	"github.com/treestream-io/treestream/internal/github"
	"github.com/treestream-io/treestream/internal/models"
)

// Traversal outcomes as recorded in metrics.
const (
	outcomeComplete  = "complete"
	outcomeError     = "error"
	outcomeCancelled = "cancelled"
	outcomePanic     = "panic"
)

// TreeSource provides the two remote operations the walk needs. *github.Client
// satisfies it.
type TreeSource interface {
	GetBranch(ctx context.Context, owner, repo, branch string) (*models.BranchInfo, error)
	GetTree(ctx context.Context, owner, repo, ref string) (*models.Tree, error)
}

// Traverser streams the contents of a repository tree level by level.
type Traverser struct {
	source  TreeSource
	logger  *logrus.Logger
	cfg     *config.TraverseConfig
	metrics *Metrics
}

// NewTraverser creates a traverser reading trees from source.
func NewTraverser(source TreeSource, logger *logrus.Logger, cfg *config.TraverseConfig) *Traverser {
	if cfg == nil {
		cfg = config.DefaultTraverseConfig()
	}
	return &Traverser{
		source:  source,
		logger:  logger,
		cfg:     cfg,
		metrics: NewMetrics(),
	}
}

// Stream walks the tree of ref and delivers events on the returned channel.
// The channel is unbuffered: the walk only advances when the caller consumes,
// so a slow consumer throttles the remote calls instead of piling events up in
// memory. The stream ends with exactly one error or complete event and the
// channel is then closed; when ctx is cancelled the walk stops without a
// terminal event.
func (t *Traverser) Stream(ctx context.Context, owner, repo, ref string) <-chan models.StreamEvent {
	events := make(chan models.StreamEvent)
	go t.run(ctx, owner, repo, ref, events)
	return events
}

func (t *Traverser) run(ctx context.Context, owner, repo, ref string, events chan<- models.StreamEvent) {
	defer close(events)

	start := time.Now()
	logger := t.logger.WithFields(logrus.Fields{
		"owner": owner,
		"repo":  repo,
		"ref":   ref,
	})

	w := &walk{
		source:    t.source,
		cfg:       t.cfg,
		metrics:   t.metrics,
		logger:    logger,
		ctx:       ctx,
		events:    events,
		owner:     owner,
		repo:      repo,
		processed: make(shaSet),
		yielded:   make(shaSet),
	}

	// A panicking walk must still end the stream with a single error event
	// rather than tearing down the connection mid-line.
	defer func() {
		if r := recover(); r != nil {
			logger.WithError(errors.NewInternalError("traversal panicked", fmt.Errorf("%v", r))).
				Error("Traversal panicked")
			t.metrics.RecordTraversal(outcomePanic, time.Since(start))
			w.emit(models.NewErrorEvent(fmt.Sprintf("Internal error during traversal: %v", r)))
		}
	}()

	logger.Info("Starting tree traversal")
	outcome := w.run(ref)
	t.metrics.RecordTraversal(outcome, time.Since(start))

	logger.WithFields(logrus.Fields{
		"outcome":           outcome,
		"total_files":       w.totalFiles,
		"total_directories": w.totalDirs,
		"duration":          time.Since(start),
	}).Info("Tree traversal finished")
}

// walk owns all per-traversal state. Nothing here is shared between
// goroutines; the events channel is the only way anything leaves.
type walk struct {
	source  TreeSource
	cfg     *config.TraverseConfig
	metrics *Metrics
	logger  *logrus.Entry
	ctx     context.Context
	events  chan<- models.StreamEvent

	owner string
	repo  string

	processed shaSet // tree SHAs already expanded
	yielded   shaSet // blob SHAs already emitted
	frontier  frontier

	totalFiles int
	totalDirs  int
}

func (w *walk) run(ref string) string {
	branch, err := w.source.GetBranch(w.ctx, w.owner, w.repo, ref)
	if err != nil {
		if w.ctx.Err() != nil {
			return outcomeCancelled
		}
		w.logger.WithError(err).Error("Failed to resolve branch")
		// Branch resolution is the only remote failure that aborts the
		// whole traversal.
		if github.IsNotFound(err) {
			w.emit(models.NewErrorEvent(fmt.Sprintf("Branch '%s' not found in %s/%s", ref, w.owner, w.repo)))
		} else {
			w.emit(models.NewErrorEvent(fmt.Sprintf("Failed to resolve branch '%s': %v", ref, err)))
		}
		return outcomeError
	}

	if !w.emit(models.NewBranchEvent(branch.Name)) {
		return outcomeCancelled
	}
	if !w.emit(models.NewStatusEvent("Fetching repository tree...")) {
		return outcomeCancelled
	}

	root, err := w.source.GetTree(w.ctx, w.owner, w.repo, branch.CommitSHA)
	if err != nil {
		if w.ctx.Err() != nil {
			return outcomeCancelled
		}
		// Without a root listing there is nothing to walk, so this is
		// terminal too, unlike subtree failures below.
		w.logger.WithError(err).Error("Failed to load repository root")
		w.emit(models.NewErrorEvent(fmt.Sprintf("Failed to fetch repository tree: %v", err)))
		return outcomeError
	}
	w.processed.add(root.SHA)

	rootFiles, ok := w.expand("", root, 0)
	if !ok {
		return outcomeCancelled
	}
	if !w.progress(fmt.Sprintf("Root directory: %d files, %d folders", rootFiles, w.totalDirs)) {
		return outcomeCancelled
	}
	if w.frontier.pending() > 0 {
		if !w.emit(models.NewStatusEvent(fmt.Sprintf("%d directories to process", w.frontier.pending()))) {
			return outcomeCancelled
		}
	}

	for w.frontier.pending() > 0 {
		batch := w.frontier.swap()
		expanded := 0

		for _, dir := range batch {
			if w.ctx.Err() != nil {
				return outcomeCancelled
			}
			if w.processed.has(dir.sha) {
				continue
			}
			w.processed.add(dir.sha)
			expanded++

			if !w.emit(models.NewStatusEvent(fmt.Sprintf("Scanning %s/", dir.path))) {
				return outcomeCancelled
			}

			subtree, err := w.source.GetTree(w.ctx, w.owner, w.repo, dir.sha)
			if err != nil {
				if w.ctx.Err() != nil {
					return outcomeCancelled
				}
				// One warning per failed directory; the walk goes on.
				w.logger.WithError(err).WithField("path", dir.path).Warn("Failed to load directory")
				if !w.warn(fmt.Sprintf("Could not load directory %s/: %v", dir.path, err)) {
					return outcomeCancelled
				}
				continue
			}

			files, ok := w.expand(dir.path, subtree, w.cfg.StatusEvery)
			if !ok {
				return outcomeCancelled
			}
			if !w.progress(fmt.Sprintf("%s: %d files found", dir.path, files)) {
				return outcomeCancelled
			}
		}

		if !w.progress(fmt.Sprintf("Processed %d directories, %d queued for next level", expanded, w.frontier.pending())) {
			return outcomeCancelled
		}
	}

	if !w.emit(models.NewCompleteEvent(w.totalFiles, w.totalDirs)) {
		return outcomeCancelled
	}
	return outcomeComplete
}

// expand classifies one level of entries under parentPath. Unseen blobs become
// file events; trees join the next frontier and count as discovered
// directories. announceEvery > 0 inserts a progress status after every that
// many new files from this directory. Returns the number of files yielded here
// and false when the consumer went away mid-expansion.
func (w *walk) expand(parentPath string, tree *models.Tree, announceEvery int) (int, bool) {
	files := 0
	for _, entry := range tree.Entries {
		switch {
		case entry.IsBlob():
			if w.yielded.has(entry.SHA) {
				continue
			}
			w.yielded.add(entry.SHA)

			qualified := entry
			qualified.Path = joinPath(parentPath, entry.Path)
			if !w.emit(models.NewFileEvent(qualified)) {
				return files, false
			}
			w.totalFiles++
			w.metrics.RecordFile()
			files++

			if announceEvery > 0 && files%announceEvery == 0 {
				if !w.progress(fmt.Sprintf("%d files loaded from %s (total: %d)", files, parentPath, w.totalFiles)) {
					return files, false
				}
			}

		case entry.IsTree():
			w.frontier.push(directory{
				path: joinPath(parentPath, entry.Path),
				sha:  entry.SHA,
			})
			w.totalDirs++
		}
	}

	if tree.Truncated {
		target := "the repository root"
		if parentPath != "" {
			target = parentPath + "/"
		}
		if !w.warn(fmt.Sprintf("GitHub truncated the listing for %s; some entries may be missing", target)) {
			return files, false
		}
	}

	return files, true
}

// emit delivers one event. The send blocks until the consumer takes it; false
// means the consumer is gone and the walk should unwind.
func (w *walk) emit(ev models.StreamEvent) bool {
	select {
	case w.events <- ev:
		return true
	case <-w.ctx.Done():
		return false
	}
}

func (w *walk) progress(msg string) bool {
	return w.emit(models.NewProgressEvent(msg, w.totalFiles))
}

func (w *walk) warn(msg string) bool {
	w.metrics.RecordWarning()
	return w.emit(models.NewWarningEvent(msg, w.totalFiles))
}
