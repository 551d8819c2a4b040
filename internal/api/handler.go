package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/treestream-io/treestream/internal/github"
	"github.com/treestream-io/treestream/internal/models"
	"github.com/treestream-io/treestream/internal/stream"
	"github.com/treestream-io/treestream/internal/utils"
)

// TreeAPI is the slice of the GitHub client the handlers depend on.
type TreeAPI interface {
	GetRepoInfo(ctx context.Context, owner, repo string) (*models.RepositoryInfo, error)
	GetBranch(ctx context.Context, owner, repo, branch string) (*models.BranchInfo, error)
	GetTree(ctx context.Context, owner, repo, ref string) (*models.Tree, error)
	RepoExists(ctx context.Context, owner, repo string) (bool, error)
	GetRateLimit(ctx context.Context) (*models.RateLimit, error)
}

// Streamer produces the event stream for a single repository traversal.
type Streamer interface {
	Stream(ctx context.Context, owner, repo, ref string) <-chan models.StreamEvent
}

// Handler holds the HTTP handlers for the tree streaming API.
type Handler struct {
	client   TreeAPI
	streamer Streamer
	logger   *logrus.Logger
}

// NewHandler creates a new API handler.
func NewHandler(client TreeAPI, streamer Streamer, logger *logrus.Logger) *Handler {
	return &Handler{
		client:   client,
		streamer: streamer,
		logger:   logger,
	}
}

// TreeRequest is the body of a tree streaming request.
type TreeRequest struct {
	URL string `json:"url" binding:"required" example:"https://github.com/golang/go/tree/master"`
}

// ExistsResponse reports whether a repository exists.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// StreamTree resolves the requested repository and streams its file tree as
// newline-delimited JSON. Failures before the first event map to HTTP
// statuses; once the stream has started, every failure travels in-band as an
// event so the already-committed 200 response stays coherent.
func (h *Handler) StreamTree(c *gin.Context) {
	var req TreeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "request body must be JSON with a url field")
		return
	}

	owner, repo, ref, err := utils.ParseRepoURL(req.URL)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, fmt.Sprintf("invalid repository URL: %v", err))
		return
	}

	ctx := c.Request.Context()
	logger := h.logger.WithFields(logrus.Fields{
		"owner": owner,
		"repo":  repo,
	})

	// No tree/<ref> segment in the URL means the caller wants the default
	// branch. Resolving it is the one upstream call made before the stream
	// opens, so its failures still get real HTTP statuses.
	if ref == "" {
		info, err := h.client.GetRepoInfo(ctx, owner, repo)
		if err != nil {
			if github.IsNotFound(err) {
				respondWithError(c, http.StatusNotFound, err.Error())
				return
			}
			logger.WithError(err).Error("Failed to resolve default branch")
			respondWithError(c, http.StatusInternalServerError, "failed to resolve default branch")
			return
		}
		ref = info.DefaultBranch
	}

	streamID := uuid.New().String()
	logger = logger.WithFields(logrus.Fields{
		"ref":       ref,
		"stream_id": streamID,
	})
	logger.Info("Starting tree stream")

	c.Header("Content-Type", stream.ContentType)
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Stream-Id", streamID)
	c.Status(http.StatusOK)

	enc := stream.NewEncoder(c.Writer)
	for ev := range h.streamer.Stream(ctx, owner, repo, ref) {
		if err := enc.Encode(ev); err != nil {
			// The client went away. Returning cancels the request context,
			// which unwinds the traversal.
			logger.WithError(err).Debug("Stream write failed")
			return
		}
	}
	logger.Info("Tree stream finished")
}

// GetRepository returns metadata for a single repository.
func (h *Handler) GetRepository(c *gin.Context) {
	info, err := h.client.GetRepoInfo(c.Request.Context(), c.Param("owner"), c.Param("repo"))
	if err != nil {
		h.handleClientError(c, err, "failed to fetch repository")
		return
	}
	c.JSON(http.StatusOK, info)
}

// RepositoryExists reports whether a repository is visible to the service.
func (h *Handler) RepositoryExists(c *gin.Context) {
	exists, err := h.client.RepoExists(c.Request.Context(), c.Param("owner"), c.Param("repo"))
	if err != nil {
		h.handleClientError(c, err, "failed to check repository")
		return
	}
	c.JSON(http.StatusOK, ExistsResponse{Exists: exists})
}

// GetBranch returns a branch and the commit its head points at.
func (h *Handler) GetBranch(c *gin.Context) {
	branch, err := h.client.GetBranch(c.Request.Context(), c.Param("owner"), c.Param("repo"), c.Param("branch"))
	if err != nil {
		h.handleClientError(c, err, "failed to fetch branch")
		return
	}
	c.JSON(http.StatusOK, branch)
}

// GetTree returns one non-recursive level of a repository tree. The
// truncated flag from GitHub passes through untouched.
func (h *Handler) GetTree(c *gin.Context) {
	tree, err := h.client.GetTree(c.Request.Context(), c.Param("owner"), c.Param("repo"), c.Param("sha"))
	if err != nil {
		h.handleClientError(c, err, "failed to fetch tree")
		return
	}
	c.JSON(http.StatusOK, tree)
}

// GetRateLimit returns the service's current GitHub API quota.
func (h *Handler) GetRateLimit(c *gin.Context) {
	limit, err := h.client.GetRateLimit(c.Request.Context())
	if err != nil {
		h.handleClientError(c, err, "failed to fetch rate limit")
		return
	}
	c.JSON(http.StatusOK, limit)
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleClientError maps GitHub client failures onto HTTP statuses. Typed
// validation and not-found errors keep their own messages; anything else is
// logged and hidden behind a generic 500.
func (h *Handler) handleClientError(c *gin.Context, err error, fallback string) {
	switch {
	case github.IsValidationError(err):
		respondWithError(c, http.StatusBadRequest, err.Error())
	case github.IsNotFound(err):
		respondWithError(c, http.StatusNotFound, err.Error())
	case github.IsRateLimitError(err):
		respondWithError(c, http.StatusTooManyRequests, err.Error())
	default:
		h.logger.WithError(err).Error(fallback)
		respondWithError(c, http.StatusInternalServerError, fallback)
	}
}

// respondWithError writes a JSON error payload with the given status.
func respondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Error: message})
}
