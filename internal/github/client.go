package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/treestream-io/treestream/internal/config"
	"github.com/treestream-io/treestream/internal/errors"
	"github.com/treestream-io/treestream/internal/models"
)

// RateLimitInfo holds information about GitHub API rate limits
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetTime time.Time
	// Secondary limit info arrives via Retry-After headers
	SecondaryLimitReset time.Time
}

// Client represents a client for interacting with the GitHub API
type Client struct {
	client  *http.Client
	baseURL string
	token   string
	logger  *logrus.Logger
	limiter *rate.Limiter

	mu            sync.Mutex
	rateLimitInfo RateLimitInfo

	// Backoff configuration
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// ClientOption allows configuring the GitHub client
type ClientOption func(*Client)

// WithRetryConfig configures retry behavior
func WithRetryConfig(maxRetries int, initialBackoff, maxBackoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.initialBackoff = initialBackoff
		c.maxBackoff = maxBackoff
	}
}

// WithBaseURL points the client at a different API root. Tests use this to
// target a local test server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithLimiter replaces the default client-side request limiter
func WithLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a new GitHub client with the given token and options
func NewClient(token string, logger *logrus.Logger, opts ...ClientOption) (*Client, error) {
	if token == "" {
		return nil, errors.NewConfigurationError("GitHub token is required", nil)
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = 120 * time.Second

	defaults := config.DefaultGitHubConfig()
	client := &Client{
		client:         httpClient,
		baseURL:        defaults.APIBaseURL,
		token:          token,
		logger:         logger,
		limiter:        rate.NewLimiter(rate.Limit(defaults.RequestsPerSecond), 1),
		maxRetries:     defaults.RateLimit.MaxRetries,
		initialBackoff: defaults.RateLimit.InitialBackoff,
		maxBackoff:     defaults.RateLimit.MaxBackoff,
	}

	// Apply options
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// updateRateLimitInfo updates the rate limit information from response headers
func (c *Client) updateRateLimitInfo(resp *http.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if limit := resp.Header.Get("X-RateLimit-Limit"); limit != "" {
		c.rateLimitInfo.Limit, _ = strconv.Atoi(limit)
	}
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		c.rateLimitInfo.Remaining, _ = strconv.Atoi(remaining)
	}
	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if resetTime, err := strconv.ParseInt(reset, 10, 64); err == nil {
			c.rateLimitInfo.ResetTime = time.Unix(resetTime, 0)
		}
	}

	// Handle secondary rate limits
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if retrySeconds, err := strconv.ParseInt(retryAfter, 10, 64); err == nil {
			c.rateLimitInfo.SecondaryLimitReset = time.Now().Add(time.Duration(retrySeconds) * time.Second)
		}
	}
}

func (c *Client) snapshotRateLimit() RateLimitInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rateLimitInfo
}

// checkRateLimit waits out any known rate limit window before the next request
func (c *Client) checkRateLimit(ctx context.Context) error {
	info := c.snapshotRateLimit()
	now := time.Now()

	// Check primary rate limit
	if info.Limit > 0 && info.Remaining <= 5 { // Buffer of 5 requests
		waitTime := time.Until(info.ResetTime)
		if waitTime > 0 {
			c.logger.Warnf("Primary rate limit nearly exceeded. Waiting %v before next request", waitTime)
			if err := c.wait(ctx, waitTime); err != nil {
				return err
			}
		}
	}

	// Check secondary rate limit
	if !info.SecondaryLimitReset.IsZero() && now.Before(info.SecondaryLimitReset) {
		waitTime := time.Until(info.SecondaryLimitReset)
		c.logger.Warnf("Secondary rate limit active. Waiting %v before next request", waitTime)
		if err := c.wait(ctx, waitTime); err != nil {
			return err
		}
	}

	return nil
}

// wait sleeps for d but aborts early when the context is cancelled
func (c *Client) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// doRequestWithBackoff performs an HTTP request with exponential backoff
func (c *Client) doRequestWithBackoff(req *http.Request, result interface{}) error {
	ctx := req.Context()
	var lastErr error
	backoff := c.initialBackoff

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := c.checkRateLimit(ctx); err != nil {
			return err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = NewGitHubError(0, "request failed", err)
			c.logger.Warnf("Request attempt %d failed: %v", attempt+1, err)
			if err := c.wait(ctx, backoff); err != nil {
				return err
			}
			backoff = time.Duration(math.Min(float64(backoff*2), float64(c.maxBackoff)))
			continue
		}

		c.updateRateLimitInfo(resp)

		// Handle rate limit responses
		if resp.StatusCode == http.StatusTooManyRequests {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			info := c.snapshotRateLimit()
			resetTime := info.ResetTime
			if !info.SecondaryLimitReset.IsZero() {
				resetTime = info.SecondaryLimitReset
			}
			lastErr = NewRateLimitError(resetTime, info.Limit, info.Remaining)
			waitTime := time.Until(resetTime)
			c.logger.Warnf("Rate limit exceeded. Waiting %v before retry", waitTime)
			if err := c.wait(ctx, waitTime); err != nil {
				return err
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = NewGitHubError(resp.StatusCode, "failed to read response body", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = NewGitHubError(resp.StatusCode, string(body), nil)
			if resp.StatusCode >= 500 {
				// Retry on server errors
				if err := c.wait(ctx, backoff); err != nil {
					return err
				}
				backoff = time.Duration(math.Min(float64(backoff*2), float64(c.maxBackoff)))
				continue
			}
			return lastErr
		}

		if result != nil {
			if err := json.Unmarshal(body, result); err != nil {
				return NewGitHubError(resp.StatusCode, "failed to decode response", err)
			}
		}

		return nil
	}

	return errors.NewUpstreamError("max retries exceeded", lastErr)
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	return c.doRequestWithBackoff(req, result)
}

// GetRepoInfo gets repository metadata from GitHub
func (c *Client) GetRepoInfo(ctx context.Context, owner, repo string) (*models.RepositoryInfo, error) {
	if owner == "" {
		return nil, NewValidationError("owner", "cannot be empty")
	}
	if repo == "" {
		return nil, NewValidationError("repo", "cannot be empty")
	}

	var info models.RepositoryInfo
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), &info); err != nil {
		if isNotFoundStatus(err) {
			return nil, NewRepositoryNotFoundError(owner, repo)
		}
		return nil, err
	}

	return &info, nil
}

// GetBranch resolves a branch to its head commit
func (c *Client) GetBranch(ctx context.Context, owner, repo, branch string) (*models.BranchInfo, error) {
	if owner == "" {
		return nil, NewValidationError("owner", "cannot be empty")
	}
	if repo == "" {
		return nil, NewValidationError("repo", "cannot be empty")
	}
	if branch == "" {
		return nil, NewValidationError("branch", "cannot be empty")
	}

	var resp branchResponse
	path := fmt.Sprintf("/repos/%s/%s/branches/%s", owner, repo, url.PathEscape(branch))
	if err := c.get(ctx, path, &resp); err != nil {
		if isNotFoundStatus(err) {
			return nil, NewBranchNotFoundError(owner, repo, branch)
		}
		return nil, err
	}

	return resp.toBranchInfo(), nil
}

// GetTree fetches a single level of a git tree. It never requests the
// recursive form; callers walk the tree one directory at a time.
func (c *Client) GetTree(ctx context.Context, owner, repo, ref string) (*models.Tree, error) {
	if owner == "" {
		return nil, NewValidationError("owner", "cannot be empty")
	}
	if repo == "" {
		return nil, NewValidationError("repo", "cannot be empty")
	}
	if ref == "" {
		return nil, NewValidationError("ref", "cannot be empty")
	}

	var tree models.Tree
	path := fmt.Sprintf("/repos/%s/%s/git/trees/%s", owner, repo, url.PathEscape(ref))
	if err := c.get(ctx, path, &tree); err != nil {
		if isNotFoundStatus(err) {
			return nil, NewTreeNotFoundError(owner, repo, ref)
		}
		return nil, err
	}

	return &tree, nil
}

// RepoExists reports whether a repository is visible to the client
func (c *Client) RepoExists(ctx context.Context, owner, repo string) (bool, error) {
	if owner == "" {
		return false, NewValidationError("owner", "cannot be empty")
	}
	if repo == "" {
		return false, NewValidationError("repo", "cannot be empty")
	}

	err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), nil)
	if err != nil {
		if isNotFoundStatus(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// GetRateLimit reports the core API quota for the authenticated token
func (c *Client) GetRateLimit(ctx context.Context) (*models.RateLimit, error) {
	var resp rateLimitResponse
	if err := c.get(ctx, "/rate_limit", &resp); err != nil {
		return nil, err
	}
	return &resp.Resources.Core, nil
}
