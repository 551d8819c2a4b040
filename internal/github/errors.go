package github

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// GitHubError represents a non-success response from the GitHub API
type GitHubError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *GitHubError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("GitHub API error (status %d): %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("GitHub API error (status %d): %s", e.StatusCode, e.Message)
}

func (e *GitHubError) Unwrap() error {
	return e.Err
}

// RateLimitError represents when we hit GitHub's rate limits
type RateLimitError struct {
	ResetTime time.Time
	Limit     int
	Remaining int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded. Reset at %v. Limit: %d, Remaining: %d",
		e.ResetTime, e.Limit, e.Remaining)
}

// ValidationError represents invalid input to GitHub client methods
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: invalid %s: %s", e.Field, e.Value)
}

// RepositoryNotFoundError represents when a repository cannot be found
type RepositoryNotFoundError struct {
	Owner string
	Name  string
}

func (e *RepositoryNotFoundError) Error() string {
	return fmt.Sprintf("repository not found: %s/%s", e.Owner, e.Name)
}

// BranchNotFoundError represents when a branch cannot be found in a repository
type BranchNotFoundError struct {
	Owner  string
	Name   string
	Branch string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch not found: %s in %s/%s", e.Branch, e.Owner, e.Name)
}

// TreeNotFoundError represents when a tree object cannot be found
type TreeNotFoundError struct {
	Owner string
	Name  string
	Ref   string
}

func (e *TreeNotFoundError) Error() string {
	return fmt.Sprintf("tree not found: %s in %s/%s", e.Ref, e.Owner, e.Name)
}

// NewGitHubError creates a new GitHubError with the given status code and message
func NewGitHubError(statusCode int, message string, err error) error {
	return &GitHubError{
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// NewRateLimitError creates a new RateLimitError
func NewRateLimitError(resetTime time.Time, limit, remaining int) error {
	return &RateLimitError{
		ResetTime: resetTime,
		Limit:     limit,
		Remaining: remaining,
	}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, value string) error {
	return &ValidationError{
		Field: field,
		Value: value,
	}
}

// NewRepositoryNotFoundError creates a new RepositoryNotFoundError
func NewRepositoryNotFoundError(owner, name string) error {
	return &RepositoryNotFoundError{
		Owner: owner,
		Name:  name,
	}
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(owner, name, branch string) error {
	return &BranchNotFoundError{
		Owner:  owner,
		Name:   name,
		Branch: branch,
	}
}

// NewTreeNotFoundError creates a new TreeNotFoundError
func NewTreeNotFoundError(owner, name, ref string) error {
	return &TreeNotFoundError{
		Owner: owner,
		Name:  name,
		Ref:   ref,
	}
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// IsNotFound checks if an error reports a missing repository, branch or tree
func IsNotFound(err error) bool {
	var repoErr *RepositoryNotFoundError
	var branchErr *BranchNotFoundError
	var treeErr *TreeNotFoundError
	return errors.As(err, &repoErr) || errors.As(err, &branchErr) || errors.As(err, &treeErr)
}

// hasStatus reports whether err carries the given upstream HTTP status.
func hasStatus(err error, statusCode int) bool {
	var ghErr *GitHubError
	if errors.As(err, &ghErr) {
		return ghErr.StatusCode == statusCode
	}
	return false
}

// isNotFoundStatus is the 404 shorthand used when mapping client errors.
func isNotFoundStatus(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}
