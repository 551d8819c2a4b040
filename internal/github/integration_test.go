package github

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests talk to the real GitHub API. They skip under -short and when no
// token is present in the environment.
func setupIntegrationClient(t *testing.T) *Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		t.Skip("GITHUB_TOKEN not set")
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	client, err := NewClient(token, logger)
	require.NoError(t, err)
	return client
}

func TestIntegration_RepositoryRoundTrip(t *testing.T) {
	client := setupIntegrationClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	info, err := client.GetRepoInfo(ctx, "golang", "go")
	require.NoError(t, err)
	assert.Equal(t, "golang/go", info.FullName)
	require.NotEmpty(t, info.DefaultBranch)

	branch, err := client.GetBranch(ctx, "golang", "go", info.DefaultBranch)
	require.NoError(t, err)
	require.NotEmpty(t, branch.CommitSHA)

	// The trees endpoint accepts a commit SHA and resolves it to the commit's
	// root tree, which is exactly how a traversal anchors itself.
	tree, err := client.GetTree(ctx, "golang", "go", branch.CommitSHA)
	require.NoError(t, err)
	assert.NotEmpty(t, tree.Entries)

	var sawDirectory bool
	for _, entry := range tree.Entries {
		if entry.IsTree() {
			sawDirectory = true
			break
		}
	}
	assert.True(t, sawDirectory, "the golang/go root should contain directories")
}

func TestIntegration_RepoExists(t *testing.T) {
	client := setupIntegrationClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	exists, err := client.RepoExists(ctx, "golang", "go")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.RepoExists(ctx, "golang", "this-repo-should-never-exist-4c1d")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIntegration_RateLimit(t *testing.T) {
	client := setupIntegrationClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	limit, err := client.GetRateLimit(ctx)
	require.NoError(t, err)
	assert.Greater(t, limit.Limit, 0)
	assert.GreaterOrEqual(t, limit.Remaining, 0)
}
