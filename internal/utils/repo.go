package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseRepoURL parses a GitHub repository URL into owner, repo and an optional
// ref. The ref is the single path segment following a "tree" marker, so
// https://github.com/owner/repo/tree/main/src yields ("owner", "repo", "main").
// Scheme-less forms ("github.com/owner/repo", "owner/repo") are accepted;
// URLs naming any other host are rejected.
func ParseRepoURL(repoURL string) (owner, repo, ref string, err error) {
	u, err := url.Parse(strings.TrimSpace(repoURL))
	if err != nil {
		return "", "", "", err
	}
	if u.Host != "" && !isGitHubHost(u.Host) {
		return "", "", "", fmt.Errorf("not a GitHub URL: %s", repoURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	// Without a scheme the host ends up as the first path segment.
	if u.Host == "" && len(parts) > 0 && strings.Contains(parts[0], ".") {
		if !isGitHubHost(parts[0]) {
			return "", "", "", fmt.Errorf("not a GitHub URL: %s", repoURL)
		}
		parts = parts[1:]
	}

	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", "", fmt.Errorf("invalid GitHub repository URL: %s", repoURL)
	}

	owner = parts[0]
	repo = strings.TrimSuffix(parts[1], ".git")

	if len(parts) >= 4 && parts[2] == "tree" && parts[3] != "" {
		ref = parts[3]
	}

	return owner, repo, ref, nil
}

func isGitHubHost(host string) bool {
	host = strings.ToLower(host)
	return host == "github.com" || host == "www.github.com"
}
