package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// FormatFileSize renders a byte count the way the file listing displays it.
// Negative sizes collapse to "0 B"; everything below 1 KB stays in whole
// bytes.
func FormatFileSize(size int64) string {
	if size < 0 {
		size = 0
	}
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}

	kb := float64(size) / 1024
	if kb < 1024 {
		return fmt.Sprintf("%.1f KB", kb)
	}

	mb := kb / 1024
	if mb < 1024 {
		return fmt.Sprintf("%.1f MB", mb)
	}

	return fmt.Sprintf("%.1f GB", mb/1024)
}

// IsValidRepoURL reports whether the URL names a GitHub repository.
func IsValidRepoURL(repoURL string) bool {
	u, err := url.Parse(strings.TrimSpace(repoURL))
	if err != nil {
		return false
	}
	if u.Host != "" && !isGitHubHost(u.Host) {
		return false
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if u.Host == "" && len(parts) > 0 && strings.Contains(parts[0], ".") {
		if !isGitHubHost(parts[0]) {
			return false
		}
		parts = parts[1:]
	}

	return len(parts) >= 2 && parts[0] != "" && parts[1] != ""
}

func isGitHubHost(host string) bool {
	host = strings.ToLower(host)
	return host == "github.com" || host == "www.github.com"
}
