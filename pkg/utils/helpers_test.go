package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		expected string
	}{
		{name: "zero", size: 0, expected: "0 B"},
		{name: "negative collapses to zero", size: -5, expected: "0 B"},
		{name: "bytes", size: 512, expected: "512 B"},
		{name: "just under a kilobyte", size: 1023, expected: "1023 B"},
		{name: "exact kilobyte", size: 1024, expected: "1.0 KB"},
		{name: "fractional kilobytes", size: 1536, expected: "1.5 KB"},
		{name: "exact megabyte", size: 1024 * 1024, expected: "1.0 MB"},
		{name: "megabytes", size: 5 * 1024 * 1024, expected: "5.0 MB"},
		{name: "exact gigabyte", size: 1024 * 1024 * 1024, expected: "1.0 GB"},
		{name: "gigabytes", size: 3 * 1024 * 1024 * 1024, expected: "3.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatFileSize(tt.size))
		})
	}
}

func TestIsValidRepoURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{name: "full https URL", url: "https://github.com/golang/go", expected: true},
		{name: "URL with branch", url: "https://github.com/golang/go/tree/master", expected: true},
		{name: "scheme-less", url: "github.com/golang/go", expected: true},
		{name: "bare owner and repo", url: "golang/go", expected: true},
		{name: "www host", url: "https://www.github.com/golang/go", expected: true},
		{name: "wrong host", url: "https://gitlab.com/foo/bar", expected: false},
		{name: "scheme-less wrong host", url: "gitlab.com/foo/bar", expected: false},
		{name: "owner only", url: "https://github.com/golang", expected: false},
		{name: "empty string", url: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidRepoURL(tt.url))
		})
	}
}
