package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		expectedOwner string
		expectedRepo  string
		expectedRef   string
		expectError   bool
	}{
		{
			name:          "full https URL",
			url:           "https://github.com/golang/go",
			expectedOwner: "golang",
			expectedRepo:  "go",
		},
		{
			name:          "URL with branch",
			url:           "https://github.com/golang/go/tree/master",
			expectedOwner: "golang",
			expectedRepo:  "go",
			expectedRef:   "master",
		},
		{
			name:          "branch followed by a subdirectory path",
			url:           "https://github.com/golang/go/tree/master/src/runtime",
			expectedOwner: "golang",
			expectedRepo:  "go",
			expectedRef:   "master",
		},
		{
			name:          "dotted release branch",
			url:           "https://github.com/golang/go/tree/release-branch.go1.22",
			expectedOwner: "golang",
			expectedRepo:  "go",
			expectedRef:   "release-branch.go1.22",
		},
		{
			name:          "scheme-less",
			url:           "github.com/golang/go",
			expectedOwner: "golang",
			expectedRepo:  "go",
		},
		{
			name:          "bare owner and repo",
			url:           "golang/go",
			expectedOwner: "golang",
			expectedRepo:  "go",
		},
		{
			name:          "www host",
			url:           "https://www.github.com/golang/go",
			expectedOwner: "golang",
			expectedRepo:  "go",
		},
		{
			name:          "host casing is ignored",
			url:           "https://GitHub.com/golang/go",
			expectedOwner: "golang",
			expectedRepo:  "go",
		},
		{
			name:          "git clone suffix",
			url:           "https://github.com/golang/go.git",
			expectedOwner: "golang",
			expectedRepo:  "go",
		},
		{
			name:          "trailing slash",
			url:           "https://github.com/golang/go/",
			expectedOwner: "golang",
			expectedRepo:  "go",
		},
		{
			name:          "surrounding whitespace",
			url:           "  https://github.com/golang/go  ",
			expectedOwner: "golang",
			expectedRepo:  "go",
		},
		{
			name:          "tree marker without a ref",
			url:           "https://github.com/golang/go/tree",
			expectedOwner: "golang",
			expectedRepo:  "go",
		},
		{
			name:        "wrong host",
			url:         "https://gitlab.com/foo/bar",
			expectError: true,
		},
		{
			name:        "scheme-less wrong host",
			url:         "gitlab.com/foo/bar",
			expectError: true,
		},
		{
			name:        "missing repo",
			url:         "https://github.com/golang",
			expectError: true,
		},
		{
			name:        "empty string",
			url:         "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, ref, err := ParseRepoURL(tt.url)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedOwner, owner)
			assert.Equal(t, tt.expectedRepo, repo)
			assert.Equal(t, tt.expectedRef, ref)
		})
	}
}
