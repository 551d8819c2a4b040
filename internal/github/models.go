package github

import "github.com/treestream-io/treestream/internal/models"

// branchResponse mirrors the branch endpoint payload; only the head commit
// SHA is kept from the nested commit object.
type branchResponse struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
	Protected bool `json:"protected"`
}

func (r branchResponse) toBranchInfo() *models.BranchInfo {
	return &models.BranchInfo{
		Name:      r.Name,
		CommitSHA: r.Commit.SHA,
		Protected: r.Protected,
	}
}

// rateLimitResponse mirrors the rate-limit endpoint payload; the service only
// surfaces the core resource.
type rateLimitResponse struct {
	Resources struct {
		Core models.RateLimit `json:"core"`
	} `json:"resources"`
}
