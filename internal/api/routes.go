package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter configures all the routes for the API
// @title TreeStream API
// @version 1.0
// @description Streams GitHub repository file trees as newline-delimited JSON
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func SetupRouter(handler *Handler) *gin.Engine {
	r := gin.Default()

	// @Summary Liveness probe
	// @Produce json
	// @Success 200 {object} HealthResponse
	// @Router /healthz [get]
	r.GET("/healthz", handler.Health)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// @Summary Stream a repository tree
		// @Description Walks the repository tree level by level and streams file, status, warning and terminal events as NDJSON
		// @Tags tree
		// @Accept json
		// @Produce json
		// @Param request body TreeRequest true "Repository URL, optionally with a tree/<ref> segment"
		// @Success 200 {object} models.StreamEvent
		// @Failure 400 {object} ErrorResponse
		// @Failure 404 {object} ErrorResponse
		// @Failure 500 {object} ErrorResponse
		// @Router /tree [post]
		v1.POST("/tree", handler.StreamTree)

		// @Summary Get the service's GitHub API quota
		// @Tags meta
		// @Produce json
		// @Success 200 {object} models.RateLimit
		// @Failure 500 {object} ErrorResponse
		// @Router /rate-limit [get]
		v1.GET("/rate-limit", handler.GetRateLimit)

		repos := v1.Group("/repos/:owner/:repo")
		{
			// @Summary Get repository metadata
			// @Tags repositories
			// @Produce json
			// @Param owner path string true "Repository owner"
			// @Param repo path string true "Repository name"
			// @Success 200 {object} models.RepositoryInfo
			// @Failure 404 {object} ErrorResponse
			// @Router /repos/{owner}/{repo} [get]
			repos.GET("", handler.GetRepository)

			// @Summary Check whether a repository exists
			// @Tags repositories
			// @Produce json
			// @Param owner path string true "Repository owner"
			// @Param repo path string true "Repository name"
			// @Success 200 {object} ExistsResponse
			// @Router /repos/{owner}/{repo}/exists [get]
			repos.GET("/exists", handler.RepositoryExists)

			// @Summary Get a branch
			// @Tags repositories
			// @Produce json
			// @Param owner path string true "Repository owner"
			// @Param repo path string true "Repository name"
			// @Param branch path string true "Branch name"
			// @Success 200 {object} models.BranchInfo
			// @Failure 404 {object} ErrorResponse
			// @Router /repos/{owner}/{repo}/branches/{branch} [get]
			repos.GET("/branches/:branch", handler.GetBranch)

			// @Summary Get one level of a repository tree
			// @Description Lists the direct children of a tree object, never recursive; the truncated flag passes through from GitHub
			// @Tags repositories
			// @Produce json
			// @Param owner path string true "Repository owner"
			// @Param repo path string true "Repository name"
			// @Param sha path string true "Tree SHA or ref"
			// @Success 200 {object} models.Tree
			// @Failure 404 {object} ErrorResponse
			// @Router /repos/{owner}/{repo}/tree/{sha} [get]
			repos.GET("/tree/:sha", handler.GetTree)
		}
	}

	return r
}
