package api

import (
	_ "github.com/treestream-io/treestream/docs"
)

// ErrorResponse represents an API error
// @Description Error payload returned when a request cannot be served
// @swagger:model ErrorResponse
type ErrorResponse struct {
	// Human-readable description of the failure
	// @example repository not found: octocat/unknown
	Error string `json:"error" example:"repository not found: octocat/unknown"`
}

// HealthResponse represents the liveness probe payload
// @Description Service liveness report
// @swagger:model HealthResponse
type HealthResponse struct {
	// Fixed marker, always "ok" while the process serves traffic
	// @example ok
	Status string `json:"status" example:"ok"`
}
