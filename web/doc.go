// Package web integrates the database layer with Gin: a middleware that
// scopes one session to each request, lazy session provisioning for
// handlers, and commit-or-rollback finalization driven by the response
// status.
package web
