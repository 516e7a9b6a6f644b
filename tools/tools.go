//go:build tools
// +build tools

// Package tools pins development tooling that is installed with
// `go install` rather than tracked as module dependencies.
package tools

// mockgen regenerates the checked-in mocks under internal/mocks:
//   go install go.uber.org/mock/mockgen@v0.6.0
//   go generate ./internal/mocks
//
// air reloads cmd/harborlight on save during local development:
//   go install github.com/air-verse/air@latest
