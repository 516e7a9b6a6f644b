// Package mocks provides generated gomock doubles for the ports used by
// handler and adapter tests.
//
// To regenerate after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=blobstore_mock.go github.com/harborlight-collective/harborlight/internal/ports BlobStore
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=useradmin_mock.go github.com/harborlight-collective/harborlight/internal/ports UserAdmin
