// Package mocks provides generated mocks for the portal's port interfaces.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks.
// Hand-written doubles for the simpler ports live in internal/mocks/auth;
// the directory store mock is generated because its expectation-based API
// suits failure-injection tests.
//
// To regenerate after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=directory_store_mock.go github.com/vive-avila/ui-api/internal/ports DirectoryStore
