// Package sentinel defines errors for infrastructure facts. Stores return
// these (optionally wrapped) so services can translate them into domain
// errors without knowing which backend produced them.
package sentinel

import "errors"

// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrConflict: write conflicts with existing state
// - ErrUnavailable: backing service temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
