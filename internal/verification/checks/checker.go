// Package checks defines the uniform contract every external verification
// source is wrapped behind, plus the normalized failure taxonomy shared by
// the adapters.
package checks

import (
	"context"

	"eduvet/internal/verification"
)

// Checker is the universal interface all check adapters implement. A checker
// owns exactly one external data source and never lets an internal failure
// escape: network errors, timeouts and malformed payloads are converted into
// a CheckResult with status error.
type Checker interface {
	// Type returns the fixed check type this adapter produces.
	Type() verification.CheckType

	// Check performs the verification for one application.
	Check(ctx context.Context, app verification.ProviderApplication) verification.CheckResult
}

// QualificationChecker validates a single offered qualification. The
// orchestrator fans out one call per title, each yielding a result with a
// derived check type.
type QualificationChecker interface {
	CheckQualification(ctx context.Context, title string) verification.CheckResult
}

// Set binds the adapters dispatched in one run. The binding is made once at
// construction time, so a run is internally consistent about which data
// sources it used.
type Set struct {
	// Identity holds the phase-1 checks: registration, provider register,
	// centre number, sanctions.
	Identity []Checker

	// Regulatory holds the phase-2 checks: qualification-body recognition,
	// inspection rating, funding status.
	Regulatory []Checker

	// Qualifications handles the per-qualification fan-out, when the
	// application offers any.
	Qualifications QualificationChecker
}
