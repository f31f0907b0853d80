// Package jcq verifies national centre numbers for exam delivery. JCQ has no
// public API, so the checker validates the number format locally and consults
// a pluggable directory; the default directory is deterministic simulated
// data keyed off the centre number.
package jcq

import (
	"context"
	"strings"
	"time"
	"unicode"

	"eduvet/internal/verification"
	"eduvet/internal/verification/checks"
	"eduvet/internal/verification/namematch"
)

// Source names the data source on every result this package produces.
const Source = "JCQ Centre Directory"

// CentreRecord is one directory entry.
type CentreRecord struct {
	Found              bool
	CentreName         string
	CentreType         string
	Active             bool
	QualificationTypes []string
	LastUpdated        string
}

// Directory resolves centre numbers. Implementations must be deterministic
// for a given number.
type Directory interface {
	Lookup(ctx context.Context, centreNumber string) (CentreRecord, error)
}

// Verifier is the JCQ centre number checker.
type Verifier struct {
	directory Directory
}

// Option customises a Verifier.
type Option func(*Verifier)

// WithDirectory overrides the centre directory.
func WithDirectory(d Directory) Option {
	return func(v *Verifier) { v.directory = d }
}

// New creates a JCQ centre verifier backed by the simulated directory unless
// overridden.
func New(opts ...Option) *Verifier {
	v := &Verifier{directory: SimulatedDirectory{}}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Verifier) Type() verification.CheckType { return verification.CheckJCQCentre }

// Check validates the centre number format, then confirms the registration
// against the directory.
func (v *Verifier) Check(ctx context.Context, app verification.ProviderApplication) verification.CheckResult {
	if app.CentreNumber == "" {
		return checks.NotApplicableResult(
			v.Type(), Source,
			"No JCQ centre number provided",
			"",
			0.2,
		)
	}

	number, ok := cleanCentreNumber(app.CentreNumber)
	if !ok {
		return verification.CheckResult{
			CheckType:  v.Type(),
			Status:     verification.StatusFailed,
			RiskScore:  0.8,
			DataSource: Source,
			Timestamp:  time.Now(),
			Details: map[string]any{
				"centre_number": app.CentreNumber,
				"error":         "Invalid centre number format",
				"format_valid":  false,
			},
			Recommendations: []string{"Verify JCQ centre number format (should be 5 digits)"},
			Confidence:      1,
		}
	}

	record, err := v.directory.Lookup(ctx, number)
	if err != nil {
		return checks.ErrorResult(v.Type(), Source, err)
	}

	if !record.Found {
		return verification.CheckResult{
			CheckType:  v.Type(),
			Status:     verification.StatusFailed,
			RiskScore:  0.8,
			DataSource: Source,
			Timestamp:  time.Now(),
			Details: map[string]any{
				"centre_number": number,
				"centre_found":  false,
				"error":         "Centre number not found in JCQ directory",
			},
			Recommendations: []string{
				"Verify JCQ centre number is correct",
				"Check if centre registration is current",
				"Contact JCQ to confirm centre status",
			},
			Confidence: 0.9,
		}
	}

	nameMatch := true
	if app.OrganisationName != "" && record.CentreName != "" {
		nameMatch = namematch.Match(app.OrganisationName, record.CentreName)
	}

	score := 0.1
	var recs []string
	if !record.Active {
		score += 0.5
		recs = append(recs, "JCQ centre registration appears inactive")
	}
	if !nameMatch {
		score += 0.3
		recs = append(recs, "Centre name doesn't match organisation name")
	}
	if len(record.QualificationTypes) < 2 {
		score += 0.1
		recs = append(recs, "Limited range of JCQ qualifications approved")
	}
	score = verification.ClampScore(score)

	status := verification.StatusPassed
	if score >= 0.3 {
		status = verification.StatusFlagged
	}

	return verification.CheckResult{
		CheckType:  v.Type(),
		Status:     status,
		RiskScore:  score,
		DataSource: Source,
		Timestamp:  time.Now(),
		Details: map[string]any{
			"centre_number":       number,
			"centre_found":        true,
			"centre_name":         record.CentreName,
			"centre_type":         record.CentreType,
			"qualification_types": record.QualificationTypes,
			"active_status":       record.Active,
			"name_match":          nameMatch,
			"last_updated":        record.LastUpdated,
		},
		Recommendations: recs,
		Confidence:      0.9,
	}
}

// cleanCentreNumber strips whitespace and enforces the 5-digit format.
// Centre numbers never start with a zero.
func cleanCentreNumber(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	number := b.String()

	if len(number) != 5 {
		return number, false
	}
	for _, r := range number {
		if !unicode.IsDigit(r) {
			return number, false
		}
	}
	if number[0] == '0' {
		return number, false
	}
	return number, true
}
