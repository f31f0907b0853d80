// Package esfa verifies funding status against the register of apprenticeship
// training providers (RoATP).
package esfa

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eduvet/internal/verification"
	"eduvet/internal/verification/checks"
	"eduvet/internal/verification/checks/rest"
)

const (
	// Source names the data source on every result this package produces.
	Source = "ESFA"

	defaultBaseURL = "https://roatp.apprenticeships.education.gov.uk"
)

// statusRisk maps a RoATP provider status onto a risk score. Providers not
// on the register score conservatively.
var statusRisk = map[string]float64{
	"main provider":       0.1,
	"supporting provider": 0.2,
	"employer provider":   0.15,
}

const notListedRisk = 0.6

// roatpRecord is the register entry for one provider.
type roatpRecord struct {
	ProviderStatus      string   `json:"provider_status"`
	FundingRestrictions []string `json:"funding_restrictions"`
}

// Client is the live ESFA checker.
type Client struct {
	rest    *rest.Client
	baseURL string
	logger  *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL overrides the register base URL; tests point it at httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithRESTClient overrides the transport.
func WithRESTClient(rc *rest.Client) Option {
	return func(c *Client) { c.rest = rc }
}

// WithLogger sets the logger. Nil is tolerated.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a live ESFA checker.
func New(opts ...Option) *Client {
	c := &Client{
		rest:    rest.New(Source),
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Type() verification.CheckType { return verification.CheckESFAFundingStatus }

// Check looks the provider up on RoATP by UKPRN.
func (c *Client) Check(ctx context.Context, app verification.ProviderApplication) verification.CheckResult {
	if !app.HasUKPRN() {
		return checks.NotApplicableResult(
			c.Type(), Source,
			"No UKPRN provided - RoATP is keyed by UKPRN",
			"Consider RoATP application for apprenticeship delivery",
			0.2,
		)
	}

	var record roatpRecord
	url := fmt.Sprintf("%s/api/providers/%s", c.baseURL, strings.TrimSpace(app.UKPRN))
	if err := c.rest.GetJSON(ctx, url, nil, &record); err != nil {
		if checks.CategoryOf(err) == checks.CategoryNotFound {
			return Assess("", nil, map[string]any{"ukprn": app.UKPRN})
		}
		if c.logger != nil {
			c.logger.WarnContext(ctx, "roatp lookup failed", "ukprn", app.UKPRN, "error", err)
		}
		return checks.ErrorResult(c.Type(), Source, err)
	}

	return Assess(record.ProviderStatus, record.FundingRestrictions, map[string]any{"ukprn": app.UKPRN})
}

// Assess scores a RoATP status plus any funding restrictions. Shared with
// the simulated checker so both paths score identically.
func Assess(providerStatus string, restrictions []string, extra map[string]any) verification.CheckResult {
	score, listed := statusRisk[strings.ToLower(strings.TrimSpace(providerStatus))]
	if !listed {
		score = notListedRisk
	}
	if len(restrictions) > 0 {
		score = verification.ClampScore(score + 0.3)
	}

	status := verification.StatusPassed
	if score >= 0.3 {
		status = verification.StatusFlagged
	}

	var recs []string
	if len(restrictions) > 0 {
		recs = append(recs, "Review funding restriction details and remediation plans")
	}
	if providerStatus == "" {
		recs = append(recs, "Consider RoATP application for apprenticeship delivery")
	}

	details := map[string]any{
		"provider_status":      providerStatus,
		"funding_restrictions": restrictions,
	}
	for k, v := range extra {
		details[k] = v
	}

	return verification.CheckResult{
		CheckType:       verification.CheckESFAFundingStatus,
		Status:          status,
		RiskScore:       score,
		DataSource:      Source,
		Timestamp:       time.Now(),
		Details:         details,
		Recommendations: recs,
		Confidence:      0.9,
	}
}
