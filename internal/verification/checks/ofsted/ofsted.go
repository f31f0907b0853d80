// Package ofsted assesses the latest inspection outcome for a provider.
// Ofsted publishes reports as web pages, so the live checker scrapes the
// provider report page by UKPRN.
package ofsted

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eduvet/internal/verification"
	"eduvet/internal/verification/checks"
	"eduvet/internal/verification/checks/rest"
	"eduvet/internal/verification/checks/scrape"
)

const (
	// Source names the data source on every result this package produces.
	Source = "Ofsted"

	defaultBaseURL = "https://reports.ofsted.gov.uk"
)

// ratingRisk maps an overall effectiveness grade onto a risk score. An
// unrecognised or missing grade scores conservatively.
var ratingRisk = map[string]float64{
	"outstanding":          0.05,
	"good":                 0.15,
	"requires improvement": 0.5,
	"inadequate":           0.9,
}

const unknownRatingRisk = 0.7

// Client is the live Ofsted checker.
type Client struct {
	rest    *rest.Client
	baseURL string
	logger  *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL overrides the reports base URL; tests point it at httptest.
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

// New creates a live Ofsted checker.
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

func (c *Client) Type() verification.CheckType { return verification.CheckOfstedRating }

// Check fetches the provider's latest inspection report. Reports are keyed
// by UKPRN; without one there is nothing to look up.
func (c *Client) Check(ctx context.Context, app verification.ProviderApplication) verification.CheckResult {
	if !app.HasUKPRN() {
		return checks.NotApplicableResult(
			c.Type(), Source,
			"No UKPRN provided - unable to locate inspection reports",
			"",
			0.2,
		)
	}

	url := fmt.Sprintf("%s/provider/%s", c.baseURL, strings.TrimSpace(app.UKPRN))
	doc, err := c.rest.GetHTML(ctx, url, nil)
	if err != nil {
		if checks.CategoryOf(err) == checks.CategoryNotFound {
			return checks.NotApplicableResult(
				c.Type(), Source,
				"No inspection history found for provider",
				"New providers may not have been inspected yet",
				0.3,
			)
		}
		if c.logger != nil {
			c.logger.WarnContext(ctx, "ofsted report lookup failed", "ukprn", app.UKPRN, "error", err)
		}
		return checks.ErrorResult(c.Type(), Source, err)
	}

	rating := scrape.FindDefinition(doc, "Overall effectiveness")
	safeguarding := scrape.FindDefinition(doc, "Safeguarding")
	inspectionDate := scrape.FindDefinition(doc, "Inspection date")
	return Assess(rating, safeguarding, map[string]any{
		"ukprn":                  app.UKPRN,
		"latest_inspection_date": inspectionDate,
	})
}

// Assess turns inspection grades into a result. Shared with the simulated
// checker so both paths score identically.
func Assess(rating, safeguarding string, extra map[string]any) verification.CheckResult {
	score, known := ratingRisk[strings.ToLower(strings.TrimSpace(rating))]
	if !known {
		score = unknownRatingRisk
	}

	safeguardingConcern := gradeConcerning(safeguarding)
	if safeguardingConcern {
		score = verification.ClampScore(score + 0.3)
	}

	var status verification.Status
	switch {
	case score < 0.3:
		status = verification.StatusPassed
	case score < 0.7:
		status = verification.StatusFlagged
	default:
		status = verification.StatusFailed
	}

	var recs []string
	if gradeConcerning(rating) {
		recs = append(recs, "Monitor improvement plan progress")
	}
	if safeguardingConcern {
		recs = append(recs, "Enhanced safeguarding due diligence required")
	}

	details := map[string]any{
		"latest_overall_effectiveness": rating,
		"safeguarding_effectiveness":   safeguarding,
	}
	for k, v := range extra {
		details[k] = v
	}

	return verification.CheckResult{
		CheckType:       verification.CheckOfstedRating,
		Status:          status,
		RiskScore:       score,
		DataSource:      Source,
		Timestamp:       time.Now(),
		Details:         details,
		Recommendations: recs,
		Confidence:      0.85,
	}
}

func gradeConcerning(grade string) bool {
	g := strings.ToLower(strings.TrimSpace(grade))
	return g == "requires improvement" || g == "inadequate"
}
