// Package ofqual checks awarding-organisation recognition and qualification
// regulation against the Ofqual Register API. The same client serves both the
// phase-2 recognition check and the per-qualification fan-out.
package ofqual

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"eduvet/internal/verification"
	"eduvet/internal/verification/checks"
	"eduvet/internal/verification/checks/rest"
	"eduvet/internal/verification/namematch"
)

const (
	// Source names the data source on every result this package produces.
	Source = "Ofqual Register"

	defaultBaseURL = "https://register-api.ofqual.gov.uk"
)

// Client is the live Ofqual Register checker.
type Client struct {
	rest    *rest.Client
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL; tests point it at httptest.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithRESTClient overrides the transport.
func WithRESTClient(rc *rest.Client) Option {
	return func(c *Client) { c.rest = rc }
}

// WithLogger sets the logger. Nil is tolerated.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a live Ofqual checker. The subscription key goes out as the
// Ocp-Apim-Subscription-Key header on every request.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		rest:    rest.New(Source),
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Type() verification.CheckType { return verification.CheckOfqualRecognition }

// listResponse tolerates both envelope shapes the register API has used.
type listResponse[T any] struct {
	Results []T `json:"results"`
	Items   []T `json:"items"`
}

func (r listResponse[T]) all() []T {
	if len(r.Results) > 0 {
		return r.Results
	}
	return r.Items
}

type organisation struct {
	Name              string `json:"name"`
	RecognitionNumber string `json:"recognitionNumber"`
	Status            string `json:"status"`
}

type qualification struct {
	Title                string `json:"title"`
	Status               string `json:"status"`
	OperationalEndDate   string `json:"operationalEndDate"`
	AwardingOrganisation string `json:"organisationName"`
}

// Check searches the register's organisation list for the applicant.
// Non-recognition is only a flag when the provider claims to offer
// qualifications; otherwise it simply does not apply.
func (c *Client) Check(ctx context.Context, app verification.ProviderApplication) verification.CheckResult {
	var resp listResponse[organisation]
	u := fmt.Sprintf("%s/api/Organisations?search=%s&page=1&limit=25", c.baseURL, url.QueryEscape(app.OrganisationName))
	if err := c.rest.GetJSON(ctx, u, c.headers(), &resp); err != nil {
		if c.logger != nil {
			c.logger.WarnContext(ctx, "ofqual organisation search failed", "organisation", app.OrganisationName, "error", err)
		}
		return checks.ErrorResult(c.Type(), Source, err)
	}

	orgs := resp.all()
	var matched *organisation
	for i := range orgs {
		if namematch.Match(orgs[i].Name, app.OrganisationName) {
			matched = &orgs[i]
			break
		}
	}

	recognised := matched != nil

	var status verification.Status
	var score float64
	var recs []string
	switch {
	case recognised:
		status = verification.StatusPassed
		score = 0.1
	case len(app.Qualifications) > 0:
		status = verification.StatusFlagged
		score = 0.4
		recs = append(recs, "Verify qualifications are delivered through recognised awarding organisations")
	default:
		status = verification.StatusNotApplicable
		score = 0.2
	}

	details := map[string]any{
		"organisation_name":                app.OrganisationName,
		"recognised_awarding_organisation": recognised,
	}
	if matched != nil {
		details["registered_name"] = matched.Name
		details["recognition_number"] = matched.RecognitionNumber
	}

	return verification.CheckResult{
		CheckType:       c.Type(),
		Status:          status,
		RiskScore:       score,
		DataSource:      Source,
		Timestamp:       time.Now(),
		Details:         details,
		Recommendations: recs,
		Confidence:      0.8,
	}
}

// CheckQualification validates one offered qualification against the
// register. A regulated, currently-operational qualification passes; a
// withdrawn or unregulated one is flagged.
func (c *Client) CheckQualification(ctx context.Context, title string) verification.CheckResult {
	checkType := verification.QualificationCheckType(title)

	var resp listResponse[qualification]
	u := fmt.Sprintf("%s/api/Qualifications?search=%s&page=1&limit=25", c.baseURL, url.QueryEscape(title))
	if err := c.rest.GetJSON(ctx, u, c.headers(), &resp); err != nil {
		if c.logger != nil {
			c.logger.WarnContext(ctx, "ofqual qualification search failed", "qualification", title, "error", err)
		}
		return checks.ErrorResult(checkType, Source, err)
	}

	all := resp.all()
	regulated := len(all) > 0
	current := false
	var matchedTitle, awardingOrg string
	if regulated {
		matchedTitle = all[0].Title
		awardingOrg = all[0].AwardingOrganisation
		current = all[0].OperationalEndDate == ""
	}

	var status verification.Status
	var score float64
	var recs []string
	switch {
	case regulated && current:
		status = verification.StatusPassed
		score = 0.1
	case regulated:
		status = verification.StatusFlagged
		score = 0.4
		recs = append(recs, "Qualification may be withdrawn - verify current status")
	default:
		status = verification.StatusFlagged
		score = 0.5
		recs = append(recs, "Unregulated qualification - verify quality assurance")
	}

	return verification.CheckResult{
		CheckType:  checkType,
		Status:     status,
		RiskScore:  score,
		DataSource: Source,
		Timestamp:  time.Now(),
		Details: map[string]any{
			"qualification":         title,
			"regulated":             regulated,
			"currently_operational": current,
			"registered_title":      matchedTitle,
			"awarding_organisation": awardingOrg,
		},
		Recommendations: recs,
		Confidence:      0.85,
	}
}

func (c *Client) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"Ocp-Apim-Subscription-Key": c.apiKey}
}
