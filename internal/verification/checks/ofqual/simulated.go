package ofqual

import (
	"context"
	"strings"
	"time"

	"eduvet/internal/verification"
)

// knownAwardingOrgs is the recognition list the simulated checker matches
// against, covering the major UK awarding organisations.
var knownAwardingOrgs = []string{
	"AQA", "Edexcel", "OCR", "WJEC", "SQA", "CCEA",
	"City & Guilds", "Pearson", "NCFE", "CACHE",
	"VTCT", "HABIA", "Skills & Education Group",
	"Open Awards", "TQUK", "Futurequals", "Gateway Qualifications",
}

// regulatedTitleMarkers identify titles the simulated checker treats as
// regulated qualifications.
var regulatedTitleMarkers = []string{
	"gcse", "a level", "as level", "btec", "nvq", "diploma",
	"certificate", "functional skills", "t level", "apprenticeship",
}

// Simulated is the development fallback when no register subscription key is
// configured.
type Simulated struct {
	Latency time.Duration
}

func (s Simulated) Type() verification.CheckType { return verification.CheckOfqualRecognition }

func (s Simulated) Check(_ context.Context, app verification.ProviderApplication) verification.CheckResult {
	time.Sleep(s.Latency)

	nameLower := strings.ToLower(app.OrganisationName)
	recognised := false
	for _, org := range knownAwardingOrgs {
		if strings.Contains(nameLower, strings.ToLower(org)) {
			recognised = true
			break
		}
	}

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

	return verification.CheckResult{
		CheckType:  s.Type(),
		Status:     status,
		RiskScore:  score,
		DataSource: "Simulated Ofqual Register",
		Timestamp:  time.Now(),
		Details: map[string]any{
			"organisation_name":                app.OrganisationName,
			"recognised_awarding_organisation": recognised,
			"simulated":                        true,
		},
		Recommendations: recs,
		Confidence:      0.8,
	}
}

func (s Simulated) CheckQualification(_ context.Context, title string) verification.CheckResult {
	time.Sleep(s.Latency)

	titleLower := strings.ToLower(title)
	regulated := false
	for _, marker := range regulatedTitleMarkers {
		if strings.Contains(titleLower, marker) {
			regulated = true
			break
		}
	}

	status := verification.StatusPassed
	score := 0.1
	var recs []string
	if !regulated {
		status = verification.StatusFlagged
		score = 0.5
		recs = append(recs, "Unregulated qualification - verify quality assurance")
	}

	return verification.CheckResult{
		CheckType:  verification.QualificationCheckType(title),
		Status:     status,
		RiskScore:  score,
		DataSource: "Simulated Ofqual Register",
		Timestamp:  time.Now(),
		Details: map[string]any{
			"qualification":         title,
			"regulated":             regulated,
			"currently_operational": regulated,
			"simulated":             true,
		},
		Recommendations: recs,
		Confidence:      0.85,
	}
}
