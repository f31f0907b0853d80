// Package risk turns a set of check results into the aggregate decision for
// a provider application.
package risk

import (
	"time"

	"eduvet/internal/verification"
	platformstrings "eduvet/pkg/platform/strings"
)

// Source names the data source on the aggregate result.
const Source = "Risk Assessment Engine"

// Level buckets the final score for reviewers.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// defaultWeights is how much each check type contributes to the weighted
// score. Sanctions screening carries the most weight. When a centre-number
// result is present, it absorbs part of the register check's weight.
var defaultWeights = map[verification.CheckType]float64{
	verification.CheckSanctionsScreening:  0.30,
	verification.CheckCompanyRegistration: 0.25,
	verification.CheckUKPRNValidation:     0.20,
	verification.CheckOfqualRecognition:   0.15,
	verification.CheckJCQCentre:           0.20,
	verification.CheckOfstedRating:        0.10,
	verification.CheckESFAFundingStatus:   0.10,
}

const (
	defaultWeight              = 0.05
	ukprnWeightWithCentreCheck = 0.15
	maxRecommendations         = 5
)

// Aggregator computes the aggregate risk assessment.
type Aggregator struct {
	weights map[verification.CheckType]float64
}

// Option customises an Aggregator.
type Option func(*Aggregator)

// WithWeights overrides individual check-type weights. Types not named keep
// their defaults.
func WithWeights(overrides map[verification.CheckType]float64) Option {
	return func(a *Aggregator) {
		for checkType, w := range overrides {
			a.weights[checkType] = w
		}
	}
}

// New creates an aggregator with the standard weight table.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{weights: make(map[verification.CheckType]float64, len(defaultWeights))}
	for checkType, w := range defaultWeights {
		a.weights[checkType] = w
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assess produces the aggregate result. The weighted average is normalized
// by the weights actually present, so a run with fewer checks is not
// penalised for the absent ones. Any failed check forces the decision to at
// least enhanced due diligence regardless of the numeric score.
func (a *Aggregator) Assess(results []verification.CheckResult, app verification.ProviderApplication) verification.CheckResult {
	if len(results) == 0 {
		decision := decisionFor(0.5)
		return verification.CheckResult{
			CheckType:  verification.CheckRiskAssessment,
			Status:     decision.Collapse(),
			Decision:   decision,
			RiskScore:  0.5,
			DataSource: Source,
			Timestamp:  time.Now(),
			Details: map[string]any{
				"final_risk_score": 0.5,
				"risk_level":       string(levelFor(0.5)),
				"total_checks":     0,
				"message":          "No verification results to assess",
			},
			Recommendations: []string{"Complete verification checks required"},
			Confidence:      0.5,
		}
	}

	hasCentreCheck := false
	for _, r := range results {
		if r.CheckType == verification.CheckJCQCentre {
			hasCentreCheck = true
			break
		}
	}

	var totalWeight, weightedRisk float64
	var criticalIssues, riskFactors, passed, inputRecs []string
	for _, r := range results {
		w := a.weightFor(r.CheckType, hasCentreCheck)
		totalWeight += w
		weightedRisk += verification.ClampScore(r.RiskScore) * w
		inputRecs = append(inputRecs, r.Recommendations...)

		switch r.Status {
		case verification.StatusFailed:
			criticalIssues = append(criticalIssues, string(r.CheckType))
		case verification.StatusFlagged:
			riskFactors = append(riskFactors, string(r.CheckType))
		case verification.StatusPassed:
			passed = append(passed, string(r.CheckType))
		}
	}

	score := 0.5
	if totalWeight > 0 {
		score = weightedRisk / totalWeight
	}
	score = verification.ClampScore(score * providerTypeMultiplier(app.ProviderType))

	decision := decisionFor(score)
	if len(criticalIssues) > 0 && decision != verification.DecisionRejected {
		if decision == verification.DecisionApproved || decision == verification.DecisionMonitoring {
			decision = verification.DecisionEnhancedDD
		}
	}

	var recs []string
	if len(criticalIssues) > 0 {
		recs = append(recs, "Address critical compliance issues before proceeding")
	}
	if len(riskFactors) > 0 {
		recs = append(recs, "Implement enhanced monitoring procedures")
	}
	if score > 0.5 {
		recs = append(recs, "Consider site visit and detailed review")
	}
	if score > 0.8 {
		recs = append(recs, "Consider rejecting or requiring additional documentation")
	}
	recs = append(recs, inputRecs...)
	recs = platformstrings.Cap(platformstrings.DedupeAndTrim(recs), maxRecommendations)

	return verification.CheckResult{
		CheckType:  verification.CheckRiskAssessment,
		Status:     decision.Collapse(),
		Decision:   decision,
		RiskScore:  score,
		DataSource: Source,
		Timestamp:  time.Now(),
		Details: map[string]any{
			"final_risk_score":         score,
			"risk_level":               string(levelFor(score)),
			"total_checks":             len(results),
			"passed_checks":            len(passed),
			"flagged_checks":           len(riskFactors),
			"failed_checks":            len(criticalIssues),
			"risk_factors":             riskFactors,
			"critical_issues":          criticalIssues,
			"provider_type_adjustment": string(app.ProviderType),
		},
		Recommendations: recs,
		Confidence:      0.9,
	}
}

func (a *Aggregator) weightFor(checkType verification.CheckType, hasCentreCheck bool) float64 {
	if checkType == verification.CheckUKPRNValidation && hasCentreCheck {
		return ukprnWeightWithCentreCheck
	}
	if w, ok := a.weights[checkType]; ok {
		return w
	}
	return defaultWeight
}

// providerTypeMultiplier nudges the score for the provider category.
// Established institutions get a reduction, private training a bump.
func providerTypeMultiplier(t verification.ProviderType) float64 {
	switch t {
	case verification.ProviderFECollege, verification.ProviderHEInstitution:
		return 0.9
	case verification.ProviderPrivateTraining:
		return 1.1
	}
	return 1
}

func decisionFor(score float64) verification.DecisionStatus {
	switch {
	case score < 0.25:
		return verification.DecisionApproved
	case score < 0.5:
		return verification.DecisionMonitoring
	case score < 0.75:
		return verification.DecisionEnhancedDD
	default:
		return verification.DecisionRejected
	}
}

func levelFor(score float64) Level {
	switch {
	case score < 0.25:
		return LevelLow
	case score < 0.5:
		return LevelMedium
	case score < 0.75:
		return LevelHigh
	default:
		return LevelCritical
	}
}
