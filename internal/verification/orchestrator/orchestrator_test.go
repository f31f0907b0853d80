package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduvet/internal/verification"
	"eduvet/internal/verification/checks"
	"eduvet/internal/verification/risk"
)

type stubChecker struct {
	checkType verification.CheckType
	status    verification.Status
	score     float64
	delay     time.Duration
}

func (s stubChecker) Type() verification.CheckType { return s.checkType }

func (s stubChecker) Check(_ context.Context, _ verification.ProviderApplication) verification.CheckResult {
	time.Sleep(s.delay)
	return verification.CheckResult{
		CheckType:  s.checkType,
		Status:     s.status,
		RiskScore:  s.score,
		DataSource: "stub",
		Timestamp:  time.Now(),
		Confidence: 1,
	}
}

type panickingChecker struct{}

func (panickingChecker) Type() verification.CheckType { return verification.CheckOfstedRating }

func (panickingChecker) Check(_ context.Context, _ verification.ProviderApplication) verification.CheckResult {
	panic("adapter bug")
}

type stubQualChecker struct{}

func (stubQualChecker) CheckQualification(_ context.Context, title string) verification.CheckResult {
	return verification.CheckResult{
		CheckType:  verification.QualificationCheckType(title),
		Status:     verification.StatusPassed,
		RiskScore:  0.1,
		DataSource: "stub",
		Timestamp:  time.Now(),
		Confidence: 1,
	}
}

func newEngine(t *testing.T, set checks.Set) *Engine {
	t.Helper()
	engine, err := New(set, risk.New())
	require.NoError(t, err)
	return engine
}

func TestRunProducesAllResultsPlusAggregate(t *testing.T) {
	engine := newEngine(t, checks.Set{
		Identity: []checks.Checker{
			stubChecker{checkType: verification.CheckCompanyRegistration, status: verification.StatusPassed, score: 0.1},
			stubChecker{checkType: verification.CheckSanctionsScreening, status: verification.StatusPassed, score: 0.05},
		},
		Regulatory: []checks.Checker{
			stubChecker{checkType: verification.CheckOfqualRecognition, status: verification.StatusPassed, score: 0.1},
			stubChecker{checkType: verification.CheckESFAFundingStatus, status: verification.StatusPassed, score: 0.1},
		},
		Qualifications: stubQualChecker{},
	})

	results, err := engine.Run(context.Background(), verification.ProviderApplication{
		OrganisationName: "Excellence Training Academy Ltd",
		Qualifications:   []string{"GCSE Mathematics", "A Level Physics", "BTEC Business"},
	})
	require.NoError(t, err)

	// 2 identity + 2 regulatory + 3 qualifications + 1 aggregate
	require.Len(t, results, 8)
	last := results[len(results)-1]
	assert.Equal(t, verification.CheckRiskAssessment, last.CheckType)
	assert.Equal(t, verification.DecisionApproved, last.Decision)
}

func TestRunQualificationFanOutDistinctTypes(t *testing.T) {
	engine := newEngine(t, checks.Set{Qualifications: stubQualChecker{}})

	results, err := engine.Run(context.Background(), verification.ProviderApplication{
		OrganisationName: "Quals R Us",
		Qualifications:   []string{"GCSE Mathematics", "A Level Physics", "BTEC Business"},
	})
	require.NoError(t, err)

	types := make(map[verification.CheckType]bool)
	for _, r := range results[:len(results)-1] {
		assert.True(t, r.CheckType.IsQualification())
		types[r.CheckType] = true
	}
	assert.Len(t, types, 3, "each qualification derives a distinct check type")
}

func TestRunPanickingCheckerExcluded(t *testing.T) {
	engine := newEngine(t, checks.Set{
		Identity: []checks.Checker{
			stubChecker{checkType: verification.CheckCompanyRegistration, status: verification.StatusPassed, score: 0.1},
			panickingChecker{},
		},
	})

	results, err := engine.Run(context.Background(), verification.ProviderApplication{
		OrganisationName: "Survives Panics Ltd",
	})
	require.NoError(t, err)

	// The panicking checker contributes nothing; the healthy checker and
	// the aggregate both survive.
	require.Len(t, results, 2)
	assert.Equal(t, verification.CheckCompanyRegistration, results[0].CheckType)
	assert.Equal(t, verification.CheckRiskAssessment, results[1].CheckType)
}

func TestRunErrorResultsStillCollected(t *testing.T) {
	engine := newEngine(t, checks.Set{
		Identity: []checks.Checker{
			stubChecker{checkType: verification.CheckCompanyRegistration, status: verification.StatusError, score: 0.6},
			stubChecker{checkType: verification.CheckSanctionsScreening, status: verification.StatusPassed, score: 0.05},
		},
	})

	results, err := engine.Run(context.Background(), verification.ProviderApplication{
		OrganisationName: "Partial Outage Ltd",
	})
	require.NoError(t, err)

	require.Len(t, results, 3)
	statuses := make(map[verification.Status]int)
	for _, r := range results[:2] {
		statuses[r.Status]++
	}
	assert.Equal(t, 1, statuses[verification.StatusError])
	assert.Equal(t, 1, statuses[verification.StatusPassed])
}

func TestRunParallelWithinPhase(t *testing.T) {
	const delay = 50 * time.Millisecond
	engine := newEngine(t, checks.Set{
		Identity: []checks.Checker{
			stubChecker{checkType: verification.CheckCompanyRegistration, status: verification.StatusPassed, score: 0.1, delay: delay},
			stubChecker{checkType: verification.CheckUKPRNValidation, status: verification.StatusPassed, score: 0.1, delay: delay},
			stubChecker{checkType: verification.CheckSanctionsScreening, status: verification.StatusPassed, score: 0.05, delay: delay},
		},
	})

	start := time.Now()
	_, err := engine.Run(context.Background(), verification.ProviderApplication{
		OrganisationName: "Concurrent Checks Ltd",
	})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 3*delay, "checks within a phase run in parallel")
}

func TestRunRequiresOrganisationName(t *testing.T) {
	engine := newEngine(t, checks.Set{})

	_, err := engine.Run(context.Background(), verification.ProviderApplication{})
	assert.Error(t, err)
}

func TestNewRequiresAggregator(t *testing.T) {
	_, err := New(checks.Set{}, nil)
	assert.Error(t, err)
}
