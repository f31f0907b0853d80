package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualificationCheckTypeSlugging(t *testing.T) {
	assert.Equal(t, CheckType("qualification_validation_gcse_maths"),
		QualificationCheckType("GCSE Maths"))
	assert.Equal(t, CheckType("qualification_validation_nvq_level_2"),
		QualificationCheckType("  NVQ Level 2!  "))
}

func TestQualificationCheckTypeStable(t *testing.T) {
	a := QualificationCheckType("BTEC Level 3 Extended Diploma in Business")
	b := QualificationCheckType("BTEC Level 3 Extended Diploma in Business")
	assert.Equal(t, a, b)
}

func TestQualificationCheckTypeDistinctForSharedPrefix(t *testing.T) {
	// Long titles that agree on their first 20 slug characters must still
	// derive distinct types.
	a := QualificationCheckType("BTEC Level 3 Extended Diploma in Business")
	b := QualificationCheckType("BTEC Level 3 Extended Diploma in Engineering")
	assert.NotEqual(t, a, b)
	assert.True(t, a.IsQualification())
	assert.True(t, b.IsQualification())
}

func TestIsQualification(t *testing.T) {
	assert.True(t, QualificationCheckType("GCSE Maths").IsQualification())
	assert.False(t, CheckCompanyRegistration.IsQualification())
	assert.False(t, CheckRiskAssessment.IsQualification())
}
