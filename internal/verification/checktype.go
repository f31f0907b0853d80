package verification

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// CheckType identifies which check produced a result. The set is closed apart
// from qualification checks, which derive one type per qualification title so
// multi-instance runs stay keyed by type rather than position.
type CheckType string

const (
	CheckCompanyRegistration CheckType = "company_registration"
	CheckUKPRNValidation     CheckType = "ukprn_validation"
	CheckSanctionsScreening  CheckType = "sanctions_screening"
	CheckOfqualRecognition   CheckType = "ofqual_recognition"
	CheckOfstedRating        CheckType = "ofsted_rating"
	CheckESFAFundingStatus   CheckType = "esfa_funding_status"
	CheckJCQCentre           CheckType = "jcq_centre_verification"
	CheckRiskAssessment      CheckType = "risk_assessment"
)

const qualificationPrefix = "qualification_validation_"

// QualificationCheckType derives a distinct check type from a qualification
// title. Titles are slugged and truncated so the type stays readable; a
// truncated slug carries a short hash of the full title so long titles
// sharing a prefix still map to distinct types.
func QualificationCheckType(title string) CheckType {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		}
		return -1
	}, slug)
	slug = strings.Trim(slug, "_")
	if len(slug) > 20 {
		h := fnv.New32a()
		h.Write([]byte(slug))
		slug = fmt.Sprintf("%s_%04x", slug[:20], h.Sum32()&0xffff)
	}
	return CheckType(qualificationPrefix + slug)
}

// IsQualification reports whether the type was derived from a qualification.
func (c CheckType) IsQualification() bool {
	return strings.HasPrefix(string(c), qualificationPrefix)
}
