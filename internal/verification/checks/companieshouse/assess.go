package companieshouse

import (
	"strings"
	"time"

	"eduvet/internal/verification"
	"eduvet/internal/verification/namematch"
)

// companyProfile is the subset of the company profile resource the assessment
// reads.
type companyProfile struct {
	CompanyName    string   `json:"company_name"`
	CompanyNumber  string   `json:"company_number"`
	CompanyStatus  string   `json:"company_status"`
	Type           string   `json:"type"`
	DateOfCreation string   `json:"date_of_creation"`
	SICCodes       []string `json:"sic_codes"`
}

type officerList struct {
	Items []officer `json:"items"`
}

type officer struct {
	Name       string `json:"name"`
	ResignedOn string `json:"resigned_on"`
}

type filingList struct {
	Items []filing `json:"items"`
}

type filing struct {
	Description string `json:"description"`
	Date        string `json:"date"`
}

type chargeList struct {
	Items []charge `json:"items"`
}

type charge struct {
	Status string `json:"status"`
}

type pscList struct {
	Items []psc `json:"items"`
}

type psc struct {
	Kind string `json:"kind"`
}

// riskFactor is one named contribution to the additive score.
type riskFactor struct {
	add  float64
	name string
	rec  string
}

var educationalCompanyTypes = map[string]bool{
	"private-limited-guarant-nsc-limited-exemption": true,
	"private-limited-guarant-nsc":                   true,
	"community-interest-company":                    true,
}

var unusualCompanyTypes = map[string]bool{
	"private-unlimited":  true,
	"old-public-company": true,
	"other":              true,
}

var overdueIndicators = []string{"overdue", "late", "default", "penalty"}

// assess combines the profile and enrichment data into a result. Scoring
// starts from a 0.1 base for an active company and each factor adds to it.
func (c *Client) assess(app verification.ProviderApplication, profile *companyProfile, e enrichments) verification.CheckResult {
	score := 0.1
	var factors []riskFactor

	status := strings.ToLower(profile.CompanyStatus)
	factors = append(factors, statusFactor(status))

	nameMatch := true
	if app.OrganisationName != "" {
		nameMatch = namematch.Match(profile.CompanyName, app.OrganisationName) ||
			(app.TradingName != "" && namematch.Match(profile.CompanyName, app.TradingName))
		if !nameMatch {
			factors = append(factors, riskFactor{0.3, "name_mismatch", "Company name does not match provided name"})
		}
	}

	factors = append(factors, officersFactors(e.officers)...)
	factors = append(factors, ageFactor(profile.DateOfCreation))
	factors = append(factors, filingsFactor(e.filings))
	factors = append(factors, typeFactor(profile.Type))
	factors = append(factors, chargesFactor(e.charges))
	factors = append(factors, pscFactor(e.psc))

	var names []string
	var recs []string
	for _, f := range factors {
		score += f.add
		if f.name != "" {
			names = append(names, f.name)
		}
		if f.rec != "" {
			recs = append(recs, f.rec)
		}
	}

	score = verification.ClampScore(score)

	var resultStatus verification.Status
	switch {
	case score < 0.3:
		resultStatus = verification.StatusPassed
	case score < 0.7:
		resultStatus = verification.StatusFlagged
	default:
		resultStatus = verification.StatusFailed
	}

	confidence := 0.95
	if status != "active" {
		confidence = 0.8
	}

	details := map[string]any{
		"company_name":       profile.CompanyName,
		"company_number":     profile.CompanyNumber,
		"company_status":     status,
		"company_type":       profile.Type,
		"incorporation_date": profile.DateOfCreation,
		"sic_codes":          profile.SICCodes,
		"name_match":         nameMatch,
		"risk_factors":       names,
	}
	if e.officers != nil {
		details["active_officers"] = len(activeOfficers(e.officers.Items))
	}
	if e.charges != nil {
		details["outstanding_charges"] = len(outstandingCharges(e.charges.Items))
	}

	return verification.CheckResult{
		CheckType:       c.Type(),
		Status:          resultStatus,
		RiskScore:       score,
		DataSource:      Source,
		Timestamp:       time.Now(),
		Details:         details,
		Recommendations: recs,
		Confidence:      confidence,
	}
}

func statusFactor(status string) riskFactor {
	switch status {
	case "active":
		return riskFactor{}
	case "liquidation", "dissolved", "converted-closed":
		return riskFactor{0.8, "company_not_active", "Company status is '" + status + "' - not operational"}
	case "administration", "receivership":
		return riskFactor{0.6, "company_distressed", "Company in " + status + " - financial difficulties"}
	default:
		return riskFactor{0.4, "company_status_uncertain", "Company status '" + status + "' requires review"}
	}
}

func officersFactors(list *officerList) []riskFactor {
	if list == nil {
		return []riskFactor{{0.1, "officers_data_unavailable", "Could not verify company officers"}}
	}

	var factors []riskFactor
	if len(activeOfficers(list.Items)) == 0 {
		factors = append(factors, riskFactor{0.4, "no_active_officers", "No active officers found"})
	}

	recentResignations := 0
	for _, o := range list.Items {
		if o.ResignedOn == "" {
			continue
		}
		resigned, err := time.Parse("2006-01-02", o.ResignedOn)
		if err != nil {
			continue
		}
		if time.Since(resigned) < 180*24*time.Hour {
			recentResignations++
		}
	}
	if recentResignations > 2 {
		factors = append(factors, riskFactor{0.2, "recent_officer_changes", "Multiple recent officer resignations"})
	}
	return factors
}

func ageFactor(dateOfCreation string) riskFactor {
	if dateOfCreation == "" {
		return riskFactor{0.1, "incorporation_date_unknown", "Incorporation date not available"}
	}
	created, err := time.Parse("2006-01-02", dateOfCreation)
	if err != nil {
		return riskFactor{0.1, "incorporation_date_invalid", "Could not parse incorporation date"}
	}

	ageYears := time.Since(created).Hours() / (24 * 365.25)
	switch {
	case ageYears < 1:
		return riskFactor{0.3, "very_new_company", "Company incorporated less than 1 year ago - enhanced monitoring recommended"}
	case ageYears < 2:
		return riskFactor{0.2, "new_company", "Relatively new company - monitor performance"}
	case ageYears > 50:
		return riskFactor{-0.1, "established_company", ""}
	default:
		return riskFactor{}
	}
}

func filingsFactor(list *filingList) riskFactor {
	if list == nil {
		return riskFactor{0.1, "filing_history_unavailable", "Could not verify filing history"}
	}
	if len(list.Items) == 0 {
		return riskFactor{0.2, "no_recent_filings", "No recent filings found"}
	}

	issues := 0
	recent := list.Items
	if len(recent) > 5 {
		recent = recent[:5]
	}
	for _, f := range recent {
		desc := strings.ToLower(f.Description)
		for _, indicator := range overdueIndicators {
			if strings.Contains(desc, indicator) {
				issues++
				break
			}
		}
	}

	switch {
	case issues > 2:
		return riskFactor{0.3, "filing_compliance_issues", "Multiple compliance issues in filing history"}
	case issues > 0:
		return riskFactor{0.1, "minor_filing_issues", "Some filing irregularities noted"}
	default:
		return riskFactor{}
	}
}

func typeFactor(companyType string) riskFactor {
	switch {
	case educationalCompanyTypes[companyType]:
		return riskFactor{-0.05, "suitable_company_type", ""}
	case unusualCompanyTypes[companyType]:
		return riskFactor{0.2, "unusual_company_type", "Unusual company type '" + companyType + "' for educational provider"}
	default:
		return riskFactor{}
	}
}

func chargesFactor(list *chargeList) riskFactor {
	if list == nil {
		return riskFactor{}
	}
	outstanding := outstandingCharges(list.Items)
	switch {
	case len(outstanding) > 5:
		return riskFactor{0.3, "multiple_charges", "Multiple outstanding charges against company assets"}
	case len(outstanding) > 0:
		return riskFactor{0.1, "has_charges", "Company has secured debts"}
	default:
		return riskFactor{}
	}
}

func pscFactor(list *pscList) riskFactor {
	if list == nil {
		return riskFactor{0.1, "psc_data_unavailable", "Could not verify persons with significant control"}
	}
	if len(list.Items) == 0 {
		return riskFactor{0.2, "no_psc_data", "No PSC information available - lack of transparency"}
	}
	for _, p := range list.Items {
		if strings.HasSuffix(p.Kind, "-statement") {
			return riskFactor{0.15, "psc_statements", "PSC statements present - may indicate ownership complexity"}
		}
	}
	return riskFactor{}
}

func activeOfficers(items []officer) []officer {
	var active []officer
	for _, o := range items {
		if o.ResignedOn == "" {
			active = append(active, o)
		}
	}
	return active
}

func outstandingCharges(items []charge) []charge {
	var outstanding []charge
	for _, c := range items {
		if c.Status == "outstanding" {
			outstanding = append(outstanding, c)
		}
	}
	return outstanding
}
