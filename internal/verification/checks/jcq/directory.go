package jcq

import (
	"context"
	"strconv"
	"time"
)

var centreTypes = []string{
	"Secondary School", "Primary School", "Sixth Form College",
	"Further Education College", "Independent School",
	"Training Provider", "Adult Education Centre",
}

var qualificationCombinations = [][]string{
	{"GCSE", "A Level"},
	{"GCSE", "BTEC"},
	{"Entry Level", "GCSE"},
	{"A Level", "Extended Project"},
	{"BTEC", "Cambridge Nationals"},
	{"GCSE", "A Level", "BTEC", "Extended Project"},
}

// SimulatedDirectory resolves centre numbers against deterministic data
// derived from the number itself: the same number always yields the same
// record, which keeps verification runs reproducible.
type SimulatedDirectory struct {
	Latency time.Duration
}

func (d SimulatedDirectory) Lookup(_ context.Context, centreNumber string) (CentreRecord, error) {
	time.Sleep(d.Latency)

	n, err := strconv.Atoi(centreNumber)
	if err != nil {
		return CentreRecord{}, nil
	}

	// Numbers in the 9xxxx range model historical registrations.
	if centreNumber[0] == '9' {
		return CentreRecord{
			Found:       true,
			CentreName:  "Former Centre " + centreNumber,
			CentreType:  "Historical Registration",
			Active:      false,
			LastUpdated: "2020-08-01",
		}, nil
	}

	// Roughly 15% of lookups miss, spread evenly over the number space.
	if n%100 >= 85 {
		return CentreRecord{}, nil
	}

	return CentreRecord{
		Found:              true,
		CentreName:         "Educational Institution " + centreNumber,
		CentreType:         centreTypes[n%len(centreTypes)],
		Active:             n%10 != 0,
		QualificationTypes: qualificationCombinations[n%len(qualificationCombinations)],
		LastUpdated:        "2024-09-01",
	}, nil
}
