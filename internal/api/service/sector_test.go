package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSectorFromIndustry(t *testing.T) {
	cases := []struct {
		industry string
		want     string
	}{
		{"Semiconductors", "Technology"},
		{"Software - Infrastructure", "Technology"},
		{"Banks - Diversified", "Financials"},
		{"Biotechnology", "Health Care"},
		{"Oil & Gas Midstream", "Energy"},
		{"Aerospace & Defense", "Industrials"},
		{"Specialty Retail", "Consumer"},
		{"Telecom Services", "Communication"},
		{"Electric Utilities", "Utilities"},
		{"REIT - Residential", "Real Estate"},
		{"Specialty Chemicals", "Materials"},
		{"  pharmaceuticals  ", "Health Care"},
		{"Something Unrecognized", ""},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, DeriveSectorFromIndustry(tc.industry), "industry %q", tc.industry)
	}
}
