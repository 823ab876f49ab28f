package service

import "strings"

var sectorKeywords = []struct {
	sector   string
	keywords []string
}{
	{"Technology", []string{"software", "semiconductor", "technology", "it services", "internet"}},
	{"Financials", []string{"bank", "insurance", "capital markets", "asset management", "financial"}},
	{"Health Care", []string{"pharma", "biotech", "health", "medical", "hospital"}},
	{"Energy", []string{"oil", "gas", "energy", "pipeline", "renewable"}},
	{"Industrials", []string{"aerospace", "defense", "industrial", "machinery", "construction"}},
	{"Consumer", []string{"retail", "consumer", "apparel", "autos", "travel", "leisure"}},
	{"Communication", []string{"telecom", "wireless", "media", "entertainment"}},
	{"Utilities", []string{"utility", "water", "electric", "power"}},
	{"Real Estate", []string{"real estate", "reit"}},
	{"Materials", []string{"materials", "chemical", "mining", "metals"}},
}

// DeriveSectorFromIndustry maps a free-form provider industry string to
// a coarse sector. The provider taxonomy is not strict, so this stays a
// small conservative keyword match; unknown industries yield "".
func DeriveSectorFromIndustry(industry string) string {
	normalized := strings.ToLower(strings.TrimSpace(industry))
	if normalized == "" {
		return ""
	}

	for _, entry := range sectorKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(normalized, keyword) {
				return entry.sector
			}
		}
	}
	return ""
}
