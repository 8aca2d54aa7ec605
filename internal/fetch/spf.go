package fetch

import (
	"context"
	"strings"
)

// SPFCoveragePage lists the Santé publique France regional HPV coverage workbooks.
const SPFCoveragePage = "https://www.santepubliquefrance.fr/determinants-de-sante/vaccination/articles/donnees-infra-nationales-de-couverture-vaccinale-papillomavirus-humains-hpv"

// CoverageWorkbook is a regional coverage workbook link with the population it covers.
type CoverageWorkbook struct {
	Sex string `json:"sex"` // "filles" or "garcons"
	Link
}

// CoverageWorkbooks finds the girls and boys workbooks published for year on page.
func (c *Client) CoverageWorkbooks(ctx context.Context, page, year string) ([]CoverageWorkbook, error) {
	links, err := c.DiscoverLinks(ctx, page, func(text, _ string) bool {
		return WorkbookSex(text, year) != ""
	})
	if err != nil {
		return nil, err
	}
	out := make([]CoverageWorkbook, 0, len(links))
	for _, l := range links {
		out = append(out, CoverageWorkbook{Sex: WorkbookSex(l.Text, year), Link: l})
	}
	return out, nil
}

// WorkbookSex classifies an anchor text, returning "" when it is not a coverage
// workbook for year.
func WorkbookSex(text, year string) string {
	if !strings.Contains(text, year) {
		return ""
	}
	lt := strings.ToLower(text)
	switch {
	case strings.Contains(lt, "jeunes filles"):
		return "filles"
	case strings.Contains(lt, "jeunes garçons"):
		return "garcons"
	}
	return ""
}
