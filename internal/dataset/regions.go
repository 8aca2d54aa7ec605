package dataset

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// RegionColumn is the region column of the France coverage tables.
const RegionColumn = "Région"

// regionCorrections maps spellings found in the Santé publique France files to
// the "nom" property of the regions GeoJSON.
var regionCorrections = map[string]string{
	"Paca":                        "Provence-Alpes-Côte d'Azur",
	"Ile de France":               "Île-de-France",
	"Ile-de-France":               "Île-de-France",
	"Grand-Est":                   "Grand Est",
	"Bourgogne et Franche-Comté":  "Bourgogne-Franche-Comté",
	"Bourgogne - Franche - Comté": "Bourgogne-Franche-Comté",
	"Centre":                      "Centre-Val de Loire",
	"Nouvelle Aquitaine":          "Nouvelle-Aquitaine",
	"Auvergne et Rhône-Alpes":     "Auvergne-Rhône-Alpes",
	"Auvergne - Rhône-Alpes":      "Auvergne-Rhône-Alpes",
	"Corse":                       "Corse",
}

func init() {
	// Source files mix composed and decomposed accents.
	for k, v := range regionCorrections {
		regionCorrections[norm.NFC.String(k)] = norm.NFC.String(v)
	}
}

var hautsDe = regexp.MustCompile(`Hauts-de-\s+`)

// CanonicalRegion maps a region spelling to its GeoJSON name. Unknown names are
// returned NFC-normalized and trimmed.
func CanonicalRegion(name string) string {
	n := norm.NFC.String(strings.TrimSpace(name))
	if c, ok := regionCorrections[n]; ok {
		return c
	}
	return n
}

// CleanRegionText fixes the layout artifacts of spreadsheet region labels
// (wrapped lines, "Hauts-de- France", capital I circumflex, typographic
// apostrophes) and then applies CanonicalRegion.
func CleanRegionText(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = hautsDe.ReplaceAllString(s, "Hauts-de-")
	s = strings.ReplaceAll(s, "Î", "I")
	s = strings.ReplaceAll(s, "’", "'")
	return CanonicalRegion(s)
}

// UnknownRegions returns the names that do not appear among known, sorted and
// without duplicates.
func UnknownRegions(names, known []string) []string {
	k := make(map[string]bool, len(known))
	for _, n := range known {
		k[norm.NFC.String(n)] = true
	}
	seen := map[string]bool{}
	var out []string
	for _, n := range names {
		nn := norm.NFC.String(n)
		if nn == "" || k[nn] || seen[nn] {
			continue
		}
		seen[nn] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
