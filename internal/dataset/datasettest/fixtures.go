// Package datasettest writes a small but complete data directory for tests.
package datasettest

import (
	"os"
	"path/filepath"
	"testing"
)

// RegionsGeoJSON holds two mainland regions and Martinique at its real position.
const RegionsGeoJSON = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"code":"53","nom":"Bretagne"},"geometry":{"type":"Polygon","coordinates":[[[-5,47],[-1,47],[-1,49],[-5,49],[-5,47]]]}},
{"type":"Feature","properties":{"code":"44","nom":"Grand Est"},"geometry":{"type":"Polygon","coordinates":[[[4,47.5],[8,47.5],[8,50],[4,50],[4,47.5]]]}},
{"type":"Feature","properties":{"code":"02","nom":"Martinique"},"geometry":{"type":"Polygon","coordinates":[[[-61.2,14.4],[-60.8,14.4],[-60.8,14.9],[-61.2,14.9],[-61.2,14.4]]]}}
]}`

// Files maps cache file names to contents.
var Files = map[string]string{
	"2_penis_incidence.csv": "Population,ASR (World)\nFrance,0.9\nPeru,1.4\n",
	"2_penis_mortalite.csv": "Population,ASR (World)\nFrance,0.2\n",
	"2_col_incidence.csv":   "Population,ASR (World)\nChile,11.2\nFrance,6.1\n",
	"3_HPV_vaccine_data.csv": "exported from OWID\n" +
		"Entity;Code;Year;_3_b_1__sh_acs_hpv\n" +
		"France;FRA;2021;40\nFrance;FRA;2022;50\nPeru;PER;2022;80\nWorld;OWID_WRL;2022;30\n",
	"introduction_hpv_vaccine.csv": "Entity,Code,Year,intro__description_hpv__human_papilloma_virus__vaccine\n" +
		"Rwanda,RWA,2011,Entire country\nAustralia,AUS,2007,Entire country\nFrance,FRA,2007,Entire country\n",
	"depistage2023.csv": "code,libelle,pop,inc,glob,a,b,c,d,e,f,g,h\n" +
		"53,Bretagne,3400000,5.1,58.2,50,60,61,62,63,64,65,40\n" +
		"44,Grand-Est,5500000,6.0,55.0,50,60,61,62,63,64,65,40\n",
	"6_couverture_vaccinale_2023_filles_nettoye.csv":  "Région;2005;2006;2007\nBretagne;40;45;50\nGrand Est;30;35;41\nMartinique;10;12;15\n",
	"6_couverture_vaccinale_2023_garcons_nettoye.csv": "Région;2006;2007\nBretagne;10;12\nGrand Est;8;9\n",
	"regions.geojson": RegionsGeoJSON,
}

// Write writes Files into dir.
func Write(t testing.TB, dir string) {
	t.Helper()
	for name, content := range Files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}
}

// Dir returns a temporary directory holding Files.
func Dir(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	Write(t, dir)
	return dir
}
