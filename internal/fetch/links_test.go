package fetch

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const spfPage = `<html><body>
<a href="/content/download/1/filles.xlsx">Couverture 2023 jeunes filles (xlsx)</a>
<a href="https://cdn.example.org/garcons.xlsx">Couverture 2023
  Jeunes garçons</a>
<a href="/content/download/0/filles-2022.xlsx">Couverture 2022 jeunes filles</a>
<a href="/content/download/1/filles.xlsx">Couverture 2023 jeunes filles (doublon)</a>
<a name="anchor">no href</a>
</body></html>`

func TestExtractLinks(t *testing.T) {
	links, err := ExtractLinks([]byte(spfPage), "https://www.santepubliquefrance.fr/vaccination/hpv", nil)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("links=%d want 3: %+v", len(links), links)
	}
	if links[0].URL != "https://www.santepubliquefrance.fr/content/download/1/filles.xlsx" {
		t.Fatalf("relative link not resolved: %s", links[0].URL)
	}
}

func TestCoverageWorkbooks(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(spfPage))
	}))
	c := fastClient()
	defer c.httpClient.CloseIdleConnections()
	got, err := c.CoverageWorkbooks(context.Background(), srv.URL+"/page", "2023")
	if err != nil {
		t.Fatalf("workbooks: %v", err)
	}
	want := []CoverageWorkbook{
		{Sex: "filles", Link: Link{Text: "Couverture 2023 jeunes filles (xlsx)", URL: srv.URL + "/content/download/1/filles.xlsx"}},
		{Sex: "garcons", Link: Link{Text: "Couverture 2023 Jeunes garçons", URL: "https://cdn.example.org/garcons.xlsx"}},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("workbooks mismatch (-want +got):\n%s", d)
	}
}

func TestContainsAll(t *testing.T) {
	m := ContainsAll("2023", "Filles")
	if !m("Données 2023 jeunes filles", "") || m("Données 2022 jeunes filles", "") {
		t.Fatalf("ContainsAll mismatch")
	}
}

func TestTableFromCells(t *testing.T) {
	tb, err := TableFromCells([]string{"Population", "ASR (World)"}, [][]string{{}, {"France", "1.2"}, {"Peru"}})
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if tb.Len() != 2 || tb.Get(1, "ASR (World)") != "" {
		t.Fatalf("unexpected table: %+v", tb)
	}
	if _, err := TableFromCells(nil, nil); err == nil {
		t.Fatalf("accepted empty header")
	}
	if _, err := TableFromCells([]string{"a"}, [][]string{{"1", "2"}}); err == nil {
		t.Fatalf("accepted wide row")
	}
}

func TestGCOQueryURL(t *testing.T) {
	u := GCOQuery{Cancer: 1, Sex: 0, Type: 1}.URL()
	want := GCOTablesURL + "?age_end=17&cancers=1&key=crude_rate&mode=population&multiple_cancers=0&sexes=0&types=1"
	if u != want {
		t.Fatalf("url=%s", u)
	}
}
