package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/KaramelBytes/hpvdash/internal/table"
)

// GCOTablesURL is the IARC Global Cancer Observatory table view.
const GCOTablesURL = "https://gco.iarc.fr/today/en/dataviz/tables"

// GCOQuery selects one GCO table. Type is 0 for incidence and 1 for mortality.
type GCOQuery struct {
	Cancer int
	Sex    int
	Type   int
}

// URL renders the table view URL for q.
func (q GCOQuery) URL() string {
	v := url.Values{}
	v.Set("mode", "population")
	v.Set("cancers", strconv.Itoa(q.Cancer))
	v.Set("sexes", strconv.Itoa(q.Sex))
	v.Set("key", "crude_rate")
	v.Set("age_end", "17")
	v.Set("multiple_cancers", "0")
	v.Set("types", strconv.Itoa(q.Type))
	return GCOTablesURL + "?" + v.Encode()
}

// GCOScraper renders GCO pages in a headless browser and reads the first table.
type GCOScraper struct {
	// Bin is an optional browser binary; empty lets the launcher find or download one.
	Bin     string
	Timeout time.Duration
	Log     *zap.Logger
}

// Scrape loads pageURL and converts its first <table> into a Table. Header cells
// come from <th>; each later <tr> contributes its <td> texts.
func (s *GCOScraper) Scrape(ctx context.Context, pageURL string) (*table.Table, error) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	l := launcher.New().Headless(true)
	if s.Bin != "" {
		l = l.Bin(s.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer browser.Close()

	log.Debug("gco page", zap.String("url", pageURL))
	page, err := browser.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}
	tbl, err := page.Element("table")
	if err != nil {
		return nil, fmt.Errorf("find table: %w", err)
	}
	headers, err := texts(tbl, "th")
	if err != nil {
		return nil, err
	}
	trs, err := tbl.Elements("tr")
	if err != nil {
		return nil, fmt.Errorf("find rows: %w", err)
	}
	var rows [][]string
	for i, tr := range trs {
		if i == 0 {
			continue
		}
		cells, err := texts(tr, "td")
		if err != nil {
			return nil, err
		}
		rows = append(rows, cells)
	}
	return TableFromCells(headers, rows)
}

func texts(el *rod.Element, selector string) ([]string, error) {
	els, err := el.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", selector, err)
	}
	out := make([]string, 0, len(els))
	for _, e := range els {
		t, err := e.Text()
		if err != nil {
			return nil, fmt.Errorf("read %s text: %w", selector, err)
		}
		out = append(out, strings.TrimSpace(t))
	}
	return out, nil
}

// TableFromCells builds a table from scraped header and row texts. Rows without
// any cell (spacer rows) are dropped.
func TableFromCells(headers []string, rows [][]string) (*table.Table, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("scraped table has no header cells")
	}
	t := table.New(headers...)
	for _, r := range rows {
		if len(r) == 0 {
			continue
		}
		if len(r) > len(headers) {
			return nil, fmt.Errorf("scraped row has %d cells, header has %d", len(r), len(headers))
		}
		t.Append(r)
	}
	return t, nil
}
