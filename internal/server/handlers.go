package server

import (
	"bytes"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/KaramelBytes/hpvdash/internal/chart"
	"github.com/KaramelBytes/hpvdash/internal/dataset"
	"github.com/KaramelBytes/hpvdash/internal/geo"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	b := s.Bundle()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"loaded_at": b.LoadedAt,
		"warnings":  b.Warnings,
	})
}

func (s *Server) handleOrgans(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dataset.Organs())
}

func (s *Server) handleOrgan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, ok := dataset.OrganByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown organ", map[string]any{"id": id})
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleCancerOptions(w http.ResponseWriter, _ *http.Request) {
	c := s.Bundle().Cancers
	if c == nil {
		unavailable(w, "cancers")
		return
	}
	opts := c.Options()
	def := ""
	if len(opts) > 0 {
		def = opts[0].Value
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cancers":        opts,
		"metrics":        dataset.MetricOptions(),
		"default_cancer": def,
		"default_metric": "incidence",
	})
}

func (s *Server) handleCancerMap(w http.ResponseWriter, r *http.Request) {
	c := s.Bundle().Cancers
	if c == nil {
		unavailable(w, "cancers")
		return
	}
	q := r.URL.Query()
	metric := q.Get("metric")
	if metric == "" {
		metric = "incidence"
	}
	cancer := q.Get("cancer")
	if cancer == "" {
		if opts := c.Options(); len(opts) > 0 {
			cancer = opts[0].Value
		}
	}
	m := c.Query(cancer, metric)
	writeJSON(w, http.StatusOK, map[string]any{"map": m, "figure": chart.CancerChoropleth(m)})
}

func (s *Server) coverageYear(w http.ResponseWriter, r *http.Request, c *dataset.Coverage) (int, bool) {
	y, set, ok := intParam(w, r, "year")
	if !ok {
		return 0, false
	}
	if !set {
		y = c.DefaultYear()
	}
	return y, true
}

func (s *Server) handleCoverageYears(w http.ResponseWriter, _ *http.Request) {
	c := s.Bundle().Coverage
	if c == nil {
		unavailable(w, "coverage")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"years": c.Years(), "default": c.DefaultYear()})
}

func (s *Server) handleCoverageMap(w http.ResponseWriter, r *http.Request) {
	c := s.Bundle().Coverage
	if c == nil {
		unavailable(w, "coverage")
		return
	}
	y, ok := s.coverageYear(w, r, c)
	if !ok {
		return
	}
	m := c.Map(y)
	writeJSON(w, http.StatusOK, map[string]any{"map": m, "figure": chart.CoverageChoropleth(m)})
}

func (s *Server) handleCoverageTimeline(w http.ResponseWriter, r *http.Request) {
	c := s.Bundle().Coverage
	if c == nil {
		unavailable(w, "coverage")
		return
	}
	y, ok := s.coverageYear(w, r, c)
	if !ok {
		return
	}
	trend := c.Trend()
	writeJSON(w, http.StatusOK, map[string]any{"trend": trend, "figure": chart.CoverageTimeline(trend, y)})
}

func (s *Server) handleCoverageNext(w http.ResponseWriter, r *http.Request) {
	c := s.Bundle().Coverage
	if c == nil {
		unavailable(w, "coverage")
		return
	}
	y, ok := s.coverageYear(w, r, c)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": c.NextYear(y)})
}

func (s *Server) handleIntroductions(w http.ResponseWriter, r *http.Request) {
	in := s.Bundle().Introductions
	if in == nil {
		unavailable(w, "introductions")
		return
	}
	lo, hi := in.Bounds()
	from, set, ok := intParam(w, r, "from")
	if !ok {
		return
	}
	if !set {
		from = lo
	}
	to, set, ok := intParam(w, r, "to")
	if !ok {
		return
	}
	if !set {
		to = hi
	}
	if from > to {
		writeError(w, http.StatusBadRequest, "validation_failed", "from is after to",
			map[string]any{"from": from, "to": to})
		return
	}
	var marker *dataset.CountryMarker
	if country := r.URL.Query().Get("country"); country != "" {
		if mk, found := in.Marker(country); found {
			marker = &mk
		}
	}
	points := in.Cumulative(from, to)
	writeJSON(w, http.StatusOK, map[string]any{
		"bounds":     [2]int{lo, hi},
		"from":       from,
		"to":         to,
		"cumulative": points,
		"marker":     marker,
		"message":    in.Message(nil),
		"figure":     chart.IntroductionsLine(points, marker),
	})
}

func (s *Server) handleIntroductionCountries(w http.ResponseWriter, _ *http.Request) {
	in := s.Bundle().Introductions
	if in == nil {
		unavailable(w, "introductions")
		return
	}
	writeJSON(w, http.StatusOK, in.Countries())
}

func (s *Server) handleIntroductionYear(w http.ResponseWriter, r *http.Request) {
	in := s.Bundle().Introductions
	if in == nil {
		unavailable(w, "introductions")
		return
	}
	raw := chi.URLParam(r, "year")
	y, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid year", map[string]any{"year": raw})
		return
	}
	fresh := in.NewIn(y)
	if fresh == nil {
		fresh = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": y, "countries": fresh, "message": in.Message(&y)})
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	fc := s.Bundle().Regions
	if fc == nil {
		unavailable(w, "regions")
		return
	}
	data, err := geo.MarshalFeatureCollection(fc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to encode regions", nil)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(data)
}

func (s *Server) handleScreening(w http.ResponseWriter, r *http.Request) {
	sc := s.Bundle().Screening
	if sc == nil {
		unavailable(w, "screening")
		return
	}
	metric := r.URL.Query().Get("metric")
	m, err := sc.Map(metric)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error(), map[string]any{"metric": metric})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"metrics": dataset.ScreeningMetrics,
		"default": dataset.DefaultScreeningMetric,
		"map":     m,
		"figure":  chart.ScreeningChoropleth(m),
	})
}

func (s *Server) regional(w http.ResponseWriter, r *http.Request) (*dataset.RegionalCoverage, bool) {
	sex := dataset.NormalizeSex(r.URL.Query().Get("sex"))
	rc := s.Bundle().RegionalCoverage(sex)
	if rc == nil {
		unavailable(w, "france coverage "+sex)
		return nil, false
	}
	return rc, true
}

func (s *Server) handleRegionalYears(w http.ResponseWriter, r *http.Request) {
	rc, ok := s.regional(w, r)
	if !ok {
		return
	}
	opts, def := rc.YearOptions()
	writeJSON(w, http.StatusOK, map[string]any{"sex": rc.Sex, "years": opts, "default": def})
}

func (s *Server) handleRegionalMap(w http.ResponseWriter, r *http.Request) {
	rc, ok := s.regional(w, r)
	if !ok {
		return
	}
	cohort := r.URL.Query().Get("year")
	if cohort == "" {
		_, cohort = rc.YearOptions()
	}
	m := rc.Map(cohort)
	writeJSON(w, http.StatusOK, map[string]any{"map": m, "figure": chart.RegionalChoropleth(m)})
}

func (s *Server) handleRegionEvolution(w http.ResponseWriter, r *http.Request) {
	rc, ok := s.regional(w, r)
	if !ok {
		return
	}
	raw := chi.URLParam(r, "region")
	// chi routes on RawPath when it is set, leaving the param escaped.
	if r.URL.RawPath != "" {
		u, err := url.PathUnescape(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "malformed region", map[string]any{"region": raw})
			return
		}
		raw = u
	}
	region := dataset.CanonicalRegion(raw)
	points, err := rc.Evolution(region)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"region": region,
		"points": points,
		"figure": chart.RegionEvolution(region, points),
	})
}

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	b := s.Bundle()
	name := chi.URLParam(r, "name")
	fig, ok := chart.Named(b, name)
	if !ok {
		if chart.IsNamed(name) {
			unavailable(w, name)
			return
		}
		writeError(w, http.StatusNotFound, "not_found", "unknown chart", map[string]any{"name": name})
		return
	}
	var buf bytes.Buffer
	if err := chart.RenderPNG(&buf, fig, 900, 450); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "render_failed", err.Error(), map[string]any{"name": name})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}
