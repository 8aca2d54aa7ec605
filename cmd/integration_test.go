package cmd

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/hpvdash/internal/cache"
	cfgpkg "github.com/KaramelBytes/hpvdash/internal/config"
	"github.com/KaramelBytes/hpvdash/internal/dataset/datasettest"
)

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) error {
	t.Helper()
	// Reset sticky flags that may persist Changed state across invocations
	if fl := rootCmd.PersistentFlags().Lookup("data-dir"); fl != nil {
		_ = fl.Value.Set("")
		fl.Changed = false
	}
	if fl := fetchCmd.Flags().Lookup("force"); fl != nil {
		_ = fl.Value.Set("false")
		fl.Changed = false
	}
	cfg = nil
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func mustRun(t *testing.T, args ...string) {
	t.Helper()
	if err := runCmd(t, args...); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

// sourceServer serves the fixture files under any path ending with their name.
func sourceServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		if errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM) {
			t.Skipf("skipping test: cannot open local listener (%v)", err)
		}
		t.Fatalf("listen tcp4: %v", err)
	}
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := datasettest.Files[path.Base(r.URL.Path)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	})}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return "http://" + ln.Addr().String()
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PORT", "")
	return home
}

func TestCLI_Init_Fetch_Render_Export(t *testing.T) {
	home := isolateHome(t)
	base := sourceServer(t)

	mustRun(t, "init")
	if err := runCmd(t, "init"); err == nil {
		t.Fatalf("expected init to refuse an existing config")
	}
	mustRun(t, "config", "set", "source_base_url", base)
	mustRun(t, "config", "set", "regions_url", base+"/regions.geojson")
	mustRun(t, "config", "set", "retry_max_attempts", "1")

	mustRun(t, "fetch", "cancer-penis-*", "cancer-col-incidence", "coverage-world", "introductions", "france-*")
	dataDir := filepath.Join(home, ".hpvdash", "data")
	for _, f := range []string{"2_penis_incidence.csv", "3_HPV_vaccine_data.csv", "regions.geojson", "manifest.json"} {
		if _, err := os.Stat(filepath.Join(dataDir, f)); err != nil {
			t.Fatalf("expected %s in data dir: %v", f, err)
		}
	}
	m, err := cache.Open(dataDir)
	if err != nil {
		t.Fatalf("open manifest: %v", err)
	}
	if err := m.Verify("france-regions"); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// a missing upstream file is reported as a failure
	if err := runCmd(t, "fetch", "cancer-anus-incidence"); err == nil {
		t.Fatalf("expected fetch of a missing file to fail")
	}

	png := filepath.Join(home, "trend.png")
	mustRun(t, "render", "coverage-trend", "-o", png)
	b, err := os.ReadFile(png)
	if err != nil || !strings.HasPrefix(string(b), "\x89PNG") {
		t.Fatalf("expected PNG output, err=%v", err)
	}
	if err := runCmd(t, "render", "nope"); err == nil {
		t.Fatalf("expected unknown chart to fail")
	}

	dbPath := filepath.Join(home, "hpv.db")
	mustRun(t, "export", "--sqlite", dbPath)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM france_coverage").Scan(&n); err != nil || n == 0 {
		t.Fatalf("expected france_coverage rows, n=%d err=%v", n, err)
	}

	mustRun(t, "verify")
	mustRun(t, "inspect", "coverage-world")
	mustRun(t, "list", "--cached")
}

func TestCLI_Inset(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "regions.geojson")
	if err := os.WriteFile(in, []byte(datasettest.RegionsGeoJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := runCmd(t, "config", "set", "inset.Martinique", "-9,46"); err == nil || !strings.Contains(err.Error(), "--") {
		t.Fatalf("expected a hint about \"--\", got %v", err)
	}
	mustRun(t, "config", "set", "--", "inset.Martinique", "-9,46")
	out := filepath.Join(home, "out.geojson")
	mustRun(t, "inset", in, "-o", out)
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if strings.Contains(string(b), "-61.2") {
		t.Fatalf("Martinique was not moved: %s", b)
	}
}

func TestCLI_InitFreshHome(t *testing.T) {
	home := isolateHome(t)
	mustRun(t, "init")
	if _, err := os.Stat(filepath.Join(home, ".hpvdash", "config.yaml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".hpvdash", "data", "manifest.json")); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
}

func TestCLI_ConfigSetKeyValueForm(t *testing.T) {
	isolateHome(t)
	mustRun(t, "config", "set", "inset.Guyane=-10,44")
	c, err := cfgpkg.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Insets) != 1 || c.Insets[0].Region != "Guyane" || c.Insets[0].Lon != -10 || c.Insets[0].Lat != 44 {
		t.Fatalf("unexpected insets: %+v", c.Insets)
	}
	if err := runCmd(t, "config", "set", "inset.Guyane"); err == nil {
		t.Fatalf("expected a lone key to fail")
	}
}

func TestCLI_ConfigSetRejectsBadValues(t *testing.T) {
	isolateHome(t)
	for _, args := range [][]string{
		{"config", "set", "fetch_workers", "0"},
		{"config", "set", "watch_data", "maybe"},
		{"config", "set", "dataset_url.nope", "http://x"},
		{"config", "set", "inset.Guyane", "1"},
		{"config", "set", "unknown", "1"},
	} {
		if err := runCmd(t, args...); err == nil {
			t.Fatalf("expected %v to fail", args)
		}
	}
	mustRun(t, "config", "set", "dataset_url.france-regions", "http://example.test/r.geojson")
	mustRun(t, "config", "show")
}

func TestCLI_CleanCoverageNeedsFile(t *testing.T) {
	home := isolateHome(t)
	if err := runCmd(t, "clean-coverage", filepath.Join(home, "missing.xlsx")); err == nil {
		t.Fatalf("expected missing workbook to fail")
	}
	if err := runCmd(t, "clean-coverage", "--delimiter", "|", filepath.Join(home, "missing.xlsx")); err == nil {
		t.Fatalf("expected bad delimiter to fail")
	}
}
