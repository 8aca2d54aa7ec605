package reader_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/hpvdash/internal/reader"
)

func TestReadFileCSV(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "2_anus_incidence.csv")
	content := "Population,ASR (World)\nFrance,1.2\nPeru,0.4\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tb, err := reader.ReadFile(p, reader.Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if tb.Len() != 2 || tb.Get(1, "Population") != "Peru" {
		t.Fatalf("unexpected table: %+v", tb)
	}
}

func TestReadFileTSVDefaultsToTab(t *testing.T) {
	p := filepath.Join(t.TempDir(), "coverage.TSV")
	if err := os.WriteFile(p, []byte("Entity\tValue\nFrance, metropolitan\t41,5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tb, err := reader.ReadFile(p, reader.Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if tb.Len() != 1 || tb.Get(0, "Entity") != "France, metropolitan" || tb.Get(0, "Value") != "41,5" {
		t.Fatalf("unexpected table: %+v", tb)
	}
}

func TestReadFileXLSX(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "couverture.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]interface{}{"Couverture vaccinale 2023"})
	_ = f.SetSheetRow(sheet, "A2", &[]interface{}{"Région", "2006", "2007"})
	_ = f.SetSheetRow(sheet, "A3", &[]interface{}{"Bretagne", 41.5, 47})
	if err := f.SaveAs(p); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = f.Close()

	tb, err := reader.ReadFile(p, reader.Options{SkipRows: 1})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if tb.Index("2007") != 2 || tb.Get(0, "2006") != "41.5" {
		t.Fatalf("unexpected table: %+v", tb)
	}

	grid, err := reader.ReadGridFile(p, "")
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	if len(grid) != 3 || len(grid[0]) != 1 {
		t.Fatalf("unexpected grid: %v", grid)
	}
}

func TestReadFileGeoJSON(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "regions.geojson")
	content := `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"code":"53","nom":"Bretagne"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}]}`
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tb, err := reader.ReadFile(p, reader.Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if tb.Get(0, "nom") != "Bretagne" || tb.Get(0, "geometry") != "Polygon" {
		t.Fatalf("unexpected table: %+v", tb)
	}
}

func TestUnsupported(t *testing.T) {
	if _, err := reader.ReadFile("notes.pdf", reader.Options{}); !errors.Is(err, reader.ErrUnsupported) {
		t.Fatalf("want ErrUnsupported, got %v", err)
	}
}
