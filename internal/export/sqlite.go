// Package export writes the cleaned dashboard tables into a SQLite database.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/hpvdash/internal/dataset"
)

const schema = `
CREATE TABLE IF NOT EXISTS cancers (
	cancer  TEXT NOT NULL,
	metric  TEXT NOT NULL,
	country TEXT NOT NULL,
	asr     REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS coverage (
	year   INTEGER NOT NULL,
	entity TEXT NOT NULL,
	code   TEXT NOT NULL,
	value  REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS introductions (
	year    INTEGER NOT NULL,
	country TEXT NOT NULL,
	is_new  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS france_screening (
	region TEXT NOT NULL,
	code   TEXT NOT NULL,
	metric TEXT NOT NULL,
	value  REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS france_coverage (
	sex    TEXT NOT NULL,
	region TEXT NOT NULL,
	year   INTEGER NOT NULL,
	value  REAL NOT NULL
);
`

var tables = []string{"cancers", "coverage", "introductions", "france_screening", "france_coverage"}

// Counts holds the number of rows written per table.
type Counts map[string]int

// SQLite writes every loaded component of b into the database at path, replacing
// earlier exports. Missing components leave their table empty.
func SQLite(ctx context.Context, path string, b *dataset.Bundle, log *zap.Logger) (Counts, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("export path is required")
	}
	db, err := sql.Open("sqlite", filepath.Clean(path)+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return nil, fmt.Errorf("clear %s: %w", t, err)
		}
	}
	counts := Counts{}
	for _, w := range []struct {
		table string
		fn    func(context.Context, *sql.Tx, *dataset.Bundle) (int, error)
	}{
		{"cancers", writeCancers},
		{"coverage", writeCoverage},
		{"introductions", writeIntroductions},
		{"france_screening", writeScreening},
		{"france_coverage", writeRegionalCoverage},
	} {
		n, err := w.fn(ctx, tx, b)
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", w.table, err)
		}
		counts[w.table] = n
		log.Debug("exported table", zap.String("table", w.table), zap.Int("rows", n))
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return counts, nil
}

func insertAll(ctx context.Context, tx *sql.Tx, query string, rows [][]any) (int, error) {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r...); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func writeCancers(ctx context.Context, tx *sql.Tx, b *dataset.Bundle) (int, error) {
	if b.Cancers == nil {
		return 0, nil
	}
	var rows [][]any
	for _, r := range b.Cancers.Rows {
		rows = append(rows, []any{r.Cancer, r.Type, r.Country, r.ASR})
	}
	return insertAll(ctx, tx, "INSERT INTO cancers (cancer, metric, country, asr) VALUES (?, ?, ?, ?)", rows)
}

func writeCoverage(ctx context.Context, tx *sql.Tx, b *dataset.Bundle) (int, error) {
	if b.Coverage == nil {
		return 0, nil
	}
	var rows [][]any
	for _, r := range b.Coverage.Rows() {
		rows = append(rows, []any{r.Year, r.Entity, r.Code, r.Value})
	}
	return insertAll(ctx, tx, "INSERT INTO coverage (year, entity, code, value) VALUES (?, ?, ?, ?)", rows)
}

func writeIntroductions(ctx context.Context, tx *sql.Tx, b *dataset.Bundle) (int, error) {
	in := b.Introductions
	if in == nil {
		return 0, nil
	}
	var rows [][]any
	for _, y := range in.Years() {
		fresh := map[string]bool{}
		for _, c := range in.NewIn(y) {
			fresh[c] = true
		}
		for _, c := range in.CountriesIn(y) {
			rows = append(rows, []any{y, c, fresh[c]})
		}
	}
	return insertAll(ctx, tx, "INSERT INTO introductions (year, country, is_new) VALUES (?, ?, ?)", rows)
}

func writeScreening(ctx context.Context, tx *sql.Tx, b *dataset.Bundle) (int, error) {
	if b.Screening == nil {
		return 0, nil
	}
	var rows [][]any
	for _, opt := range dataset.ScreeningMetrics {
		m, err := b.Screening.Map(opt.Value)
		if err != nil {
			return 0, err
		}
		for _, r := range m.Regions {
			rows = append(rows, []any{r.Region, r.Code, opt.Value, r.Value})
		}
	}
	return insertAll(ctx, tx, "INSERT INTO france_screening (region, code, metric, value) VALUES (?, ?, ?, ?)", rows)
}

func writeRegionalCoverage(ctx context.Context, tx *sql.Tx, b *dataset.Bundle) (int, error) {
	var rows [][]any
	for _, rc := range []*dataset.RegionalCoverage{b.Girls, b.Boys} {
		if rc == nil {
			continue
		}
		for _, region := range rc.Regions() {
			points, err := rc.Evolution(region)
			if err != nil {
				return 0, err
			}
			for _, p := range points {
				rows = append(rows, []any{rc.Sex, region, p.Year, p.Value})
			}
		}
	}
	return insertAll(ctx, tx, "INSERT INTO france_coverage (sex, region, year, value) VALUES (?, ?, ?, ?)", rows)
}
