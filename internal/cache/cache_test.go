package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/hpvdash/internal/catalog"
)

type fakeGetter struct {
	calls int32
	fail  string
}

func (f *fakeGetter) Get(_ context.Context, url string) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.fail != "" && strings.Contains(url, f.fail) {
		return nil, errors.New("boom")
	}
	return []byte("body of " + url), nil
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m, err := Open(dir)
	require.NoError(t, err)
	e, err := m.Put("introductions", "http://x/intro.csv", "introduction_hpv_vaccine.csv", []byte("Entity,Year\n"))
	require.NoError(t, err)
	require.NoError(t, m.Save())

	again, err := Open(dir)
	require.NoError(t, err)
	got, ok := again.Get("introductions")
	require.True(t, ok)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, int64(12), got.Size)
	assert.True(t, again.Has("introductions"))
	assert.NoError(t, again.Verify("introductions"))

	// refetch keeps the id
	e2, err := again.Put("introductions", "http://x/intro.csv", "introduction_hpv_vaccine.csv", []byte("changed"))
	require.NoError(t, err)
	assert.Equal(t, e.ID, e2.ID)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "introduction_hpv_vaccine.csv"), []byte("tampered"), 0o644))
	assert.Error(t, again.Verify("introductions"))
}

func TestSync(t *testing.T) {
	dir := t.TempDir()
	m, err := Open(dir)
	require.NoError(t, err)
	cat := catalog.New("http://mirror", "http://geo/regions.geojson", nil)
	ds, err := cat.Select([]string{"cancer-*", "france-regions"})
	require.NoError(t, err)

	g := &fakeGetter{fail: "2_anus_mortalite"}
	res, err := Sync(context.Background(), m, cat, g, ds, SyncOptions{Workers: 3})
	require.NoError(t, err)
	require.Len(t, res, 17)

	var failed []string
	for _, r := range res {
		if r.Err != nil {
			failed = append(failed, r.Dataset)
		}
	}
	assert.Equal(t, []string{"cancer-anus-mortalite"}, failed)
	assert.FileExists(t, filepath.Join(dir, "regions.geojson"))
	assert.FileExists(t, filepath.Join(dir, "manifest.json"))

	// second run skips cached datasets
	g2 := &fakeGetter{}
	res, err = Sync(context.Background(), m, cat, g2, ds, SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&g2.calls))
	skipped := 0
	for _, r := range res {
		if r.Skipped {
			skipped++
		}
	}
	assert.Equal(t, 16, skipped)
}
