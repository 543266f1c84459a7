package api

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/regiontrim/internal/compress"
	"github.com/samcharles93/regiontrim/internal/toy"
	"github.com/samcharles93/regiontrim/pkg/anvil"
	"github.com/samcharles93/regiontrim/pkg/nbt"
)

func newTestWorld(t *testing.T) string {
	t.Helper()
	world := t.TempDir()
	region := filepath.Join(world, "region")
	if err := os.MkdirAll(region, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	chunks := map[anvil.Coord]int64{{X: 1, Z: 2}: 1234, {X: 31, Z: 0}: 5}
	if err := toy.WriteRegion(filepath.Join(region, "r.0.0.mca"), chunks, toy.Flat); err != nil {
		t.Fatalf("write region: %v", err)
	}
	if err := toy.WriteRegion(filepath.Join(region, "r.-1.0.mca"), nil, toy.Flat); err != nil {
		t.Fatalf("write region: %v", err)
	}
	bad, err := toy.RawChunk(0, 0, []byte("junk"))
	if err != nil {
		t.Fatalf("raw chunk: %v", err)
	}
	if err := os.WriteFile(filepath.Join(region, "r.9.9.mca"), bad, 0o644); err != nil {
		t.Fatalf("write bad region: %v", err)
	}
	return world
}

func newTestEcho(t *testing.T, world string) *echo.Echo {
	t.Helper()
	e := echo.New()
	NewServer(Config{World: world}).Register(e)
	return e
}

func get(t *testing.T, e *echo.Echo, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v body=%s", path, err, rec.Body.String())
		}
	}
	return rec
}

func TestDimensions(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, newTestWorld(t))
	var got DimensionList
	rec := get(t, e, "/api/dimensions", &got)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if len(got.Dimensions) != 3 {
		t.Fatalf("dimension count mismatch: got %d want 3", len(got.Dimensions))
	}
	if d := got.Dimensions[0]; !d.Present || d.Regions != 3 || d.Name != "overworld" {
		t.Fatalf("overworld mismatch: got %+v", d)
	}
	if d := got.Dimensions[1]; d.Present || d.Path != "DIM1/region" {
		t.Fatalf("end mismatch: got %+v", d)
	}
}

func TestRegions(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, newTestWorld(t))
	var got RegionList
	rec := get(t, e, "/api/regions", &got)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var names []string
	for _, r := range got.Regions {
		names = append(names, r.Name)
	}
	if strings.Join(names, ",") != "r.-1.0.mca,r.0.0.mca,r.9.9.mca" {
		t.Fatalf("region order mismatch: got %v", names)
	}
	if strings.Contains(rec.Body.String(), "/region/") {
		t.Fatalf("absolute paths leaked: %s", rec.Body.String())
	}

	if rec := get(t, e, "/api/regions?dim=the_end", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing dimension status: got %d want 404", rec.Code)
	}
	if rec := get(t, e, "/api/regions?dim=mars", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown dimension status: got %d want 400", rec.Code)
	}
}

func TestChunks(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, newTestWorld(t))
	var got ChunkList
	rec := get(t, e, "/api/regions/r.0.0.mca/chunks", &got)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if len(got.Chunks) != 2 {
		t.Fatalf("chunk count mismatch: got %d want 2", len(got.Chunks))
	}
	first := got.Chunks[0]
	if first.X != 31 || first.Z != 0 || first.Sector != 2 || first.Compression != anvil.CompressionZlib || first.Timestamp != anvil.TimestampMarker {
		t.Fatalf("first chunk mismatch: got %+v", first)
	}
	if first.Length == 0 {
		t.Fatal("expected a non-zero payload length")
	}

	var empty ChunkList
	if rec := get(t, e, "/api/regions/r.-1.0.mca/chunks", &empty); rec.Code != http.StatusOK || len(empty.Chunks) != 0 {
		t.Fatalf("empty region mismatch: status %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestChunkDocument(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, newTestWorld(t))
	rec := get(t, e, "/api/regions/r.0.0.mca/chunks/1/2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{`"x":1`, `"type":"compound"`, `"name":"InhabitedTime","value":1234`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in body, got %s", want, body)
		}
	}
}

func TestInhabited(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, newTestWorld(t))
	var got InhabitedTime
	rec := get(t, e, "/api/regions/r.0.0.mca/chunks/31/0/inhabited", &got)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if got != (InhabitedTime{X: 31, Z: 0, InhabitedTime: 5}) {
		t.Fatalf("inhabited mismatch: got %+v", got)
	}
}

func TestChunkErrors(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, newTestWorld(t))
	tests := []struct {
		path string
		want int
	}{
		{"/api/regions/r.0.0.mca/chunks/5/5", http.StatusNotFound},
		{"/api/regions/r.0.0.mca/chunks/32/0", http.StatusBadRequest},
		{"/api/regions/r.0.0.mca/chunks/-1/0", http.StatusBadRequest},
		{"/api/regions/r.0.0.mca/chunks/a/0/inhabited", http.StatusBadRequest},
		{"/api/regions/r.7.7.mca/chunks/0/0", http.StatusNotFound},
		{"/api/regions/level.dat/chunks", http.StatusBadRequest},
		{"/api/regions/r.9.9.mca/chunks/0/0", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := get(t, e, tt.path, nil)
		if rec.Code != tt.want {
			t.Fatalf("%s status: got %d want %d body=%s", tt.path, rec.Code, tt.want, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"error"`) {
			t.Fatalf("%s: expected error body, got %s", tt.path, rec.Body.String())
		}
	}
}

func TestRegionStoreReloadsAndEvicts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "r.0.0.mca")
	b := filepath.Join(dir, "r.0.1.mca")
	for _, p := range []string{a, b} {
		if err := toy.WriteRegion(p, map[anvil.Coord]int64{{X: 0, Z: 0}: 1}, toy.Flat); err != nil {
			t.Fatalf("write region: %v", err)
		}
	}

	s := NewRegionStore(1, anvil.OverrunLegacy)
	ra, err := s.Get(a)
	if err != nil {
		t.Fatalf("get a: %v", err)
	}
	again, err := s.Get(a)
	if err != nil || again != ra {
		t.Fatalf("expected cached region, got %p vs %p (err %v)", again, ra, err)
	}
	if _, err := s.Get(b); err != nil {
		t.Fatalf("get b: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("store size mismatch: got %d want 1", s.Len())
	}

	if err := toy.WriteRegion(b, map[anvil.Coord]int64{{X: 0, Z: 0}: 1, {X: 1, Z: 0}: 2}, toy.Flat); err != nil {
		t.Fatalf("rewrite region: %v", err)
	}
	rb, err := s.Get(b)
	if err != nil {
		t.Fatalf("get b after rewrite: %v", err)
	}
	if n := len(rb.Present()); n != 2 {
		t.Fatalf("expected reloaded region with 2 chunks, got %d", n)
	}

	if _, err := s.Get(filepath.Join(dir, "missing.mca")); !os.IsNotExist(err) {
		t.Fatalf("missing region error mismatch: got %v", err)
	}
}

func TestFailureStatus(t *testing.T) {
	tests := []struct {
		err  error
		code int
		typ  string
	}{
		{badParam("x", "99", "out of range"), http.StatusBadRequest, "invalid_request_error"},
		{fmt.Errorf("open: %w", fs.ErrNotExist), http.StatusNotFound, "not_found_error"},
		{anvil.ErrChunkAbsent, http.StatusNotFound, "not_found_error"},
		{anvil.ErrChunkOverrun, http.StatusUnprocessableEntity, "invalid_region_error"},
		{fmt.Errorf("decode: %w", nbt.ErrTruncatedDocument), http.StatusUnprocessableEntity, "invalid_chunk_error"},
		{fmt.Errorf("decode: %w", nbt.ErrDocumentTooDeep), http.StatusUnprocessableEntity, "invalid_chunk_error"},
		{compress.ErrUnsupportedType, http.StatusUnprocessableEntity, "invalid_chunk_error"},
		{errors.New("boom"), http.StatusInternalServerError, "server_error"},
	}
	for _, tt := range tests {
		code, typ := failureStatus(tt.err)
		if code != tt.code || typ != tt.typ {
			t.Errorf("failureStatus(%v) = %d %s, want %d %s", tt.err, code, typ, tt.code, tt.typ)
		}
	}
	if got := badParam("dim", "moon", "unknown dimension").Error(); got != `dim "moon": unknown dimension` {
		t.Errorf("param error text: got %q", got)
	}
}
