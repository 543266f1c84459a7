package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/regiontrim/internal/toy"
	"github.com/samcharles93/regiontrim/internal/trim"
	"github.com/samcharles93/regiontrim/pkg/anvil"
	"github.com/samcharles93/regiontrim/pkg/nbt"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	configFile, logLevel, logFormat, debug = "", "info", "pretty", false
	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).Run(context.Background(), append([]string{"regiontrim"}, args...))
	return stdout.String(), stderr.String(), err
}

func newWorld(t *testing.T) string {
	t.Helper()
	world := t.TempDir()
	dir := filepath.Join(world, "region")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := toy.WriteRegion(filepath.Join(dir, "r.0.0.mca"), map[anvil.Coord]int64{{X: 0, Z: 0}: 50, {X: 3, Z: 7}: 7000}, toy.Flat); err != nil {
		t.Fatalf("write region: %v", err)
	}
	if err := toy.WriteRegion(filepath.Join(dir, "r.0.1.mca"), map[anvil.Coord]int64{{X: 1, Z: 1}: 10}, toy.Legacy); err != nil {
		t.Fatalf("write region: %v", err)
	}
	return world
}

func TestTrimCommand(t *testing.T) {
	world := newWorld(t)
	report := filepath.Join(t.TempDir(), "report.json")

	out, _, err := runApp(t, "--log-format", "json", "trim", "--world", world, "-t", "6000", "-j", "2", "--report", report)
	if err != nil {
		t.Fatalf("trim failed: %v", err)
	}
	if !strings.HasPrefix(out, "Trimmed "+world+" from ") {
		t.Fatalf("summary mismatch: got %q", out)
	}
	if _, err := os.Stat(filepath.Join(world, "region", "r.0.1.mca")); !os.IsNotExist(err) {
		t.Fatalf("expected r.0.1.mca to be deleted, stat err %v", err)
	}

	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var rep trim.Report
	if err := json.Unmarshal(b, &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.MinInhabitedTime != 6000 || rep.Workers != 2 || len(rep.Dirs) != 1 {
		t.Fatalf("report mismatch: got %+v", rep)
	}
	if rep.Dirs[0].Replaced != 1 || rep.Dirs[0].Deleted != 1 {
		t.Fatalf("dir result mismatch: got %+v", rep.Dirs[0])
	}
}

func TestTrimCommandDryRunPositionalWorld(t *testing.T) {
	world := newWorld(t)
	out, _, err := runApp(t, "trim", "--dry-run", "-t", "6000", world)
	if err != nil {
		t.Fatalf("trim failed: %v", err)
	}
	if !strings.HasPrefix(out, "Would trim ") {
		t.Fatalf("summary mismatch: got %q", out)
	}
	if _, err := os.Stat(filepath.Join(world, "region", "r.0.1.mca")); err != nil {
		t.Fatalf("dry run touched files: %v", err)
	}
}

func TestTrimCommandRequiresWorld(t *testing.T) {
	_, _, err := runApp(t, "trim")
	if err == nil || !strings.Contains(err.Error(), "world directory is required") {
		t.Fatalf("expected missing world error, got %v", err)
	}
	if code := exitCode(err); code != 1 {
		t.Fatalf("exit code mismatch: got %d want 1", code)
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(cli.Exit("bad usage", 2)); got != 2 {
		t.Fatalf("exit code mismatch: got %d want 2", got)
	}
	if got := exitCode(errors.New("plain")); got != 1 {
		t.Fatalf("exit code mismatch: got %d want 1", got)
	}
}

func TestTrimCommandUsesConfig(t *testing.T) {
	world := newWorld(t)
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	body := "world: " + world + "\nmin_inhabited_time: 100000\nworkers: 1\nlog_level: warn\n"
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, stderr, err := runApp(t, "--config", cfg, "trim")
	if err != nil {
		t.Fatalf("trim failed: %v", err)
	}
	if strings.Contains(stderr, "INF") {
		t.Fatalf("expected log_level warn from config, got %q", stderr)
	}
	entries, err := os.ReadDir(filepath.Join(world, "region"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected every region deleted at threshold 100000, got %d files", len(entries))
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	if _, _, err := runApp(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "version"); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestExtractCommand(t *testing.T) {
	world := newWorld(t)
	region := filepath.Join(world, "region", "r.0.0.mca")
	outFile := filepath.Join(t.TempDir(), "chunk.dat")

	if _, _, err := runApp(t, "extract", "--region", region, "--x", "3", "--z", "7", "--out", outFile); err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	got, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if want := toy.ChunkDoc(3, 7, 7000, toy.Flat); !bytes.Equal(got, want) {
		t.Fatalf("extracted document mismatch: got %d bytes want %d", len(got), len(want))
	}

	rawFile := filepath.Join(t.TempDir(), "raw.dat")
	if _, _, err := runApp(t, "extract", "-r", region, "--x", "3", "--z", "7", "-o", rawFile, "--raw"); err != nil {
		t.Fatalf("extract --raw failed: %v", err)
	}
	raw, err := os.ReadFile(rawFile)
	if err != nil {
		t.Fatalf("read raw output: %v", err)
	}
	if len(raw) == 0 || raw[0] != 0x78 {
		t.Fatalf("expected a zlib stream, got % x", raw[:min(len(raw), 4)])
	}
}

func TestExtractDefaultOutput(t *testing.T) {
	world := newWorld(t)
	region := filepath.Join(world, "region", "r.0.0.mca")
	t.Chdir(t.TempDir())

	if _, _, err := runApp(t, "extract", "--region", region, "--x", "0", "--z", "0"); err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if _, err := os.Stat("c.0.0.dat"); err != nil {
		t.Fatalf("default output missing: %v", err)
	}
}

func TestExtractErrors(t *testing.T) {
	world := newWorld(t)
	region := filepath.Join(world, "region", "r.0.0.mca")

	_, _, err := runApp(t, "extract", "--region", region, "--x", "5", "--z", "5", "--out", filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, anvil.ErrChunkAbsent) {
		t.Fatalf("expected absent chunk error, got %v", err)
	}
	if _, _, err := runApp(t, "extract", "--region", region, "--x", "32", "--z", "0"); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestInspectRegion(t *testing.T) {
	world := newWorld(t)
	region := filepath.Join(world, "region", "r.0.0.mca")

	out, _, err := runApp(t, "inspect", "--region", region)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if !strings.Contains(out, "2 chunks") {
		t.Fatalf("inspect output mismatch: %q", out)
	}

	out, _, err = runApp(t, "inspect", "--region", region, "--json")
	if err != nil {
		t.Fatalf("inspect --json failed: %v", err)
	}
	var list struct {
		Chunks []struct {
			X int `json:"x"`
			Z int `json:"z"`
		} `json:"chunks"`
	}
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode inspect json: %v", err)
	}
	if len(list.Chunks) != 2 || list.Chunks[0].X != 0 || list.Chunks[1].X != 3 {
		t.Fatalf("chunk list mismatch: %+v", list.Chunks)
	}
}

func TestInspectChunk(t *testing.T) {
	world := newWorld(t)
	region := filepath.Join(world, "region", "r.0.1.mca")

	out, _, err := runApp(t, "inspect", "--region", region, "--x", "1", "--z", "1")
	if err != nil {
		t.Fatalf("inspect chunk failed: %v", err)
	}
	root, err := nbt.DecodeBytes(toy.ChunkDoc(1, 1, 10, toy.Legacy))
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	if out != nbt.Sprint(root) {
		t.Fatalf("formatted document mismatch:\n%s", out)
	}

	out, _, err = runApp(t, "inspect", "--region", region, "--x", "1", "--z", "1", "--json")
	if err != nil {
		t.Fatalf("inspect chunk --json failed: %v", err)
	}
	if !strings.Contains(out, `"InhabitedTime"`) {
		t.Fatalf("json document mismatch: %s", out)
	}

	_, _, err = runApp(t, "inspect", "--region", region, "--x", "1")
	if err == nil || !strings.Contains(err.Error(), "must be given together") {
		t.Fatalf("expected paired coordinate error, got %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runApp(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "version:") {
		t.Fatalf("version output mismatch: %q", out)
	}
}

func TestUnknownLogLevel(t *testing.T) {
	if _, _, err := runApp(t, "--log-level", "loud", "version"); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestExtractUncompressedChunk(t *testing.T) {
	doc := toy.ChunkDoc(2, 2, 99, toy.Flat)
	b, err := toy.RawChunk(2, 2, doc)
	if err != nil {
		t.Fatalf("build region: %v", err)
	}
	b[anvil.HeaderSize+4] = anvil.CompressionUncompressed
	region := filepath.Join(t.TempDir(), "r.0.0.mca")
	if err := os.WriteFile(region, b, 0o644); err != nil {
		t.Fatalf("write region: %v", err)
	}
	outFile := filepath.Join(t.TempDir(), "chunk.dat")

	if _, _, err := runApp(t, "extract", "--region", region, "--x", "2", "--z", "2", "--out", outFile); err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	got, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, doc) {
		t.Fatalf("extracted document mismatch: got %d bytes want %d", len(got), len(doc))
	}
}
