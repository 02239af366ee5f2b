package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bdnav/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAllPassesWithPreparedDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDirectories())

	results := RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if Failed(results) {
		t.Fatalf("expected all checks to pass, got %+v", results)
	}
	if !strings.Contains(results[3].Detail, "settings stored") {
		t.Fatalf("unexpected settings detail %q", results[3].Detail)
	}
}

func TestRunAllReportsMissingDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	results := RunAll(context.Background(), cfg)
	if !Failed(results) {
		t.Fatal("expected failures before directories exist")
	}
	if results[0].Passed {
		t.Fatalf("expected state directory failure, got %+v", results[0])
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatalf("expected nil results, got %+v", results)
	}
}

func checkDiscFixture() testsupport.DiscFixture {
	disc := testsupport.NewDisc()
	disc.AddTitle(1, "00001", 30, 180000, 0)
	disc.AddTitle(2, "00002", 10, 90000, 0)
	return disc
}

func TestCheckDisc_OK(t *testing.T) {
	root := testsupport.WriteDisc(t, t.TempDir(), checkDiscFixture())

	result := CheckDisc(context.Background(), root)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result.Detail != "2 titles, 2 clips" {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDisc_TruncatedClip(t *testing.T) {
	root := testsupport.WriteDisc(t, t.TempDir(), checkDiscFixture())
	testsupport.WriteFile(t, filepath.Join(root, "BDMV", "STREAM", "00002.m2ts"), "00002", 100)

	result := CheckDisc(context.Background(), root)
	if result.Passed {
		t.Fatal("expected failure for truncated clip")
	}
	if !strings.Contains(result.Detail, "1 clip(s)") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDisc_MissingClip(t *testing.T) {
	root := testsupport.WriteDisc(t, t.TempDir(), checkDiscFixture())
	if err := os.Remove(filepath.Join(root, "BDMV", "STREAM", "00001.m2ts")); err != nil {
		t.Fatal(err)
	}

	if result := CheckDisc(context.Background(), root); result.Passed {
		t.Fatal("expected failure for missing clip")
	}
}

func TestCheckDisc_NotADisc(t *testing.T) {
	if result := CheckDisc(context.Background(), t.TempDir()); result.Passed {
		t.Fatal("expected failure for empty directory")
	}
}
