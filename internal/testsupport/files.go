package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes size patterned bytes of clip id to path, creating parent
// directories.
func WriteFile(t testing.TB, path, clipID string, size int64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	var off int64
	for off < size {
		n := min(int64(chunkSize), size-off)
		for i := range n {
			buf[i] = PatternByte(clipID, off+i)
		}
		if _, err := f.Write(buf[:n]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		off += n
	}
}

// WriteDisc lays disc out as a disc folder under root: BDMV/index.nav,
// BDMV/CLIPINF/<id>.cnav and BDMV/STREAM/<id>.m2ts with patterned payloads.
// It returns root.
func WriteDisc(t testing.TB, root string, disc DiscFixture) string {
	t.Helper()

	bdmvDir := filepath.Join(root, "BDMV")
	for _, dir := range []string{"CLIPINF", "STREAM"} {
		if err := os.MkdirAll(filepath.Join(bdmvDir, dir), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(filepath.Join(bdmvDir, "index.nav"), disc.Index(), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	for id, info := range disc.ClipInfos() {
		if err := os.WriteFile(filepath.Join(bdmvDir, "CLIPINF", id+".cnav"), info, 0o644); err != nil {
			t.Fatalf("write clip info %s: %v", id, err)
		}
		WriteFile(t, filepath.Join(bdmvDir, "STREAM", id+".m2ts"), id, disc.ClipSize(id))
	}
	return root
}
