package discsource

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bdnav/internal/logging"
	"bdnav/internal/playback"
	"bdnav/internal/testsupport"
)

func folderDisc() testsupport.DiscFixture {
	disc := testsupport.NewDisc()
	disc.AddTitle(1, "00001", 40, 180000, 0, 90000)
	disc.AddTitle(2, "00002", 20, 90000)
	return disc
}

func TestFolderServesPlayback(t *testing.T) {
	fixture := folderDisc()
	root := testsupport.WriteDisc(t, t.TempDir(), fixture)

	folder, err := Open(root, logging.NewNop())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	index, infos, err := folder.Metadata(context.Background())
	if err != nil {
		t.Fatalf("Metadata returned error: %v", err)
	}
	if !bytes.Equal(index, fixture.Index()) {
		t.Fatal("index bytes differ from fixture")
	}
	if len(infos) != 2 || infos["00001"] == nil || infos["00002"] == nil {
		t.Fatalf("unexpected clip infos %v", infos)
	}

	disc, err := folder.Disc(context.Background())
	if err != nil {
		t.Fatalf("Disc returned error: %v", err)
	}
	session, err := playback.Open(context.Background(), disc, playback.Options{Logger: logging.NewNop()})
	if err != nil {
		t.Fatalf("playback.Open returned error: %v", err)
	}
	if err := session.PlayTitle(context.Background(), 0); err != nil {
		t.Fatalf("PlayTitle returned error: %v", err)
	}
	data, err := io.ReadAll(session.Stream())
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if !bytes.Equal(data, testsupport.Pattern("00001", fixture.ClipSize("00001"))) {
		t.Fatalf("stream returned %d unexpected bytes", len(data))
	}

	if err := session.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if _, err := folder.ReadRange(context.Background(), "00001", 0, make([]byte, 10)); !errors.Is(err, playback.ErrIO) {
		t.Fatalf("expected ErrIO after close, got %v", err)
	}
}

func TestFolderClipErrors(t *testing.T) {
	root := testsupport.WriteDisc(t, t.TempDir(), folderDisc())
	folder, err := Open(root, nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer folder.Close()
	ctx := context.Background()

	if size, err := folder.SizeOf(ctx, "00002"); err != nil || size != 20*192 {
		t.Fatalf("SizeOf = %d, %v", size, err)
	}
	if _, err := folder.SizeOf(ctx, "00009"); !errors.Is(err, playback.ErrClipNotFound) {
		t.Fatalf("expected ErrClipNotFound, got %v", err)
	}
	if _, err := folder.ReadRange(ctx, "../index", 0, make([]byte, 4)); !errors.Is(err, playback.ErrClipNotFound) {
		t.Fatalf("expected ErrClipNotFound for traversal, got %v", err)
	}

	buf := make([]byte, 100)
	n, err := folder.ReadRange(ctx, "00002", 20*192-40, buf)
	if err != nil || n != 40 {
		t.Fatalf("tail read = %d, %v", n, err)
	}
	if buf[0] != testsupport.PatternByte("00002", 20*192-40) {
		t.Fatal("tail read returned wrong bytes")
	}
}

func TestOpenRequiresIndex(t *testing.T) {
	if _, err := Open(t.TempDir(), nil); !errors.Is(err, errNoMetadata) {
		t.Fatalf("expected errNoMetadata, got %v", err)
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestFingerprintTracksMetadata(t *testing.T) {
	ctx := context.Background()
	root := testsupport.WriteDisc(t, t.TempDir(), folderDisc())
	first, err := Fingerprint(ctx, root)
	if err != nil {
		t.Fatalf("Fingerprint returned error: %v", err)
	}
	if len(first) != 64 {
		t.Fatalf("fingerprint %q is not hex sha-256", first)
	}
	again, _ := Fingerprint(ctx, root)
	if again != first {
		t.Fatal("fingerprint not deterministic")
	}

	other := folderDisc()
	other.AddTitle(3, "00003", 10, 90000)
	otherRoot := testsupport.WriteDisc(t, t.TempDir(), other)
	second, err := Fingerprint(ctx, otherRoot)
	if err != nil {
		t.Fatalf("Fingerprint returned error: %v", err)
	}
	if second == first {
		t.Fatal("different discs share a fingerprint")
	}

	if _, err := Fingerprint(ctx, t.TempDir()); !errors.Is(err, errNoMetadata) {
		t.Fatalf("expected errNoMetadata, got %v", err)
	}
}

func TestResolveRootFollowsMounts(t *testing.T) {
	dir := t.TempDir()
	device := filepath.Join(dir, "sr0")
	if err := os.WriteFile(device, nil, 0o644); err != nil {
		t.Fatalf("write device: %v", err)
	}
	mounts := filepath.Join(dir, "mounts")
	table := "proc /proc proc rw 0 0\n" + device + " /media/My\\040Disc udf ro 0 0\n"
	if err := os.WriteFile(mounts, []byte(table), 0o644); err != nil {
		t.Fatalf("write mounts: %v", err)
	}
	original := mountsPath
	mountsPath = mounts
	defer func() { mountsPath = original }()

	got, err := ResolveRoot(device)
	if err != nil {
		t.Fatalf("ResolveRoot returned error: %v", err)
	}
	if got != "/media/My Disc" {
		t.Fatalf("ResolveRoot = %q", got)
	}

	if got, err := ResolveRoot(dir); err != nil || got != dir {
		t.Fatalf("directory resolved to %q, %v", got, err)
	}

	unmounted := filepath.Join(dir, "sr1")
	if err := os.WriteFile(unmounted, nil, 0o644); err != nil {
		t.Fatalf("write device: %v", err)
	}
	if _, err := ResolveRoot(unmounted); !errors.Is(err, errMountNotFound) {
		t.Fatalf("expected errMountNotFound, got %v", err)
	}
}

func TestSameDevice(t *testing.T) {
	if !sameDevice("/dev/sr0", "/dev/disk/by-id/../../sr0") {
		t.Fatal("expected device basenames to match")
	}
	if sameDevice("/dev/sr0", "/dev/sr1") {
		t.Fatal("different devices matched")
	}
	if got := decodeMountField(`/media/a\040b`); !strings.Contains(got, " ") {
		t.Fatalf("decodeMountField = %q", got)
	}
}
