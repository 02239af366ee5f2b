package discsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"bdnav/internal/logging"
	"bdnav/internal/playback"
)

const (
	bdmvDir     = "BDMV"
	indexFile   = "index.nav"
	clipInfoDir = "CLIPINF"
	clipInfoExt = ".cnav"
	streamDir   = "STREAM"
	streamExt   = ".m2ts"
)

// Folder is a clip source backed by a disc folder. It is safe for
// concurrent use.
type Folder struct {
	root   string
	logger *slog.Logger

	mu     sync.Mutex
	files  map[string]*os.File
	closed bool
}

// Open resolves path to a disc folder and checks that it holds an index.
func Open(path string, logger *slog.Logger) (*Folder, error) {
	root, err := ResolveRoot(path)
	if err != nil {
		return nil, err
	}
	if !exists(filepath.Join(root, bdmvDir, indexFile)) {
		return nil, fmt.Errorf("%s: no %s/%s found: %w", root, bdmvDir, indexFile, errNoMetadata)
	}
	logger = logging.NewComponentLogger(logger, "discsource")
	logger.Debug("disc folder opened", logging.String("root", root))
	return &Folder{
		root:   root,
		logger: logger,
		files:  map[string]*os.File{},
	}, nil
}

// Root returns the resolved disc folder.
func (f *Folder) Root() string { return f.root }

// Metadata reads the index and every clip info file keyed by clip id.
func (f *Folder) Metadata(ctx context.Context) ([]byte, map[string][]byte, error) {
	index, err := os.ReadFile(filepath.Join(f.root, bdmvDir, indexFile))
	if err != nil {
		return nil, nil, fmt.Errorf("read index: %w", err)
	}
	entries, err := os.ReadDir(filepath.Join(f.root, bdmvDir, clipInfoDir))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("list clip info: %w", err)
	}
	infos := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(name), clipInfoExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(f.root, bdmvDir, clipInfoDir, name))
		if err != nil {
			return nil, nil, fmt.Errorf("read clip info %s: %w", name, err)
		}
		infos[name[:len(name)-len(clipInfoExt)]] = data
	}
	return index, infos, nil
}

// Disc returns the folder's metadata bundled with the folder as its clip
// source.
func (f *Folder) Disc(ctx context.Context) (playback.Disc, error) {
	index, infos, err := f.Metadata(ctx)
	if err != nil {
		return playback.Disc{}, err
	}
	return playback.Disc{Index: index, ClipInfos: infos, Source: f}, nil
}

// Fingerprint hashes the folder's metadata files.
func (f *Folder) Fingerprint(ctx context.Context) (string, error) {
	return Fingerprint(ctx, f.root)
}

func (f *Folder) streamPath(clipID string) (string, error) {
	if clipID == "" || strings.ContainsAny(clipID, `/\`) || strings.Contains(clipID, "..") {
		return "", fmt.Errorf("clip %q: %w", clipID, playback.ErrClipNotFound)
	}
	return filepath.Join(f.root, bdmvDir, streamDir, clipID+streamExt), nil
}

func (f *Folder) file(clipID string) (*os.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, fmt.Errorf("clip %s: source closed: %w", clipID, playback.ErrIO)
	}
	if file, ok := f.files[clipID]; ok {
		return file, nil
	}
	path, err := f.streamPath(clipID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("clip %s: %w", clipID, playback.ErrClipNotFound)
		}
		return nil, fmt.Errorf("open clip %s: %v: %w", clipID, err, playback.ErrIO)
	}
	if err := unix.Fadvise(int(file.Fd()), 0, 0, unix.FADV_SEQUENTIAL); err != nil {
		f.logger.Debug("read-ahead hint rejected",
			logging.String(logging.FieldClip, clipID),
			logging.Error(err),
		)
	}
	f.files[clipID] = file
	return file, nil
}

// ReadRange implements playback.ClipSource.
func (f *Folder) ReadRange(ctx context.Context, clipID string, off int64, p []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	file, err := f.file(clipID)
	if err != nil {
		return 0, err
	}
	n, err := file.ReadAt(p, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("read clip %s at %d: %v: %w", clipID, off, err, playback.ErrIO)
	}
	return n, nil
}

// SizeOf implements playback.ClipSource.
func (f *Folder) SizeOf(_ context.Context, clipID string) (int64, error) {
	path, err := f.streamPath(clipID)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("clip %s: %w", clipID, playback.ErrClipNotFound)
		}
		return 0, fmt.Errorf("stat clip %s: %v: %w", clipID, err, playback.ErrIO)
	}
	return info.Size(), nil
}

// Close closes every open clip file. Later reads fail.
func (f *Folder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	var errs []error
	for id, file := range f.files {
		if err := file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close clip %s: %w", id, err))
		}
	}
	f.files = nil
	f.logger.Debug("disc folder closed", logging.String("root", f.root))
	return errors.Join(errs...)
}
