package discsource

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

var errNoMetadata = errors.New("disc metadata files missing")

// Fingerprint returns a SHA-256 over the disc's metadata files: the index
// and every clip info file, hashed by relative path, size and content in
// sorted order.
func Fingerprint(ctx context.Context, root string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	indexRel := filepath.ToSlash(filepath.Join(bdmvDir, indexFile))
	if !exists(filepath.Join(root, filepath.FromSlash(indexRel))) {
		return "", errNoMetadata
	}
	files := []string{indexRel}

	infoDir := filepath.Join(root, bdmvDir, clipInfoDir)
	if entries, err := os.ReadDir(infoDir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if strings.HasSuffix(strings.ToLower(name), clipInfoExt) {
				files = append(files, filepath.ToSlash(filepath.Join(bdmvDir, clipInfoDir, name)))
			}
		}
	}

	sort.Strings(files)
	return hashFileManifest(root, files)
}

func hashFileManifest(base string, files []string) (string, error) {
	h := sha256.New()
	for _, rel := range files {
		abs := filepath.Join(base, filepath.FromSlash(rel))
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", rel, err)
		}
		if err := appendFileToHash(h, abs, rel, info.Size()); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func appendFileToHash(h hash.Hash, abs, rel string, size int64) error {
	_, _ = h.Write([]byte(rel))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strconv.FormatInt(size, 10)))
	_, _ = h.Write([]byte{0})

	file, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("open %s: %w", rel, err)
	}
	defer file.Close()

	if _, err := io.Copy(h, file); err != nil {
		return fmt.Errorf("hash %s: %w", rel, err)
	}
	_, _ = h.Write([]byte{0})
	return nil
}

func exists(path string) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	}
	return false
}
