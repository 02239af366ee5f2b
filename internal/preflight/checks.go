package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"bdnav/internal/bdmv"
	"bdnav/internal/discsource"
	"bdnav/internal/settings"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSettingsStore opens the settings database, creating it when missing,
// and reports how many settings it holds.
func CheckSettingsStore(ctx context.Context, path string) Result {
	const name = "Settings database"

	if dir := filepath.Dir(path); dir != "" {
		if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: directory not writable: %v)", path, err)}
		}
	}
	store, err := settings.OpenSQLite(ctx, path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer store.Close()

	entries, err := store.List(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: list: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d settings stored)", path, len(entries))}
}

// CheckDisc verifies that path resolves to a disc folder whose metadata
// parses and whose clip files are readable at their declared sizes.
func CheckDisc(ctx context.Context, path string) Result {
	name := "Disc " + path

	folder, err := discsource.Open(path, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("error: %v", err)}
	}
	defer folder.Close()

	index, infos, err := folder.Metadata(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("error: %v", err)}
	}
	catalog, err := bdmv.Parse(index, infos)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("error: %v", err)}
	}

	declared := map[string]uint64{}
	for idx := range catalog.TitleCount() {
		detail, err := catalog.Detail(idx)
		if err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("error: %v", err)}
		}
		for _, clip := range detail.Clips {
			declared[clip.ClipID] = clip.SizeBytes()
		}
	}

	var mismatched int
	for id, want := range declared {
		size, err := folder.SizeOf(ctx, id)
		if err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("error: clip %s: %v", id, err)}
		}
		if size != int64(want) {
			mismatched++
		}
	}
	if mismatched > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%d clip(s) differ from their declared size", mismatched)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d titles, %d clips", catalog.TitleCount(), len(declared))}
}
