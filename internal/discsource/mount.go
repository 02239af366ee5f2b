package discsource

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var errMountNotFound = errors.New("device mount point not found")

// mountsPath is the mount table consulted for device paths. Tests replace it.
var mountsPath = "/proc/mounts"

// ResolveRoot returns the disc folder for path. Directories are used as
// given; any other path is treated as a block device and resolved to its
// mount point.
func ResolveRoot(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("no disc path specified")
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat disc path: %w", err)
	}
	if info.IsDir() {
		return filepath.Clean(path), nil
	}
	mountPoint, err := resolveMountPoint(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return mountPoint, nil
}

func resolveMountPoint(device string) (string, error) {
	f, err := os.Open(mountsPath)
	if err != nil {
		return "", fmt.Errorf("open mounts: %w", err)
	}
	defer f.Close()

	requested, _ := filepath.EvalSymlinks(device)
	if requested == "" {
		requested = device
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		mountDevice := decodeMountField(fields[0])
		mountPath := decodeMountField(fields[1])

		canonical, _ := filepath.EvalSymlinks(mountDevice)
		if canonical == "" {
			canonical = mountDevice
		}

		if sameDevice(requested, canonical) {
			return mountPath, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan mounts: %w", err)
	}
	return "", errMountNotFound
}

func decodeMountField(field string) string {
	replacer := strings.NewReplacer(
		"\\040", " ",
		"\\011", "\t",
		"\\012", "\n",
		"\\134", "\\",
	)
	return replacer.Replace(field)
}

func sameDevice(a, b string) bool {
	if a == b {
		return true
	}
	if strings.HasPrefix(a, "/dev/") && strings.HasPrefix(b, "/dev/") {
		return filepath.Base(a) == filepath.Base(b)
	}
	return false
}
