package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun checks if the current process is running via `go run` or `go test`.
// It relies on the fact that these commands build binaries in temporary
// directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	tempDir := os.TempDir()
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(tempDir)) {
		return true
	}

	if strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe") {
		return true
	}

	return false
}

// ResolveStorePath determines the actual location of the local database file.
// If forceTemp is set, the path is re-rooted into a temporary directory to
// avoid polluting the user's workspace during dev runs.
func ResolveStorePath(userPath string, forceTemp bool) string {
	if userPath == "" {
		userPath = "glosa.db"
	}
	if !forceTemp {
		return userPath
	}

	// If the path is already inside the system temp directory we assume it is
	// intentional (e.g. created by t.TempDir()) and keep it.
	cleanUserPath := filepath.Clean(userPath)
	tempRoot := os.TempDir()

	rel, err := filepath.Rel(tempRoot, cleanUserPath)
	if err == nil && !strings.HasPrefix(rel, "..") {
		return cleanUserPath
	}

	name := filepath.Base(cleanUserPath)
	if name == "." || name == string(os.PathSeparator) {
		name = "glosa.db"
	}
	return filepath.Join(tempRoot, "glosa-dev", name)
}
