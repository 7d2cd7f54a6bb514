package editkit

import "path/filepath"

// DefaultWorkingPrefix is the marker prepended to the persisted file's base
// name to form the working store's file name.
const DefaultWorkingPrefix = "~$"

// WorkingPath derives the working store location for the persisted file at
// path. The working file lives in scratchDir, or next to path if scratchDir
// is empty, and is named prefix + base name of path.
func WorkingPath(scratchDir, prefix, path string) string {
	if prefix == "" {
		prefix = DefaultWorkingPrefix
	}
	dir := scratchDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	return filepath.Join(dir, prefix+filepath.Base(path))
}
