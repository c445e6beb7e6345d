package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fallbackStem names the output of a source that has no extension.
const fallbackStem = "converted"

// Discover lists the regular files directly inside dir whose extension equals
// inputType (case-sensitive, no dot), or all of them for MatchAll. Symlinks
// are followed; directories and other special files are never returned.
// A matching entry that cannot be stat'ed (a dangling symlink, a permission
// error) is still returned so the caller records it as a failed file.
// Paths come back sorted by file name.
func Discover(dir, inputType string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if inputType != MatchAll {
			if _, ext, ok := splitName(entry.Name()); !ok || ext != inputType {
				continue
			}
		}
		path := filepath.Join(dir, entry.Name())
		if info, err := os.Stat(path); err == nil && !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// splitName splits a file name at its last dot. A name whose only dot is the
// leading one (".profile") has no extension.
func splitName(name string) (stem, ext string, ok bool) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return name, "", false
	}
	return name[:i], name[i+1:], true
}

// DestinationPath builds outputDir/<stem>.<outputType> for a source path.
// Extensionless sources get the stem "converted".
func DestinationPath(outputDir, sourcePath, outputType string) string {
	stem, _, ok := splitName(filepath.Base(sourcePath))
	if !ok || stem == "" {
		stem = fallbackStem
	}
	return filepath.Join(outputDir, fmt.Sprintf("%s.%s", stem, outputType))
}
