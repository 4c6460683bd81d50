package swiftscan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File is one candidate Swift source file under the scan root.
type File struct {
	// AbsPath is the filesystem path used to read the file.
	AbsPath string
	// RelPath is the slash-separated path relative to the scan root.
	// It is the path recorded in chunk metadata.
	RelPath string
}

// Scan walks root and returns every .swift file, skipping the vendor/build
// denylist and any directory whose name starts with a dot. Results are
// sorted lexicographically by relative path so repeated scans of the same
// tree are deterministic.
func Scan(root string) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scanning %s: not a directory", root)
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtree: skip it, never abort the scan.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if ExcludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), SwiftSuffix) {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		files = append(files, File{
			AbsPath: path,
			RelPath: filepath.ToSlash(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// ReadText reads a scanned file. Unreadable files degrade to empty content
// rather than failing the ingestion run.
func ReadText(f File) string {
	data, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return ""
	}
	return string(data)
}
