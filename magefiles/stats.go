//go:build mage

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// pkgStats counts the Go lines of one package directory.
type pkgStats struct {
	Package string `json:"package"`
	Prod    int    `json:"prod"`
	Test    int    `json:"test"`
}

// Stats prints one JSON record per package with its production and test line
// counts, followed by a record for the whole module.
func Stats() error {
	byDir := map[string]*pkgStats{}
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && skipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return err
		}
		dir := filepath.ToSlash(filepath.Dir(path))
		s, ok := byDir[dir]
		if !ok {
			s = &pkgStats{Package: dir}
			byDir[dir] = s
		}
		if strings.HasSuffix(path, "_test.go") {
			s.Test += n
		} else {
			s.Prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	total := pkgStats{Package: "all"}
	enc := json.NewEncoder(os.Stdout)
	for _, dir := range slices.Sorted(maps.Keys(byDir)) {
		s := byDir[dir]
		total.Prod += s.Prod
		total.Test += s.Test
		if err := enc.Encode(s); err != nil {
			return err
		}
	}
	return enc.Encode(total)
}

// skipDir reports whether a directory holds no module code: hidden and
// underscore directories, build output and the mage targets themselves.
func skipDir(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."), strings.HasPrefix(base, "_"):
		return true
	case path == binaryDir, path == "vendor", path == "magefiles":
		return true
	}
	return false
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n++
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("counting %s: %w", path, err)
	}
	return n, nil
}
