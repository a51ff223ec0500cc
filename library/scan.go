// Package library is a small movie-folder host for the cover-flow view. It reads what is already on
// disk and never fetches metadata.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Movie is one item of the library.
type Movie struct {
	Title  string
	Year   string
	Folder string
	// Cover is the cover image path, empty when the folder has none.
	Cover string
}

var (
	folderNamePattern = regexp.MustCompile(`^(.*?)\s*\((\d{4})\)\s*$`)

	// coverNames are tried in order.
	coverNames = []string{"poster", "cover", "folder", "front", "movie"}

	imageExtensions = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
		".bmp": true, ".tif": true, ".tiff": true, ".tga": true,
	}
)

// ParseFolderName splits a "Title (Year)" folder name. Names without a year keep the whole name as
// the title.
//
// Parameters:
//   - name: the folder base name
//
// Returns:
//   - title: the title text
//   - year: the four-digit year, or empty
func ParseFolderName(name string) (title, year string) {
	if m := folderNamePattern.FindStringSubmatch(name); m != nil && m[1] != "" {
		return m[1], m[2]
	}
	return strings.TrimSpace(name), ""
}

// Scan lists the movie folders directly under root, sorted by title then year.
//
// Parameters:
//   - root: the library directory
//
// Returns:
//   - []Movie: one entry per subfolder
//   - error: an error if root cannot be read
func Scan(root string) ([]Movie, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read library %s: %w", root, err)
	}

	var movies []Movie
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		folder := filepath.Join(root, entry.Name())
		title, year := ParseFolderName(entry.Name())
		movies = append(movies, Movie{
			Title:  title,
			Year:   year,
			Folder: folder,
			Cover:  findCover(folder),
		})
	}

	sort.SliceStable(movies, func(i, j int) bool {
		a, b := strings.ToLower(movies[i].Title), strings.ToLower(movies[j].Title)
		if a != b {
			return a < b
		}
		return movies[i].Year < movies[j].Year
	})
	return movies, nil
}

// findCover returns the first cover image in folder by coverNames order, or empty.
func findCover(folder string) string {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return ""
	}
	byName := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !imageExtensions[ext] {
			continue
		}
		base := strings.ToLower(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		if _, seen := byName[base]; !seen {
			byName[base] = filepath.Join(folder, entry.Name())
		}
	}
	for _, name := range coverNames {
		if path, ok := byName[name]; ok {
			return path
		}
	}
	return ""
}
