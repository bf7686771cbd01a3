package workflow

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/Veraticus/phonecdp/internal/config"
)

// ImageExtensions are the file types accepted as captured photos.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff", ".webp", ".heic"}

// IsImage reports whether path has an accepted image extension.
func IsImage(path string) bool {
	return lo.Contains(ImageExtensions, strings.ToLower(filepath.Ext(path)))
}

// Skipped is an input that was not added to the selection.
type Skipped struct {
	Path   string
	Reason string
}

// SelectFiles turns dropped or typed input into a list of image files.
// Input may hold several paths separated by whitespace; quotes and backslash
// escapes are honored the way terminals paste dropped files. Glob patterns
// are expanded. Duplicates keep their first position.
func SelectFiles(input string) ([]string, []Skipped) {
	return SelectPaths(SplitPaths(input))
}

// SelectPaths is SelectFiles for paths that are already split, such as
// command-line arguments.
func SelectPaths(paths []string) ([]string, []Skipped) {
	var files []string
	var skipped []Skipped

	for _, token := range paths {
		path := config.ExpandPath(token)

		matches := []string{path}
		if strings.ContainsAny(path, "*?[") {
			globbed, err := filepath.Glob(path)
			if err != nil || len(globbed) == 0 {
				skipped = append(skipped, Skipped{Path: token, Reason: "no match"})
				continue
			}
			matches = globbed
		}

		for _, m := range matches {
			info, err := os.Stat(m)
			switch {
			case err != nil:
				skipped = append(skipped, Skipped{Path: m, Reason: "not found"})
			case info.IsDir():
				skipped = append(skipped, Skipped{Path: m, Reason: "directory"})
			case !IsImage(m):
				skipped = append(skipped, Skipped{Path: m, Reason: "not an image"})
			default:
				files = append(files, m)
			}
		}
	}

	return lo.Uniq(files), skipped
}

// SplitPaths splits pasted text into paths. A file:// prefix is removed.
func SplitPaths(input string) []string {
	var out []string
	var cur strings.Builder
	var quote rune
	inToken := false
	escaped := false

	flush := func() {
		if inToken {
			out = append(out, strings.TrimPrefix(cur.String(), "file://"))
		}
		cur.Reset()
		inToken = false
	}

	for _, r := range input {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inToken = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	flush()

	return out
}
