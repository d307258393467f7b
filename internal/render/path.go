package render

import (
	"os"
	"path/filepath"
	"strings"
)

// NicePath picks the shortest of three renderings of a path: absolute,
// home-relative, and cwd-relative. The cwd-relative form is rejected when
// it would climb above the cwd. Ties keep the earlier candidate.
func NicePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	candidates := []string{abs}

	if home, err := os.UserHomeDir(); err == nil {
		if rel, err := filepath.Rel(home, abs); err == nil {
			candidates = append(candidates, filepath.Join("~", rel))
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, abs); err == nil && !strings.HasPrefix(rel, "..") {
			candidates = append(candidates, "."+string(filepath.Separator)+rel)
		}
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c) < len(best) {
			best = c
		}
	}
	return best
}

// AbbreviatePath shortens every directory component except the final file
// name to the shortest prefix that stays somewhat unique among its sibling
// directory entries: the common prefix of the siblings plus one character.
// The ~ and . components are left alone.
func AbbreviatePath(path string) string {
	components := splitAll(path)
	if len(components) == 0 {
		return path
	}

	abbreviated := make([]string, 0, len(components))
	pathSoFar := ""
	for _, component := range components[:len(components)-1] {
		pathSoFar = expandUser(filepath.Join(pathSoFar, component))

		if component == "~" || component == "." {
			abbreviated = append(abbreviated, component)
			continue
		}

		entries, err := os.ReadDir(filepath.Dir(pathSoFar))
		if err != nil {
			abbreviated = append(abbreviated, component)
			continue
		}

		common := ""
		if len(entries) > 1 {
			names := make([]string, len(entries))
			for i, e := range entries {
				names[i] = e.Name()
			}
			common = commonPrefix(names)
		}

		// Common prefix plus one character gives a degree of uniqueness.
		abbreviated = append(abbreviated, shorten(component, len(common)+1))
	}

	abbreviated = append(abbreviated, components[len(components)-1])
	return filepath.Join(abbreviated...)
}

func splitAll(path string) []string {
	var parts []string
	for {
		dir, file := filepath.Split(path)
		if file != "" {
			parts = append([]string{file}, parts...)
		}
		if dir == "" {
			return parts
		}
		if dir == string(filepath.Separator) {
			return append([]string{dir}, parts...)
		}
		path = strings.TrimSuffix(dir, string(filepath.Separator))
	}
}

func expandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func commonPrefix(names []string) string {
	if len(names) == 0 {
		return ""
	}
	prefix := names[0]
	for _, name := range names[1:] {
		for !strings.HasPrefix(name, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
