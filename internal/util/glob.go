package util

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// GlobPattern is a set of patterns where a leading "!" marks an exclusion
type GlobPattern struct {
	positivePatterns []string
	negativePatterns []string
}

// NewGlobPattern builds a pattern from separate patterns, each kept whole so
// brace alternatives like "{a,b}" survive
func NewGlobPattern(patterns []string) *GlobPattern {
	gp := &GlobPattern{}
	for _, pattern := range patterns {
		switch {
		case pattern == "":
		case strings.HasPrefix(pattern, "!"):
			gp.negativePatterns = append(gp.negativePatterns, strings.TrimPrefix(pattern, "!"))
		default:
			gp.positivePatterns = append(gp.positivePatterns, pattern)
		}
	}
	return gp
}

// Match reports whether name matches any positive pattern (or there are
// none) and no negative pattern
func (gp *GlobPattern) Match(name string) (bool, error) {
	name = filepath.ToSlash(name)

	matchesPositive := len(gp.positivePatterns) == 0
	for _, pattern := range gp.positivePatterns {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
		}
		if matched {
			matchesPositive = true
			break
		}
	}

	if !matchesPositive {
		return false, nil
	}

	for _, pattern := range gp.negativePatterns {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
		}
		if matched {
			return false, nil
		}
	}

	return true, nil
}

// Filter keeps the items whose name matches
func Filter[T any](gp *GlobPattern, items []T, nameOf func(T) string) ([]T, error) {
	var filtered []T

	for _, item := range items {
		matched, err := gp.Match(nameOf(item))
		if err != nil {
			return nil, err
		}
		if matched {
			filtered = append(filtered, item)
		}
	}

	return filtered, nil
}

// HasMeta reports whether token contains pathname expansion characters
func HasMeta(token string) bool {
	return strings.ContainsAny(token, "*?[")
}

// Expand performs pathname expansion of pattern against fsys, resolving
// relative patterns against dir. Matches keep the pattern's directory prefix
// and are sorted. A pattern without matches expands to itself.
func Expand(fsys afero.Fs, dir, pattern string) ([]string, error) {
	if !HasMeta(pattern) {
		return []string{pattern}, nil
	}

	slashed := filepath.ToSlash(pattern)
	base, rest := doublestar.SplitPattern(slashed)

	root := filepath.FromSlash(base)
	if !filepath.IsAbs(root) {
		root = filepath.Join(dir, root)
	}

	iofs := afero.NewIOFS(afero.NewBasePathFs(fsys, root))
	matches, err := doublestar.Glob(iofs, rest)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
	}

	expanded := make([]string, 0, len(matches))
	for _, m := range matches {
		if !visible(rest, m) {
			continue
		}
		switch {
		case strings.HasPrefix(slashed, "./") && base == ".":
			expanded = append(expanded, "./"+m)
		case base == ".":
			expanded = append(expanded, m)
		default:
			expanded = append(expanded, path.Join(base, m))
		}
	}

	if len(expanded) == 0 {
		return []string{pattern}, nil
	}
	sort.Strings(expanded)
	return expanded, nil
}

// visible reports whether every dot-prefixed segment of match was named by a
// dot-prefixed pattern segment. Segments consumed by "**" never are.
func visible(pattern, match string) bool {
	pseg := strings.Split(pattern, "/")
	mseg := strings.Split(match, "/")
	first, last := -1, -1
	for i, seg := range pseg {
		if seg == "**" {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	for i, seg := range mseg {
		if !strings.HasPrefix(seg, ".") {
			continue
		}
		pi := i
		if first >= 0 && i >= first {
			// align from the end once a "**" has been passed
			pi = len(pseg) - (len(mseg) - i)
			if pi <= last {
				return false
			}
		}
		if pi >= len(pseg) || !strings.HasPrefix(pseg[pi], ".") {
			return false
		}
	}
	return true
}
