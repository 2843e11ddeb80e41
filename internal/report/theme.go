// Package report renders game state as terminal text. The simulation never
// depends on it; a Renderer is picked by configured theme.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type Theme string

const (
	Modern  Theme = "modern"
	Classic Theme = "classic"
)

var themes = []Theme{Modern, Classic}

func Themes() []string {
	out := make([]string, 0, len(themes))
	for _, t := range themes {
		out = append(out, string(t))
	}
	return out
}

func ParseTheme(name string) (Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range themes {
		if string(t) == name {
			return t, nil
		}
	}
	if s := Suggest(name, Themes()); s != "" {
		return "", fmt.Errorf("unknown theme %q (did you mean %q?)", name, s)
	}
	return "", fmt.Errorf("unknown theme %q (want one of %s)", name, strings.Join(Themes(), ", "))
}

// Suggest returns the closest option within a small edit distance, or "".
func Suggest(in string, options []string) string {
	in = strings.ToLower(strings.TrimSpace(in))
	if in == "" {
		return ""
	}
	type match struct {
		option string
		dist   int
	}
	var matches []match
	for _, opt := range options {
		d := levenshtein.ComputeDistance(in, strings.ToLower(opt))
		if d <= distanceLimit(len(opt)) {
			matches = append(matches, match{opt, d})
		}
	}
	if len(matches) == 0 {
		return ""
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].dist < matches[j].dist })
	return matches[0].option
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
