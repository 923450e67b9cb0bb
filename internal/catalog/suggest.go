package catalog

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggester proposes the closest known token for an unresolved input.
type Suggester interface {
	Nearest(token string) string
}

// Index is an edit-distance Suggester over the catalog's symbols and names.
// It is read-only after construction.
type Index struct {
	words   []string
	lowered []string
}

// NewIndex builds an index over vocabulary, dropping empty words and
// case-insensitive duplicates. The first spelling of a word is kept.
func NewIndex(vocabulary []string) *Index {
	seen := make(map[string]struct{}, len(vocabulary))
	ix := &Index{
		words:   make([]string, 0, len(vocabulary)),
		lowered: make([]string, 0, len(vocabulary)),
	}
	for _, w := range vocabulary {
		lw := strings.ToLower(strings.TrimSpace(w))
		if lw == "" {
			continue
		}
		if _, dup := seen[lw]; dup {
			continue
		}
		seen[lw] = struct{}{}
		ix.words = append(ix.words, w)
		ix.lowered = append(ix.lowered, lw)
	}
	return ix
}

// Nearest returns the word with the smallest Levenshtein distance to token,
// compared case-insensitively. Ties go to the earlier word. An empty index
// returns "".
func (ix *Index) Nearest(token string) string {
	if ix == nil || len(ix.words) == 0 {
		return ""
	}
	lt := strings.ToLower(strings.TrimSpace(token))

	best, bestDist := 0, -1
	for i, w := range ix.lowered {
		d := levenshtein.ComputeDistance(lt, w)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
			if d == 0 {
				break
			}
		}
	}
	return ix.words[best]
}

// Words returns the deduplicated vocabulary in index order.
func (ix *Index) Words() []string {
	if ix == nil {
		return nil
	}
	out := make([]string, len(ix.words))
	copy(out, ix.words)
	return out
}

func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.words)
}
