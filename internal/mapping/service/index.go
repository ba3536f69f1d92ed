package service

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"keyword-mapping-service/internal/mapping/model"
)

type entry struct {
	keyword  string   // as registered (original casing)
	products []string // may be empty
}

// Index answers "which of my keywords occur in this text?" for many texts.
// Add all keywords first, then Build; after Build the index is read-only and
// Extract is safe to call from multiple goroutines.
type Index struct {
	opts    model.Options
	entries map[string]*entry // normalized keyword -> entry
	order   []string          // normalized keywords in first-registration order
	auto    *automaton
	pats    []string // normalized patterns, aligned with order
	lens    []int
}

func NewIndex(opts model.Options) *Index {
	return &Index{
		opts:    opts,
		entries: make(map[string]*entry),
	}
}

// Add registers or overwrites the entry for keyword (last write wins).
// Empty or whitespace-only keywords are skipped.
func (ix *Index) Add(keyword string, products []string) {
	if strings.TrimSpace(keyword) == "" {
		return
	}
	key := keyword
	if ix.opts.CaseInsensitive {
		key = strings.ToLower(key)
	}
	if ex, ok := ix.entries[key]; ok {
		ex.keyword = keyword
		ex.products = products
		return
	}
	ix.entries[key] = &entry{keyword: keyword, products: products}
	ix.order = append(ix.order, key)
	ix.auto = nil
}

// Build compiles the pattern automaton. Called implicitly by Extract,
// but call it explicitly before sharing the index across goroutines.
func (ix *Index) Build() {
	if ix.auto != nil {
		return
	}
	ix.pats = append(ix.pats[:0], ix.order...)
	ix.lens = make([]int, len(ix.pats))
	for i, p := range ix.pats {
		ix.lens[i] = len(p)
	}
	ix.auto = buildAutomaton(ix.pats)
}

// Extract returns the distinct registered keywords occurring in text,
// ordered by first occurrence (ties by keyword length ascending).
// Matching is plain substring search ("cat" matches inside "category")
// unless WordBoundary is set.
func (ix *Index) Extract(text string) []string {
	if len(ix.entries) == 0 || text == "" {
		return nil
	}
	ix.Build()

	hay := text
	if ix.opts.CaseInsensitive {
		hay = strings.ToLower(hay)
	}

	firstAt := make(map[int]int) // pattern index -> first valid start offset
	for _, m := range ix.auto.scan(hay, ix.lens) {
		if _, seen := firstAt[m.pattern]; seen {
			continue
		}
		if ix.opts.WordBoundary && !onBoundary(hay, m.start, m.start+ix.lens[m.pattern]) {
			continue
		}
		firstAt[m.pattern] = m.start
	}

	idxs := make([]int, 0, len(firstAt))
	for p := range firstAt {
		idxs = append(idxs, p)
	}
	sort.Slice(idxs, func(i, j int) bool {
		a, b := idxs[i], idxs[j]
		if firstAt[a] != firstAt[b] {
			return firstAt[a] < firstAt[b]
		}
		return ix.lens[a] < ix.lens[b]
	})

	out := make([]string, len(idxs))
	for i, p := range idxs {
		out[i] = ix.entries[ix.pats[p]].keyword
	}
	return out
}

// Products returns the keyword's product list joined with ", ",
// or "-" when the keyword is unknown or has no products.
func (ix *Index) Products(keyword string) string {
	key := keyword
	if ix.opts.CaseInsensitive {
		key = strings.ToLower(key)
	}
	e, ok := ix.entries[key]
	if !ok || len(e.products) == 0 {
		return "-"
	}
	return strings.Join(e.products, ", ")
}

func (ix *Index) Len() int { return len(ix.entries) }

func onBoundary(s string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
