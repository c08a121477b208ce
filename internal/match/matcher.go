package match

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/handiism/hot100-history/internal/model"
)

// DefaultSymbolSeparators split an artist credit wherever they appear.
var DefaultSymbolSeparators = []string{"&", ","}

// DefaultWordSeparators split an artist credit only as whole words.
//
// "x" is not included: it would split names such as "Lil Nas X".
var DefaultWordSeparators = []string{"featuring", "feat.", "feat", "ft.", "ft", "with", "vs.", "vs"}

// Options configures the separator set used to decompose artist credits.
type Options struct {
	SymbolSeparators []string
	WordSeparators   []string
}

// DefaultOptions returns the default separator set.
func DefaultOptions() Options {
	return Options{
		SymbolSeparators: DefaultSymbolSeparators,
		WordSeparators:   DefaultWordSeparators,
	}
}

// Query is a normalized artist query (the ArtistQuery of a request).
type Query struct {
	// Raw is the user input, trimmed.
	Raw string

	// Normalized is the comparison form of Raw.
	Normalized string
}

// NewQuery normalizes user input into a Query.
func NewQuery(raw string) Query {
	raw = strings.TrimSpace(raw)
	return Query{Raw: raw, Normalized: Normalize(raw)}
}

// Empty reports whether the query can match nothing.
func (q Query) Empty() bool {
	return q.Normalized == ""
}

// Matcher filters chart entries by artist.
//
// A Matcher holds only its compiled separator patterns and is safe for
// concurrent use.
type Matcher struct {
	words   *regexp.Regexp
	symbols *regexp.Regexp
}

// NewMatcher compiles a Matcher for the given separator set.
//
// Example:
//
//	m := match.NewMatcher(match.DefaultOptions())
//	entries := m.Match("artist a", table.Entries())
func NewMatcher(opts Options) *Matcher {
	return &Matcher{
		words:   compileWordSplitter(opts.WordSeparators),
		symbols: compileSymbolSplitter(opts.SymbolSeparators),
	}
}

// never matches anything, so a credit is not split.
var never = regexp.MustCompile(`[^\s\S]`)

func compileSymbolSplitter(separators []string) *regexp.Regexp {
	var symbols []string
	for _, s := range separators {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, regexp.QuoteMeta(s))
		}
	}
	if len(symbols) == 0 {
		return never
	}
	return regexp.MustCompile(`\s*(?:` + strings.Join(symbols, "|") + `)\s*`)
}

func compileWordSplitter(separators []string) *regexp.Regexp {
	// Longer tokens first so "feat." wins over "feat".
	words := make([]string, 0, len(separators))
	for _, w := range separators {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return never
	}
	sort.SliceStable(words, func(i, j int) bool { return len(words[i]) > len(words[j]) })
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\s+(?:` + strings.Join(words, "|") + `)\s+`)
}

func split(re *regexp.Regexp, s string) []string {
	parts := re.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Segments splits an artist credit on word separators into the acts it
// bills, keeping symbol separators inside each act.
//
// Example:
//
//	m.Segments("Earth, Wind & Fire With The Emotions") // ["Earth, Wind & Fire", "The Emotions"]
func (m *Matcher) Segments(artist string) []string {
	artist = strings.Join(strings.Fields(artist), " ")
	if artist == "" {
		return nil
	}
	return split(m.words, artist)
}

// Components splits an artist credit into individual artist names, keeping
// their original casing.
//
// Example:
//
//	m.Components("Artist A Featuring Artist B & C") // ["Artist A", "Artist B", "C"]
func (m *Matcher) Components(artist string) []string {
	var components []string
	for _, seg := range m.Segments(artist) {
		components = append(components, split(m.symbols, seg)...)
	}
	return components
}

// names returns the normalized symbol-separated names of s.
func (m *Matcher) names(s string) []string {
	parts := split(m.symbols, s)
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := Normalize(p); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// MatchArtist reports whether an artist credit matches the query.
//
// The credit matches when it equals the query, when one of its acts does,
// or when the query's names appear in order inside one act. So
// "Earth, Wind & Fire" matches "Earth, Wind & Fire With The Emotions",
// "Crosby, Stills & Nash" matches "Crosby, Stills, Nash & Young" and
// "Artist B" matches "Artist A & Artist B".
func (m *Matcher) MatchArtist(q Query, artist string) bool {
	if q.Empty() {
		return false
	}
	return m.matchCredit(q, m.names(q.Raw), artist)
}

func (m *Matcher) matchCredit(q Query, queryNames []string, artist string) bool {
	if Normalize(artist) == q.Normalized {
		return true
	}
	for _, seg := range m.Segments(artist) {
		if Normalize(seg) == q.Normalized {
			return true
		}
		if containsRun(m.names(seg), queryNames) {
			return true
		}
	}
	return false
}

// containsRun reports whether run appears as a contiguous slice of names.
func containsRun(names, run []string) bool {
	if len(run) == 0 || len(run) > len(names) {
		return false
	}
	for i := 0; i+len(run) <= len(names); i++ {
		if slices.Equal(names[i:i+len(run)], run) {
			return true
		}
	}
	return false
}

// Match returns the entries whose artist credit matches query, in input order.
//
// An empty query, or a query matching nothing, returns nil. Match has no
// side effects.
func (m *Matcher) Match(query string, entries []model.ChartEntry) []model.ChartEntry {
	q := NewQuery(query)
	if q.Empty() {
		return nil
	}
	queryNames := m.names(q.Raw)

	// The dataset repeats each credit for every week a song charts.
	seen := make(map[string]bool)

	var matched []model.ChartEntry
	for _, e := range entries {
		ok, cached := seen[e.Artist]
		if !cached {
			ok = m.matchCredit(q, queryNames, e.Artist)
			seen[e.Artist] = ok
		}
		if ok {
			matched = append(matched, e)
		}
	}
	return matched
}

// Suggest returns up to limit artist names starting with query, most
// frequent first. It is used to help a user whose lookup found nothing.
func (m *Matcher) Suggest(query string, entries []model.ChartEntry, limit int) []string {
	q := NewQuery(query)
	if q.Empty() || limit <= 0 {
		return nil
	}

	type candidate struct {
		name  string
		count int
	}
	candidates := make(map[string]*candidate)
	credits := make(map[string]int)
	for _, e := range entries {
		credits[e.Artist]++
	}

	for credit, count := range credits {
		// Acts first, so "Earth, Wind & Fire" is offered whole.
		names := append(m.Segments(credit), m.Components(credit)...)
		counted := make(map[string]bool, len(names))
		for _, c := range names {
			norm := Normalize(c)
			if counted[norm] || !strings.HasPrefix(norm, q.Normalized) {
				continue
			}
			counted[norm] = true
			cand, ok := candidates[norm]
			if !ok {
				cand = &candidate{name: c}
				candidates[norm] = cand
			} else if c < cand.name {
				cand.name = c
			}
			cand.count += count
		}
	}

	list := make([]*candidate, 0, len(candidates))
	for _, c := range candidates {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].name < list[j].name
	})

	if len(list) > limit {
		list = list[:limit]
	}
	names := make([]string, len(list))
	for i, c := range list {
		names[i] = c.name
	}
	return names
}
