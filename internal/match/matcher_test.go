package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/hot100-history/internal/model"
)

func entry(song, artist string) model.ChartEntry {
	return model.ChartEntry{Date: model.Day(2020, 1, 4), Song: song, Artist: artist, Rank: 10}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Artist A", "artist a"},
		{"  ARTIST   a  ", "artist a"},
		{"Beyoncé", "beyonce"},
		{"Sinéad O'Connor", "sinead o'connor"},
		{"MØ", "mø"},
		{"", ""},
		{"   ", ""},
		{"\tTab\nSeparated ", "tab separated"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestMatcher_Components(t *testing.T) {
	m := NewMatcher(DefaultOptions())

	tests := []struct {
		artist string
		want   []string
	}{
		{"Artist A", []string{"Artist A"}},
		{"Artist A Featuring Artist B", []string{"Artist A", "Artist B"}},
		{"Artist A featuring Artist B", []string{"Artist A", "Artist B"}},
		{"A & B", []string{"A", "B"}},
		{"A, B & C", []string{"A", "B", "C"}},
		{"A Feat. B", []string{"A", "B"}},
		{"A Ft. B", []string{"A", "B"}},
		{"A With B", []string{"A", "B"}},
		{"A Vs. B", []string{"A", "B"}},
		{"Lil Nas X", []string{"Lil Nas X"}},
		{"Lil Nas X Featuring Billy Ray Cyrus", []string{"Lil Nas X", "Billy Ray Cyrus"}},
		{"Withers", []string{"Withers"}},
		{"Bill Withers", []string{"Bill Withers"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.artist, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Components(tt.artist))
		})
	}
}

func TestMatcher_MultiArtistDecomposition(t *testing.T) {
	m := NewMatcher(DefaultOptions())

	tests := []struct {
		query  string
		credit string
		want   bool
	}{
		{"Artist A", "Artist A Featuring Artist B", true},
		{"Artist B", "Artist A Featuring Artist B", true},
		{"Artist", "Artist A Featuring Artist B", false},
		{"Artist B", "Artist A & Artist B", true},
		{"Earth, Wind & Fire", "Earth, Wind & Fire", true},
		{"Earth, Wind & Fire", "Earth, Wind & Fire With The Emotions", true},
		{"The Emotions", "Earth, Wind & Fire With The Emotions", true},
		{"Crosby, Stills & Nash", "Crosby, Stills, Nash & Young", true},
		{"Stills & Crosby", "Crosby, Stills, Nash & Young", false},
		{"Wind & Fire", "Earth, Wind & Fire", true},
		{"Earth, Wind & Fire", "Earth & Fire", false},
		{"Simon & Garfunkel", "Paul Simon", false},
		{"Nash & Young", "Crosby, Stills & Nash Featuring Young", false},
	}

	for _, tt := range tests {
		t.Run(tt.query+" in "+tt.credit, func(t *testing.T) {
			assert.Equal(t, tt.want, m.MatchArtist(NewQuery(tt.query), tt.credit))
		})
	}
}

func TestMatcher_Segments(t *testing.T) {
	m := NewMatcher(DefaultOptions())

	assert.Equal(t, []string{"Earth, Wind & Fire", "The Emotions"}, m.Segments("Earth, Wind & Fire With The Emotions"))
	assert.Equal(t, []string{"A & B"}, m.Segments("A & B"))
	assert.Nil(t, m.Segments("   "))
}

func TestMatcher_Match(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	entries := []model.ChartEntry{
		entry("One", "Ed Sheeran"),
		entry("Two", "Edward Bear"),
		entry("Three", "Ed"),
		entry("Four", "Taylor Swift Featuring Ed Sheeran"),
		entry("Five", "Earth, Wind & Fire"),
		entry("Six", "Beyoncé"),
		entry("Seven", "Earth, Wind & Fire With The Emotions"),
	}

	tests := []struct {
		name      string
		query     string
		wantSongs []string
	}{
		{"exact", "Ed Sheeran", []string{"One", "Four"}},
		{"case and whitespace", "  ed   SHEERAN ", []string{"One", "Four"}},
		{"no substring match", "Ed", []string{"Three"}},
		{"whole credit with separators", "earth, wind & fire", []string{"Five", "Seven"}},
		{"component of group credit", "Fire", []string{"Five", "Seven"}},
		{"act billed with a guest", "The Emotions", []string{"Seven"}},
		{"diacritics folded", "beyonce", []string{"Six"}},
		{"no match", "Nobody", nil},
		{"empty query", "", nil},
		{"blank query", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(tt.query, entries)
			var songs []string
			for _, e := range got {
				songs = append(songs, e.Song)
			}
			assert.Equal(t, tt.wantSongs, songs)
		})
	}
}

func TestMatcher_CustomSeparators(t *testing.T) {
	m := NewMatcher(Options{SymbolSeparators: []string{"/"}, WordSeparators: []string{"x"}})
	entries := []model.ChartEntry{entry("Song", "A x B / C")}

	assert.Len(t, m.Match("a", entries), 1)
	assert.Len(t, m.Match("b", entries), 1)
	assert.Len(t, m.Match("c", entries), 1)
}

func TestMatcher_NoSeparators(t *testing.T) {
	m := NewMatcher(Options{})

	assert.Equal(t, []string{"A & B"}, m.Components("A & B"))
}

func TestMatcher_Suggest(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	entries := []model.ChartEntry{
		entry("1", "Drake"),
		entry("2", "Drake"),
		entry("3", "Rihanna Featuring Drake"),
		entry("4", "Drake Bell"),
		entry("5", "Dr. Dre"),
	}

	got := m.Suggest("dra", entries, 5)
	require.Len(t, got, 2)
	assert.Equal(t, "Drake", got[0])
	assert.Equal(t, "Drake Bell", got[1])

	assert.Len(t, m.Suggest("dr", entries, 1), 1)
	assert.Nil(t, m.Suggest("", entries, 5))
	assert.Nil(t, m.Suggest("dra", entries, 0))
}

func TestMatcher_SuggestWholeActs(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	entries := []model.ChartEntry{
		entry("1", "Earth, Wind & Fire"),
		entry("2", "Earth, Wind & Fire With The Emotions"),
	}

	got := m.Suggest("earth", entries, 5)
	assert.Equal(t, []string{"Earth", "Earth, Wind & Fire"}, got)
}

func TestNewQuery(t *testing.T) {
	q := NewQuery("  Artist A ")
	assert.Equal(t, "Artist A", q.Raw)
	assert.Equal(t, "artist a", q.Normalized)
	assert.False(t, q.Empty())
	assert.True(t, NewQuery(" ").Empty())
}
