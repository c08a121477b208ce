// Package match decides which chart entries belong to an artist.
//
// Matching compares normalized names only. A name is normalized by removing
// diacritics, case folding, trimming and collapsing whitespace, so
// "  BEYONCÉ " and "beyonce" are the same name.
//
// A credit is decomposed in two levels. Word separators ("featuring",
// "feat.", "ft", "with", "vs"), matched only as whole words, split it into
// the acts it bills. Symbol separators ("&", ",") then split each act into
// names:
//
//	"Earth, Wind & Fire With The Emotions"
//	    acts:  "Earth, Wind & Fire", "The Emotions"
//	    names: "Earth", "Wind", "Fire" | "The Emotions"
//
// An entry matches a query when the whole credit equals it, when one act
// equals it, or when the query's own names appear in order within one act.
// "Crosby, Stills & Nash" therefore matches "Crosby, Stills, Nash & Young",
// and "Artist B" matches "Artist A & Artist B". Substrings never match: "Ed"
// does not match "Ed Sheeran".
package match
