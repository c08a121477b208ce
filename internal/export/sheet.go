package export

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxSheetNameLen = 31

var sheetNameReplacer = strings.NewReplacer(
	"[", "(", "]", ")",
	":", "-", "*", "_", "?", "", "/", "-", `\`, "-",
)

// sheetNamer hands out valid, unique sheet names.
type sheetNamer struct {
	used map[string]bool
}

func newSheetNamer() *sheetNamer {
	return &sheetNamer{used: make(map[string]bool)}
}

// Name returns a sheet name derived from want that has not been used yet.
// Uniqueness is case-insensitive, as in Excel.
func (n *sheetNamer) Name(want string) string {
	base := cleanSheetName(want)
	name := base
	for i := 2; n.used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncateRunes(base, maxSheetNameLen-len(suffix)) + suffix
	}
	n.used[strings.ToLower(name)] = true
	return name
}

func cleanSheetName(name string) string {
	name = sheetNameReplacer.Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, "'")
	name = truncateRunes(name, maxSheetNameLen)
	name = strings.TrimSpace(name)

	if name == "" {
		return "Sheet"
	}
	if strings.EqualFold(name, "history") {
		return name + " Song"
	}
	return name
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// sheetRef quotes a sheet name for use in a formula reference.
func sheetRef(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}
