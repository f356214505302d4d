// Package codec derives storage keys from template titles and converts
// templates to and from their on-disk frontmatter representation.
package codec

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Ext is the storage extension appended to every derived key.
const Ext = ".md"

// fallbackKey is used when a title sanitizes down to nothing.
const fallbackKey = "default_template"

const maxKeyRunes = 100

// replacedRunes are mapped to '_' in addition to Unicode whitespace.
const replacedRunes = `<>:"/\|?*.,;!#%=+~'`

var underscoreRun = regexp.MustCompile(`_{2,}`)

var keyTitleCaser = cases.Title(language.Und)

// DeriveKey converts a title into a deterministic filesystem-safe storage
// key. Pure: no I/O. Distinct titles that sanitize to the same string
// collide on purpose; the store reports the second create as AlreadyExists.
func DeriveKey(title string) string {
	s := norm.NFKC.String(title)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || strings.ContainsRune(replacedRunes, r) {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}

	key := strings.Trim(b.String(), "_.")
	key = underscoreRun.ReplaceAllString(key, "_")
	key = strings.ToLower(key)
	if runes := []rune(key); len(runes) > maxKeyRunes {
		key = strings.TrimRight(string(runes[:maxKeyRunes]), "_")
	}
	if key == "" {
		key = fallbackKey
	}
	return key + Ext
}

// TitleFromKey reconstructs a best-effort display title from a storage key:
// extension stripped, underscores become spaces, words capitalized. Lossy;
// it does not round-trip through DeriveKey.
func TitleFromKey(key string) string {
	stem := strings.TrimSuffix(key, Ext)
	return keyTitleCaser.String(strings.ReplaceAll(stem, "_", " "))
}
