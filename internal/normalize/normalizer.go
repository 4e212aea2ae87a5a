package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTables maps a locale to letter folds that Unicode decomposition alone
// does not cover. Vietnamese đ carries no combining mark, so stripping marks
// leaves it distinct from d unless folded explicitly.
var foldTables = map[string]map[rune]string{
	"vi": {
		'đ': "d",
		'Đ': "d",
	},
	"de": {
		'ß': "ss",
	},
	"fr": {
		'œ': "oe",
		'Œ': "oe",
		'æ': "ae",
		'Æ': "ae",
	},
}

// Normalizer canonicalizes free text for locale-aware equality: diacritic
// folding, case folding, punctuation stripping and whitespace collapsing.
// Both sides of every comparison must go through the same Normalizer.
type Normalizer struct {
	fold      map[rune]string
	stripMark transform.Transformer
}

func New(locale string) *Normalizer {
	base := locale
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		base = locale[:i]
	}
	return &Normalizer{
		fold:      foldTables[strings.ToLower(base)],
		stripMark: transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
	}
}

// Normalize returns the canonical form of s. It is idempotent and treats
// missing text as the empty string.
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	folded, _, err := transform.String(n.stripMark, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if repl, ok := n.fold[r]; ok {
			b.WriteString(repl)
			continue
		}
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			// Punctuation and any other separator collapses to a space.
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeTokens normalizes each token independently.
func (n *Normalizer) NormalizeTokens(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = n.Normalize(t)
	}
	return out
}

// Equal reports whether a and b are equal after normalization.
func (n *Normalizer) Equal(a, b string) bool {
	return n.Normalize(a) == n.Normalize(b)
}
