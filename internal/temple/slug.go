package temple

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var nonSlugChars = regexp.MustCompile(`[^\p{L}\p{M}\p{N}]+`)

// slugNamespace seeds the fallback token for names with no letters or digits.
var slugNamespace = uuid.MustParse("6b1f4c5e-2f0a-4d7e-9a43-7c2e1b0d9f11")

// foldLatin drops combining marks that follow a Latin letter ("Śiva" -> "Siva").
// Marks of other scripts are vowel signs and stay ("मंदिर" keeps its anusvara).
func foldLatin(s string) string {
	var b strings.Builder
	latin := false
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			if latin {
				continue
			}
		} else {
			latin = unicode.Is(unicode.Latin, r)
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

// Slugify joins parts with a hyphen and reduces them to a lowercase, hyphenated
// token. Letters and digits of any script are kept; Latin diacritics are folded.
// Input without any letter or digit maps to a stable "temple-<hex>" token.
// Slugify(Slugify(x)) == Slugify(x).
func Slugify(parts ...string) string {
	joined := strings.Join(parts, "-")

	slug := strings.ToLower(foldLatin(joined))
	slug = strings.Trim(nonSlugChars.ReplaceAllString(slug, "-"), "-")
	if slug != "" {
		return slug
	}
	id := uuid.NewSHA1(slugNamespace, []byte(joined))
	return "temple-" + strings.ReplaceAll(id.String(), "-", "")[:12]
}
