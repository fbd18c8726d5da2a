// Package textnorm holds the text helpers shared by every normalizer: slugs,
// accent-insensitive search text and repair of double-encoded names.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const unknownSlug = "unknown"

// Letters that carry no canonical decomposition but still have an obvious
// ASCII spelling.
var foldReplacer = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"ø", "o",
	"ł", "l",
	"đ", "d",
	"ð", "d",
	"þ", "th",
	"ı", "i",
)

// StripAccents removes combining marks after canonical decomposition.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold lowercases and strips accents.
func Fold(s string) string {
	return foldReplacer.Replace(StripAccents(strings.ToLower(s)))
}

// Slugify produces a lowercase ASCII slug: runs of anything outside a-z0-9
// collapse to a single hyphen, edges are trimmed, and empty results become
// "unknown".
func Slugify(s string) string {
	folded := Fold(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	if b.Len() == 0 {
		return unknownSlug
	}
	return b.String()
}

// SearchText joins the non-empty parts into one folded, space separated
// string.
func SearchText(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		folded := strings.Join(strings.Fields(Fold(part)), " ")
		if folded == "" {
			continue
		}
		out = append(out, folded)
	}
	return strings.Join(out, " ")
}

// PrettifySlug turns "fc-demo_city" into "Fc Demo City".
func PrettifySlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(r)) + word[size:]
	}
	return strings.Join(words, " ")
}

// RepairText undoes UTF-8 text that was decoded as Latin-1/Windows-1252 and
// re-encoded, e.g. "MbappÃ©" becomes "Mbappé". Strings without the signature
// are returned unchanged, and the result is a fixed point of RepairText.
func RepairText(s string) string {
	for hasMojibakeSignature(s) {
		repaired, ok := reinterpretAsUTF8(s)
		if !ok || repaired == s {
			break
		}
		s = repaired
	}
	return s
}

// The signature is a UTF-8 lead byte (0xC2-0xF4) rendered as a character,
// immediately followed by a character standing in for a continuation byte.
func hasMojibakeSignature(s string) bool {
	prevLead := false
	for _, r := range s {
		b, ok := singleByte(r)
		if prevLead && ok && b >= 0x80 && b <= 0xBF {
			return true
		}
		prevLead = ok && b >= 0xC2 && b <= 0xF4
	}
	return false
}

func reinterpretAsUTF8(s string) (string, bool) {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := singleByte(r)
		if !ok {
			return s, false
		}
		buf = append(buf, b)
	}
	if !utf8.Valid(buf) {
		return s, false
	}
	return string(buf), true
}

// singleByte maps a character back to the byte a Latin-1 or Windows-1252
// decoder would have produced it from.
func singleByte(r rune) (byte, bool) {
	if r < 0 {
		return 0, false
	}
	if r <= 0xFF {
		return byte(r), true
	}
	return charmap.Windows1252.EncodeRune(r)
}
