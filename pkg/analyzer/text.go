package analyzer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// minTokenLength is the shortest token kept for word and expression stats.
const minTokenLength = 3

// mediaPlaceholders replace attachments in exports and carry no content.
// Matched against the lower-cased body.
var mediaPlaceholders = []string{
	"<mídia oculta>",
	"<arquivo de mídia oculto>",
	"<media omitted>",
	"imagem ocultada",
	"imagem omitida",
	"vídeo omitido",
	"video omitido",
	"áudio ocultado",
	"áudio omitido",
	"audio omitido",
	"figurinha omitida",
	"gif omitido",
	"documento omitido",
	"contato omitido",
	"image omitted",
	"video omitted",
	"audio omitted",
	"sticker omitted",
	"gif omitted",
	"document omitted",
	"contact card omitted",
	"mensagem apagada",
	"esta mensagem foi apagada",
	"this message was deleted",
}

var (
	urlPattern      = regexp.MustCompile(`(?:https?://|www\.)\S+`)
	emphasisPattern = regexp.MustCompile(`!{3,}|\?{3,}`)
)

// textFolder lower-cases message text. A cases.Caser is not safe for
// concurrent use, so each analysis run owns one.
type textFolder struct {
	lower cases.Caser
}

func newTextFolder() *textFolder {
	return &textFolder{lower: cases.Lower(language.BrazilianPortuguese)}
}

// fold returns the NFC-normalised, lower-cased form of s.
func (f *textFolder) fold(s string) string {
	return f.lower.String(norm.NFC.String(s))
}

// tokenize splits a folded body into content tokens. Placeholders and URLs
// are removed along with punctuation, symbols and emoji glue; short,
// numeric, emoji-only and stop-word tokens are dropped.
func tokenize(folded string, stopWords map[string]bool) []string {
	s := folded
	for _, p := range mediaPlaceholders {
		s = strings.ReplaceAll(s, p, " ")
	}
	s = urlPattern.ReplaceAllString(s, " ")
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) || isEmojiDecoration(r) {
			return -1
		}
		return r
	}, s)

	fields := strings.Fields(s)
	tokens := fields[:0]
	for _, tok := range fields {
		if utf8.RuneCountInString(tok) < minTokenLength {
			continue
		}
		if stopWords[tok] || isNumeric(tok) || isEmojiToken(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func isNumeric(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return tok != ""
}

// countEmphasis counts runs of three or more '!' or '?'.
func countEmphasis(body string) int {
	return len(emphasisPattern.FindAllStringIndex(body, -1))
}

// countCapsWords counts words of at least three letters written entirely in
// upper case, accented Latin capitals included.
func countCapsWords(body string) int {
	words := strings.FieldsFunc(body, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	n := 0
	for _, w := range words {
		if utf8.RuneCountInString(w) < minTokenLength {
			continue
		}
		caps := true
		for _, r := range w {
			if !isUpperLatin(r) {
				caps = false
				break
			}
		}
		if caps {
			n++
		}
	}
	return n
}

// isUpperLatin accepts A-Z and the Latin-1 capitals À-Þ except ×.
func isUpperLatin(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 0xc0 && r <= 0xde && r != 0xd7)
}
