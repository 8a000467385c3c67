package analyzer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Category is a keyword family counted in every message.
type Category int

const (
	CategoryLaughter Category = iota
	CategoryQuestions
	CategoryPositive
	CategoryNegative
)

// Categories lists every category in tie-break order.
var Categories = []Category{CategoryLaughter, CategoryQuestions, CategoryPositive, CategoryNegative}

var categoryNames = [...]string{
	CategoryLaughter:  "laughter",
	CategoryQuestions: "questions",
	CategoryPositive:  "positive",
	CategoryNegative:  "negative",
}

// String returns the category name used in reports.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory returns the category with the given name.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

var (
	// Elongations such as "kkkkkk" or "hahahahaa" count once.
	laughterPattern = regexp.MustCompile(`k{3,}|(?:ha){3,}h?a*|(?:he){3,}h?e*|(?:rs){2,}`)
	questionPattern = regexp.MustCompile(`\?+`)
)

var positiveWords = wordSet(
	"bom", "boa", "ótimo", "ótima", "otimo", "otima", "maravilhoso", "maravilhosa",
	"amo", "adoro", "amei", "adorei", "gostei", "feliz", "felizes", "legal", "incrível",
	"incrivel", "perfeito", "perfeita", "lindo", "linda", "top", "massa", "parabéns",
	"parabens", "obrigado", "obrigada", "valeu", "show", "demais", "sucesso", "alegria",
	"amor", "excelente", "beleza", "tranquilo", "sensacional", "fantástico", "fantastico",
	"maneiro", "bacana", "feliz", "saudade", "saudades", "querido", "querida", "uhul",
)

var negativeWords = wordSet(
	"ruim", "péssimo", "péssima", "pessimo", "pessima", "odeio", "odiei", "triste",
	"chato", "chata", "raiva", "horrível", "horrivel", "merda", "droga", "pior",
	"problema", "problemas", "difícil", "dificil", "cansado", "cansada", "medo",
	"infelizmente", "porra", "saco", "nojo", "decepção", "decepcao", "chateado",
	"chateada", "preocupado", "preocupada", "mal", "errado", "errada", "aff", "afff",
	"puto", "puta", "estresse", "estressado", "estressada", "tédio", "tedio",
)

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// CategoryCounts holds one counter per category.
type CategoryCounts [len(categoryNames)]int

// Get returns the count for c.
func (cc CategoryCounts) Get(c Category) int {
	return cc[c]
}

// Dominant returns the category with the highest count, the earliest
// category winning ties. ok is false when every count is zero.
func (cc CategoryCounts) Dominant() (Category, bool) {
	best, found := Category(0), false
	for _, c := range Categories {
		if cc[c] == 0 {
			continue
		}
		if !found || cc[c] > cc[best] {
			best, found = c, true
		}
	}
	return best, found
}

// MarshalJSON writes the counts as an object keyed by category name.
func (cc CategoryCounts) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, c := range Categories {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%q:%d", c.String(), cc[c])
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// UnmarshalJSON reads an object keyed by category name.
func (cc *CategoryCounts) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for name, n := range raw {
		c, err := ParseCategory(name)
		if err != nil {
			return err
		}
		cc[c] = n
	}
	return nil
}

// countCategories counts every category in an already lower-cased body.
func countCategories(lower string) CategoryCounts {
	var counts CategoryCounts
	counts[CategoryLaughter] = len(laughterPattern.FindAllStringIndex(lower, -1))
	counts[CategoryQuestions] = len(questionPattern.FindAllStringIndex(lower, -1))

	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if positiveWords[w] {
			counts[CategoryPositive]++
		}
		if negativeWords[w] {
			counts[CategoryNegative]++
		}
	}
	return counts
}
