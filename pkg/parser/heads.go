package parser

import (
	"regexp"
	"strings"
)

// HeadFormat identifies one of the recognised line-head grammars.
type HeadFormat string

const (
	HeadFormatNone      HeadFormat = ""
	HeadFormatBracketed HeadFormat = "bracketed"
	HeadFormatDaypart   HeadFormat = "daypart"
	HeadFormatDashed    HeadFormat = "dashed"
)

// Head is the decomposed head of a message line.
type Head struct {
	Format  HeadFormat
	Date    string
	Time    string
	Daypart string
	Sender  string
	Body    string

	// HasSender distinguishes "no sender segment" from an empty name.
	HasSender bool
}

// Horizontal space as it appears in exports: ASCII blanks plus the
// no-break and narrow no-break spaces some platforms put before AM/PM.
const hspace = `[ \t\x{00A0}\x{202F}]`

const (
	datePart   = `(\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4})`
	meridiem   = `(?:` + hspace + `?[AaPp]\.?` + hspace + `?[Mm]\.?)?`
	senderPart = `(?:([^:]+?):` + hspace + `)?`
)

// headGrammar pairs a format with its compiled pattern. Capture groups are
// date, time, daypart (may be absent from the pattern), sender, body.
type headGrammar struct {
	format     HeadFormat
	pattern    *regexp.Regexp
	hasDaypart bool
}

// Order matters: the first grammar that matches wins.
var headGrammars = []headGrammar{
	{
		format: HeadFormatBracketed,
		pattern: regexp.MustCompile(`^\[` + datePart + `,?` + hspace + `+` +
			`(\d{1,2}:\d{2}:\d{2}` + meridiem + `)\]` + hspace + `*` + senderPart + `(.*)$`),
	},
	{
		format: HeadFormatDaypart,
		pattern: regexp.MustCompile(`^` + datePart + `,?` + hspace + `+(\d{1,2}:\d{2})` + hspace + `+` +
			`(?:da` + hspace + `+)?(manhã|tarde|noite)` + hspace + `+-` + hspace + `+` + senderPart + `(.*)$`),
		hasDaypart: true,
	},
	{
		format: HeadFormatDashed,
		pattern: regexp.MustCompile(`^` + datePart + `,?` + hspace + `+` +
			`(\d{1,2}:\d{2}(?::\d{2})?` + meridiem + `)` + hspace + `+-` + hspace + `+` + senderPart + `(.*)$`),
	},
}

// invisibleMarks are stripped from the start of a line before matching.
// Some exports prefix every line with a left-to-right mark.
const invisibleMarks = "\u200e\u200f\ufeff"

// MatchHead tries the line-head grammars in priority order and reports
// the first match. It holds no state between calls.
func MatchHead(line string) (Head, bool) {
	line = strings.TrimLeft(line, invisibleMarks)
	for _, g := range headGrammars {
		m := g.pattern.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}

		group := func(i int) (string, bool) {
			if m[2*i] < 0 {
				return "", false
			}
			return line[m[2*i]:m[2*i+1]], true
		}

		h := Head{Format: g.format}
		h.Date, _ = group(1)
		h.Time, _ = group(2)
		next := 3
		if g.hasDaypart {
			h.Daypart, _ = group(3)
			next = 4
		}

		sender, ok := group(next)
		sender = strings.TrimSpace(strings.Trim(sender, invisibleMarks))
		h.Sender = sender
		h.HasSender = ok && sender != ""
		h.Body, _ = group(next + 1)
		return h, true
	}
	return Head{}, false
}
