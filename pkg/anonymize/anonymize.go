// Package anonymize replaces participant names with neutral aliases and cuts
// bounded excerpts of a conversation.
package anonymize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/ccollicutt/conversa/pkg/parser"
)

// DefaultLabel prefixes aliases when New is given an empty label.
const DefaultLabel = "Pessoa"

// Anonymizer assigns aliases in order of first appearance. The zero value is
// not usable; call New.
type Anonymizer struct {
	label   string
	aliases map[string]string
	order   []string
}

// New creates an Anonymizer whose aliases read "<label> 1", "<label> 2", ...
func New(label string) *Anonymizer {
	label = strings.TrimSpace(label)
	if label == "" {
		label = DefaultLabel
	}
	return &Anonymizer{label: label, aliases: make(map[string]string)}
}

// Alias returns the alias for sender, assigning the next one on first use.
// An empty sender stays empty.
func (a *Anonymizer) Alias(sender string) string {
	if sender == "" {
		return ""
	}
	if alias, ok := a.aliases[sender]; ok {
		return alias
	}
	alias := fmt.Sprintf("%s %d", a.label, len(a.order)+1)
	a.aliases[sender] = alias
	a.order = append(a.order, sender)
	return alias
}

// Names returns the original names in the order aliases were assigned.
func (a *Anonymizer) Names() []string {
	return append([]string(nil), a.order...)
}

// Messages returns a copy of msgs with senders replaced by aliases and every
// whole-word, case-insensitive mention of a sender in a body replaced too.
// The input slice is not modified.
func (a *Anonymizer) Messages(msgs []parser.Message) []parser.Message {
	for i := range msgs {
		a.Alias(msgs[i].Sender)
	}
	rules := a.rules()

	out := make([]parser.Message, len(msgs))
	for i, m := range msgs {
		m.Sender = a.Alias(m.Sender)
		for _, r := range rules {
			m.Body = r.replace(m.Body)
		}
		out[i] = m
	}
	return out
}

type rule struct {
	pattern *regexp.Regexp
	alias   string
}

// rules orders names longest first so "Ana Paula" wins over "Ana".
func (a *Anonymizer) rules() []rule {
	names := a.Names()
	sort.SliceStable(names, func(i, j int) bool {
		return utf8.RuneCountInString(names[i]) > utf8.RuneCountInString(names[j])
	})
	rules := make([]rule, 0, len(names))
	for _, name := range names {
		rules = append(rules, rule{
			pattern: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name)),
			alias:   a.aliases[name],
		})
	}
	return rules
}

func (r rule) replace(body string) string {
	matches := r.pattern.FindAllStringIndex(body, -1)
	if matches == nil {
		return body
	}
	var b strings.Builder
	last := 0
	for _, loc := range matches {
		if !wordBoundary(body, loc[0], loc[1]) {
			continue
		}
		b.WriteString(body[last:loc[0]])
		b.WriteString(r.alias)
		last = loc[1]
	}
	b.WriteString(body[last:])
	return b.String()
}

// wordBoundary reports whether body[start:end] is not glued to a letter or
// digit on either side. RE2's \b only understands ASCII, which breaks on
// names such as "José".
func wordBoundary(body string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(body[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(body) {
		r, _ := utf8.DecodeRuneInString(body[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Slice returns at most limit non-system messages starting at the from-th
// non-system message, stopping before the cumulative body length (in
// characters) would exceed maxChars. A limit or maxChars of zero or less
// disables that bound.
func Slice(msgs []parser.Message, from, limit, maxChars int) []parser.Message {
	if from < 0 {
		from = 0
	}
	var out []parser.Message
	seen, total := 0, 0
	for _, m := range msgs {
		if m.IsSystem {
			continue
		}
		if seen < from {
			seen++
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		n := uniseg.GraphemeClusterCount(m.Body)
		if maxChars > 0 && total+n > maxChars {
			break
		}
		total += n
		out = append(out, m)
	}
	return out
}

// Render formats msgs as "sender: body" lines. Sender-less messages are
// rendered as the bare body.
func Render(msgs []parser.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		if m.HasSender() {
			b.WriteString(m.Sender)
			b.WriteString(": ")
		}
		b.WriteString(m.Body)
		b.WriteByte('\n')
	}
	return b.String()
}
