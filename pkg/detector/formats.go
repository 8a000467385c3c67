package detector

import "github.com/ccollicutt/conversa/pkg/parser"

// HeadFormat describes one message-head grammar the parser understands.
type HeadFormat struct {
	Kind     parser.HeadFormat // Grammar identifier used by the parser
	Name     string            // Human-readable name
	Template string            // Shape of a matching line
	Examples []string          // Example heads
}

// DefaultFormats returns the grammars in the parser's priority order.
func DefaultFormats() []*HeadFormat {
	return []*HeadFormat{
		{
			Kind:     parser.HeadFormatBracketed,
			Name:     "Bracketed with seconds",
			Template: "[date, HH:MM:SS] sender: body",
			Examples: []string{"[15/01/2024, 10:30:00] Ana: oi", "[1/15/24, 10:30:00 AM] Ana: hi"},
		},
		{
			Kind:     parser.HeadFormatDaypart,
			Name:     "Period of day (pt-BR)",
			Template: "date HH:MM [da] manhã|tarde|noite - sender: body",
			Examples: []string{"15/01/2024 10:30 da manhã - Ana: oi"},
		},
		{
			Kind:     parser.HeadFormatDashed,
			Name:     "Dashed",
			Template: "date, HH:MM[:SS][ AM|PM] - sender: body",
			Examples: []string{"15/01/2024, 10:30 - Ana: oi", "1/15/24, 10:30 PM - Ana: hi"},
		},
	}
}
