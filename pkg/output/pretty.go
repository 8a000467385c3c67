package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("12")  // bright blue
	colorAccent  = lipgloss.Color("10")  // bright green
	colorDim     = lipgloss.Color("240") // gray
	colorBorder  = lipgloss.Color("238") // dark gray
)

// PrettyFormatter renders reports as styled terminal panels. Colors are
// dropped automatically when the writer is not a terminal.
type PrettyFormatter struct {
	opts FormatOptions
}

// NewPrettyFormatter creates a new styled formatter with the given options.
func NewPrettyFormatter(opts FormatOptions) *PrettyFormatter {
	return &PrettyFormatter{opts: opts}
}

// Name returns the format name.
func (f *PrettyFormatter) Name() string {
	return "pretty"
}

type prettyStyles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	dim     lipgloss.Style
	bar     lipgloss.Style
	panel   lipgloss.Style
}

func newPrettyStyles(r *lipgloss.Renderer) prettyStyles {
	return prettyStyles{
		title:   r.NewStyle().Bold(true).Foreground(colorPrimary),
		heading: r.NewStyle().Bold(true).Foreground(colorAccent),
		dim:     r.NewStyle().Foreground(colorDim),
		bar:     r.NewStyle().Foreground(colorPrimary),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
	}
}

// Format renders the report as styled panels.
func (f *PrettyFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	s := newPrettyStyles(lipgloss.NewRenderer(w))

	if f.opts.Quiet {
		_, err := fmt.Fprintln(w, s.title.Render("Conversa")+" "+summaryLine(report))
		return err
	}

	header := []string{s.title.Render("Conversa Analysis Report")}
	if report.Metadata.Source != "" {
		header = append(header, s.dim.Render(report.Metadata.Source))
	}
	if period := periodLine(report.Result); period != "" {
		header = append(header, s.dim.Render(period))
	}

	blocks := []string{s.panel.Render(lipgloss.JoinVertical(lipgloss.Left, header...))}

	if report.Empty() {
		blocks = append(blocks, s.panel.Render("No messages to analyze"))
	} else {
		r := report.Result
		blocks = append(blocks,
			s.section("Participants", senderRows(r)),
			s.section("Activity", append(activityLines(r), s.bars(r.PeakHours)...)),
			s.section("Content", contentLines(r)),
		)
	}

	footer := summaryLine(report)
	if f.opts.Verbose {
		footer = lipgloss.JoinVertical(lipgloss.Left, append([]string{footer}, verboseLines(report)...)...)
	}
	blocks = append(blocks, s.dim.Render(footer))

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, blocks...))
	return err
}

func (s prettyStyles) section(title string, lines []string) string {
	body := append([]string{s.heading.Render(title)}, lines...)
	return s.panel.Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

// bars renders the hour histogram with block characters.
func (s prettyStyles) bars(hours [24]int) []string {
	peak := 0
	for _, n := range hours {
		peak = max(peak, n)
	}
	if peak == 0 {
		return nil
	}
	var lines []string
	for h, n := range hours {
		if n == 0 {
			continue
		}
		width := max(1, n*histogramBars/peak)
		lines = append(lines, fmt.Sprintf("%02dh %s %s", h, s.bar.Render(strings.Repeat("█", width)), s.dim.Render(fmt.Sprint(n))))
	}
	return lines
}
