package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ccollicutt/conversa/pkg/analyzer"
)

const (
	topEmojis     = 5
	periodLayout  = "2006-01-02 15:04"
	histogramBars = 30
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "Conversa: %s\n", summaryLine(report))
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	r := report.Result

	fmt.Fprintln(w, "=== Conversa Analysis Report ===")
	if report.Metadata.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", report.Metadata.Source)
	}
	if period := periodLine(r); period != "" {
		fmt.Fprintf(w, "Period: %s\n", period)
	}
	fmt.Fprintln(w)

	if report.Empty() {
		fmt.Fprintln(w, "No messages to analyze")
		fmt.Fprintln(w)
	} else {
		fmt.Fprintln(w, "[PARTICIPANTS]")
		for _, row := range senderRows(r) {
			fmt.Fprintf(w, "  %s\n", row)
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, "[ACTIVITY]")
		for _, line := range activityLines(r) {
			fmt.Fprintf(w, "  %s\n", line)
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, "[CONTENT]")
		for _, line := range contentLines(r) {
			fmt.Fprintf(w, "  %s\n", line)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %s\n", summaryLine(report))

	if f.opts.Verbose {
		for _, line := range verboseLines(report) {
			fmt.Fprintln(w, line)
		}
	}

	return nil
}

func summaryLine(report *Report) string {
	s := report.Summary
	return fmt.Sprintf("%d messages, %d participants, %d active days", s.TotalMessages, s.Participants, s.ActiveDays)
}

func periodLine(r *analyzer.AnalysisResult) string {
	if r == nil || r.FirstMessageAt == nil || r.LastMessageAt == nil {
		return ""
	}
	return fmt.Sprintf("%s to %s", r.FirstMessageAt.Format(periodLayout), r.LastMessageAt.Format(periodLayout))
}

// senderRows renders one aligned line per sender, most active first.
func senderRows(r *analyzer.AnalysisResult) []string {
	width := 0
	r.Senders.Each(func(st *analyzer.SenderStats) {
		width = max(width, len([]rune(st.Name)))
	})

	var rows []string
	for _, e := range r.MessagesPerSender.Top(0) {
		st, ok := r.Senders.Get(e.Key)
		if !ok {
			continue
		}
		pad := strings.Repeat(" ", width-len([]rune(st.Name)))
		row := fmt.Sprintf("%s%s  %5d msgs  %5.1f%%  avg %.1f chars", st.Name, pad, st.Messages, st.Percentage, st.AverageLength)
		if st.AverageResponseTimeMinutes != nil {
			row += fmt.Sprintf("  replies in %s", formatMinutes(*st.AverageResponseTimeMinutes))
		}
		rows = append(rows, row)
	}
	return rows
}

func activityLines(r *analyzer.AnalysisResult) []string {
	var lines []string
	if r.MostActiveHour != nil {
		h := *r.MostActiveHour
		lines = append(lines, fmt.Sprintf("Busiest hour: %02dh (%d messages)", h, r.PeakHours[h]))
	}
	if r.MostActiveDayOfWeek != nil {
		d := *r.MostActiveDayOfWeek
		lines = append(lines, fmt.Sprintf("Busiest weekday: %s (%d messages)", time.Weekday(d), r.MessagesPerDayOfWeek[d]))
	}
	if r.MostActiveDate != nil {
		lines = append(lines, fmt.Sprintf("Busiest date: %s (%d messages)", *r.MostActiveDate, r.MessagesPerDate.Get(*r.MostActiveDate)))
	}
	lines = append(lines, fmt.Sprintf("Average length: %.1f chars", r.AverageLength))
	return lines
}

func contentLines(r *analyzer.AnalysisResult) []string {
	var lines []string

	var kw []string
	for _, c := range analyzer.Categories {
		kw = append(kw, fmt.Sprintf("%s %d", c, r.KeywordCounts.Get(c)))
	}
	line := "Keywords: " + strings.Join(kw, ", ")
	if r.DominantCategory != nil {
		line += fmt.Sprintf(" (dominant: %s)", r.DominantCategory)
	}
	lines = append(lines, line)

	if emojis := r.Emojis.Top(topEmojis); len(emojis) > 0 {
		parts := make([]string, len(emojis))
		for i, e := range emojis {
			parts[i] = fmt.Sprintf("%s x%d", e.Key, e.Count)
		}
		lines = append(lines, "Emojis: "+strings.Join(parts, ", "))
	}

	if r.FavoriteWord != nil {
		lines = append(lines, fmt.Sprintf("Favorite word: %s (%d)", *r.FavoriteWord, r.WordFrequency.Get(*r.FavoriteWord)))
	}

	lines = append(lines, fmt.Sprintf("Emphasis: %d, caps words: %d", r.PunctuationEmphasisCount, r.CapsWordCount))

	for _, e := range r.TopExpressions {
		lines = append(lines, fmt.Sprintf("Expression: %q x%d", e.Text, e.Count))
	}
	return lines
}

func verboseLines(report *Report) []string {
	p := report.Metadata.Parse
	lines := []string{
		fmt.Sprintf("Lines read: %d (blank %d, banner %d, continuations %d, dropped %d)",
			p.LinesRead, p.BlankLines, p.BannerLines, p.Continuations, p.Dropped),
		fmt.Sprintf("Messages parsed: %d (system %d, missing timestamp %d)",
			p.Messages, p.SystemMessages, p.MissingTimestamps),
		fmt.Sprintf("Duration: %s", report.Metadata.Duration.Round(time.Millisecond)),
	}
	if report.Result != nil && !report.Empty() {
		lines = append(lines, "Hours:")
		lines = append(lines, hourHistogram(report.Result.PeakHours)...)
	}
	return lines
}

// hourHistogram draws one bar per non-empty hour, scaled to histogramBars.
func hourHistogram(hours [24]int) []string {
	peak := 0
	for _, n := range hours {
		peak = max(peak, n)
	}
	var lines []string
	for h, n := range hours {
		if n == 0 {
			continue
		}
		bar := max(1, n*histogramBars/peak)
		lines = append(lines, fmt.Sprintf("  %02dh %s %d", h, strings.Repeat("#", bar), n))
	}
	return lines
}

func formatMinutes(m float64) string {
	if m < 1 {
		return fmt.Sprintf("%.0fs", m*60)
	}
	if m < 60 {
		return fmt.Sprintf("%.1f min", m)
	}
	return fmt.Sprintf("%.1f h", m/60)
}
