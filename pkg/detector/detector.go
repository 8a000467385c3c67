// Package detector samples a chat export and reports which message-head
// grammars it uses and how its dates are ordered.
package detector

import (
	"bufio"
	"context"
	"os"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/ccollicutt/conversa/pkg/parser"
)

const defaultSampleSize = 200

// DetectionResult holds the result of sampling an export.
type DetectionResult struct {
	Matches      []FormatMatch // Grammars that matched, sorted by confidence descending
	SampledLines int           // Non-blank lines sampled
	ParsedLines  int           // Lines matched by the best grammar
	Senders      int           // Distinct senders seen in the sample

	DateOrder        parser.DateOrder // Date ordering suggested by the sample
	DayMonthEvidence int              // Dates whose first field was > 12
	MonthDayEvidence int              // Dates whose second field was > 12
	AmbiguityNote    string           // Warning about date ordering if applicable
}

// FormatMatch represents a grammar that matched with its confidence score.
type FormatMatch struct {
	Format     *HeadFormat
	Confidence float64   // 0.0 to 1.0 (share of sampled lines matched)
	MatchCount int       // Number of lines that matched
	SampleLine string    // Example line that matched
	ParsedTime time.Time // Timestamp of the sample, zero if it did not resolve
}

// Detector samples exports to identify their head grammar.
type Detector struct {
	formats    []*HeadFormat
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 200).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with the parser's grammars.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		sampleSize: defaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples an export file and returns the detected grammars.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of export lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{DateOrder: parser.DateOrderAmbiguous}

	type formatStats struct {
		matchCount int
		sampleLine string
		parsedTime time.Time
	}
	stats := make(map[parser.HeadFormat]*formatStats)
	senders := make(map[string]bool)

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		result.SampledLines++

		head, ok := parser.MatchHead(strings.TrimLeftFunc(raw, unicode.IsSpace))
		if !ok {
			continue
		}

		s := stats[head.Format]
		if s == nil {
			s = &formatStats{sampleLine: line}
			stats[head.Format] = s
		}
		s.matchCount++
		if s.parsedTime.IsZero() {
			if ts, err := parser.ResolveTimestamp(head.Date, head.Time, head.Daypart, time.UTC); err == nil {
				s.parsedTime = ts
			}
		}

		if head.HasSender {
			senders[head.Sender] = true
		}
		if parts, err := parser.SplitDate(head.Date); err == nil {
			switch parser.ClassifyDateOrder(parts[0], parts[1]) {
			case parser.DateOrderDayMonth:
				result.DayMonthEvidence++
			case parser.DateOrderMonthDay:
				result.MonthDayEvidence++
			}
		}
	}
	result.Senders = len(senders)

	if result.SampledLines == 0 {
		return result
	}

	// d.formats is in priority order, so the stable sort keeps it for ties.
	for _, f := range d.formats {
		s, ok := stats[f.Kind]
		if !ok {
			continue
		}
		result.Matches = append(result.Matches, FormatMatch{
			Format:     f,
			Confidence: float64(s.matchCount) / float64(result.SampledLines),
			MatchCount: s.matchCount,
			SampleLine: s.sampleLine,
			ParsedTime: s.parsedTime,
		})
	}
	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Confidence > result.Matches[j].Confidence
	})

	if len(result.Matches) > 0 {
		result.ParsedLines = result.Matches[0].MatchCount
		result.DateOrder, result.AmbiguityNote = dateOrderVerdict(result.DayMonthEvidence, result.MonthDayEvidence)
	}

	return result
}

func dateOrderVerdict(dayMonth, monthDay int) (parser.DateOrder, string) {
	switch {
	case dayMonth > 0 && monthDay == 0:
		return parser.DateOrderDayMonth, ""
	case monthDay > 0 && dayMonth == 0:
		return parser.DateOrderMonthDay, "Dates look like MM/DD. Dates whose day and month are both <= 12 " +
			"are still read as DD/MM, so their day and month will be swapped."
	case dayMonth > 0 && monthDay > 0:
		return parser.DateOrderAmbiguous, "The sample mixes DD/MM and MM/DD dates. " +
			"Each date is resolved on its own, so ordering may be inconsistent."
	default:
		return parser.DateOrderAmbiguous, "No date in the sample has a field above 12, so day and month " +
			"cannot be told apart. DD/MM is assumed."
	}
}

// sampleFile reads up to sampleSize non-blank lines from a file.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() && len(lines) < d.sampleSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one grammar matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
