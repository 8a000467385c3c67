// Package output provides formatting and output generation for analysis results.
package output

import (
	"time"

	"github.com/ccollicutt/conversa/pkg/analyzer"
	"github.com/ccollicutt/conversa/pkg/parser"
)

// Report is the complete output for one export.
type Report struct {
	// Summary provides the headline numbers.
	Summary Summary `json:"summary"`

	// Result is the full analysis.
	Result *analyzer.AnalysisResult `json:"result"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides the headline numbers of an analysis.
type Summary struct {
	TotalMessages    int     `json:"totalMessages"`
	Participants     int     `json:"participants"`
	ActiveDays       int     `json:"activeDays"`
	AverageLength    float64 `json:"averageLength"`
	TopSender        string  `json:"topSender,omitempty"`
	MostUsedEmoji    string  `json:"mostUsedEmoji,omitempty"`
	FavoriteWord     string  `json:"favoriteWord,omitempty"`
	DominantCategory string  `json:"dominantCategory,omitempty"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// Source is the export that was analyzed.
	Source string `json:"source"`

	// Parse holds the parser's line counters.
	Parse parser.Stats `json:"parse"`

	// AnalyzedAt is when the analysis finished.
	AnalyzedAt time.Time `json:"analyzedAt"`

	// Duration is how long parsing and analysis took.
	Duration time.Duration `json:"durationNs"`

	// ID is set when the report was saved to the history store.
	ID string `json:"id,omitempty"`
}

// NewReport creates a Report from an analysis result.
func NewReport(result *analyzer.AnalysisResult, stats parser.Stats, source string, started time.Time) *Report {
	now := time.Now()
	report := &Report{
		Result: result,
		Metadata: Metadata{
			Source:     source,
			Parse:      stats,
			AnalyzedAt: now,
			Duration:   now.Sub(started),
		},
		Summary: Summary{
			TotalMessages: result.TotalMessages,
			Participants:  result.Senders.Len(),
			ActiveDays:    result.ActiveDays,
			AverageLength: result.AverageLength,
		},
	}

	if name, _, ok := result.MessagesPerSender.Max(); ok {
		report.Summary.TopSender = name
	}
	if result.MostUsedEmoji != nil {
		report.Summary.MostUsedEmoji = *result.MostUsedEmoji
	}
	if result.FavoriteWord != nil {
		report.Summary.FavoriteWord = *result.FavoriteWord
	}
	if result.DominantCategory != nil {
		report.Summary.DominantCategory = result.DominantCategory.String()
	}

	return report
}

// Empty returns true if no message was counted.
func (r *Report) Empty() bool {
	return r.Summary.TotalMessages == 0
}
