package analyzer

import (
	"time"

	"github.com/ccollicutt/conversa/pkg/parser"
)

// Analyzer turns parsed messages into an AnalysisResult. An Analyzer holds
// only configuration, so one value may be shared by concurrent callers.
type Analyzer struct {
	extraStopWords []string
	loc            *time.Location
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithStopWords adds words to the built-in stop-word list.
func WithStopWords(words []string) Option {
	return func(a *Analyzer) {
		a.extraStopWords = append(a.extraStopWords, words...)
	}
}

// WithLocation buckets hours, weekdays and dates in loc instead of each
// timestamp's own location.
func WithLocation(loc *time.Location) Option {
	return func(a *Analyzer) {
		a.loc = loc
	}
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze folds msgs into a finalized result. It never fails; empty input
// yields zero counts and nil extrema.
func (a *Analyzer) Analyze(msgs []parser.Message) *AnalysisResult {
	acc := newAccumulator(a)
	for i := range msgs {
		acc.process(&msgs[i])
	}
	return acc.finalize()
}

// Analyze is shorthand for New(opts...).Analyze(msgs).
func Analyze(msgs []parser.Message, opts ...Option) *AnalysisResult {
	return New(opts...).Analyze(msgs)
}
