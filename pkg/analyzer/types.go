package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elliotchance/orderedmap/v3"
)

// SenderStats holds the counters for one participant.
type SenderStats struct {
	Name string `json:"name"`

	Messages      int     `json:"messages"`
	TotalLength   int     `json:"totalLength"`
	AverageLength float64 `json:"averageLength"`
	Percentage    float64 `json:"percentage"`

	Emojis   *Counter       `json:"emojis"`
	Keywords CategoryCounts `json:"keywords"`

	PunctuationEmphasis int `json:"punctuationEmphasis"`
	CapsWords           int `json:"capsWords"`

	ResponseTimeTotalMs        int64    `json:"responseTimeTotalMs"`
	ResponseCount              int      `json:"responseCount"`
	AverageResponseTimeMinutes *float64 `json:"averageResponseTimeMinutes"`
}

func newSenderStats(name string) *SenderStats {
	return &SenderStats{Name: name, Emojis: NewCounter()}
}

// SenderMap keeps SenderStats in the order senders first spoke.
type SenderMap struct {
	m *orderedmap.OrderedMap[string, *SenderStats]
}

// NewSenderMap returns an empty SenderMap.
func NewSenderMap() *SenderMap {
	return &SenderMap{m: orderedmap.NewOrderedMap[string, *SenderStats]()}
}

// Get returns the stats for name.
func (s *SenderMap) Get(name string) (*SenderStats, bool) {
	if s == nil || s.m == nil {
		return nil, false
	}
	return s.m.Get(name)
}

// getOrCreate returns the stats for name, registering a new entry on first use.
func (s *SenderMap) getOrCreate(name string) *SenderStats {
	if s.m == nil {
		s.m = orderedmap.NewOrderedMap[string, *SenderStats]()
	}
	if st, ok := s.m.Get(name); ok {
		return st
	}
	st := newSenderStats(name)
	s.m.Set(name, st)
	return st
}

// Len returns the number of senders.
func (s *SenderMap) Len() int {
	if s == nil || s.m == nil {
		return 0
	}
	return s.m.Len()
}

// Each calls fn for every sender in first-seen order.
func (s *SenderMap) Each(fn func(*SenderStats)) {
	if s == nil || s.m == nil {
		return
	}
	for el := s.m.Front(); el != nil; el = el.Next() {
		fn(el.Value)
	}
}

// Names returns sender names in first-seen order.
func (s *SenderMap) Names() []string {
	names := make([]string, 0, s.Len())
	s.Each(func(st *SenderStats) {
		names = append(names, st.Name)
	})
	return names
}

// MarshalJSON writes an object keyed by sender name, in first-seen order.
func (s *SenderMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	var err error
	s.Each(func(st *SenderStats) {
		if err != nil {
			return
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		var k, v []byte
		if k, err = json.Marshal(st.Name); err != nil {
			return
		}
		if v, err = json.Marshal(st); err != nil {
			return
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by sender name, keeping document order.
func (s *SenderMap) UnmarshalJSON(data []byte) error {
	s.m = orderedmap.NewOrderedMap[string, *SenderStats]()

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("senders: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("senders: expected string key, got %v", tok)
		}
		st := &SenderStats{}
		if err := dec.Decode(st); err != nil {
			return fmt.Errorf("senders: %q: %w", name, err)
		}
		if st.Name == "" {
			st.Name = name
		}
		if st.Emojis == nil {
			st.Emojis = NewCounter()
		}
		s.m.Set(name, st)
	}
	_, err = dec.Token()
	return err
}

// Expression is a recurring bigram.
type Expression struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// AnalysisResult is the statistical profile of one conversation. It is
// built by a single pass and not modified after Analyze returns.
type AnalysisResult struct {
	TotalMessages     int        `json:"totalMessages"`
	MessagesPerSender *Counter   `json:"messagesPerSender"`
	Senders           *SenderMap `json:"senders"`

	Emojis        *Counter `json:"emojis"`
	MostUsedEmoji *string  `json:"mostUsedEmoji"`

	PeakHours            [24]int  `json:"peakHours"`
	MostActiveHour       *int     `json:"mostActiveHour"`
	MessagesPerDayOfWeek [7]int   `json:"messagesPerDayOfWeek"`
	MostActiveDayOfWeek  *int     `json:"mostActiveDayOfWeek"`
	MessagesPerDate      *Counter `json:"messagesPerDate"`
	MostActiveDate       *string  `json:"mostActiveDate"`
	ActiveDays           int      `json:"activeDays"`

	KeywordCounts    CategoryCounts `json:"keywordCounts"`
	DominantCategory *Category      `json:"dominantCategory"`

	WordFrequency  *Counter     `json:"wordFrequency"`
	FavoriteWord   *string      `json:"favoriteWord"`
	Expressions    *Counter     `json:"expressions"`
	TopExpressions []Expression `json:"topExpressions"`

	TotalLength              int     `json:"totalLength"`
	AverageLength            float64 `json:"averageLength"`
	PunctuationEmphasisCount int     `json:"punctuationEmphasisCount"`
	CapsWordCount            int     `json:"capsWordCount"`

	FirstMessageAt *time.Time `json:"firstMessageAt"`
	LastMessageAt  *time.Time `json:"lastMessageAt"`
}

func newResult() *AnalysisResult {
	return &AnalysisResult{
		MessagesPerSender: NewCounter(),
		Senders:           NewSenderMap(),
		Emojis:            NewCounter(),
		MessagesPerDate:   NewCounter(),
		WordFrequency:     NewCounter(),
		Expressions:       NewCounter(),
		TopExpressions:    []Expression{},
	}
}

// Empty reports whether no message was counted.
func (r *AnalysisResult) Empty() bool {
	return r == nil || r.TotalMessages == 0
}

// Span returns the time between the first and last counted message.
func (r *AnalysisResult) Span() time.Duration {
	if r.FirstMessageAt == nil || r.LastMessageAt == nil {
		return 0
	}
	return r.LastMessageAt.Sub(*r.FirstMessageAt)
}
