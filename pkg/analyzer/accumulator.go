package analyzer

import (
	"time"

	"github.com/rivo/uniseg"

	"github.com/ccollicutt/conversa/pkg/parser"
)

const (
	favoriteWordFloor = 2
	expressionFloor   = 3
	topExpressions    = 5
)

// responseCursor remembers the last counted message across the fold.
type responseCursor struct {
	sender string
	at     time.Time
	valid  bool
}

// observe returns the reply delay to attribute to sender, if any, and the
// cursor advanced to this message. Delays are only reported when the sender
// changed and time did not run backwards.
func (c responseCursor) observe(sender string, at time.Time) (time.Duration, bool, responseCursor) {
	next := responseCursor{sender: sender, at: at, valid: true}
	if !c.valid || c.sender == sender {
		return 0, false, next
	}
	delta := at.Sub(c.at)
	if delta < 0 {
		return 0, false, next
	}
	return delta, true, next
}

type accumulator struct {
	result    *AnalysisResult
	folder    *textFolder
	stopWords map[string]bool
	loc       *time.Location
	cursor    responseCursor
}

func newAccumulator(a *Analyzer) *accumulator {
	folder := newTextFolder()
	return &accumulator{
		result:    newResult(),
		folder:    folder,
		stopWords: stopWordSet(a.extraStopWords, folder.fold),
		loc:       a.loc,
	}
}

// counted reports whether m takes part in the statistics.
func counted(m *parser.Message) bool {
	return !m.IsSystem && m.Body != "" && m.HasSender() && m.HasTimestamp()
}

func (acc *accumulator) process(m *parser.Message) {
	if !counted(m) {
		return
	}
	r := acc.result
	st := r.Senders.getOrCreate(m.Sender)

	length := uniseg.GraphemeClusterCount(m.Body)
	r.TotalMessages++
	r.MessagesPerSender.Add(m.Sender, 1)
	r.TotalLength += length
	st.Messages++
	st.TotalLength += length

	delta, ok, next := acc.cursor.observe(m.Sender, m.Timestamp)
	if ok {
		st.ResponseTimeTotalMs += delta.Milliseconds()
		st.ResponseCount++
	}
	acc.cursor = next

	for _, e := range extractEmojis(m.Body) {
		r.Emojis.Add(e, 1)
		st.Emojis.Add(e, 1)
	}

	acc.bucket(m.Timestamp)

	folded := acc.folder.fold(m.Body)
	cats := countCategories(folded)
	for _, c := range Categories {
		r.KeywordCounts[c] += cats[c]
		st.Keywords[c] += cats[c]
	}

	tokens := tokenize(folded, acc.stopWords)
	for i, tok := range tokens {
		r.WordFrequency.Add(tok, 1)
		if i > 0 {
			r.Expressions.Add(tokens[i-1]+" "+tok, 1)
		}
	}

	emphasis := countEmphasis(m.Body)
	caps := countCapsWords(m.Body)
	r.PunctuationEmphasisCount += emphasis
	r.CapsWordCount += caps
	st.PunctuationEmphasis += emphasis
	st.CapsWords += caps
}

func (acc *accumulator) bucket(ts time.Time) {
	if acc.loc != nil {
		ts = ts.In(acc.loc)
	}
	r := acc.result
	r.PeakHours[ts.Hour()]++
	r.MessagesPerDayOfWeek[ts.Weekday()]++
	r.MessagesPerDate.Add(ts.Format(time.DateOnly), 1)

	if r.FirstMessageAt == nil || ts.Before(*r.FirstMessageAt) {
		first := ts
		r.FirstMessageAt = &first
	}
	if r.LastMessageAt == nil || ts.After(*r.LastMessageAt) {
		last := ts
		r.LastMessageAt = &last
	}
}

func (acc *accumulator) finalize() *AnalysisResult {
	r := acc.result

	r.Senders.Each(func(st *SenderStats) {
		if st.Messages > 0 {
			st.AverageLength = float64(st.TotalLength) / float64(st.Messages)
		}
		if r.TotalMessages > 0 {
			st.Percentage = float64(st.Messages) * 100 / float64(r.TotalMessages)
		}
		if st.ResponseCount > 0 {
			minutes := float64(st.ResponseTimeTotalMs) / float64(st.ResponseCount) / 60000
			st.AverageResponseTimeMinutes = &minutes
		}
	})

	if r.TotalMessages > 0 {
		r.AverageLength = float64(r.TotalLength) / float64(r.TotalMessages)
	}

	if emoji, _, ok := r.Emojis.Max(); ok {
		r.MostUsedEmoji = &emoji
	}
	r.MostActiveHour = maxIndex(r.PeakHours[:])
	r.MostActiveDayOfWeek = maxIndex(r.MessagesPerDayOfWeek[:])
	if date, _, ok := r.MessagesPerDate.Max(); ok {
		r.MostActiveDate = &date
	}
	r.ActiveDays = r.MessagesPerDate.Len()

	if c, ok := r.KeywordCounts.Dominant(); ok {
		r.DominantCategory = &c
	}

	if word, n, ok := r.WordFrequency.Max(); ok && n >= favoriteWordFloor {
		r.FavoriteWord = &word
	}
	r.TopExpressions = topN(r.Expressions, expressionFloor, topExpressions)

	return r
}

// maxIndex returns the index of the largest positive bucket, the lowest
// index winning ties. It returns nil when every bucket is zero.
func maxIndex(buckets []int) *int {
	best := -1
	for i, n := range buckets {
		if n > 0 && (best < 0 || n > buckets[best]) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return &best
}

// topN returns up to n entries of c with at least floor occurrences, by
// count descending. Equal counts keep first-seen order.
func topN(c *Counter, floor, n int) []Expression {
	out := []Expression{}
	for _, e := range c.Top(0) {
		if e.Count < floor || len(out) == n {
			break
		}
		out = append(out, Expression{Text: e.Key, Count: e.Count})
	}
	return out
}
