package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/conversa/pkg/analyzer"
)

// ErrNotFound is returned when no analysis matches the requested id.
var ErrNotFound = errors.New("analysis not found")

// DefaultListLimit bounds List when the caller passes no limit.
const DefaultListLimit = 20

// Record is the stored projection of one analysis run.
type Record struct {
	ID        string
	Source    string
	CreatedAt time.Time

	TotalMessages  int
	Participants   int
	ActiveDays     int
	TotalLength    int
	AverageLength  float64
	EmphasisCount  int
	CapsWordCount  int
	MostActiveHour *int

	MostUsedEmoji    string
	FavoriteWord     string
	DominantCategory string
	FirstMessageAt   string
	LastMessageAt    string

	// Senders holds per-sender message counts in first-seen order.
	Senders        []SenderCount
	Keywords       map[string]int
	TopExpressions []analyzer.Expression
}

// SenderCount is one row of a record's sender breakdown.
type SenderCount struct {
	Name     string `json:"name"`
	Messages int    `json:"messages"`
}

// NewRecord projects result into a Record. ID and CreatedAt are filled by Save.
func NewRecord(result *analyzer.AnalysisResult, source string) *Record {
	rec := &Record{
		Source:         source,
		TotalMessages:  result.TotalMessages,
		ActiveDays:     result.ActiveDays,
		TotalLength:    result.TotalLength,
		AverageLength:  result.AverageLength,
		EmphasisCount:  result.PunctuationEmphasisCount,
		CapsWordCount:  result.CapsWordCount,
		MostActiveHour: result.MostActiveHour,
		Keywords:       make(map[string]int, len(analyzer.Categories)),
		TopExpressions: result.TopExpressions,
	}
	if result.Senders != nil {
		rec.Participants = result.Senders.Len()
		result.Senders.Each(func(st *analyzer.SenderStats) {
			rec.Senders = append(rec.Senders, SenderCount{Name: st.Name, Messages: st.Messages})
		})
	}
	for _, c := range analyzer.Categories {
		rec.Keywords[c.String()] = result.KeywordCounts.Get(c)
	}
	if result.MostUsedEmoji != nil {
		rec.MostUsedEmoji = *result.MostUsedEmoji
	}
	if result.FavoriteWord != nil {
		rec.FavoriteWord = *result.FavoriteWord
	}
	if result.DominantCategory != nil {
		rec.DominantCategory = result.DominantCategory.String()
	}
	if result.FirstMessageAt != nil {
		rec.FirstMessageAt = result.FirstMessageAt.Format(time.RFC3339)
	}
	if result.LastMessageAt != nil {
		rec.LastMessageAt = result.LastMessageAt.Format(time.RFC3339)
	}
	return rec
}

const recordColumns = `id, source, created_at, total_messages, participants, active_days,
	total_length, average_length, emphasis_count, caps_word_count, most_active_hour,
	most_used_emoji, favorite_word, dominant_category, first_message_at, last_message_at,
	senders_json, keywords_json, top_expressions_json`

// Save inserts rec, assigning a fresh ID and CreatedAt when unset.
func (db *DB) Save(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	sendersList := rec.Senders
	if sendersList == nil {
		sendersList = []SenderCount{}
	}
	senders, err := json.Marshal(sendersList)
	if err != nil {
		return fmt.Errorf("encode senders: %w", err)
	}
	keywords, err := json.Marshal(rec.Keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}
	expressions := rec.TopExpressions
	if expressions == nil {
		expressions = []analyzer.Expression{}
	}
	exprJSON, err := json.Marshal(expressions)
	if err != nil {
		return fmt.Errorf("encode expressions: %w", err)
	}

	var hour sql.NullInt64
	if rec.MostActiveHour != nil {
		hour = sql.NullInt64{Int64: int64(*rec.MostActiveHour), Valid: true}
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO analyses (`+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Source, rec.CreatedAt.UnixMilli(), rec.TotalMessages, rec.Participants, rec.ActiveDays,
		rec.TotalLength, rec.AverageLength, rec.EmphasisCount, rec.CapsWordCount, hour,
		rec.MostUsedEmoji, rec.FavoriteWord, rec.DominantCategory, rec.FirstMessageAt, rec.LastMessageAt,
		string(senders), string(keywords), string(exprJSON),
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// Get returns the record with the given id.
func (db *DB) Get(ctx context.Context, id string) (*Record, error) {
	row := db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM analyses WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// List returns up to limit records, newest first.
func (db *DB) List(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM analyses ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes the record with the given id.
func (db *DB) Delete(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete analysis: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete analysis: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*Record, error) {
	var (
		rec                    Record
		createdAt              int64
		hour                   sql.NullInt64
		senders, keywords, exp string
	)
	err := s.Scan(&rec.ID, &rec.Source, &createdAt, &rec.TotalMessages, &rec.Participants, &rec.ActiveDays,
		&rec.TotalLength, &rec.AverageLength, &rec.EmphasisCount, &rec.CapsWordCount, &hour,
		&rec.MostUsedEmoji, &rec.FavoriteWord, &rec.DominantCategory, &rec.FirstMessageAt, &rec.LastMessageAt,
		&senders, &keywords, &exp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan analysis: %w", err)
	}

	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	if hour.Valid {
		h := int(hour.Int64)
		rec.MostActiveHour = &h
	}
	if err := json.Unmarshal([]byte(senders), &rec.Senders); err != nil {
		return nil, fmt.Errorf("decode senders: %w", err)
	}
	if err := json.Unmarshal([]byte(keywords), &rec.Keywords); err != nil {
		return nil, fmt.Errorf("decode keywords: %w", err)
	}
	if err := json.Unmarshal([]byte(exp), &rec.TopExpressions); err != nil {
		return nil, fmt.Errorf("decode expressions: %w", err)
	}
	return &rec, nil
}
