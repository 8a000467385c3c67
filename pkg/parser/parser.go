package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
)

// Parser reconstructs messages from export lines fed to it in order.
// Implementations must be used sequentially (not concurrently).
type Parser struct {
	loc    *time.Location
	logger *zap.Logger

	messages []Message
	open     int // index of the message continuation lines attach to, -1 if none
	lineNum  int
	stats    Stats
}

// Option configures a Parser.
type Option func(*Parser)

// WithLocation sets the time zone timestamps are interpreted in (default time.Local).
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithLogger sets the logger used for dropped-line diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		loc:    time.Local,
		logger: zap.NewNop(),
		open:   -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse converts a whole export into messages. It never fails: lines that
// cannot be placed are dropped and reported through the logger.
func Parse(raw string, opts ...Option) []Message {
	p := New(opts...)
	for _, line := range strings.Split(raw, "\n") {
		p.Feed(line)
	}
	return p.Messages()
}

// ParseReader reads an export line by line. Only read errors and context
// cancellation are returned; malformed content never is.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) ([]Message, Stats, error) {
	p := New(opts...)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, p.Stats(), ctx.Err()
		default:
		}
		p.Feed(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, p.Stats(), fmt.Errorf("reading export: %w", err)
	}

	return p.Messages(), p.Stats(), nil
}

// ParseFile opens and parses an export file.
func ParseFile(ctx context.Context, path string, opts ...Option) ([]Message, Stats, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, Stats{}, fmt.Errorf("opening export %s: %w", path, err)
	}
	defer f.Close()

	msgs, stats, err := ParseReader(ctx, f, opts...)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", path, err)
	}
	return msgs, stats, nil
}

// Feed classifies one line and updates the message sequence.
func (p *Parser) Feed(line string) {
	p.lineNum++
	p.stats.LinesRead++

	line = strings.TrimRight(line, "\r")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		p.stats.BlankLines++
		return
	}

	// Only leading space is cut: "Sender: " may end the line when the
	// body follows on the next one.
	head, ok := MatchHead(strings.TrimLeftFunc(line, unicode.IsSpace))
	if !ok {
		if p.open < 0 && IsEncryptionBanner(trimmed) {
			p.stats.BannerLines++
			return
		}
		p.continueOrDrop(trimmed)
		return
	}
	if !head.HasSender && IsEncryptionBanner(head.Body) {
		p.stats.BannerLines++
		p.open = -1
		return
	}

	msg := Message{
		Sender:  head.Sender,
		Body:    strings.TrimSpace(head.Body),
		LineNum: p.lineNum,
	}

	ts, err := ResolveTimestamp(head.Date, head.Time, head.Daypart, p.loc)
	if err != nil {
		p.stats.MissingTimestamps++
		p.logger.Debug("unparseable timestamp",
			zap.Int("line", p.lineNum),
			zap.String("date", head.Date),
			zap.String("time", head.Time),
			zap.Error(err))
	} else {
		msg.Timestamp = ts
	}

	msg.IsSystem, msg.SystemKind = ClassifySystem(msg.Body, head.HasSender)
	if !head.HasSender {
		msg.Sender = ""
	}

	p.messages = append(p.messages, msg)
	p.stats.Messages++
	if msg.IsSystem {
		p.stats.SystemMessages++
		p.open = -1
		return
	}
	p.open = len(p.messages) - 1
}

func (p *Parser) continueOrDrop(line string) {
	if p.open < 0 {
		p.stats.Dropped++
		p.logger.Debug("dropping line without message head",
			zap.Int("line", p.lineNum),
			zap.String("text", truncate(line, 80)))
		return
	}
	if p.messages[p.open].Body == "" {
		p.messages[p.open].Body = line
	} else {
		p.messages[p.open].Body += "\n" + line
	}
	p.stats.Continuations++
}

// Messages returns the messages parsed so far.
func (p *Parser) Messages() []Message {
	out := make([]Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// Stats returns line accounting for the lines fed so far.
func (p *Parser) Stats() Stats {
	return p.stats
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
