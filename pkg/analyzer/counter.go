package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/elliotchance/orderedmap/v3"
)

// Counter is a frequency map that remembers the order keys were first seen.
// Ties in Max are resolved by that order, which keeps results deterministic.
type Counter struct {
	m *orderedmap.OrderedMap[string, int]
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{m: orderedmap.NewOrderedMap[string, int]()}
}

func (c *Counter) init() {
	if c.m == nil {
		c.m = orderedmap.NewOrderedMap[string, int]()
	}
}

// Add increments key by n, registering it on first use.
func (c *Counter) Add(key string, n int) {
	c.init()
	current, _ := c.m.Get(key)
	c.m.Set(key, current+n)
}

// Get returns the count for key, 0 if absent.
func (c *Counter) Get(key string) int {
	if c == nil || c.m == nil {
		return 0
	}
	v, _ := c.m.Get(key)
	return v
}

// Len returns the number of distinct keys.
func (c *Counter) Len() int {
	if c == nil || c.m == nil {
		return 0
	}
	return c.m.Len()
}

// Each calls fn for every key in first-seen order.
func (c *Counter) Each(fn func(key string, count int)) {
	if c == nil || c.m == nil {
		return
	}
	for el := c.m.Front(); el != nil; el = el.Next() {
		fn(el.Key, el.Value)
	}
}

// Keys returns the keys in first-seen order.
func (c *Counter) Keys() []string {
	keys := make([]string, 0, c.Len())
	c.Each(func(key string, _ int) {
		keys = append(keys, key)
	})
	return keys
}

// Total returns the sum of all counts.
func (c *Counter) Total() int {
	total := 0
	c.Each(func(_ string, count int) {
		total += count
	})
	return total
}

// Max returns the key with the highest count. The earliest key wins ties.
// ok is false when the counter is empty.
func (c *Counter) Max() (key string, count int, ok bool) {
	c.Each(func(k string, n int) {
		if !ok || n > count {
			key, count, ok = k, n, true
		}
	})
	return key, count, ok
}

// Entry is one key of a Counter with its count.
type Entry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Top returns the n most frequent entries, count descending with equal
// counts in first-seen order. n <= 0 returns every entry.
func (c *Counter) Top(n int) []Entry {
	entries := make([]Entry, 0, c.Len())
	c.Each(func(key string, count int) {
		entries = append(entries, Entry{Key: key, Count: count})
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Map returns an unordered copy.
func (c *Counter) Map() map[string]int {
	out := make(map[string]int, c.Len())
	c.Each(func(key string, count int) {
		out[key] = count
	})
	return out
}

// MarshalJSON writes a JSON object whose keys follow first-seen order.
func (c *Counter) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	c.Each(func(key string, count int) {
		if err != nil {
			return
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		var k []byte
		k, err = json.Marshal(key)
		if err != nil {
			return
		}
		buf.Write(k)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", count)
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping the key order of the document.
func (c *Counter) UnmarshalJSON(data []byte) error {
	c.m = orderedmap.NewOrderedMap[string, int]()

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("counter: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("counter: expected string key, got %v", tok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("counter: value for %q: %w", key, err)
		}
		c.m.Set(key, count)
	}

	_, err = dec.Token()
	return err
}
