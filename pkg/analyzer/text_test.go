package analyzer

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestCountCategories(t *testing.T) {
	tests := []struct {
		body string
		want CategoryCounts
	}{
		{"kkkkk rsrs hahaha hehehe", CategoryCounts{CategoryLaughter: 4}},
		{"kk ha rs", CategoryCounts{}},
		{"tudo bem?? e você?", CategoryCounts{CategoryQuestions: 2}},
		{"que dia lindo, adorei", CategoryCounts{CategoryPositive: 2}},
		{"que droga, tô triste", CategoryCounts{CategoryNegative: 2}},
		{"bombom", CategoryCounts{}},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			if got := countCategories(tt.body); got != tt.want {
				t.Errorf("countCategories(%q) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}

func TestCategoryCounts_Dominant(t *testing.T) {
	if _, ok := (CategoryCounts{}).Dominant(); ok {
		t.Error("Dominant of zero counts should report false")
	}

	c, ok := CategoryCounts{CategoryQuestions: 3, CategoryNegative: 3}.Dominant()
	if !ok || c != CategoryQuestions {
		t.Errorf("Dominant = %v, want questions on a tie", c)
	}
}

func TestCategoryCounts_JSON(t *testing.T) {
	data, err := json.Marshal(CategoryCounts{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"laughter":1,"questions":2,"positive":3,"negative":4}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var back CategoryCounts
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != (CategoryCounts{1, 2, 3, 4}) {
		t.Errorf("Unmarshal = %v", back)
	}

	if err := json.Unmarshal([]byte(`{"sarcasm":1}`), &back); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestTokenize(t *testing.T) {
	f := newTextFolder()
	stop := stopWordSet(nil, f.fold)

	tests := []struct {
		body string
		want []string
	}{
		{"Olha https://exemplo.com LEGAL 2024 \U0001F602\U0001F602 café! <Mídia oculta>", []string{"olha", "legal", "café"}},
		{"eu vou pra praia", []string{"praia"}},
		{"<Mídia oculta>", nil},
		{"ab cd ef", nil},
		{"bom-dia", []string{"bomdia"}},
		{"^^^ $$$ +++ === <3 ~~~ |||", nil},
		{"kkk\U0001F602 top\U0001F44D\U0001F3FD", []string{"kkk", "top"}},
		{"\U0001F468\u200d\U0001F469\u200d\U0001F467\u200d\U0001F466", nil},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			got := tokenize(f.fold(tt.body), stop)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestCountEmphasis(t *testing.T) {
	tests := []struct {
		body string
		want int
	}{
		{"o que???? sério!!! ok!!", 2},
		{"!!", 0},
		{"!!!???", 2},
	}
	for _, tt := range tests {
		if got := countEmphasis(tt.body); got != tt.want {
			t.Errorf("countEmphasis(%q) = %d, want %d", tt.body, got, tt.want)
		}
	}
}

func TestCountCapsWords(t *testing.T) {
	tests := []struct {
		body string
		want int
	}{
		{"QUE DIA LINDO", 3},
		{"ÓTIMO ok AB", 1},
		{"NÃO acredito", 1},
		{"Olá Mundo", 0},
		{"OK!!! VAMOS", 1},
	}
	for _, tt := range tests {
		if got := countCapsWords(tt.body); got != tt.want {
			t.Errorf("countCapsWords(%q) = %d, want %d", tt.body, got, tt.want)
		}
	}
}

func TestExtractEmojis(t *testing.T) {
	tests := []struct {
		body string
		want []string
	}{
		{"oi ❤\ufe0f", []string{"❤"}},
		{"\U0001F468\u200d\U0001F469\u200d\U0001F467", []string{"\U0001F468", "\U0001F469", "\U0001F467"}},
		{"\U0001F44D\U0001F3FD", []string{"\U0001F44D"}},
		{"\U0001F44D\U0001F3FD \U0001F44D\U0001F3FD \U0001F44D", []string{"\U0001F44D", "\U0001F44D", "\U0001F44D"}},
		{"\U0001F1E7\U0001F1F7", []string{"\U0001F1E7\U0001F1F7"}},
		{"\U0001F1E7\U0001F1F7\U0001F1F5\U0001F1F9", []string{"\U0001F1E7\U0001F1F7", "\U0001F1F5\U0001F1F9"}},
		{"\U0001F1E7 solto", nil},
		{"sem emoji", nil},
	}
	for _, tt := range tests {
		got := extractEmojis(tt.body)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("extractEmojis(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

func TestIsEmojiToken(t *testing.T) {
	tests := []struct {
		tok  string
		want bool
	}{
		{"\U0001F602\U0001F602", true},
		{"❤\ufe0f", true},
		{"\U0001F468\u200d\U0001F469", true},
		{"ab\U0001F602", false},
		{"\ufe0f", false},
		{"\U0001F44D\U0001F3FD", true},
		{"\U0001F3FD", false},
		{"\U0001F1E7\U0001F1F7", true},
	}
	for _, tt := range tests {
		if got := isEmojiToken(tt.tok); got != tt.want {
			t.Errorf("isEmojiToken(%q) = %v, want %v", tt.tok, got, tt.want)
		}
	}
}

func TestCounter(t *testing.T) {
	c := NewCounter()
	if _, _, ok := c.Max(); ok {
		t.Error("Max of empty counter should report false")
	}

	c.Add("b", 2)
	c.Add("a", 2)
	c.Add("c", 1)

	if key, n, _ := c.Max(); key != "b" || n != 2 {
		t.Errorf("Max = %s/%d, want b/2 (first seen)", key, n)
	}
	if c.Total() != 5 {
		t.Errorf("Total = %d, want 5", c.Total())
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"b":2,"a":2,"c":1}` {
		t.Errorf("Marshal = %s, want insertion order", data)
	}

	var back Counter
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back.Keys(), []string{"b", "a", "c"}) {
		t.Errorf("Keys = %v, want [b a c]", back.Keys())
	}
}

func TestCounter_NilSafe(t *testing.T) {
	var c *Counter
	if c.Get("x") != 0 || c.Len() != 0 || c.Total() != 0 {
		t.Error("nil counter should read as empty")
	}
}
