package anonymize

import (
	"testing"

	"github.com/ccollicutt/conversa/pkg/parser"
)

func msg(sender, body string) parser.Message {
	return parser.Message{Sender: sender, Body: body}
}

func TestAlias_FirstAppearanceOrder(t *testing.T) {
	a := New("")
	tests := []struct {
		sender string
		want   string
	}{
		{"Bruno", "Pessoa 1"},
		{"Ana", "Pessoa 2"},
		{"Bruno", "Pessoa 1"},
		{"", ""},
		{"Carla", "Pessoa 3"},
	}
	for _, tt := range tests {
		if got := a.Alias(tt.sender); got != tt.want {
			t.Errorf("Alias(%q) = %q, want %q", tt.sender, got, tt.want)
		}
	}
	if names := a.Names(); len(names) != 3 || names[0] != "Bruno" {
		t.Errorf("Names() = %v", names)
	}
}

func TestAlias_CustomLabel(t *testing.T) {
	if got := New("  Participant ").Alias("Ana"); got != "Participant 1" {
		t.Errorf("Alias = %q", got)
	}
}

func TestMessages(t *testing.T) {
	in := []parser.Message{
		msg("Ana Paula", "oi pessoal"),
		msg("Ana", "oi ANA PAULA, cadê o josé?"),
		msg("José", "Ana, Anabela e josé: aqui"),
		{Body: "José entrou usando o link", IsSystem: true},
	}

	out := New("P").Messages(in)

	tests := []struct {
		sender, body string
	}{
		{"P 1", "oi pessoal"},
		{"P 2", "oi P 1, cadê o P 3?"},
		{"P 3", "P 2, Anabela e P 3: aqui"},
		{"", "P 3 entrou usando o link"},
	}
	for i, tt := range tests {
		if out[i].Sender != tt.sender || out[i].Body != tt.body {
			t.Errorf("message %d = %q / %q, want %q / %q", i, out[i].Sender, out[i].Body, tt.sender, tt.body)
		}
	}
	if in[1].Sender != "Ana" || in[1].Body != "oi ANA PAULA, cadê o josé?" {
		t.Error("input slice was modified")
	}
}

func TestSlice(t *testing.T) {
	msgs := []parser.Message{
		msg("A", "um"),
		{Body: "Ana saiu", IsSystem: true},
		msg("B", "dois"),
		msg("A", "três"),
		msg("B", "quatro"),
	}

	tests := []struct {
		name                  string
		from, limit, maxChars int
		want                  []string
	}{
		{"all", 0, 0, 0, []string{"um", "dois", "três", "quatro"}},
		{"offset skips system lines", 1, 0, 0, []string{"dois", "três", "quatro"}},
		{"limit", 1, 2, 0, []string{"dois", "três"}},
		{"max chars counts characters", 0, 0, 10, []string{"um", "dois", "três"}},
		{"max chars below first", 0, 0, 1, nil},
		{"negative from", -3, 1, 0, []string{"um"}},
		{"past end", 9, 0, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slice(msgs, tt.from, tt.limit, tt.maxChars)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d messages, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Body != tt.want[i] {
					t.Errorf("[%d] = %q, want %q", i, got[i].Body, tt.want[i])
				}
			}
		})
	}
}

func TestRender(t *testing.T) {
	got := Render([]parser.Message{
		msg("Pessoa 1", "oi\ntudo bem?"),
		{Body: "mensagem apagada"},
	})
	want := "Pessoa 1: oi\ntudo bem?\nmensagem apagada\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}
