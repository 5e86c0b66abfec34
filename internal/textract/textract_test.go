package textract

import (
	"strings"
	"testing"
)

func TestText_Empty(t *testing.T) {
	if _, err := Text(nil); err == nil {
		t.Error("empty input: got nil error, want failure")
	}
	if _, err := Text([]byte{}); err == nil {
		t.Error("zero-length input: got nil error, want failure")
	}
}

func TestText_PlainTextPassthrough(t *testing.T) {
	in := "Furnizor: ACME TRADING SRL Total: 1.190,00 RON"
	got, err := Text([]byte(in))
	if err != nil {
		t.Fatalf("got error %v, want passthrough", err)
	}
	if got != in {
		t.Errorf("got %q, want input unchanged", got)
	}
}

func TestText_BinaryRejected(t *testing.T) {
	data := []byte{0x00, 0xff, 0xfe, 0x80, 0x81, 0x90, 0xa0, 0xb0, 0xc0, 0xd0, 0xe0}
	if _, err := Text(data); err == nil {
		t.Error("binary input: got nil error, want failure")
	}
}

func TestText_CorruptPDF(t *testing.T) {
	// Valid magic over garbage must fail cleanly, not panic.
	if _, err := Text([]byte("%PDF-1.7\nthis is not a real pdf body")); err == nil {
		t.Error("corrupt pdf: got nil error, want failure")
	}
}

func TestReadable(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"romanian invoice", "Factura fiscala seria ABC nr. 123 emisa la 15.03.2024", true},
		{"too short", "abc", false},
		{"whitespace only", "   \n\t  ", false},
		{"mangled font output", strings.Repeat("\uf8ff\ue000\uf0a7", 20), false},
		{"diacritics ok", "Societatea Națională de Transport Feroviar de Călători", true},
	}
	for _, c := range cases {
		if got := readable(c.text); got != c.want {
			t.Errorf("%s: readable=%v, want %v", c.name, got, c.want)
		}
	}
}
