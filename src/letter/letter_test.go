package letter_test

import (
	"strings"
	"testing"

	"rimborso/src/letter"
)

func TestRenderAmountPlaceholder(t *testing.T) {
	got := letter.Render("Rimborso: {{IMPORTO}}", letter.Values{Amount: "480,00 €"})
	want := "Rimborso: 480,00 €"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderAppendsClosingParagraph(t *testing.T) {
	template := "Spett.le Banca,\ncon la presente si richiede quanto dovuto."
	got := letter.Render(template, letter.Values{Amount: "480,00 €"})

	if !strings.HasPrefix(got, template) {
		t.Errorf("Render should keep the original text, got %q", got)
	}
	if !strings.Contains(got, "480,00 €") {
		t.Errorf("appended paragraph should state the amount, got %q", got)
	}
	if !strings.Contains(got, "125-sexies") {
		t.Errorf("appended paragraph should cite the legal basis, got %q", got)
	}
}

func TestRenderEmptyTemplate(t *testing.T) {
	got := letter.Render("", letter.Values{Amount: "100,00 €"})
	if !strings.Contains(got, "100,00 €") || strings.HasPrefix(got, "\n") {
		t.Errorf("empty template should yield just the closing paragraph, got %q", got)
	}
}

func TestRenderNameAndDate(t *testing.T) {
	template := "Io sottoscritto {{NOME}}, in data {{DATA}}, richiedo {{IMPORTO}}."
	got := letter.Render(template, letter.Values{
		Amount:     "1.234,56 €",
		ClientName: "Mario Rossi",
		Date:       "15/06/2024",
	})
	want := "Io sottoscritto Mario Rossi, in data 15/06/2024, richiedo 1.234,56 €."
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderIsCaseSensitive(t *testing.T) {
	got := letter.Render("Rimborso: {{importo}}", letter.Values{Amount: "480,00 €"})
	if !strings.Contains(got, "{{importo}}") {
		t.Errorf("lowercase token must not be substituted, got %q", got)
	}
	if !strings.Contains(got, "125-sexies") {
		t.Errorf("template without the exact placeholder gets the closing paragraph, got %q", got)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{480, "480,00 €"},
		{1234.5, "1.234,50 €"},
		{1234567.891, "1.234.567,89 €"},
		{0, "0,00 €"},
		{-42.4, "-42,40 €"},
	}

	for _, tt := range tests {
		if got := letter.FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
