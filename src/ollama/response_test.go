package ollama_test

import (
	"testing"

	"rimborso/src/ollama"
)

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind ollama.ResponseKind
		wantText string
	}{
		{
			name:     "json string",
			body:     `"tutto ok"`,
			wantKind: ollama.KindText,
			wantText: "tutto ok",
		},
		{
			name:     "object with message content",
			body:     `{"model":"llama3","message":{"role":"assistant","content":"risposta"}}`,
			wantKind: ollama.KindMessage,
			wantText: "risposta",
		},
		{
			name:     "array of message objects",
			body:     `[{"message":{"content":"prima"}},{"message":{"content":"seconda"}}]`,
			wantKind: ollama.KindMessageList,
			wantText: "prima",
		},
		{
			name:     "unknown object shape",
			body:     `{"choices":[{"text":"altro"}]}`,
			wantKind: ollama.KindUnknown,
			wantText: `{"choices":[{"text":"altro"}]}`,
		},
		{
			name:     "unknown scalar shape",
			body:     `42`,
			wantKind: ollama.KindUnknown,
			wantText: "42",
		},
		{
			name:     "empty array",
			body:     `[]`,
			wantKind: ollama.KindUnknown,
			wantText: "[]",
		},
		{
			name:     "raw non-json body",
			body:     "risposta in chiaro",
			wantKind: ollama.KindText,
			wantText: "risposta in chiaro",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ollama.DecodeResponse([]byte(tt.body))
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.wantKind)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if string(got.Raw) != tt.body {
				t.Errorf("Raw = %q, want original body preserved", got.Raw)
			}
		})
	}
}
