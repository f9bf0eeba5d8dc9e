package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "json fence",
			content: "Here is the report:\n```json\n{\"completeness_score\": 80}\n```\nDone.",
			want:    `{"completeness_score": 80}`,
		},
		{
			name:    "bare fence",
			content: "```\n{\"completeness_score\": 80}\n```",
			want:    `{"completeness_score": 80}`,
		},
		{
			name:    "unterminated fence",
			content: "```json\n{\"completeness_score\": 80}",
			want:    `{"completeness_score": 80}`,
		},
		{
			name:    "no fence",
			content: "plain prose with no code block",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.content))
		})
	}
}
