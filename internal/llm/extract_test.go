package llm

import "testing"

func TestExtractAfterTag(t *testing.T) {
	tests := []struct {
		name string
		text string
		tag  string
		want string
	}{
		{
			name: "reasoning segment stripped",
			text: "<think>the user asks about leave days</think>\nTwenty days per year.",
			tag:  "think",
			want: "Twenty days per year.",
		},
		{
			name: "no tag returns input unmodified",
			text: "  Twenty days per year.  ",
			tag:  "think",
			want: "  Twenty days per year.  ",
		},
		{
			name: "only last segment kept after closing tag",
			text: "</think>answer",
			tag:  "think",
			want: "answer",
		},
		{
			name: "empty remainder",
			text: "<think>all reasoning, no answer</think>",
			tag:  "think",
			want: "",
		},
		{
			name: "different tag",
			text: "<scratch>notes</scratch>final",
			tag:  "scratch",
			want: "final",
		},
		{
			name: "empty input",
			text: "",
			tag:  "think",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractAfterTag(tt.text, tt.tag); got != tt.want {
				t.Errorf("ExtractAfterTag(%q, %q) = %q, want %q", tt.text, tt.tag, got, tt.want)
			}
		})
	}
}
