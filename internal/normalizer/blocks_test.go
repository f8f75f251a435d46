package normalizer

import (
	"reflect"
	"testing"
)

func TestParseBlocksTableRoundTrip(t *testing.T) {
	input := "[Table Start]\nA | B\n1 | 2\n[Table End]"

	blocks := ParseBlocks(input)
	if len(blocks) != 1 {
		t.Fatalf("ParseBlocks() returned %d blocks, want 1", len(blocks))
	}
	if blocks[0].Kind != BlockTable {
		t.Fatalf("block kind = %v, want BlockTable", blocks[0].Kind)
	}

	wantRows := [][]string{{"A", "B"}, {"1", "2"}}
	if !reflect.DeepEqual(blocks[0].Rows, wantRows) {
		t.Errorf("table rows = %v, want %v", blocks[0].Rows, wantRows)
	}
}

func TestParseBlocks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Block
	}{
		{
			name: "heading with level",
			text: "## Infrastructure",
			want: []Block{{Kind: BlockHeading, Level: 2, Text: "Infrastructure"}},
		},
		{
			name: "heading level capped",
			text: "##### Deep Heading",
			want: []Block{{Kind: BlockHeading, Level: 3, Text: "Deep Heading"}},
		},
		{
			name: "paragraph lines joined",
			text: "first line\nsecond line",
			want: []Block{{Kind: BlockParagraph, Text: "first line\nsecond line"}},
		},
		{
			name: "blank line separates paragraphs",
			text: "first\n\nsecond",
			want: []Block{
				{Kind: BlockParagraph, Text: "first"},
				{Kind: BlockParagraph, Text: "second"},
			},
		},
		{
			name: "bullet list",
			text: "- one\n- two",
			want: []Block{{Kind: BlockBulletList, Items: []string{"one", "two"}}},
		},
		{
			name: "numbered list",
			text: "1. alpha\n2. beta",
			want: []Block{{Kind: BlockNumberedList, Items: []string{"alpha", "beta"}}},
		},
		{
			name: "tree hierarchy lines",
			text: "├── cmd\n└── internal",
			want: []Block{{Kind: BlockTreeList, Lines: []string{"├── cmd", "└── internal"}}},
		},
		{
			name: "code region preserves lines",
			text: "[Code Block]\nif x {\n    return\n}\n[End Code Block]",
			want: []Block{{Kind: BlockCode, Text: "if x {\n    return\n}"}},
		},
		{
			name: "unterminated code region still emitted",
			text: "[Code Block]\norphan line",
			want: []Block{{Kind: BlockCode, Text: "orphan line"}},
		},
		{
			name: "unterminated table still emitted",
			text: "[Table Start]\nX | Y",
			want: []Block{{Kind: BlockTable, Rows: [][]string{{"X", "Y"}}}},
		},
		{
			name: "separator lines ignored",
			text: "above\n-----\nbelow",
			want: []Block{{Kind: BlockParagraph, Text: "above\nbelow"}},
		},
		{
			name: "mixed kinds in order",
			text: "# Title\nintro text\n- item\n[Table Start]\na | b\n[Table End]",
			want: []Block{
				{Kind: BlockHeading, Level: 1, Text: "Title"},
				{Kind: BlockParagraph, Text: "intro text"},
				{Kind: BlockBulletList, Items: []string{"item"}},
				{Kind: BlockTable, Rows: [][]string{{"a", "b"}}},
			},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseBlocks(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseBlocks() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseBlocksMarkerInsideCode(t *testing.T) {
	// A list-looking line inside a code region stays verbatim code.
	text := "[Code Block]\n- not a bullet\n[End Code Block]"

	blocks := ParseBlocks(text)
	if len(blocks) != 1 || blocks[0].Kind != BlockCode {
		t.Fatalf("ParseBlocks() = %+v, want single code block", blocks)
	}
	if blocks[0].Text != "- not a bullet" {
		t.Errorf("code text = %q, want %q", blocks[0].Text, "- not a bullet")
	}
}
