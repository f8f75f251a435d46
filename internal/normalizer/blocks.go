package normalizer

import (
	"strings"
)

// BlockKind identifies the type of a structured block.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockParagraph
	BlockTable
	BlockCode
	BlockTreeList
	BlockBulletList
	BlockNumberedList
)

// maxHeadingLevel caps heading depth for downstream rendering.
const maxHeadingLevel = 3

// Block is a typed span of normalized text. Exactly one of the payload fields
// is populated depending on Kind.
type Block struct {
	Kind  BlockKind
	Level int        // BlockHeading: 1..maxHeadingLevel
	Text  string     // BlockHeading, BlockParagraph, BlockCode
	Rows  [][]string // BlockTable: header row first
	Items []string   // BlockBulletList, BlockNumberedList
	Lines []string   // BlockTreeList
}

// scanner states. The tokenizer is a finite-state machine over lines with one
// state per multi-line block kind; marker lines are the entry/exit predicates.
type scanState int

const (
	stateText scanState = iota
	stateTable
	stateCode
)

// ParseBlocks tokenizes the structured text encoding into typed blocks.
// Marker lines are structural and never appear as block content.
func ParseBlocks(text string) []Block {
	var (
		blocks    []Block
		state     = stateText
		tableRows [][]string
		codeLines []string
		treeLines []string
		bullets   []string
		numbered  []string
		paraLines []string
	)

	flushTree := func() {
		if len(treeLines) > 0 {
			blocks = append(blocks, Block{Kind: BlockTreeList, Lines: treeLines})
			treeLines = nil
		}
	}
	flushBullets := func() {
		if len(bullets) > 0 {
			blocks = append(blocks, Block{Kind: BlockBulletList, Items: bullets})
			bullets = nil
		}
	}
	flushNumbered := func() {
		if len(numbered) > 0 {
			blocks = append(blocks, Block{Kind: BlockNumberedList, Items: numbered})
			numbered = nil
		}
	}
	flushPara := func() {
		if len(paraLines) > 0 {
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: strings.Join(paraLines, "\n")})
			paraLines = nil
		}
	}
	flushText := func() {
		flushTree()
		flushBullets()
		flushNumbered()
		flushPara()
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)

		switch state {
		case stateTable:
			if line == tableEndMarker {
				if len(tableRows) > 0 {
					blocks = append(blocks, Block{Kind: BlockTable, Rows: tableRows})
				}
				tableRows = nil
				state = stateText
				continue
			}
			if cells := splitTableRow(line); len(cells) > 0 {
				tableRows = append(tableRows, cells)
			}
			continue

		case stateCode:
			if line == codeEndMarker {
				blocks = append(blocks, Block{Kind: BlockCode, Text: strings.Join(codeLines, "\n")})
				codeLines = nil
				state = stateText
				continue
			}
			// verbatim, keep original indentation
			codeLines = append(codeLines, strings.TrimRight(rawLine, "\r"))
			continue
		}

		// stateText
		switch {
		case line == tableStartMarker:
			flushText()
			tableRows = nil
			state = stateTable

		case line == codeStartMarker:
			flushText()
			codeLines = nil
			state = stateCode

		case line == "":
			flushText()

		case isSeparatorLine(line):
			// markdown-like rules are layout noise

		case isTreeLine(line):
			flushBullets()
			flushNumbered()
			flushPara()
			treeLines = append(treeLines, line)

		case strings.HasPrefix(line, "#"):
			flushText()
			level, text := splitHeading(line)
			if text != "" {
				blocks = append(blocks, Block{Kind: BlockHeading, Level: level, Text: text})
			}

		case strings.HasPrefix(line, "- "):
			flushTree()
			flushNumbered()
			flushPara()
			bullets = append(bullets, strings.TrimPrefix(line, "- "))

		case isNumberedLine(line):
			flushTree()
			flushBullets()
			flushPara()
			_, item, _ := strings.Cut(line, ". ")
			numbered = append(numbered, item)

		default:
			flushTree()
			flushBullets()
			flushNumbered()
			paraLines = append(paraLines, line)
		}
	}

	// flush whatever the final state left behind; unterminated table/code
	// regions are emitted rather than dropped
	if state == stateTable && len(tableRows) > 0 {
		blocks = append(blocks, Block{Kind: BlockTable, Rows: tableRows})
	}
	if state == stateCode && len(codeLines) > 0 {
		blocks = append(blocks, Block{Kind: BlockCode, Text: strings.Join(codeLines, "\n")})
	}
	flushText()

	return blocks
}

// splitTableRow splits a pipe-delimited row into trimmed, non-empty cells.
func splitTableRow(line string) []string {
	var cells []string
	for _, cell := range strings.Split(line, "|") {
		if c := strings.TrimSpace(cell); c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}

// splitHeading parses a "## Heading" line. Level is capped at maxHeadingLevel.
func splitHeading(line string) (int, string) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level > maxHeadingLevel {
		level = maxHeadingLevel
	}
	return level, strings.TrimSpace(strings.TrimLeft(line, "#"))
}

// isSeparatorLine reports whether the line is only '-' or '=' characters.
func isSeparatorLine(line string) bool {
	if len(line) < 3 {
		return false
	}
	for _, r := range line {
		if r != '-' && r != '=' {
			return false
		}
	}
	return true
}

// isTreeLine reports whether the line belongs to a tree-style hierarchy dump.
func isTreeLine(line string) bool {
	return strings.Contains(line, "├──") || strings.Contains(line, "└──")
}

// isNumberedLine reports whether the line looks like "3. item".
func isNumberedLine(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && strings.HasPrefix(line[i:], ". ")
}
