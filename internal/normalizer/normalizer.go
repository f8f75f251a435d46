// Package normalizer converts rich-text wiki page bodies into a line-oriented
// plain-text encoding with typed block markers, and parses that encoding back
// into structured blocks.
//
// The encoding is a contract, not cosmetics: `[Table Start]`, `[Table End]`,
// `[Code Block]` and `[End Code Block]` are reserved marker lines, table rows
// are pipe-delimited, bullet items use "- " and numbered items use "n. "
// prefixes. Downstream reconstruction parses these exact tokens.
package normalizer

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	tableStartMarker = "[Table Start]"
	tableEndMarker   = "[Table End]"
	codeStartMarker  = "[Code Block]"
	codeEndMarker    = "[End Code Block]"
)

// droppedElements are structural nodes removed entirely before text
// extraction. Wiki macro and placeholder elements carry no user prose.
var droppedElements = map[string]struct{}{
	"script":              {},
	"style":               {},
	"noscript":            {},
	"ac:structured-macro": {},
	"ac:placeholder":      {},
}

// Normalize converts a rich-text document body into the structured plain-text
// encoding. Input that contains no markup passes through with only whitespace
// normalization.
func Normalize(body string) (string, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	walk(doc, &b)
	return strings.TrimSpace(b.String()), nil
}

// walk emits blocks in document order. Composite blocks (tables, lists, code
// regions) are emitted whole and not descended into, so their inner text never
// leaks into a second block classification.
func walk(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		if _, drop := droppedElements[n.Data]; drop {
			return
		}

		switch n.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			text := collectText(n)
			if text != "" {
				level := int(n.Data[1] - '0')
				b.WriteString("\n\n")
				b.WriteString(strings.Repeat("#", level))
				b.WriteString(" ")
				b.WriteString(text)
				b.WriteString("\n")
			}
			return

		case atom.P:
			text := collectText(n)
			if text != "" {
				b.WriteString("\n")
				b.WriteString(text)
			}
			return

		case atom.Table:
			writeTable(n, b)
			return

		case atom.Ul:
			b.WriteString("\n")
			for _, li := range directListItems(n) {
				b.WriteString("- ")
				b.WriteString(collectText(li))
				b.WriteString("\n")
			}
			return

		case atom.Ol:
			b.WriteString("\n")
			for i, li := range directListItems(n) {
				b.WriteString(strconv.Itoa(i + 1))
				b.WriteString(". ")
				b.WriteString(collectText(li))
				b.WriteString("\n")
			}
			return

		case atom.Pre:
			b.WriteString("\n\n")
			b.WriteString(codeStartMarker)
			b.WriteString("\n")
			b.WriteString(strings.TrimSpace(rawText(n)))
			b.WriteString("\n")
			b.WriteString(codeEndMarker)
			b.WriteString("\n")
			return
		}
	}

	if n.Type == html.TextNode {
		// Bare text outside any handled block (plain-text input, stray
		// fragments) keeps its line structure.
		text := strings.TrimSpace(n.Data)
		if text != "" {
			b.WriteString("\n")
			b.WriteString(text)
		}
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, b)
	}
}

// writeTable emits one pipe-delimited row per line between table markers.
// Only the outermost table is marked: rows of nested tables are not collected
// separately, their cell text is flattened into the containing cell.
func writeTable(table *html.Node, b *strings.Builder) {
	rows := collectRows(table)
	if len(rows) == 0 {
		return
	}
	b.WriteString("\n\n")
	b.WriteString(tableStartMarker)
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(strings.Join(row, " | "))
		b.WriteString("\n")
	}
	b.WriteString(tableEndMarker)
	b.WriteString("\n")
}

// collectRows gathers the tr elements of a table without descending into
// nested tables.
func collectRows(table *html.Node) [][]string {
	var rows [][]string

	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				if c.DataAtom == atom.Table {
					continue // nested table: flattened via its cell's text
				}
				if c.DataAtom == atom.Tr {
					if cells := collectCells(c); len(cells) > 0 {
						rows = append(rows, cells)
					}
					continue
				}
			}
			visit(c)
		}
	}
	visit(table)
	return rows
}

// collectCells gathers th/td cell text for one row. Nested table content
// inside a cell ends up in that cell's text.
func collectCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Th || c.DataAtom == atom.Td) {
			cells = append(cells, collectText(c))
		}
	}
	return cells
}

// directListItems returns the li children of a ul/ol element. Nested lists
// are not returned as separate items; their text is flattened into the parent
// item by collectText.
func directListItems(list *html.Node) []*html.Node {
	var items []*html.Node
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			items = append(items, c)
		}
	}
	return items
}

// collectText extracts the text of a node and its descendants with internal
// whitespace collapsed, skipping dropped elements.
func collectText(n *html.Node) string {
	var sb strings.Builder

	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.ElementNode {
			if _, drop := droppedElements[node.Data]; drop {
				return
			}
		}
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)

	return strings.Join(strings.Fields(sb.String()), " ")
}

// rawText extracts text verbatim, preserving line breaks. Used for code
// regions where whitespace is significant.
func rawText(n *html.Node) string {
	var sb strings.Builder

	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)

	return sb.String()
}
