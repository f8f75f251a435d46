package normalizer

import (
	"encoding/json"
	"regexp"
	"strings"
)

// StructuredContent groups parsed blocks by category. The query and JSON
// buckets come from lossy prose heuristics and are enrichment only; nothing
// downstream depends on them for correctness.
type StructuredContent struct {
	Tables   [][][]string `json:"tables"`
	Queries  []string     `json:"queries"`
	JSONData []string     `json:"json_data"`
	TreeData []string     `json:"hierarchical_data"`
	Prose    []string     `json:"prose"`
}

var sqlPattern = regexp.MustCompile(`(?is)\bSELECT\b.*\bFROM\b`)

// Classify sorts blocks into structured categories. Tables, code regions and
// tree lists keep their tokenizer classification; paragraphs are additionally
// screened for SQL queries and JSON fragments. A brace-wrapped paragraph is
// only treated as JSON when it actually parses; anything that fails the parse
// stays prose.
func Classify(blocks []Block) StructuredContent {
	var sc StructuredContent

	for _, b := range blocks {
		switch b.Kind {
		case BlockTable:
			sc.Tables = append(sc.Tables, b.Rows)
		case BlockTreeList:
			sc.TreeData = append(sc.TreeData, strings.Join(b.Lines, "\n"))
		case BlockCode:
			text := strings.TrimSpace(b.Text)
			switch {
			case sqlPattern.MatchString(text):
				sc.Queries = append(sc.Queries, text)
			case looksLikeJSON(text):
				sc.JSONData = append(sc.JSONData, text)
			default:
				sc.Prose = append(sc.Prose, text)
			}
		case BlockParagraph:
			text := strings.TrimSpace(b.Text)
			switch {
			case sqlPattern.MatchString(text):
				sc.Queries = append(sc.Queries, text)
			case looksLikeJSON(text):
				sc.JSONData = append(sc.JSONData, text)
			default:
				sc.Prose = append(sc.Prose, text)
			}
		case BlockHeading:
			sc.Prose = append(sc.Prose, b.Text)
		case BlockBulletList, BlockNumberedList:
			sc.Prose = append(sc.Prose, b.Items...)
		}
	}

	return sc
}

// Stats summarizes how many blocks fell into each category.
func (sc StructuredContent) Stats() map[string]int {
	return map[string]int{
		"tables":            len(sc.Tables),
		"queries":           len(sc.Queries),
		"json_data":         len(sc.JSONData),
		"hierarchical_data": len(sc.TreeData),
		"prose":             len(sc.Prose),
	}
}

func looksLikeJSON(text string) bool {
	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		return false
	}
	return json.Valid([]byte(text))
}
