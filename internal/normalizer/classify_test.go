package normalizer

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	text := "## Databases\n" +
		"Our main store is Postgres.\n\n" +
		"SELECT id, name FROM users WHERE active = 1\n\n" +
		"{\"service\": \"api\", \"port\": 9000}\n\n" +
		"{this is not valid json}\n\n" +
		"├── cmd\n└── internal\n\n" +
		"[Table Start]\nName | Role\nAda | Engineer\n[Table End]"

	sc := Classify(ParseBlocks(text))

	if len(sc.Queries) != 1 || sc.Queries[0] != "SELECT id, name FROM users WHERE active = 1" {
		t.Errorf("Queries = %v, want the SELECT statement", sc.Queries)
	}
	if len(sc.JSONData) != 1 || sc.JSONData[0] != `{"service": "api", "port": 9000}` {
		t.Errorf("JSONData = %v, want the valid JSON fragment", sc.JSONData)
	}
	if len(sc.TreeData) != 1 {
		t.Errorf("TreeData = %v, want one hierarchy entry", sc.TreeData)
	}

	wantTables := [][][]string{{{"Name", "Role"}, {"Ada", "Engineer"}}}
	if !reflect.DeepEqual(sc.Tables, wantTables) {
		t.Errorf("Tables = %v, want %v", sc.Tables, wantTables)
	}

	// Heading, the Postgres sentence, and the brace-wrapped non-JSON line are
	// all prose.
	wantProse := []string{"Databases", "Our main store is Postgres.", "{this is not valid json}"}
	if !reflect.DeepEqual(sc.Prose, wantProse) {
		t.Errorf("Prose = %v, want %v", sc.Prose, wantProse)
	}
}

func TestClassifyCodeRegions(t *testing.T) {
	text := "[Code Block]\nSELECT *\nFROM audit_log\n[End Code Block]\n\n" +
		"[Code Block]\n{\"key\": true}\n[End Code Block]\n\n" +
		"[Code Block]\nfunc main() {}\n[End Code Block]"

	sc := Classify(ParseBlocks(text))

	if len(sc.Queries) != 1 {
		t.Errorf("Queries = %v, want SQL code region classified as query", sc.Queries)
	}
	if len(sc.JSONData) != 1 {
		t.Errorf("JSONData = %v, want JSON code region classified as data", sc.JSONData)
	}
	if len(sc.Prose) != 1 || sc.Prose[0] != "func main() {}" {
		t.Errorf("Prose = %v, want the plain code region", sc.Prose)
	}
}

func TestStats(t *testing.T) {
	text := "one paragraph\n\n- a\n- b"
	sc := Classify(ParseBlocks(text))

	got := sc.Stats()
	want := map[string]int{
		"tables":            0,
		"queries":           0,
		"json_data":         0,
		"hierarchical_data": 0,
		"prose":             3,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Stats() = %v, want %v", got, want)
	}
}
