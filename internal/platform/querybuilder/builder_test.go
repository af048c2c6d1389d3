package querybuilder

import "testing"

type testRow struct {
	Window  string `db:"window_label"`
	MatchID string `db:"match_id"`
	Score   int    `db:"res_score_home"`
	skipped string
	Ignored string `db:"-"`
}

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("match_id", "res_score_home").
		From("match_log").
		Where(Eq("window_label", "w1")).
		OrderBy("scheduled_at NULLS FIRST", "match_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT match_id, res_score_home FROM match_log WHERE window_label = $1 ORDER BY scheduled_at NULLS FIRST, match_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "w1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels(t *testing.T) {
	rows := []testRow{
		{Window: "w1", MatchID: "1", Score: 2, skipped: "x", Ignored: "y"},
		{Window: "w1", MatchID: "2", Score: -1},
	}

	query, args, err := InsertModels("match_log", rows, "ON CONFLICT (window_label, match_id) DO NOTHING")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO match_log (window_label, match_id, res_score_home) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT (window_label, match_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[3] != "w1" || args[4] != "2" || args[5] != -1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels_Errors(t *testing.T) {
	if _, _, err := InsertModels[testRow]("match_log", nil, ""); err == nil {
		t.Fatalf("expected error for empty models")
	}
	if _, _, err := InsertModels("match_log", []int{1}, ""); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
}

func TestColumns(t *testing.T) {
	cols, err := Columns(testRow{})
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	if len(cols) != 3 || cols[0] != "window_label" || cols[2] != "res_score_home" {
		t.Fatalf("unexpected columns: %v", cols)
	}
}
