package types

import "testing"

func TestDeletionRowFieldsMatchHeader(t *testing.T) {
	row := DeletionRow{
		Owner:          "alice@x.com",
		DriveFileID:    "F1",
		DriveFileTitle: "Report",
		MimeType:       "application/pdf",
		PermissionID:   "id:999",
		Role:           "reader",
		EmailAddress:   "bob@x.com",
	}

	fields := row.Fields()
	if len(fields) != len(DeletionHeader) {
		t.Fatalf("Fields() len = %d, want %d", len(fields), len(DeletionHeader))
	}
	if fields[0] != "alice@x.com" || fields[4] != "id:999" || fields[6] != "bob@x.com" {
		t.Errorf("Fields() = %v", fields)
	}
}

func TestFilterSummaryTable(t *testing.T) {
	s := &FilterSummary{Variant: "drive", RowsRead: 3, RowsEmitted: 2}
	r := s.AsTableRenderer()

	if got := r.Headers(); len(got) != 2 {
		t.Errorf("Headers() = %v", got)
	}
	rows := r.Rows()
	last := rows[len(rows)-1]
	if last[0] != "Rows emitted" || last[1] != "2" {
		t.Errorf("last row = %v, want [Rows emitted 2]", last)
	}
}

func TestKeyValueTable(t *testing.T) {
	empty := &KeyValueTable{KeyHeader: "K", ValueHeader: "V", Empty: "nothing"}
	if len(empty.Rows()) != 0 || empty.EmptyMessage() != "nothing" {
		t.Errorf("unexpected empty table: %v %q", empty.Rows(), empty.EmptyMessage())
	}

	table := &KeyValueTable{KeyHeader: "K", ValueHeader: "V", Pairs: [][2]string{{"a", "1"}, {"b", "2"}}}
	rows := table.Rows()
	if len(rows) != 2 || rows[1][0] != "b" || rows[1][1] != "2" {
		t.Errorf("Rows() = %v", rows)
	}
	if h := table.Headers(); h[0] != "K" || h[1] != "V" {
		t.Errorf("Headers() = %v", h)
	}
}
