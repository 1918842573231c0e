package types

import "strconv"

// DeletionRow is one permission proposed for deletion. Each row maps to a single
// "gam user ~Owner delete drivefileacl ~driveFileId ~permissionId" invocation.
type DeletionRow struct {
	Owner          string `json:"owner"`
	DriveFileID    string `json:"driveFileId"`
	DriveFileTitle string `json:"driveFileTitle"`
	MimeType       string `json:"mimeType"`
	PermissionID   string `json:"permissionId"`
	Role           string `json:"role"`
	EmailAddress   string `json:"emailAddress"`
}

// DeletionHeader is the fixed header of the deletion CSV
var DeletionHeader = []string{
	"Owner",
	"driveFileId",
	"driveFileTitle",
	"mimeType",
	"permissionId",
	"role",
	"emailAddress",
}

// Fields returns the row's values in DeletionHeader order
func (r DeletionRow) Fields() []string {
	return []string{
		r.Owner,
		r.DriveFileID,
		r.DriveFileTitle,
		r.MimeType,
		r.PermissionID,
		r.Role,
		r.EmailAddress,
	}
}

// FilterSummary counts what a filter run saw and why entries were dropped
type FilterSummary struct {
	Variant         string `json:"variant"`
	Input           string `json:"input"`
	Output          string `json:"output"`
	RowsRead        int    `json:"rowsRead"`
	UserEntries     int    `json:"userEntries"`
	RowsEmitted     int    `json:"rowsEmitted"`
	SkippedDeleted  int    `json:"skippedDeleted"`
	SkippedInherit  int    `json:"skippedInherited"`
	SkippedOwner    int    `json:"skippedOwner"`
	SkippedUntarget int    `json:"skippedNotTargeted"`
}

// AsTableRenderer renders the summary as a two-column table
func (s *FilterSummary) AsTableRenderer() TableRenderer {
	return &KeyValueTable{
		KeyHeader:   "Metric",
		ValueHeader: "Value",
		Pairs: [][2]string{
			{"Variant", s.Variant},
			{"Input", s.Input},
			{"Output", s.Output},
			{"Rows read", strconv.Itoa(s.RowsRead)},
			{"User permissions", strconv.Itoa(s.UserEntries)},
			{"Skipped (deleted)", strconv.Itoa(s.SkippedDeleted)},
			{"Skipped (inherited)", strconv.Itoa(s.SkippedInherit)},
			{"Skipped (owner)", strconv.Itoa(s.SkippedOwner)},
			{"Skipped (not targeted)", strconv.Itoa(s.SkippedUntarget)},
			{"Rows emitted", strconv.Itoa(s.RowsEmitted)},
		},
		Empty: "No rows processed",
	}
}
