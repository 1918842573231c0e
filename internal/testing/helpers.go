package testing

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	"github.com/dl-alexandre/gacl/internal/csvio"
	"google.golang.org/api/drive/v3"
)

// Row is one export row keyed by column name
type Row map[string]string

// TestContext creates a standard test context
func TestContext() context.Context {
	return context.Background()
}

// FileRow creates the file columns of a My Drive export row
func FileRow(id, name, mimeType, owner string) Row {
	return Row{
		"id":                    id,
		"name":                  name,
		"mimeType":              mimeType,
		"owners.0.emailAddress": owner,
	}
}

// TeamDriveFileRow creates the file columns of a shared drive export row
func TeamDriveFileRow(id, name, mimeType, organizer string) Row {
	return Row{
		"Owner":    organizer,
		"id":       id,
		"name":     name,
		"mimeType": mimeType,
	}
}

// PermissionColumns flattens p into the permissions.N.* columns of an export
func PermissionColumns(index int, p *drive.Permission) Row {
	prefix := "permissions." + strconv.Itoa(index) + "."
	row := Row{
		prefix + "type":         p.Type,
		prefix + "role":         p.Role,
		prefix + "emailAddress": p.EmailAddress,
		prefix + "domain":       p.Domain,
		prefix + "id":           p.Id,
		prefix + "deleted":      pyBool(p.Deleted),
	}
	if len(p.PermissionDetails) > 0 {
		row[prefix+"permissionDetails.0.inherited"] = pyBool(p.PermissionDetails[0].Inherited)
	}
	return row
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// TestPermission creates a permission for export fixtures
func TestPermission(id, permType, role, email, domain string) *drive.Permission {
	return &drive.Permission{
		Id:           id,
		Type:         permType,
		Role:         role,
		EmailAddress: email,
		Domain:       domain,
	}
}

// Merge combines rows; later rows override earlier ones
func Merge(rows ...Row) Row {
	merged := Row{}
	for _, r := range rows {
		for k, v := range r {
			merged[k] = v
		}
	}
	return merged
}

// ExportCSV renders rows as an export with the given header. Columns a row
// does not set are written empty, as GAM does for narrower rows.
func ExportCSV(t *testing.T, header []string, rows ...Row) string {
	t.Helper()
	var buf bytes.Buffer
	w := csvio.NewWriter(&buf, csvio.DefaultQuote, "\n")
	AssertNoError(t, w.Write(header), "write header")
	for _, r := range rows {
		values := make([]string, len(header))
		for i, col := range header {
			values[i] = r[col]
		}
		AssertNoError(t, w.Write(values), "write row")
	}
	AssertNoError(t, w.Flush(), "flush")
	return buf.String()
}

// PermissionHeader returns the permissions.N.* column names for indices 0..n-1
func PermissionHeader(n int, withInherited bool) []string {
	var cols []string
	for i := 0; i < n; i++ {
		prefix := "permissions." + strconv.Itoa(i) + "."
		cols = append(cols,
			prefix+"type",
			prefix+"role",
			prefix+"emailAddress",
			prefix+"domain",
			prefix+"id",
			prefix+"deleted",
		)
		if withInherited {
			cols = append(cols, prefix+"permissionDetails.0.inherited")
		}
	}
	return cols
}

// AssertNoError is a helper to fail the test if error is not nil
func AssertNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	if err != nil {
		if len(msgAndArgs) > 0 {
			t.Fatalf("%v: %v", msgAndArgs[0], err)
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

// AssertError is a helper to fail the test if error is nil
func AssertError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	if err == nil {
		if len(msgAndArgs) > 0 {
			t.Fatalf("%v: expected error but got nil", msgAndArgs[0])
		} else {
			t.Fatal("expected error but got nil")
		}
	}
}

// AssertEqual is a helper to fail the test if two values are not equal
func AssertEqual(t *testing.T, got, want interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	if got != want {
		if len(msgAndArgs) > 0 {
			t.Fatalf("%v: got %v, want %v", msgAndArgs[0], got, want)
		} else {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
