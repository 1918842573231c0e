package export

import (
	"github.com/pkg/errors"
	"google.golang.org/api/drive/v3"

	"github.com/dl-alexandre/gacl/internal/utils"
)

// Record is one file row of the export
type Record struct {
	schema *Schema
	values []string
	line   int
}

// Line returns the input line the record started on
func (r *Record) Line() int {
	return r.line
}

// Get returns the value of column name and whether the column exists.
// Cells missing from a short row read as empty.
func (r *Record) Get(name string) (string, bool) {
	pos, ok := r.schema.positions[name]
	if !ok {
		return "", false
	}
	if pos >= len(r.values) {
		return "", true
	}
	return r.values[pos], true
}

// Require returns the value of column name or a MissingColumnError
func (r *Record) Require(name string) (string, error) {
	v, ok := r.Get(name)
	if !ok {
		return "", errors.WithStack(&MissingColumnError{Column: name, Line: r.line})
	}
	return v, nil
}

// Title returns the file's name, falling back to its title column and then
// to "Unknown". Presence of the column decides, not its value.
func (r *Record) Title() string {
	if v, ok := r.Get(utils.ColumnName); ok {
		return v
	}
	if v, ok := r.Get(utils.ColumnTitle); ok {
		return v
	}
	return utils.UnknownFileTitle
}

// UserEntries returns the user-type permissions of the record in header order.
// Permissions of any other type (group, domain, anyone) are not returned.
func (r *Record) UserEntries() []Entry {
	var entries []Entry
	for _, cols := range r.schema.permissions {
		if t, _ := r.Get(cols.typeName); t != utils.PermissionTypeUser {
			continue
		}
		entries = append(entries, r.entry(cols))
	}
	return entries
}

func (r *Record) entry(cols permissionColumns) Entry {
	e := Entry{
		Index:      cols.index,
		Permission: &drive.Permission{Type: utils.PermissionTypeUser},
		cols:       cols,
		line:       r.line,
	}

	if v, _ := r.Get(cols.deletedName); v == utils.BoolTrue {
		e.Permission.Deleted = true
	}
	if v, ok := r.Get(cols.inheritName); ok {
		e.Permission.PermissionDetails = []*drive.PermissionPermissionDetails{
			{Inherited: v == utils.BoolTrue},
		}
	}

	// lookup order matches the order the filter needs them in
	for _, c := range []struct {
		name string
		dst  *string
	}{
		{cols.emailName, &e.Permission.EmailAddress},
		{cols.domainName, &e.Permission.Domain},
		{cols.roleName, &e.Permission.Role},
	} {
		v, ok := r.Get(c.name)
		if !ok {
			e.missing = append(e.missing, c.name)
			continue
		}
		*c.dst = v
	}

	if v, ok := r.Get(cols.idName); ok {
		e.Permission.Id = v
		e.hasID = true
	}
	return e
}
