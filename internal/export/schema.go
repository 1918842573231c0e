// Package export reads the wide permissions CSV produced by
// "gam print filelist ... permissions". Every permission of a file is
// flattened into indexed columns: permissions.N.type, permissions.N.role, ...
package export

import (
	"fmt"
	"regexp"

	"github.com/pkg/errors"
)

var permissionTypeColumn = regexp.MustCompile(`^permissions\.(\d+)\.type$`)

// permissionColumns names the columns of one permission index
type permissionColumns struct {
	index       string
	typeName    string
	roleName    string
	emailName   string
	domainName  string
	deletedName string
	idName      string
	inheritName string
}

func newPermissionColumns(index string) permissionColumns {
	prefix := "permissions." + index + "."
	return permissionColumns{
		index:       index,
		typeName:    prefix + "type",
		roleName:    prefix + "role",
		emailName:   prefix + "emailAddress",
		domainName:  prefix + "domain",
		deletedName: prefix + "deleted",
		idName:      prefix + "id",
		inheritName: prefix + "permissionDetails.0.inherited",
	}
}

// Schema is the column layout of one export, built once from its header row
type Schema struct {
	positions   map[string]int
	width       int
	permissions []permissionColumns
}

// NewSchema indexes header. When a name repeats, the last column wins.
// Permission indices are kept in the header order of their type columns.
func NewSchema(header []string) *Schema {
	s := &Schema{
		positions: make(map[string]int, len(header)),
		width:     len(header),
	}
	for i, name := range header {
		if _, seen := s.positions[name]; !seen {
			if m := permissionTypeColumn.FindStringSubmatch(name); m != nil {
				s.permissions = append(s.permissions, newPermissionColumns(m[1]))
			}
		}
		s.positions[name] = i
	}
	return s
}

// Has reports whether the export has a column called name
func (s *Schema) Has(name string) bool {
	_, ok := s.positions[name]
	return ok
}

// PermissionIndices returns the permission indices found in the header
func (s *Schema) PermissionIndices() []string {
	indices := make([]string, len(s.permissions))
	for i, p := range s.permissions {
		indices[i] = p.index
	}
	return indices
}

// Bind attaches a data row to the schema. line is the input line the row
// started on and is only used in error messages.
func (s *Schema) Bind(values []string, line int) (*Record, error) {
	if len(values) > s.width {
		return nil, errors.WithStack(&MalformedRowError{
			Line:   line,
			Fields: len(values),
			Width:  s.width,
		})
	}
	return &Record{schema: s, values: values, line: line}, nil
}

// MalformedRowError is returned for a row with more fields than the header
type MalformedRowError struct {
	Line   int
	Fields int
	Width  int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("line %d: row has %d fields, header has %d", e.Line, e.Fields, e.Width)
}

// MissingColumnError is returned when a column the filter needs is absent
type MissingColumnError struct {
	Column string
	Line   int
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("line %d: required column %q not found in export", e.Line, e.Column)
}
