package export

import (
	"github.com/pkg/errors"
	"google.golang.org/api/drive/v3"
)

// Entry is one user permission of a record, identified by its column index
type Entry struct {
	Index      string
	Permission *drive.Permission

	cols    permissionColumns
	line    int
	missing []string
	hasID   bool
}

// Deleted reports whether the export marks the permission as deleted
func (e Entry) Deleted() bool {
	return e.Permission.Deleted
}

// Inherited reports whether the permission comes from a parent shared drive
// or folder. Such permissions cannot be removed from the file itself.
func (e Entry) Inherited() bool {
	for _, d := range e.Permission.PermissionDetails {
		if d.Inherited {
			return true
		}
	}
	return false
}

// CheckRequired fails if the email, domain or role column of this index is absent
func (e Entry) CheckRequired() error {
	if len(e.missing) == 0 {
		return nil
	}
	return errors.WithStack(&MissingColumnError{Column: e.missing[0], Line: e.line})
}

// PermissionID returns the permission's id or a MissingColumnError
func (e Entry) PermissionID() (string, error) {
	if !e.hasID {
		return "", errors.WithStack(&MissingColumnError{Column: e.cols.idName, Line: e.line})
	}
	return e.Permission.Id, nil
}
