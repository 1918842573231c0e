package utils

// Schema version of the JSON envelope
const SchemaVersion = "1.0"

// StdStream is the argument meaning stdin for input and stdout for output
const StdStream = "-"

// Column names of the GAM permissions export
const (
	ColumnID           = "id"
	ColumnName         = "name"
	ColumnTitle        = "title"
	ColumnMimeType     = "mimeType"
	ColumnOwnerEmail   = "owners.0.emailAddress"
	ColumnOwner        = "Owner"
	UnknownFileTitle   = "Unknown"
	PermissionIDPrefix = "id:"
)

// Permission types and roles used by the filter
const (
	PermissionTypeUser   = "user"
	PermissionTypeGroup  = "group"
	PermissionTypeDomain = "domain"
	PermissionTypeAnyone = "anyone"

	PermissionRoleReader    = "reader"
	PermissionRoleCommenter = "commenter"
	PermissionRoleWriter    = "writer"
	PermissionRoleOrganizer = "organizer"
	PermissionRoleOwner     = "owner"
)

// BoolTrue is how the export spells a true boolean
const BoolTrue = "True"

// Line terminators accepted for the deletion CSV
const (
	LineTerminatorLF   = "\n"
	LineTerminatorCRLF = "\r\n"
)

// GAMDeleteCommand is the follow-up command that consumes the deletion CSV
const GAMDeleteCommand = `gam csv %s gam user "~Owner" delete drivefileacl "~driveFileId" "~permissionId"`
