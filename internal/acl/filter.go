// Package acl turns a GAM permissions export into the CSV of permissions to
// delete with "gam csv ... delete drivefileacl".
package acl

import (
	"context"
	"io"
	"iter"

	"github.com/pkg/errors"

	"github.com/dl-alexandre/gacl/internal/csvio"
	"github.com/dl-alexandre/gacl/internal/export"
	"github.com/dl-alexandre/gacl/internal/logging"
	"github.com/dl-alexandre/gacl/internal/types"
	"github.com/dl-alexandre/gacl/internal/utils"
)

// Variant identifies which GAM export the filter reads
type Variant string

const (
	// VariantDrive reads "gam all users print filelist" exports
	VariantDrive Variant = "drive"
	// VariantTeamDrive reads shared drive file exports, which carry an Owner column
	VariantTeamDrive Variant = "teamdrive"
)

// Options configures a Filter. It is fixed for the duration of a run.
type Options struct {
	Variant  Variant
	Criteria Criteria
	// OwnerColumn is copied into the Owner field of every emitted row
	OwnerColumn string
	// NonInheritedOnly drops permissions inherited from a parent drive or folder
	NonInheritedOnly bool
	QuoteChar        rune
	LineTerminator   string
}

// DriveOptions returns the defaults for My Drive exports
func DriveOptions(criteria Criteria) Options {
	return Options{
		Variant:        VariantDrive,
		Criteria:       criteria,
		OwnerColumn:    utils.ColumnOwnerEmail,
		QuoteChar:      csvio.DefaultQuote,
		LineTerminator: utils.LineTerminatorLF,
	}
}

// TeamDriveOptions returns the defaults for shared drive exports
func TeamDriveOptions(criteria Criteria) Options {
	return Options{
		Variant:          VariantTeamDrive,
		Criteria:         criteria,
		OwnerColumn:      utils.ColumnOwner,
		NonInheritedOnly: true,
		QuoteChar:        csvio.DefaultQuote,
		LineTerminator:   utils.LineTerminatorLF,
	}
}

// OutputError wraps a failure to write the deletion CSV
type OutputError struct {
	Err error
}

func (e *OutputError) Error() string {
	return "write output: " + e.Err.Error()
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// Filter selects permissions from an export. It keeps no state between
// records and may be reused for several inputs.
type Filter struct {
	opts   Options
	logger logging.Logger
}

// NewFilter creates a filter
func NewFilter(opts Options, logger logging.Logger) *Filter {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	if opts.QuoteChar == 0 {
		opts.QuoteChar = csvio.DefaultQuote
	}
	return &Filter{opts: opts, logger: logger}
}

// Rows lazily yields one DeletionRow per selected permission in r. Reading
// stops at the first error, which is yielded with a zero row.
func (f *Filter) Rows(ctx context.Context, r io.Reader) iter.Seq2[types.DeletionRow, error] {
	return func(yield func(types.DeletionRow, error) bool) {
		f.scan(ctx, r, &types.FilterSummary{}, yield)
	}
}

// Run writes the deletion CSV for r to w: the header, then every selected
// row. Rows written before an error are flushed.
func (f *Filter) Run(ctx context.Context, r io.Reader, w io.Writer) (*types.FilterSummary, error) {
	summary := &types.FilterSummary{Variant: string(f.opts.Variant)}
	cw := csvio.NewWriter(w, f.opts.QuoteChar, f.opts.LineTerminator)

	if err := cw.Write(types.DeletionHeader); err != nil {
		return summary, errors.WithStack(&OutputError{Err: err})
	}

	var runErr error
	f.scan(ctx, r, summary, func(row types.DeletionRow, err error) bool {
		if err != nil {
			runErr = err
			return false
		}
		if err := cw.Write(row.Fields()); err != nil {
			runErr = errors.WithStack(&OutputError{Err: err})
			return false
		}
		return true
	})

	if err := cw.Flush(); err != nil && runErr == nil {
		runErr = errors.WithStack(&OutputError{Err: err})
	}
	return summary, runErr
}

func (f *Filter) scan(ctx context.Context, r io.Reader, summary *types.FilterSummary, yield func(types.DeletionRow, error) bool) {
	log := f.logger.WithContext(ctx)
	cr := csvio.NewReader(r, f.opts.QuoteChar)

	header, err := cr.Read()
	if err == io.EOF {
		log.Warn("Export is empty")
		return
	}
	if err != nil {
		yield(types.DeletionRow{}, errors.WithStack(err))
		return
	}

	schema := export.NewSchema(header)
	log.Debug("Export header read",
		logging.F("columns", len(header)),
		logging.F("permissionIndices", len(schema.PermissionIndices())),
	)
	if len(schema.PermissionIndices()) == 0 {
		log.Warn("Export has no permissions.N.type columns; nothing can match")
	} else if !schema.Has(f.opts.OwnerColumn) {
		log.Warn("Owner column not in export; the first selected permission will fail",
			logging.F("column", f.opts.OwnerColumn),
		)
	}

	for {
		if err := ctx.Err(); err != nil {
			yield(types.DeletionRow{}, errors.WithStack(err))
			return
		}

		values, err := cr.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			yield(types.DeletionRow{}, errors.WithStack(err))
			return
		}

		rec, err := schema.Bind(values, cr.Line())
		if err != nil {
			yield(types.DeletionRow{}, err)
			return
		}
		summary.RowsRead++

		if !f.selectRecord(log, rec, summary, yield) {
			return
		}
	}
}

// selectRecord yields the rows for one record. It returns false when the
// scan must stop.
func (f *Filter) selectRecord(log logging.Logger, rec *export.Record, summary *types.FilterSummary, yield func(types.DeletionRow, error) bool) bool {
	for _, e := range rec.UserEntries() {
		summary.UserEntries++

		if e.Deleted() {
			summary.SkippedDeleted++
			continue
		}
		if f.opts.NonInheritedOnly && e.Inherited() {
			summary.SkippedInherit++
			continue
		}
		if err := e.CheckRequired(); err != nil {
			yield(types.DeletionRow{}, err)
			return false
		}

		p := e.Permission
		if p.Role == utils.PermissionRoleOwner {
			summary.SkippedOwner++
			continue
		}
		if !f.opts.Criteria.Matches(p.EmailAddress, p.Domain) {
			summary.SkippedUntarget++
			continue
		}

		row, err := f.project(rec, e)
		if err != nil {
			yield(types.DeletionRow{}, err)
			return false
		}
		log.Debug("Permission selected",
			logging.F("line", rec.Line()),
			logging.F("fileId", row.DriveFileID),
			logging.F("permissionId", row.PermissionID),
			logging.F("emailAddress", row.EmailAddress),
		)
		summary.RowsEmitted++
		if !yield(row, nil) {
			return false
		}
	}
	return true
}

func (f *Filter) project(rec *export.Record, e export.Entry) (types.DeletionRow, error) {
	owner, err := rec.Require(f.opts.OwnerColumn)
	if err != nil {
		return types.DeletionRow{}, err
	}
	fileID, err := rec.Require(utils.ColumnID)
	if err != nil {
		return types.DeletionRow{}, err
	}
	mimeType, err := rec.Require(utils.ColumnMimeType)
	if err != nil {
		return types.DeletionRow{}, err
	}
	permID, err := e.PermissionID()
	if err != nil {
		return types.DeletionRow{}, err
	}

	return types.DeletionRow{
		Owner:          owner,
		DriveFileID:    fileID,
		DriveFileTitle: rec.Title(),
		MimeType:       mimeType,
		PermissionID:   utils.PermissionIDPrefix + permID,
		Role:           e.Permission.Role,
		EmailAddress:   e.Permission.EmailAddress,
	}, nil
}
