package repo

import (
	"context"

	"github.com/hamed0406/healthmon/internal/domain"
)

// ReportStore holds the report of the last completed tick for the status
// server. Older reports are dropped; the append-only text log is the record.
type ReportStore interface {
	Save(ctx context.Context, r domain.Report) error
	// Latest returns the newest report; ok is false before the first tick.
	Latest(ctx context.Context) (r domain.Report, ok bool, err error)
}
