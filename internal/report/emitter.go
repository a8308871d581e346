package report

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/hamed0406/healthmon/internal/domain"
)

// Publisher receives every emitted report (the status server).
type Publisher interface {
	Publish(ctx context.Context, r domain.Report)
}

// Emitter prints each report, appends it to LogPath when set and hands it
// to Publisher when set. A failed append is reported and otherwise ignored.
type Emitter struct {
	Out       io.Writer
	Err       io.Writer
	Renderer  *Renderer
	LogPath   string
	Logger    *zap.Logger
	Publisher Publisher
}

func (e *Emitter) Emit(ctx context.Context, r domain.Report) {
	text := e.Renderer.Render(r)
	fmt.Fprint(e.Out, text)

	if e.LogPath != "" {
		if err := Persist(text, e.LogPath); err != nil {
			e.logger().Warn("persist_failed",
				zap.String("report_id", r.ID),
				zap.String("path", e.LogPath),
				zap.Error(err),
			)
			if e.Err != nil {
				fmt.Fprintf(e.Err, "Error writing to log file: %v\n", err)
			}
		} else {
			fmt.Fprintf(e.Out, "Report logged to: %s\n", e.LogPath)
		}
	}

	if e.Publisher != nil {
		e.Publisher.Publish(ctx, r)
	}
}

func (e *Emitter) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
