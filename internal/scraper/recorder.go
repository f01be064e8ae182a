package scraper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pfrederiksen/dlt-draws/internal/logger"
	"github.com/pfrederiksen/dlt-draws/internal/session"
)

// SessionTag names the snapshot taken on a session-level failure.
const SessionTag = "error_screenshot"

const recordTimeout = 15 * time.Second

// PageTag names the snapshot taken when page n fails.
func PageTag(n int) string {
	return fmt.Sprintf("page_%d_error", n)
}

// Recorder writes diagnostic snapshots into Dir.
type Recorder struct {
	Dir string
}

// Record captures the driver's current page as <Dir>/<tag>.<ext> and returns
// the path. It runs even when ctx is already canceled. Failures are logged and
// reported as an empty path; they never replace the error being recorded.
func (r *Recorder) Record(ctx context.Context, d session.Driver, tag string) (path string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	defer func() {
		if p := recover(); p != nil {
			logger.Warn("Diagnostic snapshot panicked", logger.Fields{"tag": tag}, fmt.Errorf("%v", p))
			path = ""
		}
	}()

	data, ext, err := d.Screenshot(ctx)
	if err != nil {
		logger.Warn("Failed to capture diagnostic snapshot", logger.Fields{"tag": tag}, err)
		return ""
	}

	dir := r.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Warn("Failed to create diagnostics directory", logger.Fields{"dir": dir}, err)
		return ""
	}

	path = filepath.Join(dir, tag+"."+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		logger.Warn("Failed to write diagnostic snapshot", logger.Fields{"path": path}, err)
		return ""
	}

	logger.Info("Saved diagnostic snapshot", logger.Fields{"path": path, "bytes": len(data)})
	return path
}
