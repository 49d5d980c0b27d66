package output

import (
	"fmt"
	"time"

	"github.com/tympanix/gosh/internal/util"
)

type CopyAction string

const (
	ActionCopy CopyAction = "copied"
	ActionMove CopyAction = "moved"
)

type CopyStatus string

const (
	CopyStatusSuccess CopyStatus = "success"
	CopyStatusFailed  CopyStatus = "failed"
)

// FileCopy is one file placed by cp or mv
type FileCopy struct {
	Source string
	Dest   string
	Size   int64
	Status CopyStatus
	Error  error
}

// CopyTracker prints per-file lines for cp -v and a closing summary
type CopyTracker struct {
	action    CopyAction
	startTime time.Time
	files     []FileCopy
	logger    util.Logger
}

func NewCopyTracker(action CopyAction, logger util.Logger) *CopyTracker {
	return &CopyTracker{
		action:    action,
		startTime: time.Now(),
		logger:    logger,
	}
}

func (t *CopyTracker) RecordFile(file FileCopy) {
	t.files = append(t.files, file)

	switch file.Status {
	case CopyStatusSuccess:
		t.logger.Printf("'%s' -> '%s'\n", file.Source, file.Dest)
	case CopyStatusFailed:
		t.logger.Printf("'%s' -> '%s' (failed: %v)\n", file.Source, file.Dest, file.Error)
	}
}

func (t *CopyTracker) PrintSummary() {
	elapsed := time.Since(t.startTime)

	var successful, failed int
	var totalBytes int64
	for _, file := range t.files {
		switch file.Status {
		case CopyStatusSuccess:
			successful++
			totalBytes += file.Size
		case CopyStatusFailed:
			failed++
		}
	}

	summary := fmt.Sprintf("Files %s: %d", t.action, successful)
	if failed > 0 {
		summary += fmt.Sprintf(", failed: %d", failed)
	}
	summary += fmt.Sprintf(", size: %s", FormatBytes(totalBytes))
	summary += fmt.Sprintf(", time: %s", formatDuration(elapsed))

	t.logger.Println(summary)
}

// FormatBytes renders a byte count with binary units
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
