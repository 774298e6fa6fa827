package intake

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/queue"
)

// Submitter admits jobs; *queue.Queue implements it
type Submitter interface {
	Submit(job queue.Job) (int, error)
}

// FileHandler turns transcript files dropped into the watch directory into text jobs
type FileHandler struct {
	submitter  Submitter
	limits     Limits
	archiveDir string
	logger     logger.Logger
}

// NewFileHandler creates a FileHandler that moves accepted files into archiveDir
func NewFileHandler(s Submitter, limits Limits, archiveDir string, log logger.Logger) *FileHandler {
	return &FileHandler{submitter: s, limits: limits, archiveDir: archiveDir, logger: log}
}

// Supported reports whether path has a transcript file extension
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return true
	}
	return false
}

// Handle submits the file at path as a job from submitter "file:<name>".
// Rejected files are left in place.
func (h *FileHandler) Handle(ctx context.Context, path string) error {
	if !Supported(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if h.limits.MaxTextBytes > 0 && info.Size() > h.limits.MaxTextBytes {
		return fmt.Errorf("%s: %w: %d bytes, limit %d", filepath.Base(path), ErrTooLarge, info.Size(), h.limits.MaxTextBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	text := string(data)
	if err := h.limits.CheckText(text); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	name := filepath.Base(path)
	title := strings.TrimSuffix(name, filepath.Ext(name))
	job, err := queue.NewTextJob("file:"+name, title, text)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	position, err := h.submitter.Submit(job)
	if err != nil {
		return fmt.Errorf("submit %s: %w", name, err)
	}
	h.logger.Info(ctx, "Queued %s as job %s at position %d", name, job.ID, position)

	archived, err := h.archive(path)
	if err != nil {
		return err
	}
	h.logger.Debug(ctx, "Archived %s to %s", name, archived)
	return nil
}

// archive moves path into the archive dir, prefixing a timestamp on name clashes
func (h *FileHandler) archive(path string) (string, error) {
	if err := os.MkdirAll(h.archiveDir, 0755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	dest := filepath.Join(h.archiveDir, filepath.Base(path))
	if _, err := os.Stat(dest); err == nil {
		dest = filepath.Join(h.archiveDir, time.Now().Format("20060102-150405")+"-"+filepath.Base(path))
	}
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("archive %s: %w", filepath.Base(path), err)
	}
	return dest, nil
}
