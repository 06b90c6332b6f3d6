// Package thumbnails derives resized variants of uploaded images.
package thumbnails

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
	"github.com/dmitrijs2005/filesmanager/internal/server/storage"
)

// DefaultWidths are the variant widths derived for every image, largest first.
var DefaultWidths = []int{500, 250, 100}

var (
	ErrMissingFileID = errors.New("missing fileId")
	ErrMissingUserID = errors.New("missing userId")
	ErrNotImage      = errors.New("file is not an image")
)

// Worker handles thumbnail jobs.
type Worker struct {
	files     files.Repository
	storage   storage.Storage
	widths    []int
	maxPixels int64
	logger    logging.Logger
}

// NewWorker builds a worker deriving the given widths. Originals or variants
// larger than maxPixels are not decoded or produced.
func NewWorker(f files.Repository, st storage.Storage, widths []int, maxPixels int64, logger logging.Logger) *Worker {
	if len(widths) == 0 {
		widths = DefaultWidths
	}
	return &Worker{
		files:     f,
		storage:   st,
		widths:    widths,
		maxPixels: maxPixels,
		logger:    logger.With("module", "thumbnails"),
	}
}

// Handle derives every variant of the image named by job. It fails only when
// the job is malformed or does not name an image owned by job.UserID; a width
// that cannot be derived is logged and skipped.
func (w *Worker) Handle(ctx context.Context, job models.ThumbnailJob) error {
	if job.FileID == "" {
		return ErrMissingFileID
	}
	if job.UserID == "" {
		return ErrMissingUserID
	}

	node, err := w.files.GetByIDAndUser(ctx, job.FileID, job.UserID)
	if err != nil {
		return fmt.Errorf("file %s: %w", job.FileID, err)
	}
	if node.Type != models.NodeImage {
		return fmt.Errorf("file %s: %w", job.FileID, ErrNotImage)
	}

	img, err := w.load(ctx, node)
	if err != nil {
		w.logger.Error(ctx, "thumbnail derivation skipped", "file_id", node.ID, "error", err)
		return nil
	}

	for _, width := range w.widths {
		if err := w.derive(ctx, node, img, width); err != nil {
			w.logger.Error(ctx, "thumbnail derivation failed", "file_id", node.ID, "width", width, "error", err)
			continue
		}
		w.logger.Debug(ctx, "thumbnail stored", "file_id", node.ID, "width", width)
	}
	return nil
}

func (w *Worker) load(ctx context.Context, node *models.FileNode) (*Image, error) {
	data, err := w.storage.Read(ctx, node.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("read original: %w", err)
	}
	return Decode(data, w.maxPixels)
}

func (w *Worker) derive(ctx context.Context, node *models.FileNode, img *Image, width int) error {
	thumb, err := img.Resize(width)
	if err != nil {
		return err
	}
	if err := w.storage.Write(ctx, storage.VariantPath(node.LocalPath, width), thumb); err != nil {
		return fmt.Errorf("write variant: %w", err)
	}
	return nil
}
