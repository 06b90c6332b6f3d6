package services

import (
	"context"
	"errors"
	"mime"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
	"github.com/dmitrijs2005/filesmanager/internal/server/storage"
)

const defaultContentType = "application/octet-stream"

// Content is the payload of a file or one of its thumbnails.
type Content struct {
	Name        string
	ContentType string
	Data        []byte
}

// ContentService serves stored bytes. Private nodes are visible to their
// owner only; every other caller gets common.ErrorNotFound, the same answer
// as for a node that does not exist.
type ContentService struct {
	files    files.Repository
	sessions SessionResolver
	storage  storage.Storage
	widths   []int
	logger   logging.Logger
}

func NewContentService(f files.Repository, sr SessionResolver, st storage.Storage, widths []int, logger logging.Logger) *ContentService {
	return &ContentService{
		files:    f,
		sessions: sr,
		storage:  st,
		widths:   widths,
		logger:   logger.With("module", "content"),
	}
}

// ReadContent returns the original bytes of node id, or the variant of the
// given width when size is non-empty. token may be empty for public nodes.
func (s *ContentService) ReadContent(ctx context.Context, token, id, size string) (*Content, error) {
	if !common.IsValidID(id) {
		return nil, s.notFound(ctx, id, "invalid id")
	}

	node, err := s.files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, s.notFound(ctx, id, "no such node")
		}
		return nil, err
	}

	if !node.IsPublic {
		if err := s.checkOwner(ctx, token, node); err != nil {
			return nil, err
		}
	}

	if node.IsFolder() {
		return nil, common.NewValidationError("A folder doesn't have content")
	}

	path := node.LocalPath
	if size != "" {
		width, err := strconv.Atoi(size)
		if err != nil || !slices.Contains(s.widths, width) {
			return nil, s.notFound(ctx, id, "unsupported size")
		}
		path = storage.VariantPath(node.LocalPath, width)

		ok, err := s.storage.Exists(ctx, path)
		if err != nil {
			s.logger.Debug(ctx, "variant lookup failed", "file_id", id, "width", width, "error", err)
		}
		if !ok {
			return nil, s.notFound(ctx, id, "variant not derived")
		}
	}

	data, err := s.storage.Read(ctx, path)
	if err != nil {
		s.logger.Debug(ctx, "content read failed", "file_id", id, "error", err)
		return nil, s.notFound(ctx, id, "content unavailable")
	}

	return &Content{Name: node.Name, ContentType: contentType(node.Name), Data: data}, nil
}

func (s *ContentService) checkOwner(ctx context.Context, token string, node *models.FileNode) error {
	if token == "" {
		return s.notFound(ctx, node.ID, "private node, no token")
	}
	userID, err := s.sessions.ResolveSession(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return s.notFound(ctx, node.ID, "private node, unknown session")
		}
		return err
	}
	if userID != node.UserID {
		return s.notFound(ctx, node.ID, "private node, not owner")
	}
	return nil
}

// notFound logs the concrete cause and returns the uniform error.
func (s *ContentService) notFound(ctx context.Context, id, cause string) error {
	s.logger.Debug(ctx, "content not found", "file_id", id, "cause", cause)
	return common.ErrorNotFound
}

func contentType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return defaultContentType
}
