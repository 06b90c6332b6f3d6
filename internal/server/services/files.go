package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
	"github.com/dmitrijs2005/filesmanager/internal/server/storage"
)

// DefaultPageSize is the number of nodes returned by one ListNodes page.
const DefaultPageSize = 20

// JobQueue accepts thumbnail jobs.
type JobQueue interface {
	Enqueue(ctx context.Context, job models.ThumbnailJob) (string, error)
}

// NodeInput describes a node to create. Data is the base64 encoded content
// and is ignored for folders.
type NodeInput struct {
	Name     string
	Type     string
	ParentID string
	IsPublic bool
	Data     string
}

// FileService manages a user's hierarchy of folders, files and images.
type FileService struct {
	files    files.Repository
	sessions SessionResolver
	storage  storage.Storage
	queue    JobQueue
	pageSize int
	logger   logging.Logger
}

func NewFileService(f files.Repository, sr SessionResolver, st storage.Storage, q JobQueue, pageSize int, logger logging.Logger) *FileService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &FileService{
		files:    f,
		sessions: sr,
		storage:  st,
		queue:    q,
		pageSize: pageSize,
		logger:   logger.With("module", "files"),
	}
}

// CreateNode validates in, stores the decoded bytes for non-folders, persists
// the node and, for images, enqueues a thumbnail job once the node exists.
func (s *FileService) CreateNode(ctx context.Context, token string, in NodeInput) (*models.FileNode, error) {
	userID, err := s.sessions.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}

	nodeType := models.NodeType(in.Type)
	if in.Name == "" {
		return nil, common.NewValidationError("Missing name")
	}
	if !nodeType.Valid() {
		return nil, common.NewValidationError("Missing type")
	}
	if nodeType != models.NodeFolder && in.Data == "" {
		return nil, common.NewValidationError("Missing data")
	}

	parentID := in.ParentID
	if parentID == "" {
		parentID = common.RootParentID
	}
	if parentID != common.RootParentID {
		if err := s.checkParent(ctx, parentID); err != nil {
			return nil, err
		}
	}

	node := &models.FileNode{
		UserID:   userID,
		Name:     in.Name,
		Type:     nodeType,
		IsPublic: in.IsPublic,
		ParentID: parentID,
	}

	if nodeType == models.NodeFolder {
		return s.files.Create(ctx, node)
	}

	data, err := decodeData(in.Data)
	if err != nil {
		return nil, common.NewValidationError("Invalid data")
	}

	node.LocalPath = s.storage.NewPath()
	if err := s.storage.Write(ctx, node.LocalPath, data); err != nil {
		return nil, fmt.Errorf("error storing content: %w", err)
	}

	path := node.LocalPath
	node, err = s.files.Create(ctx, node)
	if err != nil {
		if derr := s.storage.Delete(ctx, path); derr != nil {
			s.logger.Warn(ctx, "orphaned content left in storage", "path", path, "error", derr)
		}
		return nil, err
	}

	if nodeType == models.NodeImage {
		jobID, err := s.queue.Enqueue(ctx, models.ThumbnailJob{UserID: userID, FileID: node.ID})
		if err != nil {
			s.logger.Warn(ctx, "thumbnail job not enqueued", "file_id", node.ID, "error", err)
		} else {
			s.logger.Debug(ctx, "thumbnail job enqueued", "file_id", node.ID, "job_id", jobID)
		}
	}

	return node, nil
}

func (s *FileService) checkParent(ctx context.Context, parentID string) error {
	if !common.IsValidID(parentID) {
		return common.NewValidationError("Invalid parentId")
	}
	parent, err := s.files.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return &common.NotFoundError{Reason: "Parent not found"}
		}
		return err
	}
	if !parent.IsFolder() {
		return common.NewValidationError("Parent is not a folder")
	}
	return nil
}

// GetNode returns a node owned by the caller.
func (s *FileService) GetNode(ctx context.Context, token, id string) (*models.FileNode, error) {
	userID, err := s.sessions.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if !common.IsValidID(id) {
		return nil, common.ErrorNotFound
	}
	return s.files.GetByIDAndUser(ctx, id, userID)
}

// ListNodes returns one page of the caller's nodes under parentID in
// insertion order. Negative pages are treated as the first page.
func (s *FileService) ListNodes(ctx context.Context, token, parentID string, page int) ([]*models.FileNode, error) {
	userID, err := s.sessions.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}

	if parentID == "" {
		parentID = common.RootParentID
	}
	if parentID != common.RootParentID && !common.IsValidID(parentID) {
		return nil, common.NewValidationError("Invalid parentId")
	}
	if page < 0 {
		page = 0
	}

	return s.files.List(ctx, userID, parentID, page*s.pageSize, s.pageSize)
}

// SetPublic changes the visibility of a node owned by the caller.
func (s *FileService) SetPublic(ctx context.Context, token, id string, value bool) (*models.FileNode, error) {
	userID, err := s.sessions.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if !common.IsValidID(id) {
		return nil, common.ErrorNotFound
	}
	return s.files.SetPublic(ctx, id, userID, value)
}

// decodeData accepts padded and unpadded standard base64.
func decodeData(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
