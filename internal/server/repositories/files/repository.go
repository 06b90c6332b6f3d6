// Package files provides persistence for file hierarchy nodes.
package files

import (
	"context"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// Repository stores FileNodes. Missing nodes yield common.ErrorNotFound.
// List returns nodes in insertion order.
type Repository interface {
	Create(ctx context.Context, node *models.FileNode) (*models.FileNode, error)
	GetByID(ctx context.Context, id string) (*models.FileNode, error)
	GetByIDAndUser(ctx context.Context, id, userID string) (*models.FileNode, error)
	List(ctx context.Context, userID, parentID string, skip, limit int) ([]*models.FileNode, error)
	SetPublic(ctx context.Context, id, userID string, value bool) (*models.FileNode, error)
	Count(ctx context.Context) (int64, error)
}
