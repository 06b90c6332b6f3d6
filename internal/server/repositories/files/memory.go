package files

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// MemoryRepository keeps nodes in process memory in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	nodes []models.FileNode
	index map[string]int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{index: make(map[string]int)}
}

func (r *MemoryRepository) Create(_ context.Context, node *models.FileNode) (*models.FileNode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node.ID = common.NewID()
	r.index[node.ID] = len(r.nodes)
	r.nodes = append(r.nodes, *node)
	return node, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.FileNode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	n := r.nodes[i]
	return &n, nil
}

func (r *MemoryRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*models.FileNode, error) {
	n, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return n, nil
}

func (r *MemoryRepository) List(_ context.Context, userID, parentID string, skip, limit int) ([]*models.FileNode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.FileNode, 0, limit)
	matched := 0
	for i := range r.nodes {
		n := r.nodes[i]
		if n.UserID != userID || n.ParentID != parentID {
			continue
		}
		matched++
		if matched <= skip {
			continue
		}
		if len(result) == limit {
			break
		}
		result = append(result, &n)
	}
	return result, nil
}

func (r *MemoryRepository) SetPublic(_ context.Context, id, userID string, value bool) (*models.FileNode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok || r.nodes[i].UserID != userID {
		return nil, common.ErrorNotFound
	}
	r.nodes[i].IsPublic = value
	n := r.nodes[i]
	return &n, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.nodes)), nil
}
