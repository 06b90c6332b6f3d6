package repomanager

import (
	"context"

	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps all metadata in process memory. It is always
// alive and loses its contents on Close.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
	files *files.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		files: files.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) Files() files.Repository { return m.files }

func (m *MemoryRepositoryManager) IsAlive(context.Context) bool { return true }

func (m *MemoryRepositoryManager) Close(context.Context) error { return nil }
