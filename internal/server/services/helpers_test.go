package services

import (
	"context"
	"encoding/base64"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/users"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
	"github.com/dmitrijs2005/filesmanager/internal/server/storage"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

type fakeQueue struct {
	mu      sync.Mutex
	jobs    []models.ThumbnailJob
	err     error
	onQueue func(job models.ThumbnailJob)
}

func (q *fakeQueue) Enqueue(_ context.Context, job models.ThumbnailJob) (string, error) {
	if q.onQueue != nil {
		q.onQueue(job)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return "", q.err
	}
	q.jobs = append(q.jobs, job)
	return "job-" + strconv.Itoa(len(q.jobs)), nil
}

type testEnv struct {
	users    *users.MemoryRepository
	files    *files.MemoryRepository
	sessions *sessions.BadgerStore
	storage  *storage.LocalStorage
	queue    *fakeQueue

	auth    *AuthService
	fileSvc *FileService
	content *ContentService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	ss, err := sessions.NewBadgerStore("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	e := &testEnv{
		users:    users.NewMemoryRepository(),
		files:    files.NewMemoryRepository(),
		sessions: ss,
		storage:  st,
		queue:    &fakeQueue{},
	}
	log := logging.NewNop()
	e.auth = NewAuthService(e.users, ss, "pepper", time.Hour, log)
	e.fileSvc = NewFileService(e.files, e.auth, st, e.queue, DefaultPageSize, log)
	e.content = NewContentService(e.files, e.auth, st, []int{500, 250, 100}, log)
	return e
}

func basic(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

// signIn registers email and returns a live session token.
func (e *testEnv) signIn(t *testing.T, email, password string) string {
	t.Helper()
	ctx := context.Background()
	_, err := e.auth.Register(ctx, email, password)
	require.NoError(t, err)
	token, err := e.auth.Login(ctx, basic(email, password))
	require.NoError(t, err)
	return token
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}
