package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/common"
	"github.com/dmitrijs2005/skillsync/internal/server/models"
)

// MemoryRepository keeps accounts in process memory. It is used when no
// database DSN is configured.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.Account
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.Account),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, acc *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[acc.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if _, ok := r.byID[acc.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	now := r.now().UTC()
	acc.CreatedAt, acc.UpdatedAt = now, now
	stored := *acc
	r.byID[acc.ID] = &stored
	r.byEmail[acc.Email] = acc.ID
	return acc, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	acc := *r.byID[id]
	return &acc, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	acc := *stored
	return &acc, nil
}

func (r *MemoryRepository) UpdateEmail(_ context.Context, id, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if other, taken := r.byEmail[email]; taken && other != id {
		return nil, common.ErrorAlreadyExists
	}
	delete(r.byEmail, stored.Email)
	stored.Email = email
	stored.UpdatedAt = r.now().UTC()
	r.byEmail[email] = id
	acc := *stored
	return &acc, nil
}

func (r *MemoryRepository) UpdatePasswordHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	stored.PasswordHash = hash
	stored.UpdatedAt = r.now().UTC()
	return nil
}

func (r *MemoryRepository) Ping(context.Context) error { return nil }
