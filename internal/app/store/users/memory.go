// internal/app/store/users/memory.go
package userstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/waffle/pantry/text"

	"github.com/coralhq/atrium/internal/app/system/ids"
	"github.com/coralhq/atrium/internal/app/system/normalize"
	"github.com/coralhq/atrium/internal/domain/models"
)

// MemoryStore is the demo/reference repository. It is constructed and owned
// by the process, never ambient. A mutex serializes access; it is meant for
// single-writer demo and test use, not concurrent mutation at scale.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]models.User
	seq   int64 // insertion order, breaks createdAt ties deterministically
	order map[string]int64
}

var _ Repository = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory user repository.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]models.User),
		order: make(map[string]int64),
	}
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok || u.IsDeleted {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := text.Fold(normalize.Email(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if !u.IsDeleted && u.EmailCI == key {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) List(ctx context.Context, orgID string, page, pageSize int) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	live := s.liveLocked(orgID)
	s.mu.RUnlock()

	offset := (page - 1) * pageSize
	if offset >= len(live) {
		return []models.User{}, nil
	}
	end := offset + pageSize
	if end > len(live) {
		end = len(live)
	}
	return live[offset:end], nil
}

// liveLocked returns non-deleted users ordered by creation time descending.
// Callers must hold at least the read lock.
func (s *MemoryStore) liveLocked(orgID string) []models.User {
	live := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if u.IsDeleted {
			continue
		}
		if orgID != "" && u.OrgID != orgID {
			continue
		}
		live = append(live, u)
	}
	sort.SliceStable(live, func(i, j int) bool {
		a, b := live[i], live[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return s.order[a.ID] > s.order[b.ID]
	})
	return live
}

func (s *MemoryStore) Count(ctx context.Context, orgID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, u := range s.users {
		if u.IsDeleted {
			continue
		}
		if orgID != "" && u.OrgID != orgID {
			continue
		}
		n++
	}
	return n, nil
}

func (s *MemoryStore) Create(ctx context.Context, u models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	if u.ID == "" {
		u.ID = ids.NewUserID()
	}
	u.Email = normalize.Email(u.Email)
	u.EmailCI = text.Fold(u.Email)
	now := time.Now().UTC()
	u.CreatedAt = now
	u.ModifiedAt = now
	u.Version = 1
	u.IsDeleted = false
	u.DeletedAt = nil

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if !existing.IsDeleted && existing.EmailCI == u.EmailCI {
			return models.User{}, ErrDuplicateEmail
		}
	}
	s.seq++
	s.order[u.ID] = s.seq
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryStore) Update(ctx context.Context, u models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u.Email = normalize.Email(u.Email)
	u.EmailCI = text.Fold(u.Email)
	m := mutableFrom(u, time.Now().UTC())

	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.users[u.ID]
	if !ok || cur.IsDeleted {
		return nil, ErrNotFound
	}
	cur.OrgID = m.OrgID
	cur.OrgName = m.OrgName
	cur.UserType = m.UserType
	cur.Role = m.Role
	cur.Status = m.Status
	cur.Name = m.Name
	cur.Email = m.Email
	cur.EmailCI = m.EmailCI
	cur.PasswordHash = m.Password
	cur.ModifiedBy = m.ModifiedBy
	cur.ModifiedAt = m.ModifiedAt
	cur.Version++
	s.users[u.ID] = cur
	return &cur, nil
}

func (s *MemoryStore) SoftDelete(ctx context.Context, id, deletedBy string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.IsDeleted {
		return false, nil
	}
	now := time.Now().UTC()
	u.IsDeleted = true
	u.DeletedAt = &now
	u.ModifiedBy = deletedBy
	u.ModifiedAt = now
	u.Version++
	s.users[id] = u
	return true, nil
}

func (s *MemoryStore) EmailExists(ctx context.Context, email string, excludeID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key := text.Fold(normalize.Email(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.IsDeleted || u.ID == excludeID {
			continue
		}
		if u.EmailCI == key {
			return true, nil
		}
	}
	return false, nil
}
