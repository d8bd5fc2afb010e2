// internal/app/store/organizations/memory.go
package organizationstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/waffle/pantry/text"

	"github.com/coralhq/atrium/internal/app/system/ids"
	"github.com/coralhq/atrium/internal/domain/models"
)

// MemoryStore is the demo/reference organization repository. Single-writer
// semantics, same as the user MemoryStore.
type MemoryStore struct {
	mu    sync.RWMutex
	orgs  map[string]models.Organization
	seq   int64
	order map[string]int64
}

var _ Repository = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory organization repository.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orgs:  make(map[string]models.Organization),
		order: make(map[string]int64),
	}
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.orgs[id]
	if !ok || org.IsDeleted {
		return nil, ErrNotFound
	}
	return &org, nil
}

func (s *MemoryStore) List(ctx context.Context, page, pageSize int) ([]models.Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	live := make([]models.Organization, 0, len(s.orgs))
	for _, org := range s.orgs {
		if !org.IsDeleted {
			live = append(live, org)
		}
	}
	sort.SliceStable(live, func(i, j int) bool {
		a, b := live[i], live[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return s.order[a.ID] > s.order[b.ID]
	})
	s.mu.RUnlock()

	offset := (page - 1) * pageSize
	if offset >= len(live) {
		return []models.Organization{}, nil
	}
	end := offset + pageSize
	if end > len(live) {
		end = len(live)
	}
	return live[offset:end], nil
}

func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, org := range s.orgs {
		if !org.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	if err := ctx.Err(); err != nil {
		return models.Organization{}, err
	}
	if org.ID == "" {
		org.ID = ids.NewOrgID()
	}
	org.OrgID = org.ID
	org.NameCI = text.Fold(org.Name)
	now := time.Now().UTC()
	org.CreatedAt = now
	org.ModifiedAt = now
	org.Version = 1
	org.IsDeleted = false
	org.DeletedAt = nil

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.orgs {
		if !existing.IsDeleted && existing.NameCI == org.NameCI {
			return models.Organization{}, ErrDuplicateName
		}
	}
	s.seq++
	s.order[org.ID] = s.seq
	s.orgs[org.ID] = org
	return org, nil
}

func (s *MemoryStore) Update(ctx context.Context, org models.Organization) (*models.Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.orgs[org.ID]
	if !ok || cur.IsDeleted {
		return nil, ErrNotFound
	}
	cur.Name = org.Name
	cur.NameCI = text.Fold(org.Name)
	cur.Status = org.Status
	cur.Contact = org.Contact
	cur.Subscription = org.Subscription
	cur.ModifiedBy = org.ModifiedBy
	cur.ModifiedAt = time.Now().UTC()
	cur.Version++
	s.orgs[org.ID] = cur
	return &cur, nil
}

func (s *MemoryStore) SoftDelete(ctx context.Context, id, deletedBy string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	org, ok := s.orgs[id]
	if !ok || org.IsDeleted {
		return false, nil
	}
	now := time.Now().UTC()
	org.IsDeleted = true
	org.DeletedAt = &now
	org.ModifiedBy = deletedBy
	org.ModifiedAt = now
	org.Version++
	s.orgs[id] = org
	return true, nil
}

func (s *MemoryStore) NameExists(ctx context.Context, name string, excludeID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key := text.Fold(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, org := range s.orgs {
		if org.IsDeleted || org.ID == excludeID {
			continue
		}
		if org.NameCI == key {
			return true, nil
		}
	}
	return false, nil
}
