package entries

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yebin817/passvault/internal/common"
	"github.com/yebin817/passvault/internal/server/models"
)

// InMemoryRepository is a map-backed Repository for service tests. Insertion
// order is preserved so Search stays deterministic like the SQL ordering.
type InMemoryRepository struct {
	mu      sync.Mutex
	order   []string
	entries map[string]*models.Entry
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{entries: make(map[string]*models.Entry)}
}

func cloneEntry(e *models.Entry) *models.Entry {
	c := *e
	return &c
}

func (r *InMemoryRepository) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored := cloneEntry(entry)
	stored.ID = uuid.New().String()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.entries[stored.ID] = stored
	r.order = append(r.order, stored.ID)

	return cloneEntry(stored), nil
}

func (r *InMemoryRepository) GetForUser(ctx context.Context, id, userID string) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return cloneEntry(e), nil
}

func matches(e *models.Entry, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range []string{e.ServiceName, e.Username, e.Email, e.Notes} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (r *InMemoryRepository) Search(ctx context.Context, userID, query string) ([]*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.Entry
	for _, id := range r.order {
		e := r.entries[id]
		if e.UserID != userID {
			continue
		}
		if matches(e, query) {
			result = append(result, cloneEntry(e))
		}
	}
	return result, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, entry *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[entry.ID]
	if !ok || e.UserID != entry.UserID {
		return common.ErrorNotFound
	}
	e.ServiceName = entry.ServiceName
	e.Username = entry.Username
	e.Email = entry.Email
	e.PasswordCiphertext = entry.PasswordCiphertext
	e.Notes = entry.Notes
	e.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.entries, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Corrupt replaces the stored ciphertext of an entry. Test helper for
// exercising undecryptable-password paths.
func (r *InMemoryRepository) Corrupt(id, ciphertext string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		e.PasswordCiphertext = ciphertext
	}
}
