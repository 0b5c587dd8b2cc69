// backend-go/internal/repository/memory/alert_repository.go
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stockcast/backend-go/internal/domain"
	"github.com/stockcast/backend-go/internal/repository"
)

// AlertRepository stores alerts in memory for tests and dry runs.
type AlertRepository struct {
	mu     sync.RWMutex
	alerts map[int64]domain.Alert
	nextID int64
}

// NewAlertRepository creates an empty in-memory alert store.
func NewAlertRepository() *AlertRepository {
	return &AlertRepository{alerts: make(map[int64]domain.Alert), nextID: 1}
}

// Verify interface compliance
var _ repository.AlertRepository = (*AlertRepository)(nil)

func (r *AlertRepository) DeleteUnresolvedByProduct(ctx context.Context, productID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, a := range r.alerts {
		if a.ProductID == productID && !a.IsResolved {
			delete(r.alerts, id)
			n++
		}
	}

	return n, nil
}

func (r *AlertRepository) Insert(ctx context.Context, alert *domain.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	alert.ID = r.nextID
	r.nextID++
	r.alerts[alert.ID] = *alert

	return nil
}

func (r *AlertRepository) List(ctx context.Context, filter domain.AlertFilter) ([]domain.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Alert, 0, len(r.alerts))
	for _, a := range r.alerts {
		if filter.Priority != nil && a.Priority != *filter.Priority {
			continue
		}
		if filter.Resolved != nil && a.IsResolved != *filter.Resolved {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].IsResolved != out[j].IsResolved {
			return !out[i].IsResolved
		}
		if ri, rj := out[i].Priority.Rank(), out[j].Priority.Rank(); ri != rj {
			return ri < rj
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *AlertRepository) GetByID(ctx context.Context, id int64) (*domain.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.alerts[id]
	if !ok {
		return nil, domain.ErrAlertNotFound
	}

	return &a, nil
}

func (r *AlertRepository) Update(ctx context.Context, id int64, patch domain.AlertUpdate) (*domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.alerts[id]
	if !ok {
		return nil, domain.ErrAlertNotFound
	}

	if patch.IsRead != nil {
		a.IsRead = *patch.IsRead
	}
	if patch.IsResolved != nil {
		a.IsResolved = *patch.IsResolved
		if *patch.IsResolved {
			now := time.Now().UTC()
			a.ResolvedAt = &now
		} else {
			a.ResolvedAt = nil
		}
	}
	r.alerts[id] = a

	return &a, nil
}

func (r *AlertRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.alerts[id]; !ok {
		return domain.ErrAlertNotFound
	}
	delete(r.alerts, id)

	return nil
}

func (r *AlertRepository) Summary(ctx context.Context) (*domain.AlertSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s domain.AlertSummary
	for _, a := range r.alerts {
		if a.IsResolved {
			continue
		}
		s.Total++
		switch a.Priority {
		case domain.PriorityCritical:
			s.Critical++
		case domain.PriorityHigh:
			s.High++
		case domain.PriorityMedium:
			s.Medium++
		case domain.PriorityLow:
			s.Low++
		}
		if !a.IsRead {
			s.Unread++
		}
	}

	return &s, nil
}
