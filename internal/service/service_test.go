package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/gfmarinho/absence-messaging/internal/model"
)

// memRepo is an in-memory DispatchRepository with the same atomicity
// guarantees as the SQL store.
type memRepo struct {
	mu      sync.Mutex
	nextID  int64
	records []*model.DispatchRecord

	createErr error
	findErr   error
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1}
}

func (m *memRepo) Create(ctx context.Context, rec model.DispatchRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return 0, m.createErr
	}

	rec.ID = m.nextID
	m.nextID++
	m.records = append(m.records, &rec)
	return rec.ID, nil
}

func (m *memRepo) FindAwaitingReply(ctx context.Context, phone string) ([]model.DispatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findErr != nil {
		return nil, m.findErr
	}

	var out []model.DispatchRecord
	for _, r := range m.records {
		if r.Phone == phone && r.AwaitingReply() {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memRepo) AttachReply(ctx context.Context, id int64, body string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.ID == id && r.Reply == nil {
			b := body
			r.Reply = &b
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) QueryByDateAndSeries(ctx context.Context, date, series string) ([]model.DispatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.DispatchRecord
	for _, r := range m.records {
		if r.Date == date && r.Series == series {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memRepo) ListReplied(ctx context.Context) ([]model.DispatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.DispatchRecord
	for _, r := range m.records {
		if r.Reply != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memRepo) get(id int64) (model.DispatchRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.ID == id {
			return *r, true
		}
	}
	return model.DispatchRecord{}, false
}

var errStorageDown = errors.New("storage unavailable")
