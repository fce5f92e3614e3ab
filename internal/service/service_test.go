package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/haierkeys/fast-diary/internal/domain"
)

// --- Fakes ---

type fakeEntryRepo struct {
	mu      sync.Mutex
	entries map[domain.Date]string
	saveErr error
	getErr  error
	listErr error
	saves   []domain.Date
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[domain.Date]string)}
}

func (f *fakeEntryRepo) Save(ctx context.Context, date domain.Date, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.entries[date] = text
	f.saves = append(f.saves, date)
	return nil
}

func (f *fakeEntryRepo) Get(ctx context.Context, date domain.Date) (*domain.Entry, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	text, ok := f.entries[date]
	if !ok {
		return nil, false, nil
	}
	return &domain.Entry{Date: date, Text: text}, true, nil
}

func (f *fakeEntryRepo) ListDates(ctx context.Context) ([]domain.Date, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	dates := make([]domain.Date, 0, len(f.entries))
	for d := range f.entries {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

type fakePrefRepo struct {
	mu     sync.Mutex
	values map[string]int
	getErr error
	setErr error
	sets   int
}

func newFakePrefRepo() *fakePrefRepo {
	return &fakePrefRepo{values: make(map[string]int)}
}

func (f *fakePrefRepo) GetInt(ctx context.Context, key string) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return 0, false, f.getErr
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakePrefRepo) SetInt(ctx context.Context, key string, value int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	f.sets++
	return nil
}

var errDiskFull = errors.New("no space left on device")
