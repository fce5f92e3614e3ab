package dao

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/fast-diary/internal/domain"
	"github.com/haierkeys/fast-diary/internal/model"
	"github.com/haierkeys/fast-diary/pkg/storage"
	"github.com/haierkeys/fast-diary/pkg/storage/local_fs"
	"github.com/haierkeys/fast-diary/pkg/writequeue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDao(t *testing.T, dir string) *Dao {
	t.Helper()

	db, err := NewDBEngine(Database{Type: "sqlite", Path: filepath.Join(dir, "db", "diary.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDB(db) })

	store, err := local_fs.NewClient(&local_fs.Config{SavePath: filepath.Join(dir, "entries")})
	require.NoError(t, err)

	wq := writequeue.New(nil, nil)
	t.Cleanup(func() { _ = wq.Shutdown(context.Background()) })

	return New(db, store, wq, nil)
}

func TestEntryRepository_SaveGet(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository(newTestDao(t, t.TempDir()))

	date := domain.Date{Year: 2024, Month: 3, Day: 15}

	entry, found, err := repo.Get(ctx, date)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, entry)

	require.NoError(t, repo.Save(ctx, date, "Went hiking"))
	entry, found, err = repo.Get(ctx, date)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Went hiking", entry.Text)
	assert.Equal(t, date, entry.Date)

	require.NoError(t, repo.Save(ctx, date, "Rained"))
	entry, _, err = repo.Get(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, "Rained", entry.Text)

	// 空文本是合法内容，读取结果是 found 且为空串
	require.NoError(t, repo.Save(ctx, date, ""))
	entry, found, err = repo.Get(ctx, date)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "", entry.Text)
}

func TestEntryRepository_DatesAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository(newTestDao(t, t.TempDir()))

	leap := domain.Date{Year: 2024, Month: 2, Day: 29}
	march := domain.Date{Year: 2024, Month: 3, Day: 1}
	require.NoError(t, repo.Save(ctx, leap, "A"))
	require.NoError(t, repo.Save(ctx, march, "B"))

	e, _, err := repo.Get(ctx, leap)
	require.NoError(t, err)
	assert.Equal(t, "A", e.Text)
	e, _, err = repo.Get(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, "B", e.Text)
}

func TestEntryRepository_UnicodeRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository(newTestDao(t, t.TempDir()))
	date := domain.Date{Year: 2023, Month: 12, Day: 31}

	text := "今天天气很好 🌧️\nline two\r\n\ttabbed"
	require.NoError(t, repo.Save(ctx, date, text))
	e, found, err := repo.Get(ctx, date)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, text, e.Text)
}

func TestEntryRepository_ConcurrentSameDate(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository(newTestDao(t, t.TempDir()))
	date := domain.Date{Year: 2024, Month: 6, Day: 1}

	texts := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		text := fmt.Sprintf("version-%02d", i)
		texts[text] = true
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Save(ctx, date, text))
		}()
	}
	wg.Wait()

	e, found, err := repo.Get(ctx, date)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, texts[e.Text], "unexpected content %q", e.Text)
}

func TestEntryRepository_ListDates(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository(newTestDao(t, t.TempDir()))

	dates, err := repo.ListDates(ctx)
	require.NoError(t, err)
	assert.Empty(t, dates)

	for _, d := range []domain.Date{{Year: 2024, Month: 3, Day: 1}, {Year: 2023, Month: 12, Day: 31}, {Year: 2024, Month: 2, Day: 29}} {
		require.NoError(t, repo.Save(ctx, d, d.String()))
	}

	dates, err = repo.ListDates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Date{{Year: 2023, Month: 12, Day: 31}, {Year: 2024, Month: 2, Day: 29}, {Year: 2024, Month: 3, Day: 1}}, dates)
}

func TestPreferenceRepository_GetSet(t *testing.T) {
	ctx := context.Background()
	repo := NewPreferenceRepository(newTestDao(t, t.TempDir()))

	_, found, err := repo.GetInt(ctx, domain.FontSizeKey)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.SetInt(ctx, domain.FontSizeKey, 22))
	v, found, err := repo.GetInt(ctx, domain.FontSizeKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 22, v)

	// 存储层不做范围校验
	for _, want := range []int{-5, 0, 1000} {
		require.NoError(t, repo.SetInt(ctx, domain.FontSizeKey, want))
		v, _, err = repo.GetInt(ctx, domain.FontSizeKey)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestPreferenceRepository_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "pref.db")

	db, err := NewDBEngine(Database{Type: "sqlite", Path: path})
	require.NoError(t, err)
	repo := NewPreferenceRepository(New(db, nil, nil, nil))
	require.NoError(t, repo.SetInt(ctx, domain.FontSizeKey, 24))
	require.NoError(t, CloseDB(db))

	db, err = NewDBEngine(Database{Type: "sqlite", Path: path})
	require.NoError(t, err)
	defer CloseDB(db)

	repo = NewPreferenceRepository(New(db, nil, nil, nil))
	v, found, err := repo.GetInt(ctx, domain.FontSizeKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 24, v)
}

func TestPreferenceRepository_CorruptValue(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t, t.TempDir())
	repo := NewPreferenceRepository(d)

	require.NoError(t, repo.SetInt(ctx, domain.FontSizeKey, 18))
	require.NoError(t, d.Db.Model(&model.UserPreference{}).
		Where("pref_key = ?", domain.FontSizeKey).
		Update("value", "large").Error)

	_, _, err := repo.GetInt(ctx, domain.FontSizeKey)
	assert.Error(t, err)
}

func TestPreferenceRepository_ConcurrentReadersNeverTorn(t *testing.T) {
	ctx := context.Background()
	repo := NewPreferenceRepository(newTestDao(t, t.TempDir()))
	require.NoError(t, repo.SetInt(ctx, domain.FontSizeKey, 12))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			v := 12
			if i%2 == 0 {
				v = 30
			}
			assert.NoError(t, repo.SetInt(ctx, domain.FontSizeKey, v))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			v, found, err := repo.GetInt(ctx, domain.FontSizeKey)
			assert.NoError(t, err)
			assert.True(t, found)
			assert.Contains(t, []int{12, 30}, v)
		}
	}()
	wg.Wait()
}

func TestNewDBEngine_UnknownType(t *testing.T) {
	_, err := NewDBEngine(Database{Type: "oracle"})
	assert.Error(t, err)
}

// slowStorage 在 gate 关闭前阻塞写入
type slowStorage struct {
	storage.Storager
	gate chan struct{}
}

func (s *slowStorage) PutContent(ctx context.Context, fileKey string, content []byte) error {
	<-s.gate
	return s.Storager.PutContent(ctx, fileKey, content)
}

func TestEntryRepository_SlowWriteResultMatchesContent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	local, err := local_fs.NewClient(&local_fs.Config{SavePath: filepath.Join(dir, "entries")})
	require.NoError(t, err)
	store := &slowStorage{Storager: local, gate: make(chan struct{})}

	wq := writequeue.New(&writequeue.Config{WriteTimeout: 50 * time.Millisecond}, nil)
	t.Cleanup(func() { _ = wq.Shutdown(context.Background()) })
	repo := NewEntryRepository(New(nil, store, wq, nil))

	date := domain.Date{Year: 2024, Month: 5, Day: 1}

	running := make(chan error, 1)
	go func() { running <- repo.Save(ctx, date, "first") }()
	require.Eventually(t, func() bool { return wq.QueuedCount(date.Key()) == 1 }, time.Second, time.Millisecond)

	// 排队中的写入超时后不再执行
	err = repo.Save(ctx, date, "second")
	require.ErrorIs(t, err, writequeue.ErrWriteTimeout)

	close(store.gate)
	// 已开始的写入超时后仍返回真实结果
	require.NoError(t, <-running)
	require.Eventually(t, func() bool { return wq.QueuedCount(date.Key()) == 0 }, time.Second, time.Millisecond)

	entry, found, err := repo.Get(ctx, date)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "first", entry.Text)
}
