package ui

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/haierkeys/fast-diary/internal/dao"
	"github.com/haierkeys/fast-diary/internal/domain"
	"github.com/haierkeys/fast-diary/internal/service"
	"github.com/haierkeys/fast-diary/pkg/code"
	"github.com/haierkeys/fast-diary/pkg/storage/local_fs"
	"github.com/haierkeys/fast-diary/pkg/workerpool"
	"github.com/haierkeys/fast-diary/pkg/writequeue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresenter struct {
	mu       sync.Mutex
	date     domain.Date
	pickErr  error
	messages []string
}

func (p *fakePresenter) PickDate(ctx context.Context) (domain.Date, error) {
	return p.date, p.pickErr
}

func (p *fakePresenter) Notify(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
}

func (p *fakePresenter) last() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.messages) == 0 {
		return ""
	}
	return p.messages[len(p.messages)-1]
}

type testEnv struct {
	diary *service.DiaryService
	pool  *workerpool.Pool
	dir   string
}

func newTestEnv(t *testing.T, dir string) *testEnv {
	t.Helper()

	db, err := dao.NewDBEngine(dao.Database{Type: "sqlite", Path: filepath.Join(dir, "diary.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dao.CloseDB(db) })

	store, err := local_fs.NewClient(&local_fs.Config{SavePath: filepath.Join(dir, "entries")})
	require.NoError(t, err)

	wq := writequeue.New(nil, nil)
	pool := workerpool.New(nil, nil)
	t.Cleanup(func() {
		_ = pool.Shutdown(context.Background())
		_ = wq.Shutdown(context.Background())
	})

	d := dao.New(db, store, wq, nil)
	diary := service.NewDiaryService(
		service.NewEntryService(dao.NewEntryRepository(d), nil),
		service.NewSettingService(dao.NewPreferenceRepository(d), nil),
		nil,
	)
	return &testEnv{diary: diary, pool: pool, dir: dir}
}

func TestSession_SaveAndReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	env := newTestEnv(t, dir)
	date := domain.Date{Year: 2024, Month: 3, Day: 15}
	p := &fakePresenter{date: date}

	s := NewSession(env.diary, p, env.pool, nil)
	require.NoError(t, s.Open(ctx))
	assert.Empty(t, s.Text())
	assert.Equal(t, domain.DefaultFontSize, s.FontSize())

	s.SetText("Went hiking")
	assert.Equal(t, 20, s.AdjustFontSize(20))
	require.NoError(t, s.Save(ctx))
	assert.Equal(t, code.SuccessEntrySave.Msg(), p.last())

	// 新会话重新选择同一日期，能看到已保存的内容和字号
	s2 := NewSession(env.diary, p, env.pool, nil)
	require.NoError(t, s2.Open(ctx))
	assert.Equal(t, "Went hiking", s2.Text())
	assert.Equal(t, 20, s2.FontSize())
}

func TestSession_AdjustFontSizeClamps(t *testing.T) {
	s := NewSession(nil, &fakePresenter{}, nil, nil)
	assert.Equal(t, domain.MinFontSize, s.AdjustFontSize(2))
	assert.Equal(t, domain.MaxFontSize, s.AdjustFontSize(31))
	assert.Equal(t, 16, s.AdjustFontSize(16))
}

func TestSession_SaveWithoutDate(t *testing.T) {
	p := &fakePresenter{}
	s := NewSession(nil, p, nil, nil)

	err := s.Save(context.Background())
	assert.ErrorIs(t, err, ErrNoDateSelected)
	assert.Equal(t, code.ErrorInvalidDate.Msg(), p.last())
}

func TestSession_OpenPickError(t *testing.T) {
	pickErr := errors.New("dialog dismissed")
	s := NewSession(nil, &fakePresenter{pickErr: pickErr}, nil, nil)

	assert.ErrorIs(t, s.Open(context.Background()), pickErr)
	_, selected := s.Date()
	assert.False(t, selected)
}

type failingRunner struct{ err error }

func (r failingRunner) Submit(ctx context.Context, fn func(context.Context) error) error {
	return r.err
}

func TestSession_SaveFailureNotifies(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, t.TempDir())
	p := &fakePresenter{date: domain.Date{Year: 2024, Month: 1, Day: 1}}

	s := NewSession(env.diary, p, failingRunner{err: workerpool.ErrWorkerPoolFull}, nil)
	require.NoError(t, s.Open(ctx))

	err := s.Save(ctx)
	assert.ErrorIs(t, err, workerpool.ErrWorkerPoolFull)
	assert.Equal(t, code.Failed.Msg(), p.last())
}
