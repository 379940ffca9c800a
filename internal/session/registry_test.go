package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"sessionbot/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// stubConn counts Close calls so tests can assert release-exactly-once.
type stubConn struct {
	closed   int
	closeErr error
}

func (c *stubConn) RequestCode(ctx context.Context, phone string) (string, error) { return "", nil }
func (c *stubConn) SignIn(ctx context.Context, phone, codeHash, code string) error {
	return nil
}
func (c *stubConn) CheckPassword(ctx context.Context, password string) error { return nil }
func (c *stubConn) ExportSession(ctx context.Context) (string, error)        { return "", nil }
func (c *stubConn) AccountInfo(ctx context.Context) (*domain.AccountInfo, error) {
	return nil, nil
}
func (c *stubConn) Close() error {
	c.closed++
	return c.closeErr
}

func newTestRegistry() *Registry {
	return NewRegistry(zap.NewNop())
}

func TestRegistry_InitCreatesFreshRecord(t *testing.T) {
	r := newTestRegistry()

	rec := r.Init(42)

	assert.NotNil(t, rec)
	assert.Equal(t, int64(42), rec.UserID)
	assert.Equal(t, StepAPIID, rec.Step)
	assert.Zero(t, rec.APIID)
	assert.Empty(t, rec.APIHash)
	assert.Empty(t, rec.Phone)
	assert.Empty(t, rec.PhoneCodeHash)
	assert.Nil(t, rec.Conn)
	assert.WithinDuration(t, time.Now(), rec.CreatedAt, time.Second)

	assert.Same(t, rec, r.Get(42))
}

func TestRegistry_InitReplacesAndReleasesPrior(t *testing.T) {
	r := newTestRegistry()

	conn := &stubConn{}
	old := r.Init(42)
	old.Conn = conn
	old.Step = StepCode

	fresh := r.Init(42)

	assert.NotSame(t, old, fresh)
	assert.Equal(t, StepAPIID, fresh.Step)
	assert.Equal(t, 1, conn.closed)
}

func TestRegistry_GetAbsent(t *testing.T) {
	r := newTestRegistry()

	assert.Nil(t, r.Get(42))
}

func TestRegistry_GetExpiredReleasesAndRemoves(t *testing.T) {
	r := newTestRegistry()

	conn := &stubConn{}
	rec := r.Init(42)
	rec.Conn = conn
	rec.CreatedAt = time.Now().Add(-31 * time.Minute)

	assert.Nil(t, r.Get(42))
	assert.Equal(t, 1, conn.closed)

	// Record is gone, second lookup does not close again
	assert.Nil(t, r.Get(42))
	assert.Equal(t, 1, conn.closed)
	assert.Equal(t, 0, r.CountActive())
}

func TestRegistry_ExpiredRecordHoldsConnectionUntilNextRead(t *testing.T) {
	r := newTestRegistry()

	conn := &stubConn{}
	rec := r.Init(42)
	rec.Conn = conn
	rec.CreatedAt = time.Now().Add(-31 * time.Minute)

	// Expiry is lazy: nothing happens until a registry access sweeps.
	assert.Equal(t, 0, conn.closed)

	assert.Equal(t, 0, r.CountActive())
	assert.Equal(t, 1, conn.closed)
}

func TestRegistry_UpdateAppliesToLiveRecord(t *testing.T) {
	r := newTestRegistry()
	r.Init(42)

	ok := r.Update(42, func(rec *Record) {
		rec.APIID = 123456
		rec.Step = StepAPIHash
	})

	assert.True(t, ok)
	rec := r.Get(42)
	assert.Equal(t, 123456, rec.APIID)
	assert.Equal(t, StepAPIHash, rec.Step)
}

func TestRegistry_UpdateAbsentIsNoop(t *testing.T) {
	r := newTestRegistry()

	called := false
	ok := r.Update(42, func(rec *Record) { called = true })

	assert.False(t, ok)
	assert.False(t, called)
}

func TestRegistry_UpdateExpiredIsNoop(t *testing.T) {
	r := newTestRegistry()

	conn := &stubConn{}
	rec := r.Init(42)
	rec.Conn = conn
	rec.CreatedAt = time.Now().Add(-31 * time.Minute)

	ok := r.Update(42, func(rec *Record) { rec.APIID = 1 })

	assert.False(t, ok)
	assert.Equal(t, 1, conn.closed)
}

func TestRegistry_ClearReleasesConnection(t *testing.T) {
	r := newTestRegistry()

	conn := &stubConn{}
	rec := r.Init(42)
	rec.Conn = conn

	assert.True(t, r.Clear(42))
	assert.Equal(t, 1, conn.closed)
	assert.Nil(t, r.Get(42))
}

func TestRegistry_ClearIsIdempotent(t *testing.T) {
	r := newTestRegistry()
	r.Init(42)

	assert.True(t, r.Clear(42))
	assert.False(t, r.Clear(42))
}

func TestRegistry_ClearSwallowsReleaseError(t *testing.T) {
	r := newTestRegistry()

	conn := &stubConn{closeErr: errors.New("disconnect failed")}
	rec := r.Init(42)
	rec.Conn = conn

	assert.True(t, r.Clear(42))
	assert.Equal(t, 1, conn.closed)
}

func TestRegistry_CountActive(t *testing.T) {
	r := newTestRegistry()

	r.Init(1)
	r.Init(2)
	rec := r.Init(3)
	rec.CreatedAt = time.Now().Add(-31 * time.Minute)

	assert.Equal(t, 2, r.CountActive())
}

func TestRegistry_Stats(t *testing.T) {
	r := newTestRegistry()

	r.Init(1)
	r.Init(2)
	r.Update(2, func(rec *Record) { rec.Step = StepPhone })
	expired := r.Init(3)
	expired.CreatedAt = time.Now().Add(-31 * time.Minute)

	total, byStep := r.Stats()

	assert.Equal(t, 2, total)
	assert.Equal(t, 1, byStep[StepAPIID])
	assert.Equal(t, 1, byStep[StepPhone])
	assert.Zero(t, byStep[StepCode])
}

func TestRecord_Expired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		age      time.Duration
		expected bool
	}{
		{
			name:     "fresh record",
			age:      time.Minute,
			expected: false,
		},
		{
			name:     "just under the limit",
			age:      30*time.Minute - time.Second,
			expected: false,
		},
		{
			name:     "past the limit",
			age:      30*time.Minute + time.Second,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Record{CreatedAt: now.Add(-tt.age)}
			assert.Equal(t, tt.expected, rec.Expired(now))
		})
	}
}
