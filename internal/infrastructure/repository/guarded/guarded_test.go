package guarded

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coderhack/internal/domain"
	"coderhack/internal/infrastructure/repository/memrepo"
	"coderhack/internal/logging"
)

// flakyRepo fails every call with err while err is set, delegating otherwise.
type flakyRepo struct {
	domain.UserRepository
	err   error
	calls int
}

func (f *flakyRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.UserRepository.FindByID(ctx, id)
}

func (f *flakyRepo) Save(ctx context.Context, u *domain.User) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return f.UserRepository.Save(ctx, u)
}

func TestRepo_PassesThrough(t *testing.T) {
	ctx := context.Background()
	r := New(memrepo.New(), "users", logging.Discard())

	require.NoError(t, r.Save(ctx, &domain.User{UserID: "u1", Username: "Alice", Score: 5, Badges: domain.BadgesForScore(5)}))

	u, err := r.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Username)

	ok, err := r.ExistsByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	users, err := r.FindAllOrderByScoreDesc(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, r.DeleteByID(ctx, "u1"))
	_, err = r.FindByID(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_NotFoundDoesNotTrip(t *testing.T) {
	r := New(memrepo.New(), "users", logging.Discard())
	for i := 0; i < failureThreshold*2; i++ {
		_, err := r.FindByID(context.Background(), "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, r.State())
}

func TestRepo_OpensAfterConsecutiveFailures(t *testing.T) {
	boom := errors.New("connection refused")
	flaky := &flakyRepo{UserRepository: memrepo.New(), err: boom}
	r := New(flaky, "users", logging.Discard())

	for i := 0; i < failureThreshold; i++ {
		err := r.Save(context.Background(), &domain.User{UserID: "u1"})
		require.ErrorIs(t, err, boom)
	}
	assert.Equal(t, gobreaker.StateOpen, r.State())

	_, err := r.FindByID(context.Background(), "u1")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, failureThreshold, flaky.calls)
}
