// Package guarded wraps a record store in a circuit breaker so a failing
// backend is answered fast instead of stalling every request.
package guarded

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"coderhack/internal/domain"
)

const failureThreshold = 5

type Repo struct {
	next domain.UserRepository
	cb   *gobreaker.CircuitBreaker
}

func New(next domain.UserRepository, name string, log logrus.FieldLogger) *Repo {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failureThreshold
		},
		// domain outcomes and caller cancellation say nothing about backend health
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, domain.ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("store circuit breaker state changed")
		},
	})
	return &Repo{next: next, cb: cb}
}

func (r *Repo) State() gobreaker.State { return r.cb.State() }

func (r *Repo) FindAllOrderByScoreDesc(ctx context.Context) ([]*domain.User, error) {
	v, err := r.cb.Execute(func() (interface{}, error) {
		return r.next.FindAllOrderByScoreDesc(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.User), nil
}

func (r *Repo) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	v, err := r.cb.Execute(func() (interface{}, error) {
		return r.next.FindByID(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.User), nil
}

func (r *Repo) ExistsByID(ctx context.Context, userID string) (bool, error) {
	v, err := r.cb.Execute(func() (interface{}, error) {
		return r.next.ExistsByID(ctx, userID)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (r *Repo) Save(ctx context.Context, u *domain.User) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.next.Save(ctx, u)
	})
	return err
}

func (r *Repo) DeleteByID(ctx context.Context, userID string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.next.DeleteByID(ctx, userID)
	})
	return err
}
