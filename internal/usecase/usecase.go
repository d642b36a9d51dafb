package usecase

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"coderhack/internal/domain"
)

type Usecase struct {
	Repo domain.UserRepository
	Log  logrus.FieldLogger

	scoreUpdates metric.Int64Counter
}

func New(repo domain.UserRepository, log logrus.FieldLogger) *Usecase {
	uc := &Usecase{Repo: repo, Log: log}
	c, err := otel.Meter("coderhack/usecase").Int64Counter(
		"users.score_updates",
		metric.WithDescription("Score updates applied, by resulting badge"),
	)
	if err != nil {
		uc.logger().WithError(err).Warn("score update counter unavailable")
	} else {
		uc.scoreUpdates = c
	}
	return uc
}

func (u *Usecase) logger() logrus.FieldLogger {
	if u.Log == nil {
		return logrus.StandardLogger()
	}
	return u.Log
}

// ListUsers returns every user, highest score first.
func (u *Usecase) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return u.Repo.FindAllOrderByScoreDesc(ctx)
}

// GetUser returns domain.ErrNotFound when the id is unknown.
func (u *Usecase) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return u.Repo.FindByID(ctx, userID)
}

// RegisterUser: existence check, then create with score 0 and no badges.
func (u *Usecase) RegisterUser(ctx context.Context, userID, username string) (*domain.User, error) {
	user, err := domain.NewUserForRegistration(userID, username)
	if err != nil {
		return nil, err
	}
	exists, err := u.Repo.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyExists
	}
	if err := u.Repo.Save(ctx, user); err != nil {
		return nil, err
	}
	u.logger().WithField("user_id", userID).Info("user registered")
	return user, nil
}

// UpdateScore replaces the score and recomputes badges. The range check
// runs before the store is touched; an unknown id performs no write.
func (u *Usecase) UpdateScore(ctx context.Context, userID string, score int) (*domain.User, error) {
	if err := domain.ValidateScore(score); err != nil {
		return nil, err
	}
	user, err := u.Repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := user.Badges
	if err := user.ApplyScore(score); err != nil {
		return nil, err
	}
	if err := u.Repo.Save(ctx, user); err != nil {
		return nil, err
	}

	u.logger().WithFields(logrus.Fields{
		"user_id": userID,
		"score":   score,
		"badges":  user.Badges.Names(),
	}).Info("score updated")
	if previous != user.Badges {
		u.logger().WithFields(logrus.Fields{
			"user_id": userID,
			"from":    previous.Names(),
			"to":      user.Badges.Names(),
		}).Debug("badges changed")
	}
	if u.scoreUpdates != nil {
		u.scoreUpdates.Add(ctx, 1, metric.WithAttributes(attribute.String("badge", badgeLabel(user.Badges))))
	}
	return user, nil
}

// DeleteUser is idempotent: a missing id is not an error.
func (u *Usecase) DeleteUser(ctx context.Context, userID string) error {
	if err := u.Repo.DeleteByID(ctx, userID); err != nil {
		return err
	}
	u.logger().WithField("user_id", userID).Info("user deleted")
	return nil
}

func badgeLabel(s domain.BadgeSet) string {
	if b := s.Badges(); len(b) > 0 {
		return b[0].String()
	}
	return "NONE"
}
