package mongorepo

import (
	"github.com/pkg/errors"

	"coderhack/internal/domain"
)

// userDocument is the stored shape of a user in the "users" collection.
type userDocument struct {
	UserID   string   `bson:"_id"`
	Username string   `bson:"username"`
	Score    int      `bson:"score"`
	Badges   []string `bson:"badges"`
}

func toDocument(u *domain.User) userDocument {
	return userDocument{
		UserID:   u.UserID,
		Username: u.Username,
		Score:    u.Score,
		Badges:   u.Badges.Names(),
	}
}

func fromDocument(d userDocument) (*domain.User, error) {
	badges, err := domain.BadgeSetFromNames(d.Badges)
	if err != nil {
		return nil, errors.Wrapf(err, "decode user %q", d.UserID)
	}
	return &domain.User{
		UserID:   d.UserID,
		Username: d.Username,
		Score:    d.Score,
		Badges:   badges,
	}, nil
}
