package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	MinScore = 0
	MaxScore = 100

	// MaxUserIDLength bounds a user id in characters; SQL stores key on varchar(255).
	MaxUserIDLength = 255
)

// Validation messages returned to API clients.
const (
	MsgUserIDRequired   = "User ID must not be empty"
	MsgUserIDTooLong    = "User ID must be at most 255 characters"
	MsgUsernameRequired = "Username must not be empty"
	MsgInvalidScore     = "Provided score is invalid"
)

type User struct {
	UserID   string
	Username string
	Score    int
	Badges   BadgeSet
}

// NewUserForRegistration builds a fresh user with score 0 and no badges.
func NewUserForRegistration(userID, username string) (*User, error) {
	fields := map[string]string{}
	if strings.TrimSpace(userID) == "" {
		fields["userId"] = MsgUserIDRequired
	} else if utf8.RuneCountInString(userID) > MaxUserIDLength {
		fields["userId"] = MsgUserIDTooLong
	}
	if strings.TrimSpace(username) == "" {
		fields["username"] = MsgUsernameRequired
	}
	if len(fields) > 0 {
		return nil, &ErrValidation{Fields: fields}
	}
	return &User{UserID: userID, Username: username}, nil
}

func ValidateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return &ErrValidation{Cause: MsgInvalidScore}
	}
	return nil
}

// ApplyScore replaces the score and recomputes the badge set from scratch.
func (u *User) ApplyScore(score int) error {
	if err := ValidateScore(score); err != nil {
		return err
	}
	u.Score = score
	u.Badges = BadgesForScore(score)
	return nil
}
