package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserForRegistration(t *testing.T) {
	u, err := NewUserForRegistration("u1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)
	assert.Equal(t, "Alice", u.Username)
	assert.Equal(t, 0, u.Score)
	assert.Equal(t, BadgeSet(0), u.Badges)
}

func TestNewUserForRegistration_BlankFields(t *testing.T) {
	_, err := NewUserForRegistration(" ", "")
	var vErr *ErrValidation
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, map[string]string{
		"userId":   MsgUserIDRequired,
		"username": MsgUsernameRequired,
	}, vErr.Fields)

	_, err = NewUserForRegistration("u1", "\t")
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, map[string]string{"username": MsgUsernameRequired}, vErr.Fields)
}

func TestNewUserForRegistration_UserIDLength(t *testing.T) {
	_, err := NewUserForRegistration(strings.Repeat("é", MaxUserIDLength), "Alice")
	require.NoError(t, err)

	_, err = NewUserForRegistration(strings.Repeat("a", MaxUserIDLength+1), "Alice")
	var vErr *ErrValidation
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, map[string]string{"userId": MsgUserIDTooLong}, vErr.Fields)
}

func TestApplyScore_ReplacesBadges(t *testing.T) {
	u := &User{UserID: "u1", Username: "Alice"}

	require.NoError(t, u.ApplyScore(45))
	assert.Equal(t, NewBadgeSet(BadgeCodeChamp), u.Badges)

	require.NoError(t, u.ApplyScore(60))
	assert.Equal(t, 60, u.Score)
	assert.Equal(t, NewBadgeSet(BadgeCodeMaster), u.Badges)

	require.NoError(t, u.ApplyScore(0))
	assert.Equal(t, 0, u.Badges.Len())
}

func TestApplyScore_OutOfRange(t *testing.T) {
	u := &User{UserID: "u1", Username: "Alice", Score: 10, Badges: BadgesForScore(10)}
	for _, s := range []int{-1, 101} {
		err := u.ApplyScore(s)
		var vErr *ErrValidation
		require.True(t, errors.As(err, &vErr), "score %d", s)
		assert.Equal(t, MsgInvalidScore, vErr.Error())
	}
	assert.Equal(t, 10, u.Score)
	assert.Equal(t, NewBadgeSet(BadgeCodeNinja), u.Badges)
}
