package sqlrepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coderhack/internal/domain"
)

func TestToRow(t *testing.T) {
	u := &domain.User{UserID: "u1", Username: "Alice"}
	require.NoError(t, u.ApplyScore(60))

	row := toRow(u)
	assert.Equal(t, "u1", row.UserID)
	assert.Equal(t, 60, row.Score)
	assert.Equal(t, "CODE_MASTER", row.Badges)

	assert.Equal(t, "", toRow(&domain.User{UserID: "u2"}).Badges)
}

func TestFromRow(t *testing.T) {
	u, err := fromRow(userRow{UserID: "u1", Username: "Alice", Score: 30, Badges: "CODE_CHAMP"})
	require.NoError(t, err)
	assert.Equal(t, domain.NewBadgeSet(domain.BadgeCodeChamp), u.Badges)

	u, err = fromRow(userRow{UserID: "u2", Username: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, 0, u.Badges.Len())

	_, err = fromRow(userRow{UserID: "u3", Badges: "CODE_CHAMP,BOGUS"})
	assert.ErrorContains(t, err, "u3")
}

func TestOpen_UnknownDialect(t *testing.T) {
	_, err := Open("sqlite", "file::memory:")
	assert.ErrorContains(t, err, "sqlite")
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "users", userRow{}.TableName())
}
