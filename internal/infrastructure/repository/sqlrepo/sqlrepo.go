package sqlrepo

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"coderhack/internal/domain"
)

// userRow maps a user onto the users table. Badges are stored as a
// comma-separated list of badge names.
type userRow struct {
	UserID   string `gorm:"primaryKey;column:user_id;type:varchar(255)"`
	Username string `gorm:"column:username;type:text;not null"`
	Score    int    `gorm:"column:score;not null;index:idx_users_score"`
	Badges   string `gorm:"column:badges;type:varchar(64);not null"`
}

func (userRow) TableName() string {
	return "users"
}

// Open connects with the named dialect ("postgres" or "mysql").
func Open(dialect, dsn string) (*gorm.DB, error) {
	var d gorm.Dialector
	switch dialect {
	case "postgres":
		d = postgres.Open(dsn)
	case "mysql":
		d = mysql.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported sql dialect %q", dialect)
	}
	db, err := gorm.Open(d, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", dialect)
	}
	return db, nil
}

type Repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) AutoMigrate() error {
	return errors.Wrap(r.db.AutoMigrate(&userRow{}), "migrate users")
}

func (r *Repo) FindAllOrderByScoreDesc(ctx context.Context) ([]*domain.User, error) {
	var rows []userRow
	if err := r.db.WithContext(ctx).Order("score DESC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	users := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		u, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *Repo) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get user %q", userID)
	}
	return fromRow(row)
}

func (r *Repo) ExistsByID(ctx context.Context, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userRow{}).Where("user_id = ?", userID).Count(&n).Error
	if err != nil {
		return false, errors.Wrapf(err, "count user %q", userID)
	}
	return n > 0, nil
}

func (r *Repo) Save(ctx context.Context, u *domain.User) error {
	row := toRow(u)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	return errors.Wrapf(err, "save user %q", u.UserID)
}

func (r *Repo) DeleteByID(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&userRow{}).Error
	return errors.Wrapf(err, "delete user %q", userID)
}

func toRow(u *domain.User) userRow {
	return userRow{
		UserID:   u.UserID,
		Username: u.Username,
		Score:    u.Score,
		Badges:   strings.Join(u.Badges.Names(), ","),
	}
}

func fromRow(row userRow) (*domain.User, error) {
	var names []string
	if row.Badges != "" {
		names = strings.Split(row.Badges, ",")
	}
	badges, err := domain.BadgeSetFromNames(names)
	if err != nil {
		return nil, errors.Wrapf(err, "decode user %q", row.UserID)
	}
	return &domain.User{
		UserID:   row.UserID,
		Username: row.Username,
		Score:    row.Score,
		Badges:   badges,
	}, nil
}
