package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"coderhack/internal/domain"
)

// scoreIndexKey is a sorted set of user ids scored by user score.
const scoreIndexKey = "users:by_score"

// Repo stores each user as a JSON document under user:{id} and keeps
// the score index in step inside a MULTI/EXEC pipeline.
type Repo struct {
	rdb *redis.Client
}

// NewClient connects and pings with capped exponential backoff.
func NewClient(ctx context.Context, addr string, db int, log logrus.FieldLogger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})

	const maxRetries = 5
	for i := 0; ; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return rdb, nil
		}
		if i == maxRetries-1 {
			_ = rdb.Close()
			return nil, errors.Wrapf(err, "connect to redis at %s after %d retries", addr, maxRetries)
		}
		backoff := time.Duration(1<<i) * time.Second
		log.WithField("attempt", i+1).Warnf("redis not ready, retry in %v", backoff)
		select {
		case <-ctx.Done():
			_ = rdb.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func New(rdb *redis.Client) *Repo {
	return &Repo{rdb: rdb}
}

func userKey(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

func (r *Repo) FindAllOrderByScoreDesc(ctx context.Context) ([]*domain.User, error) {
	ids, err := r.rdb.ZRevRange(ctx, scoreIndexKey, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "read score index")
	}
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(id)
	}
	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "read users")
	}

	users := make([]*domain.User, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			// deleted between ZREVRANGE and MGET
			continue
		}
		u, err := decodeUser([]byte(s))
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *Repo) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	data, err := r.rdb.Get(ctx, userKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get user %q", userID)
	}
	return decodeUser(data)
}

func (r *Repo) ExistsByID(ctx context.Context, userID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, userKey(userID)).Result()
	if err != nil {
		return false, errors.Wrapf(err, "exists user %q", userID)
	}
	return n == 1, nil
}

func (r *Repo) Save(ctx context.Context, u *domain.User) error {
	data, err := encodeUser(u)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, userKey(u.UserID), data, 0)
		pipe.ZAdd(ctx, scoreIndexKey, redis.Z{Score: float64(u.Score), Member: u.UserID})
		return nil
	})
	return errors.Wrapf(err, "save user %q", u.UserID)
}

func (r *Repo) DeleteByID(ctx context.Context, userID string) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, userKey(userID))
		pipe.ZRem(ctx, scoreIndexKey, userID)
		return nil
	})
	return errors.Wrapf(err, "delete user %q", userID)
}

type userDocument struct {
	UserID   string          `json:"userId"`
	Username string          `json:"username"`
	Score    int             `json:"score"`
	Badges   domain.BadgeSet `json:"badges"`
}

func encodeUser(u *domain.User) ([]byte, error) {
	data, err := json.Marshal(userDocument{
		UserID:   u.UserID,
		Username: u.Username,
		Score:    u.Score,
		Badges:   u.Badges,
	})
	return data, errors.Wrapf(err, "encode user %q", u.UserID)
}

func decodeUser(data []byte) (*domain.User, error) {
	var d userDocument
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "decode user")
	}
	return &domain.User{
		UserID:   d.UserID,
		Username: d.Username,
		Score:    d.Score,
		Badges:   d.Badges,
	}, nil
}
