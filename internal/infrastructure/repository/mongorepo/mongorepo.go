package mongorepo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coderhack/internal/domain"
)

const collectionName = "users"

// Repo keeps one document per user, keyed by _id = UserID.
type Repo struct {
	coll *mongo.Collection
}

// Connect opens a client and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongo")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo")
	}
	return client, nil
}

func New(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection(collectionName)}
}

// EnsureIndexes creates the descending score index used by the list query.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "score", Value: -1}},
	})
	return errors.Wrap(err, "create score index")
}

func (r *Repo) FindAllOrderByScoreDesc(ctx context.Context) ([]*domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "score", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find users")
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "read users")
	}

	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		u, err := fromDocument(d)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *Repo) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, byID(userID)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find user %q", userID)
	}
	return fromDocument(doc)
}

func (r *Repo) ExistsByID(ctx context.Context, userID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, byID(userID), options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrapf(err, "count user %q", userID)
	}
	return n > 0, nil
}

func (r *Repo) Save(ctx context.Context, u *domain.User) error {
	_, err := r.coll.ReplaceOne(ctx, byID(u.UserID), toDocument(u), options.Replace().SetUpsert(true))
	return errors.Wrapf(err, "save user %q", u.UserID)
}

func (r *Repo) DeleteByID(ctx context.Context, userID string) error {
	_, err := r.coll.DeleteOne(ctx, byID(userID))
	return errors.Wrapf(err, "delete user %q", userID)
}

func byID(userID string) bson.D {
	return bson.D{{Key: "_id", Value: userID}}
}
