// internal/app/store/users/mongo.go
package userstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coralhq/atrium/internal/app/system/ids"
	"github.com/coralhq/atrium/internal/app/system/normalize"
	"github.com/coralhq/atrium/internal/domain/models"
)

// MongoStore is the production user repository backed by the "users"
// collection. Uniqueness race windows are backstopped by the partial unique
// index on emailCI (see system/indexes).
type MongoStore struct {
	c *mongo.Collection
}

var _ Repository = (*MongoStore)(nil)

// NewMongoStore wraps the users collection of db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{c: db.Collection("users")}
}

// notDeleted matches live documents only.
func notDeleted() bson.M {
	return bson.M{"isDeleted": false}
}

func (s *MongoStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	filter := bson.M{"emailCI": text.Fold(normalize.Email(email)), "isDeleted": false}
	err := s.c.FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoStore) List(ctx context.Context, orgID string, page, pageSize int) ([]models.User, error) {
	filter := notDeleted()
	if orgID != "" {
		filter["orgId"] = orgID
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoStore) Count(ctx context.Context, orgID string) (int64, error) {
	filter := notDeleted()
	if orgID != "" {
		filter["orgId"] = orgID
	}
	return s.c.CountDocuments(ctx, filter)
}

func (s *MongoStore) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = ids.NewUserID()
	}
	u.Email = normalize.Email(u.Email)
	u.EmailCI = text.Fold(u.Email)
	now := time.Now().UTC()
	u.CreatedAt = now
	u.ModifiedAt = now
	u.Version = 1
	u.IsDeleted = false
	u.DeletedAt = nil

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *MongoStore) Update(ctx context.Context, u models.User) (*models.User, error) {
	u.Email = normalize.Email(u.Email)
	u.EmailCI = text.Fold(u.Email)
	m := mutableFrom(u, time.Now().UTC())

	set := bson.M{
		"orgId":        m.OrgID,
		"orgName":      m.OrgName,
		"userType":     m.UserType,
		"role":         m.Role,
		"status":       m.Status,
		"name":         m.Name,
		"email":        m.Email,
		"emailCI":      m.EmailCI,
		"passwordHash": m.Password,
		"modifiedBy":   m.ModifiedBy,
		"modifiedAt":   m.ModifiedAt,
	}
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	var updated models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": u.ID, "isDeleted": false},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
		opts,
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &updated, nil
}

func (s *MongoStore) SoftDelete(ctx context.Context, id, deletedBy string) (bool, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": false},
		bson.M{
			"$set": bson.M{
				"isDeleted":  true,
				"deletedAt":  now,
				"modifiedBy": deletedBy,
				"modifiedAt": now,
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoStore) EmailExists(ctx context.Context, email string, excludeID string) (bool, error) {
	filter := bson.M{
		"emailCI":   text.Fold(normalize.Email(email)),
		"isDeleted": false,
	}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	err := s.c.FindOne(ctx, filter).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}
