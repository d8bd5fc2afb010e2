// internal/app/store/organizations/mongo.go
package organizationstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coralhq/atrium/internal/app/system/ids"
	"github.com/coralhq/atrium/internal/domain/models"
)

// MongoStore is the production organization repository backed by the
// "organizations" collection.
type MongoStore struct {
	c *mongo.Collection
}

var _ Repository = (*MongoStore)(nil)

// NewMongoStore wraps the organizations collection of db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{c: db.Collection("organizations")}
}

func (s *MongoStore) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	err := s.c.FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&org)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (s *MongoStore) List(ctx context.Context, page, pageSize int) ([]models.Organization, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))
	cur, err := s.c.Find(ctx, bson.M{"isDeleted": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var orgs []models.Organization
	if err := cur.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"isDeleted": false})
}

func (s *MongoStore) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	if org.ID == "" {
		org.ID = ids.NewOrgID()
	}
	org.OrgID = org.ID
	org.NameCI = text.Fold(org.Name)
	now := time.Now().UTC()
	org.CreatedAt = now
	org.ModifiedAt = now
	org.Version = 1
	org.IsDeleted = false
	org.DeletedAt = nil

	if _, err := s.c.InsertOne(ctx, org); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Organization{}, ErrDuplicateName
		}
		return models.Organization{}, err
	}
	return org, nil
}

func (s *MongoStore) Update(ctx context.Context, org models.Organization) (*models.Organization, error) {
	set := bson.M{
		"name":         org.Name,
		"nameCI":       text.Fold(org.Name),
		"status":       org.Status,
		"contact":      org.Contact,
		"subscription": org.Subscription,
		"modifiedBy":   org.ModifiedBy,
		"modifiedAt":   time.Now().UTC(),
	}
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	var updated models.Organization
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": org.ID, "isDeleted": false},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
		opts,
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateName
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

func (s *MongoStore) NameExists(ctx context.Context, name string, excludeID string) (bool, error) {
	filter := bson.M{
		"nameCI":    text.Fold(name),
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
