// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureAll is called at startup. Each ensure* function is idempotent.
// Errors are aggregated so every problem is visible and startup can fail
// fast.
//
// The partial unique indexes on emailCI/nameCI are the backstop for the
// check-then-create uniqueness races in the service layer: uniqueness is
// only enforced among non-deleted documents, so a soft-deleted user's
// email may be reused.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureOrganizations(ctx, db); err != nil {
		problems = append(problems, "organizations: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "emailCI", Value: 1}},
			Options: options.Index().
				SetName("uniq_email_live").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isDeleted": false}),
		},
		{
			Keys:    bson.D{{Key: "orgId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("org_created"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("created"),
		},
	})
	return err
}

func ensureOrganizations(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("organizations").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "nameCI", Value: 1}},
			Options: options.Index().
				SetName("uniq_name_live").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isDeleted": false}),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("created"),
		},
	})
	return err
}
