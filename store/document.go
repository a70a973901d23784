package store

import (
	"context"
	"regexp"
	"time"

	"github.com/dms-app/dms-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertDocument(ctx context.Context, doc *models.Document) (primitive.ObjectID, error) {
	res, err := db.documents().InsertOne(ctx, doc, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// Documents returns documents matching the filter, newest first.
func (db *DB) Documents(ctx context.Context, filter DocumentFilter) ([]models.Document, error) {
	query := bson.M{}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"fileName": pattern},
		}
	}
	switch filter.Status {
	case "":
	case models.RequestPending:
		query["status"] = bson.M{"$in": bson.A{models.StatusPendingDelete, models.StatusPendingReplace}}
	default:
		query["status"] = filter.Status
	}
	cur, err := db.documents().Find(ctx, query, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []models.Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (db *DB) DocumentByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	var doc models.Document
	err := db.documents().FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (db *DB) UpdateDocumentStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := db.documents().UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceDocumentFile swaps the document's file reference for the staged
// replacement, bumps the version and returns the status to ACTIVE.
func (db *DB) ReplaceDocumentFile(ctx context.Context, id primitive.ObjectID, s3Key, fileName, fileType string, fileSize int64) error {
	res, err := db.documents().UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"s3Key":     s3Key,
			"fileName":  fileName,
			"fileType":  fileType,
			"fileSize":  fileSize,
			"status":    models.StatusActive,
			"updatedAt": time.Now(),
		},
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDocument removes a document and returns the deleted record so the
// caller can clean up its S3 objects.
func (db *DB) DeleteDocument(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	var doc models.Document
	err := db.documents().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (db *DB) CountDocumentsByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	return db.documents().CountDocuments(ctx, bson.M{"createdBy.id": owner})
}
