package store

import (
	"context"
	"time"

	"github.com/dms-app/dms-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var pendingStatuses = bson.A{models.StatusPendingDelete, models.StatusPendingReplace, models.RequestPending}

func (db *DB) InsertPermissionRequest(ctx context.Context, req *models.PermissionRequest) (primitive.ObjectID, error) {
	res, err := db.permissionRequests().InsertOne(ctx, req, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) PendingRequests(ctx context.Context) ([]models.PermissionRequest, error) {
	return db.findRequests(ctx, bson.M{"status": bson.M{"$in": pendingStatuses}})
}

func (db *DB) ResolvedRequests(ctx context.Context) ([]models.PermissionRequest, error) {
	return db.findRequests(ctx, bson.M{"status": bson.M{"$in": bson.A{models.StatusApproved, models.StatusRejected}}})
}

func (db *DB) findRequests(ctx context.Context, query bson.M) ([]models.PermissionRequest, error) {
	cur, err := db.permissionRequests().Find(ctx, query, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var reqs []models.PermissionRequest
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (db *DB) PermissionRequestByID(ctx context.Context, id primitive.ObjectID) (*models.PermissionRequest, error) {
	var req models.PermissionRequest
	err := db.permissionRequests().FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ResolvePermissionRequest moves a still-pending request to a terminal
// status and records the approver. The pending-status filter makes the
// transition atomic: a request already resolved by a concurrent admin
// comes back as ErrNotFound.
func (db *DB) ResolvePermissionRequest(ctx context.Context, id primitive.ObjectID, status, approver string, at time.Time) (*models.PermissionRequest, error) {
	var req models.PermissionRequest
	err := db.permissionRequests().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": pendingStatuses}},
		bson.M{"$set": bson.M{"status": status, "approvedBy": approver, "approvedAt": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (db *DB) CountPendingRequests(ctx context.Context) (int64, error) {
	return db.permissionRequests().CountDocuments(ctx, bson.M{"status": bson.M{"$in": pendingStatuses}})
}

func (db *DB) CountPendingRequestsByRequester(ctx context.Context, requester primitive.ObjectID) (int64, error) {
	return db.permissionRequests().CountDocuments(ctx, bson.M{
		"requestedById": requester,
		"status":        bson.M{"$in": pendingStatuses},
	})
}
