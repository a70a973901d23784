package store

import (
	"context"

	"github.com/dms-app/dms-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertNotification(ctx context.Context, n *models.Notification) error {
	res, err := db.notifications().InsertOne(ctx, n, options.InsertOne())
	if err != nil {
		return err
	}
	n.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (db *DB) NotificationsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	cur, err := db.notifications().Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var ns []models.Notification
	if err := cur.All(ctx, &ns); err != nil {
		return nil, err
	}
	return ns, nil
}

func (db *DB) MarkNotificationRead(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := db.notifications().UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
