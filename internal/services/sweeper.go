package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/campusvault/CampusVault/internal/db"
	"github.com/campusvault/CampusVault/internal/models"
	"github.com/campusvault/CampusVault/internal/storage"
	"github.com/campusvault/CampusVault/internal/utils"
)

// SweepExpired removes every file whose expires_at has passed, deleting the
// stored objects through a bounded worker pool before dropping the metadata.
// Returns the number of files removed.
func SweepExpired(ctx context.Context) (int, error) {
	collection := db.GetCollection(filesCollection)

	cursor, err := collection.Find(ctx, bson.M{
		"expires_at": bson.M{"$lt": time.Now()},
		"status":     models.StatusActive,
	})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var expired []models.RepositoryFile
	if err = cursor.All(ctx, &expired); err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	pool := utils.NewWorkerPool(4)
	ids := make([]interface{}, 0, len(expired))
	for _, f := range expired {
		f := f
		ids = append(ids, f.ID)
		pool.AddTask(func() {
			if err := storage.RemoveObject(ctx, f.FileName); err != nil {
				log.Printf("Warning: failed to remove expired object %s: %v", f.FileName, err)
			}
		})
	}
	pool.Wait()
	pool.Close()

	result, err := collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return int(result.DeletedCount), nil
}

// StartSweeper runs SweepExpired on a fixed interval until ctx is cancelled.
func StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := SweepExpired(ctx)
				if err != nil {
					log.Printf("Warning: expiry sweep failed: %v", err)
				} else if n > 0 {
					log.Printf("Expiry sweep removed %d files", n)
				}
			}
		}
	}()
}
