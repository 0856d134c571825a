package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB connection instance
var (
	MongoClient *mongo.Client
	dbName      string
)

// ConnectMongoDB initializes the database connection
func ConnectMongoDB(uri, name string) *mongo.Database {
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}

	// Ping the database to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		log.Fatalf("MongoDB ping failed: %v", err)
	}

	log.Println("Connected to MongoDB")
	MongoClient = client
	dbName = name
	return client.Database(name)
}

// GetCollection returns a MongoDB collection from the connected database
func GetCollection(collectionName string) *mongo.Collection {
	return MongoClient.Database(dbName).Collection(collectionName)
}
