package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusvault/CampusVault/internal/services"
)

var userCollection *mongo.Collection
var fileCollection *mongo.Collection

// InitAdminHandler wires the admin console to its MongoDB collections.
func InitAdminHandler(db *mongo.Database) {
	userCollection = db.Collection("users")
	fileCollection = db.Collection("files")
}

// ListUsers returns every account for the admin console.
func ListUsers(c *fiber.Ctx) error {
	var users []bson.M
	// Never ship credentials or secrets to the console.
	projection := options.Find().SetProjection(bson.M{
		"password": 0, "twofa_secret": 0,
		"reset_token": 0, "reset_email_code": 0, "reset_phone_code": 0,
		"verify_token": 0,
	})
	cursor, err := userCollection.Find(context.TODO(), bson.M{}, projection)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}
	defer cursor.Close(context.TODO())
	cursor.All(context.TODO(), &users)
	return c.JSON(users)
}

// ListAllFiles returns every repository file, including unapproved ones.
func ListAllFiles(c *fiber.Ctx) error {
	var files []bson.M
	cursor, err := fileCollection.Find(context.TODO(), bson.M{})
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch files"})
	}
	defer cursor.Close(context.TODO())
	cursor.All(context.TODO(), &files)
	return c.JSON(files)
}

// GetUserByID returns one account's details.
func GetUserByID(c *fiber.Ctx) error {
	userID := c.Params("userid")

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID format"})
	}

	var user bson.M
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = userCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	delete(user, "password")
	delete(user, "twofa_secret")
	return c.JSON(user)
}

// ApproveUser grants or revokes repository access for an account.
func ApproveUser(c *fiber.Ctx) error {
	userID := c.Params("userid")
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID format"})
	}

	var request struct {
		Approved bool `json:"approved"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := userCollection.UpdateOne(
		context.TODO(),
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"is_approved": request.Approved, "updated_at": time.Now()}},
	)
	if err != nil || result.MatchedCount == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(fiber.Map{"message": "User approval updated", "approved": request.Approved})
}

// ApproveFile marks a file as moderated, recording who approved it.
func ApproveFile(c *fiber.Ctx) error {
	fileID := c.Params("file_id")
	objID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file ID format"})
	}

	adminID, _ := c.Locals("user_id").(string)
	adminObjID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid admin ID"})
	}

	var request struct {
		Notes string `json:"notes"`
	}
	c.BodyParser(&request)

	now := time.Now()
	result, err := fileCollection.UpdateOne(
		context.TODO(),
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{
			"is_approved":      true,
			"approved_by":      adminObjID,
			"approved_at":      now,
			"moderation_notes": request.Notes,
			"updated_at":       now,
		}},
	)
	if err != nil || result.MatchedCount == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "File not found"})
	}
	return c.JSON(fiber.Map{"message": "File approved"})
}

// AdminDeleteFile force-deletes any file, object and metadata both.
func AdminDeleteFile(c *fiber.Ctx) error {
	adminID, _ := c.Locals("user_id").(string)
	if err := services.DeleteFile(c.Params("file_id"), adminID, true); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete file"})
	}
	return c.JSON(fiber.Map{"message": "File deleted successfully"})
}
