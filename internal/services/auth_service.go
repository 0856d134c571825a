package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusvault/CampusVault/internal/db"
	"github.com/campusvault/CampusVault/internal/models"
)

var jwtSecret = os.Getenv("JWT_SECRET")

const usersCollection = "users"

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateJWT generates a JWT token with user ID and role
func GenerateJWT(userID string, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour * 4).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

func generateSecureToken() (string, error) {
	token := make([]byte, 16)
	if _, err := rand.Read(token); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(token), nil
}

// RegisterUser creates a new unverified, unapproved account and emails a
// verification link. Role is always "user"; admins are promoted manually.
func RegisterUser(email, password, fullName string) (models.User, error) {
	collection := db.GetCollection(usersCollection)

	var existingUser models.User
	err := collection.FindOne(context.TODO(), bson.M{"email": email}).Decode(&existingUser)
	if err == nil {
		return models.User{}, errors.New("email already in use")
	}

	if len(password) < 6 {
		return models.User{}, errors.New("password must be at least 6 characters")
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	verifyToken, err := generateSecureToken()
	if err != nil {
		return models.User{}, err
	}

	now := time.Now()
	user := models.User{
		ID:          primitive.NewObjectID(),
		Email:       email,
		Password:    hashedPassword,
		FullName:    fullName,
		Role:        "user",
		VerifyToken: verifyToken,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err = collection.InsertOne(context.TODO(), user); err != nil {
		return models.User{}, err
	}

	if err := SendVerificationMail(user.Email, verifyToken); err != nil {
		log.Printf("Warning: failed to send verification mail to %s: %v", user.Email, err)
	}
	return user, nil
}

// VerifyEmail marks the account carrying the token as verified.
func VerifyEmail(token string) error {
	if token == "" {
		return errors.New("missing verification token")
	}
	collection := db.GetCollection(usersCollection)
	result, err := collection.UpdateOne(
		context.TODO(),
		bson.M{"verify_token": token},
		bson.M{
			"$set":   bson.M{"is_verified": true, "updated_at": time.Now()},
			"$unset": bson.M{"verify_token": ""},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("invalid or expired verification token")
	}
	return nil
}

// LoginUser authenticates a user and returns a JWT with role info. Accounts
// with 2FA enabled must supply a valid TOTP code alongside the password.
func LoginUser(email, password, totpCode string) (string, models.User, error) {
	collection := db.GetCollection(usersCollection)

	var user models.User
	err := collection.FindOne(context.TODO(), bson.M{"email": email}).Decode(&user)
	if err != nil {
		return "", models.User{}, errors.New("invalid credentials")
	}
	if !VerifyPassword(password, user.Password) {
		return "", models.User{}, errors.New("invalid credentials")
	}
	if !user.IsVerified {
		return "", models.User{}, errors.New("email not verified")
	}
	if user.TwoFAEnabled {
		if totpCode == "" {
			return "", models.User{}, errors.New("2FA code required")
		}
		if !ValidateTOTP(user.TwoFASecret, totpCode) {
			return "", models.User{}, errors.New("invalid 2FA code")
		}
	}

	token, err := GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		return "", models.User{}, err
	}
	user.Password = ""
	return token, user, nil
}

// GetUser loads a user by hex id.
func GetUser(userID string) (models.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, fmt.Errorf("invalid user ID: %w", err)
	}
	var user models.User
	err = db.GetCollection(usersCollection).FindOne(context.TODO(), bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		return models.User{}, errors.New("user not found")
	}
	user.Password = ""
	return user, nil
}

// GetUserByEmail loads a user by email.
func GetUserByEmail(email string) (models.User, error) {
	var user models.User
	err := db.GetCollection(usersCollection).FindOne(context.TODO(), bson.M{"email": email}).Decode(&user)
	if err != nil {
		return models.User{}, errors.New("user not found")
	}
	return user, nil
}

// ProfileUpdate carries the editable academic-profile fields.
type ProfileUpdate struct {
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Level      string `json:"level"`
	Semester   string `json:"semester"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

// UpdateProfile sets the academic profile fields. Completing all of them is
// what unlocks repository write access.
func UpdateProfile(userID string, upd ProfileUpdate) (models.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, fmt.Errorf("invalid user ID: %w", err)
	}
	set := bson.M{"updated_at": time.Now()}
	if upd.FullName != "" {
		set["full_name"] = upd.FullName
	}
	if upd.Department != "" {
		set["department"] = upd.Department
	}
	if upd.Level != "" {
		set["level"] = upd.Level
	}
	if upd.Semester != "" {
		set["semester"] = upd.Semester
	}
	if upd.Phone != "" {
		set["phone"] = upd.Phone
	}
	if upd.Address != "" {
		set["address"] = upd.Address
	}
	collection := db.GetCollection(usersCollection)
	if _, err = collection.UpdateOne(context.TODO(), bson.M{"_id": objID}, bson.M{"$set": set}); err != nil {
		return models.User{}, err
	}
	return GetUser(userID)
}

// ForgotPassword issues a reset token and emails it. Always succeeds from
// the caller's perspective so the endpoint cannot be used to probe which
// emails exist.
func ForgotPassword(email string) {
	collection := db.GetCollection(usersCollection)
	var user models.User
	if err := collection.FindOne(context.TODO(), bson.M{"email": email}).Decode(&user); err != nil {
		return
	}

	token, err := generateSecureToken()
	if err != nil {
		log.Printf("Warning: failed to generate reset token: %v", err)
		return
	}
	_, err = collection.UpdateOne(
		context.TODO(),
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{
			"reset_token":   token,
			"reset_expires": time.Now().Add(30 * time.Minute),
		}},
	)
	if err != nil {
		log.Printf("Warning: failed to save reset token: %v", err)
		return
	}
	if err := SendPasswordResetMail(user.Email, token); err != nil {
		log.Printf("Warning: failed to send reset mail to %s: %v", user.Email, err)
	}
}

// ResetPassword consumes a reset token and sets a new password.
func ResetPassword(token, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	collection := db.GetCollection(usersCollection)

	var user models.User
	err := collection.FindOne(context.TODO(), bson.M{
		"reset_token":   token,
		"reset_expires": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		return errors.New("invalid or expired reset token")
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	_, err = collection.UpdateOne(
		context.TODO(),
		bson.M{"_id": user.ID},
		bson.M{
			"$set":   bson.M{"password": hashed, "updated_at": time.Now()},
			"$unset": bson.M{"reset_token": "", "reset_expires": ""},
		},
	)
	return err
}

// RefreshToken issues a fresh JWT for a still-valid session.
func RefreshToken(userID string) (string, error) {
	user, err := GetUser(userID)
	if err != nil {
		return "", err
	}
	return GenerateJWT(user.ID.Hex(), user.Role)
}
