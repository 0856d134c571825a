package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"log"
	"math/big"
	"time"

	"github.com/pquerna/otp/totp"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campusvault/CampusVault/internal/db"
	"github.com/campusvault/CampusVault/internal/models"
)

// TwoFASetup is what the setup step hands to the client: the shared secret
// for manual entry, the otpauth:// URL, and a ready-to-render QR code.
type TwoFASetup struct {
	Secret     string `json:"secret"`
	OtpauthURL string `json:"otpauth_url"`
	QRCode     string `json:"qr_code"` // base64 PNG
}

// ValidateTOTP checks a 6-digit code against a shared secret.
func ValidateTOTP(secret, code string) bool {
	return totp.Validate(code, secret)
}

// Setup2FA generates a fresh TOTP secret for the user and returns the
// enrollment material. The secret is stored immediately but 2FA only takes
// effect once Verify2FA confirms the user's authenticator produces matching
// codes.
func Setup2FA(userID string) (TwoFASetup, error) {
	user, err := GetUser(userID)
	if err != nil {
		return TwoFASetup{}, err
	}
	if user.TwoFAEnabled {
		return TwoFASetup{}, errors.New("2FA is already enabled")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "CampusVault",
		AccountName: user.Email,
	})
	if err != nil {
		return TwoFASetup{}, fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return TwoFASetup{}, fmt.Errorf("failed to render QR code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return TwoFASetup{}, fmt.Errorf("failed to encode QR code: %w", err)
	}

	collection := db.GetCollection(usersCollection)
	_, err = collection.UpdateOne(
		context.TODO(),
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"twofa_secret": key.Secret(), "updated_at": time.Now()}},
	)
	if err != nil {
		return TwoFASetup{}, err
	}

	return TwoFASetup{
		Secret:     key.Secret(),
		OtpauthURL: key.URL(),
		QRCode:     base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// Verify2FA confirms the enrollment code and switches 2FA on.
func Verify2FA(userID, code string) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}
	collection := db.GetCollection(usersCollection)

	var user models.User
	if err := collection.FindOne(context.TODO(), bson.M{"_id": objID}).Decode(&user); err != nil {
		return errors.New("user not found")
	}
	if user.TwoFASecret == "" {
		return errors.New("2FA setup has not been started")
	}
	if !ValidateTOTP(user.TwoFASecret, code) {
		return errors.New("invalid 2FA code")
	}

	_, err = collection.UpdateOne(
		context.TODO(),
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"twofa_enabled": true, "updated_at": time.Now()}},
	)
	return err
}

// Disable2FA turns 2FA off after validating a current code.
func Disable2FA(userID, code string) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}
	collection := db.GetCollection(usersCollection)

	var user models.User
	if err := collection.FindOne(context.TODO(), bson.M{"_id": objID}).Decode(&user); err != nil {
		return errors.New("user not found")
	}
	if !user.TwoFAEnabled {
		return errors.New("2FA is not enabled")
	}
	if !ValidateTOTP(user.TwoFASecret, code) {
		return errors.New("invalid 2FA code")
	}

	_, err = collection.UpdateOne(
		context.TODO(),
		bson.M{"_id": objID},
		bson.M{
			"$set":   bson.M{"twofa_enabled": false, "updated_at": time.Now()},
			"$unset": bson.M{"twofa_secret": ""},
		},
	)
	return err
}

func generateDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// ForgotPassword2FA starts the two-channel reset: a 6-digit code goes to the
// account email and another to the phone on file, and the caller receives an
// opaque reset token binding the two.
func ForgotPassword2FA(email, phone string) (string, error) {
	collection := db.GetCollection(usersCollection)

	var user models.User
	err := collection.FindOne(context.TODO(), bson.M{"email": email, "phone": phone}).Decode(&user)
	if err != nil {
		return "", errors.New("no account matches that email and phone")
	}

	emailCode, err := generateDigitCode()
	if err != nil {
		return "", err
	}
	phoneCode, err := generateDigitCode()
	if err != nil {
		return "", err
	}
	resetToken, err := generateSecureToken()
	if err != nil {
		return "", err
	}

	_, err = collection.UpdateOne(
		context.TODO(),
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{
			"reset_token":      resetToken,
			"reset_expires":    time.Now().Add(10 * time.Minute),
			"reset_email_code": emailCode,
			"reset_phone_code": phoneCode,
		}},
	)
	if err != nil {
		return "", err
	}

	if err := SendResetCodeMail(user.Email, emailCode); err != nil {
		log.Printf("Warning: failed to send reset code mail to %s: %v", user.Email, err)
	}
	// SMS delivery is handled by an external service; without one configured
	// the code is only visible in the server log.
	log.Printf("SMS reset code for %s: %s", phone, phoneCode)

	return resetToken, nil
}

// ResetPassword2FA finishes the two-channel reset: both codes and the token
// must match before the password changes.
func ResetPassword2FA(resetToken, emailCode, phoneCode, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	collection := db.GetCollection(usersCollection)

	var user models.User
	err := collection.FindOne(context.TODO(), bson.M{
		"reset_token":   resetToken,
		"reset_expires": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		return errors.New("invalid or expired reset token")
	}
	if user.ResetEmailCode != emailCode || user.ResetPhoneCode != phoneCode {
		return errors.New("invalid verification codes")
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	_, err = collection.UpdateOne(
		context.TODO(),
		bson.M{"_id": user.ID},
		bson.M{
			"$set": bson.M{"password": hashed, "updated_at": time.Now()},
			"$unset": bson.M{
				"reset_token": "", "reset_expires": "",
				"reset_email_code": "", "reset_phone_code": "",
			},
		},
	)
	return err
}
