package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email    string             `bson:"email" json:"email" validate:"required,email"`
	Password string             `bson:"password,omitempty" json:"-"`
	FullName string             `bson:"full_name" json:"full_name"`
	Role     string             `bson:"role" json:"role"`

	// Academic profile. All five fields must be filled before the
	// repository accepts uploads or deletions from this user.
	Department string `bson:"department" json:"department"`
	Level      string `bson:"level" json:"level"`
	Semester   string `bson:"semester" json:"semester"`
	Phone      string `bson:"phone" json:"phone"`
	Address    string `bson:"address" json:"address"`

	IsVerified bool `bson:"is_verified" json:"is_verified"`
	IsApproved bool `bson:"is_approved" json:"is_approved"`

	TwoFAEnabled bool   `bson:"twofa_enabled" json:"twofa_enabled"`
	TwoFASecret  string `bson:"twofa_secret,omitempty" json:"-"`

	VerifyToken    string    `bson:"verify_token,omitempty" json:"-"`
	ResetToken     string    `bson:"reset_token,omitempty" json:"-"`
	ResetExpires   time.Time `bson:"reset_expires,omitempty" json:"-"`
	ResetEmailCode string    `bson:"reset_email_code,omitempty" json:"-"`
	ResetPhoneCode string    `bson:"reset_phone_code,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ProfileComplete reports whether the academic profile has every field the
// repository requires before granting write access.
func (u User) ProfileComplete() bool {
	return u.Department != "" && u.Level != "" && u.Semester != "" &&
		u.Phone != "" && u.Address != ""
}
