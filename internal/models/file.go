package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MultimediaMeta holds format details that only apply to some file kinds.
// It is stored only when at least one field is known.
type MultimediaMeta struct {
	Duration          float64 `bson:"duration,omitempty" json:"duration,omitempty"`
	DurationFormatted string  `bson:"duration_formatted,omitempty" json:"duration_formatted,omitempty"`
	Width             int     `bson:"width,omitempty" json:"width,omitempty"`
	Height            int     `bson:"height,omitempty" json:"height,omitempty"`
	Bitrate           int     `bson:"bitrate,omitempty" json:"bitrate,omitempty"`
	Resolution        string  `bson:"resolution,omitempty" json:"resolution,omitempty"`
	FrameRate         float64 `bson:"frame_rate,omitempty" json:"frame_rate,omitempty"`
	PageCount         int     `bson:"page_count,omitempty" json:"page_count,omitempty"`
	Language          string  `bson:"language,omitempty" json:"language,omitempty"`
	Version           string  `bson:"version,omitempty" json:"version,omitempty"`
}

// RepositoryFile is one uploaded artifact in the academic repository.
type RepositoryFile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FileName     string             `bson:"file_name" json:"file_name"`
	OriginalName string             `bson:"original_name" json:"original_name"`
	MimeType     string             `bson:"mime_type" json:"mime_type"`
	Extension    string             `bson:"extension" json:"extension"`

	Category    string   `bson:"category" json:"category"`
	Department  string   `bson:"department" json:"department"`
	Level       string   `bson:"level" json:"level"`
	Semester    string   `bson:"semester" json:"semester"`
	CourseCode  string   `bson:"course_code,omitempty" json:"course_code,omitempty"`
	CourseTitle string   `bson:"course_title,omitempty" json:"course_title,omitempty"`
	Tags        []string `bson:"tags,omitempty" json:"tags,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`

	FileSize          int64  `bson:"file_size" json:"file_size"`
	FileSizeFormatted string `bson:"file_size_formatted" json:"file_size_formatted"`
	// FileTypeCategory is derived from Extension through the registry's
	// classification table, never set independently.
	FileTypeCategory string `bson:"file_type_category" json:"file_type_category"`

	Multimedia *MultimediaMeta `bson:"multimedia,omitempty" json:"multimedia,omitempty"`

	IsPublic     bool     `bson:"is_public" json:"is_public"`
	RequiresAuth bool     `bson:"requires_auth" json:"requires_auth"`
	AllowedRoles []string `bson:"allowed_roles,omitempty" json:"allowed_roles,omitempty"`

	IsApproved      bool                `bson:"is_approved" json:"is_approved"`
	ApprovedBy      *primitive.ObjectID `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time          `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	ModerationNotes string              `bson:"moderation_notes,omitempty" json:"moderation_notes,omitempty"`

	DownloadCount int64 `bson:"download_count" json:"download_count"`
	ViewCount     int64 `bson:"view_count" json:"view_count"`
	LikeCount     int64 `bson:"like_count" json:"like_count"`

	Status string `bson:"status" json:"status"`

	UploadBy primitive.ObjectID `bson:"upload_by" json:"upload_by"`

	ExpiresAt *time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// File statuses.
const (
	StatusActive     = "active"
	StatusArchived   = "archived"
	StatusDeleted    = "deleted"
	StatusProcessing = "processing"
)

// IsExpired is always derived from ExpiresAt, never stored.
func (f RepositoryFile) IsExpired() bool {
	return f.ExpiresAt != nil && time.Now().After(*f.ExpiresAt)
}
