package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusvault/CampusVault/internal/db"
	"github.com/campusvault/CampusVault/internal/models"
	"github.com/campusvault/CampusVault/internal/registry"
	"github.com/campusvault/CampusVault/internal/storage"
	"github.com/campusvault/CampusVault/internal/validation"
)

const filesCollection = "files"

// ListFilters mirrors the query parameters of the list/search endpoints.
type ListFilters struct {
	Category   string
	Department string
	Level      string
	Semester   string
	FileType   string
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

// Pagination is the page metadata attached to every list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// ListResult is the uniform shape every listing resolves to.
type ListResult struct {
	Files      []models.RepositoryFile `json:"files"`
	Pagination Pagination              `json:"pagination"`
}

// Whitelisted sort fields; anything else falls back to creation time.
var sortFields = map[string]string{
	"createdAt":     "created_at",
	"fileName":      "original_name",
	"fileSize":      "file_size",
	"downloadCount": "download_count",
	"viewCount":     "view_count",
}

// ListFiles runs one filtered, sorted, paginated query over active files.
func ListFiles(f ListFilters) (ListResult, error) {
	filter := bson.M{"status": models.StatusActive}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Department != "" {
		filter["department"] = f.Department
	}
	if f.Level != "" {
		filter["level"] = f.Level
	}
	if f.Semester != "" {
		filter["semester"] = f.Semester
	}
	if f.FileType != "" {
		filter["file_type_category"] = f.FileType
	}
	if f.Search != "" {
		regex := bson.M{"$regex": f.Search, "$options": "i"}
		filter["$or"] = []bson.M{
			{"original_name": regex},
			{"course_code": regex},
			{"course_title": regex},
			{"description": regex},
			{"tags": regex},
		}
	}

	sortField, ok := sortFields[f.SortBy]
	if !ok {
		sortField = "created_at"
	}
	order := -1
	if f.SortOrder == "asc" {
		order = 1
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	collection := db.GetCollection(filesCollection)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to count files: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: order}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to retrieve files: %w", err)
	}
	defer cursor.Close(ctx)

	files := make([]models.RepositoryFile, 0, limit)
	if err = cursor.All(ctx, &files); err != nil {
		return ListResult{}, fmt.Errorf("error decoding file metadata: %w", err)
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		pages = 1
	}
	return ListResult{
		Files:      files,
		Pagination: Pagination{Page: page, Limit: limit, Total: total, Pages: pages},
	}, nil
}

// UploadFile validates the multipart request against the category registry,
// stores the object and its metadata, and returns the created record. The
// object write and the metadata insert run in parallel, with the object
// removed again if only the metadata insert fails.
func UploadFile(c *fiber.Ctx, userID string) (models.RepositoryFile, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RepositoryFile{}, errors.New("failed to retrieve file")
	}

	category := c.FormValue("category")
	department := strings.ToUpper(c.FormValue("department"))
	level := c.FormValue("level")
	semester := c.FormValue("semester")

	// Same checks the client runs before calling; never trust the client.
	if errs := validation.ValidateUpload(fileHeader.Filename, fileHeader.Size, category); len(errs) > 0 {
		return models.RepositoryFile{}, errors.New(strings.Join(errs, "; "))
	}
	if errs := validation.ValidateClassification(department, level, semester); len(errs) > 0 {
		return models.RepositoryFile{}, errors.New(strings.Join(errs, "; "))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RepositoryFile{}, errors.New("failed to open file")
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return models.RepositoryFile{}, errors.New("failed to read file")
	}

	uploaderID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.RepositoryFile{}, fmt.Errorf("invalid user ID: %w", err)
	}

	ext := registry.ExtensionOf(fileHeader.Filename)
	objectName := uuid.NewString() + "." + ext

	var tags []string
	if raw := c.FormValue("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	var allowedRoles []string
	if raw := c.FormValue("allowed_roles"); raw != "" {
		for _, r := range strings.Split(raw, ",") {
			if r = strings.TrimSpace(r); r != "" {
				allowedRoles = append(allowedRoles, r)
			}
		}
	}

	var expiresAt *time.Time
	if raw := c.FormValue("expires_in_days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 {
			return models.RepositoryFile{}, errors.New("expires_in_days must be a positive number")
		}
		t := time.Now().AddDate(0, 0, days)
		expiresAt = &t
	}

	now := time.Now()
	fileData := models.RepositoryFile{
		ID:           primitive.NewObjectID(),
		FileName:     objectName,
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Extension:    ext,

		Category:    category,
		Department:  department,
		Level:       level,
		Semester:    semester,
		CourseCode:  strings.ToUpper(c.FormValue("course_code")),
		CourseTitle: c.FormValue("course_title"),
		Tags:        tags,
		Description: c.FormValue("description"),

		FileSize:          fileHeader.Size,
		FileSizeFormatted: registry.FormatFileSize(fileHeader.Size),
		FileTypeCategory:  registry.ClassifyExtension(ext),

		Multimedia: multimediaFromForm(c),

		IsPublic:     c.FormValue("is_public") == "true",
		RequiresAuth: c.FormValue("requires_auth") != "false",
		AllowedRoles: allowedRoles,

		Status:    models.StatusActive,
		UploadBy:  uploaderID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	minioResultChan := make(chan error, 1)
	mongoResultChan := make(chan error, 1)

	go func() {
		minioResultChan <- storage.PutObject(
			context.Background(), objectName,
			bytes.NewReader(fileBytes), int64(len(fileBytes)),
			fileData.MimeType,
		)
	}()
	go func() {
		_, err := db.GetCollection(filesCollection).InsertOne(context.TODO(), fileData)
		mongoResultChan <- err
	}()

	minioErr := <-minioResultChan
	mongoErr := <-mongoResultChan

	if minioErr != nil {
		return models.RepositoryFile{}, errors.New("failed to upload file to storage: " + minioErr.Error())
	}
	if mongoErr != nil {
		go func() {
			storage.RemoveObject(context.Background(), objectName)
		}()
		return models.RepositoryFile{}, errors.New("failed to save file metadata: " + mongoErr.Error())
	}

	return fileData, nil
}

// multimediaFromForm picks up the optional multimedia fields a client may
// extract before uploading (duration, dimensions, page count, ...).
func multimediaFromForm(c *fiber.Ctx) *models.MultimediaMeta {
	meta := &models.MultimediaMeta{}
	found := false

	if raw := c.FormValue("duration"); raw != "" {
		if d, err := strconv.ParseFloat(raw, 64); err == nil && d > 0 {
			meta.Duration = d
			meta.DurationFormatted = registry.FormatDuration(int(d))
			found = true
		}
	}
	if raw := c.FormValue("width"); raw != "" {
		if w, err := strconv.Atoi(raw); err == nil && w > 0 {
			meta.Width = w
			found = true
		}
	}
	if raw := c.FormValue("height"); raw != "" {
		if h, err := strconv.Atoi(raw); err == nil && h > 0 {
			meta.Height = h
			found = true
		}
	}
	if meta.Width > 0 && meta.Height > 0 {
		meta.Resolution = fmt.Sprintf("%dx%d", meta.Width, meta.Height)
	}
	if raw := c.FormValue("bitrate"); raw != "" {
		if b, err := strconv.Atoi(raw); err == nil && b > 0 {
			meta.Bitrate = b
			found = true
		}
	}
	if raw := c.FormValue("page_count"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p > 0 {
			meta.PageCount = p
			found = true
		}
	}
	if lang := c.FormValue("language"); lang != "" {
		meta.Language = lang
		found = true
	}

	if !found {
		return nil
	}
	return meta
}

// GetFile loads one record and bumps its view counter.
func GetFile(fileID string) (models.RepositoryFile, error) {
	objID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return models.RepositoryFile{}, fmt.Errorf("invalid file ID: %w", err)
	}
	collection := db.GetCollection(filesCollection)

	var fileData models.RepositoryFile
	err = collection.FindOneAndUpdate(
		context.TODO(),
		bson.M{"_id": objID, "status": models.StatusActive},
		bson.M{"$inc": bson.M{"view_count": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&fileData)
	if err != nil {
		return models.RepositoryFile{}, errors.New("file not found")
	}
	return fileData, nil
}

// DownloadFile generates a short-lived presigned link for the stored object
// and bumps the download counter.
func DownloadFile(fileID string) (string, error) {
	objID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return "", fmt.Errorf("invalid file ID: %w", err)
	}
	collection := db.GetCollection(filesCollection)

	var fileData models.RepositoryFile
	err = collection.FindOne(context.TODO(), bson.M{"_id": objID, "status": models.StatusActive}).Decode(&fileData)
	if err != nil {
		return "", errors.New("file not found")
	}
	if fileData.IsExpired() {
		return "", errors.New("file has expired")
	}

	url, err := storage.PresignedDownloadURL(context.Background(), fileData.FileName, fileData.OriginalName, 10*time.Minute)
	if err != nil {
		return "", fmt.Errorf("failed to generate download link: %w", err)
	}

	_, err = collection.UpdateOne(
		context.TODO(),
		bson.M{"_id": objID},
		bson.M{"$inc": bson.M{"download_count": 1}},
	)
	if err != nil {
		return "", fmt.Errorf("failed to record download: %w", err)
	}
	return url, nil
}

// LikeFile bumps the like counter.
func LikeFile(fileID string) error {
	objID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return fmt.Errorf("invalid file ID: %w", err)
	}
	result, err := db.GetCollection(filesCollection).UpdateOne(
		context.TODO(),
		bson.M{"_id": objID, "status": models.StatusActive},
		bson.M{"$inc": bson.M{"like_count": 1}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("file not found")
	}
	return nil
}

// FileUpdate carries the fields an owner may change after upload.
type FileUpdate struct {
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	Category    *string  `json:"category"`
	CourseCode  *string  `json:"course_code"`
	CourseTitle *string  `json:"course_title"`
	IsPublic    *bool    `json:"is_public"`
}

// UpdateFile patches mutable metadata. Reassigning the category re-validates
// the stored extension against the new category's allowed types.
func UpdateFile(fileID, userID string, isAdmin bool, upd FileUpdate) (models.RepositoryFile, error) {
	objID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return models.RepositoryFile{}, fmt.Errorf("invalid file ID: %w", err)
	}
	collection := db.GetCollection(filesCollection)

	var fileData models.RepositoryFile
	if err = collection.FindOne(context.TODO(), bson.M{"_id": objID}).Decode(&fileData); err != nil {
		return models.RepositoryFile{}, errors.New("file not found")
	}
	if !isAdmin && fileData.UploadBy.Hex() != userID {
		return models.RepositoryFile{}, errors.New("unauthorized access")
	}

	set := bson.M{"updated_at": time.Now()}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Tags != nil {
		set["tags"] = upd.Tags
	}
	if upd.Category != nil {
		cat, ok := registry.CategoryByName(*upd.Category)
		if !ok {
			return models.RepositoryFile{}, fmt.Errorf("unknown category %q", *upd.Category)
		}
		if !cat.AllowsExtension(fileData.Extension) {
			return models.RepositoryFile{}, fmt.Errorf("file type .%s is not allowed for %s", fileData.Extension, cat.Label)
		}
		set["category"] = *upd.Category
	}
	if upd.CourseCode != nil {
		set["course_code"] = strings.ToUpper(*upd.CourseCode)
	}
	if upd.CourseTitle != nil {
		set["course_title"] = *upd.CourseTitle
	}
	if upd.IsPublic != nil {
		set["is_public"] = *upd.IsPublic
	}

	err = collection.FindOneAndUpdate(
		context.TODO(),
		bson.M{"_id": objID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&fileData)
	if err != nil {
		return models.RepositoryFile{}, fmt.Errorf("failed to update file: %w", err)
	}
	return fileData, nil
}

// DeleteFile removes a file from both the object store and the database in
// parallel. Owners delete their own files; admins delete anything.
func DeleteFile(fileID, userID string, isAdmin bool) error {
	objID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return fmt.Errorf("invalid file ID: %w", err)
	}
	collection := db.GetCollection(filesCollection)

	filter := bson.M{"_id": objID}
	if !isAdmin {
		uploaderID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return fmt.Errorf("invalid user ID: %w", err)
		}
		filter["upload_by"] = uploaderID
	}

	var fileData models.RepositoryFile
	if err = collection.FindOne(context.TODO(), filter).Decode(&fileData); err != nil {
		return errors.New("file not found or access denied")
	}

	minioDeleteChan := make(chan error, 1)
	mongoDeleteChan := make(chan error, 1)

	go func() {
		minioDeleteChan <- storage.RemoveObject(context.TODO(), fileData.FileName)
	}()
	go func() {
		_, err := collection.DeleteOne(context.TODO(), bson.M{"_id": objID})
		mongoDeleteChan <- err
	}()

	minioErr := <-minioDeleteChan
	mongoErr := <-mongoDeleteChan

	if minioErr != nil && mongoErr != nil {
		return errors.New("failed to delete from both storage and database")
	} else if minioErr != nil {
		return fmt.Errorf("failed to delete from storage: %w", minioErr)
	} else if mongoErr != nil {
		return fmt.Errorf("failed to delete from database: %w", mongoErr)
	}
	return nil
}

// CategoryStats is one row of the stats aggregation.
type CategoryStats struct {
	Category  string `bson:"_id" json:"category"`
	Count     int64  `bson:"count" json:"count"`
	TotalSize int64  `bson:"total_size" json:"total_size"`
	Downloads int64  `bson:"downloads" json:"downloads"`
}

// GetStats aggregates per-category file counts, sizes and downloads.
func GetStats() ([]CategoryStats, error) {
	collection := db.GetCollection(filesCollection)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"status": models.StatusActive}},
		{"$group": bson.M{
			"_id":        "$category",
			"count":      bson.M{"$sum": 1},
			"total_size": bson.M{"$sum": "$file_size"},
			"downloads":  bson.M{"$sum": "$download_count"},
		}},
		{"$sort": bson.M{"count": -1}},
	}
	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}
	defer cursor.Close(ctx)

	stats := []CategoryStats{}
	if err = cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("error decoding stats: %w", err)
	}
	return stats, nil
}
