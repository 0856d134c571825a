package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/campusvault/CampusVault/internal/models"
	"github.com/campusvault/CampusVault/internal/registry"
	"github.com/campusvault/CampusVault/internal/services"
)

func currentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals("user").(models.User)
	return user, ok
}

// ListFilesHandler serves the filtered, sorted, paginated repository listing.
func ListFilesHandler(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	filters := services.ListFilters{
		Category:   c.Query("category"),
		Department: c.Query("department"),
		Level:      c.Query("level"),
		Semester:   c.Query("semester"),
		FileType:   c.Query("fileType"),
		Search:     c.Query("search"),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
		Page:       page,
		Limit:      limit,
	}

	result, err := services.ListFiles(filters)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       result.Files,
		"pagination": result.Pagination,
	})
}

// UploadFileHandler handles repository uploads. The gate middleware already
// ran, but approval and profile completeness are re-checked here so a stale
// session cannot slip a write through.
func UploadFileHandler(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}
	if err := services.CanUpload(user); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}

	fileData, err := services.UploadFile(c, user.ID.Hex())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"message": "File uploaded successfully",
		"file":    fileData,
	})
}

// GetFileHandler returns one file's metadata and counts the view.
func GetFileHandler(c *fiber.Ctx) error {
	fileData, err := services.GetFile(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": fileData})
}

// PreviewFileHandler returns the viewer payload for one file.
func PreviewFileHandler(c *fiber.Ctx) error {
	fileData, err := services.GetFile(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": services.BuildPreview(fileData)})
}

// DownloadFileHandler hands out a short-lived download URL. Approval is
// re-checked at call time.
func DownloadFileHandler(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}
	if err := services.CanDownload(user); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}

	url, err := services.DownloadFile(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"download_url": url, "expires_in": "10 minutes"})
}

// LikeFileHandler bumps a file's like counter.
func LikeFileHandler(c *fiber.Ctx) error {
	if err := services.LikeFile(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Liked"})
}

// UpdateFileHandler patches mutable metadata on a file the caller owns.
func UpdateFileHandler(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	var request services.FileUpdate
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	fileData, err := services.UpdateFile(c.Params("id"), user.ID.Hex(), user.Role == "admin", request)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "File updated", "file": fileData})
}

// DeleteFileHandler removes a file the caller owns. Approval and profile
// completeness are re-checked at action time.
func DeleteFileHandler(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}
	if err := services.CanDelete(user); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}

	if err := services.DeleteFile(c.Params("id"), user.ID.Hex(), user.Role == "admin"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "File deleted successfully"})
}

// StatsHandler serves the per-category aggregates.
func StatsHandler(c *fiber.Ctx) error {
	stats, err := services.GetStats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}

// CategoriesHandler serves the category registry for upload forms.
func CategoriesHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":     true,
		"categories":  registry.Categories(),
		"departments": registry.Departments,
		"levels":      registry.Levels,
		"semesters":   registry.Semesters,
	})
}
