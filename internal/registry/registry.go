package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is one named bucket of the repository with its own allowed
// extensions and size cap.
type Category struct {
	Name             string   `yaml:"name"`
	Label            string   `yaml:"label"`
	Description      string   `yaml:"description"`
	Icon             string   `yaml:"icon"`
	Color            string   `yaml:"color"`
	AllowedFileTypes []string `yaml:"allowed_file_types"`
	MaxFileSize      int64    `yaml:"max_file_size"`
}

const (
	KB int64 = 1024
	MB       = 1024 * KB
	GB       = 1024 * MB
)

var docTypes = []string{"pdf", "doc", "docx", "txt", "rtf", "odt"}

var categories = []Category{
	{Name: "past-questions", Label: "Past Questions", Description: "Past examination and test questions", Icon: "file-question", Color: "#e74c3c", AllowedFileTypes: append([]string{"jpg", "jpeg", "png"}, docTypes...), MaxFileSize: 50 * MB},
	{Name: "textbooks", Label: "Textbooks", Description: "Course textbooks and reference books", Icon: "book", Color: "#2980b9", AllowedFileTypes: []string{"pdf", "epub", "djvu", "mobi"}, MaxFileSize: 200 * MB},
	{Name: "lecture-notes", Label: "Lecture Notes", Description: "Notes taken or shared by lecturers", Icon: "notebook", Color: "#27ae60", AllowedFileTypes: docTypes, MaxFileSize: 50 * MB},
	{Name: "slides", Label: "Slides", Description: "Lecture slide decks", Icon: "presentation", Color: "#f39c12", AllowedFileTypes: []string{"ppt", "pptx", "key", "odp", "pdf"}, MaxFileSize: 100 * MB},
	{Name: "assignments", Label: "Assignments", Description: "Assignment sheets and solutions", Icon: "clipboard", Color: "#8e44ad", AllowedFileTypes: docTypes, MaxFileSize: 25 * MB},
	{Name: "projects", Label: "Projects", Description: "Final-year and term project reports", Icon: "folder", Color: "#16a085", AllowedFileTypes: append([]string{"zip", "rar"}, docTypes...), MaxFileSize: 200 * MB},
	{Name: "research-papers", Label: "Research Papers", Description: "Published papers and preprints", Icon: "file-text", Color: "#2c3e50", AllowedFileTypes: []string{"pdf"}, MaxFileSize: 50 * MB},
	{Name: "journals", Label: "Journals", Description: "Departmental and association journals", Icon: "newspaper", Color: "#7f8c8d", AllowedFileTypes: []string{"pdf"}, MaxFileSize: 100 * MB},
	{Name: "tutorials", Label: "Tutorials", Description: "Tutorial worksheets and guides", Icon: "graduation-cap", Color: "#d35400", AllowedFileTypes: append([]string{"mp4", "pdf"}, docTypes...), MaxFileSize: 500 * MB},
	{Name: "videos", Label: "Videos", Description: "Recorded lectures and tutorials", Icon: "video", Color: "#c0392b", AllowedFileTypes: []string{"mp4", "webm", "mkv", "avi", "mov"}, MaxFileSize: 2 * GB},
	{Name: "audio-lectures", Label: "Audio Lectures", Description: "Recorded audio sessions", Icon: "headphones", Color: "#9b59b6", AllowedFileTypes: []string{"mp3", "wav", "ogg", "m4a", "aac"}, MaxFileSize: 500 * MB},
	{Name: "images", Label: "Images", Description: "Diagrams, charts and photographs", Icon: "image", Color: "#1abc9c", AllowedFileTypes: []string{"jpg", "jpeg", "png", "gif", "svg", "webp", "bmp"}, MaxFileSize: 20 * MB},
	{Name: "software", Label: "Software", Description: "Tools, installers and code archives", Icon: "cpu", Color: "#34495e", AllowedFileTypes: []string{"zip", "rar", "7z", "tar", "gz", "exe", "apk"}, MaxFileSize: 1 * GB},
	{Name: "datasets", Label: "Datasets", Description: "Data files for practicals and projects", Icon: "database", Color: "#2ecc71", AllowedFileTypes: []string{"csv", "xls", "xlsx", "json", "zip", "sql"}, MaxFileSize: 500 * MB},
	{Name: "templates", Label: "Templates", Description: "Report and presentation templates", Icon: "layout", Color: "#e67e22", AllowedFileTypes: []string{"doc", "docx", "ppt", "pptx", "xls", "xlsx", "pdf"}, MaxFileSize: 25 * MB},
	{Name: "general", Label: "General", Description: "Anything that fits nowhere else", Icon: "archive", Color: "#95a5a6", AllowedFileTypes: []string{"pdf", "doc", "docx", "txt", "zip", "jpg", "png"}, MaxFileSize: 50 * MB},
}

var categoryIndex = buildIndex(categories)

func buildIndex(cats []Category) map[string]Category {
	idx := make(map[string]Category, len(cats))
	for _, c := range cats {
		idx[c.Name] = c
	}
	return idx
}

// Categories returns the full registry in declaration order.
func Categories() []Category {
	return categories
}

// CategoryByName looks up a registry entry.
func CategoryByName(name string) (Category, bool) {
	c, ok := categoryIndex[name]
	return c, ok
}

// AllowsExtension checks a lowercase extension against the category.
func (c Category) AllowsExtension(ext string) bool {
	for _, t := range c.AllowedFileTypes {
		if t == ext {
			return true
		}
	}
	return false
}

// LoadOverrides replaces the built-in category table with the contents of a
// YAML file. Used by deployments that tune size caps without rebuilding.
func LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read categories file: %w", err)
	}
	var cats []Category
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return fmt.Errorf("failed to parse categories file: %w", err)
	}
	if len(cats) == 0 {
		return fmt.Errorf("categories file %s defines no categories", path)
	}
	categories = cats
	categoryIndex = buildIndex(cats)
	return nil
}

// Departments recognised by the platform.
var Departments = []string{
	"CSC", "EEE", "MEE", "CVE", "CHE", "PET", "AGE", "BME", "MTH", "PHY", "STA", "GEN",
}

// Levels of study. "general" marks material not tied to one level.
var Levels = []string{"100", "200", "300", "400", "500", "600", "general"}

// Semesters.
var Semesters = []string{"first", "second", "summer", "general"}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// ValidDepartment reports whether code is a known department.
func ValidDepartment(code string) bool { return contains(Departments, strings.ToUpper(code)) }

// ValidLevel reports whether level is a known level of study.
func ValidLevel(level string) bool { return contains(Levels, level) }

// ValidSemester reports whether semester is a known semester.
func ValidSemester(semester string) bool { return contains(Semesters, semester) }
