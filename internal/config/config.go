package config

import "os"

// Config carries everything the server reads from the environment.
// Every field has a localhost-friendly fallback so a bare `go run` works.
type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	JWTSecret string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string

	// CategoriesFile optionally overrides the built-in category registry.
	CategoriesFile string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration from environment variables.
func Load() Config {
	return Config{
		Port:      getenv("PORT", "8080"),
		MongoURI:  getenv("MONGO_URI", "mongodb://localhost:27017/campus_repo"),
		MongoDB:   getenv("MONGO_DB", "campus_repo"),
		JWTSecret: getenv("JWT_SECRET", "dev-secret-change-me"),

		MinioEndpoint:  getenv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getenv("MINIO_BUCKET", "campus-repo"),

		SMTPHost: getenv("SMTP_HOST", "localhost"),
		SMTPPort: getenv("SMTP_PORT", "1025"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: getenv("MAIL_FROM", "no-reply@campusvault.local"),

		CategoriesFile: os.Getenv("CATEGORIES_FILE"),
	}
}
