package storage

import (
	"context"
	"io"
	"log"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/campusvault/CampusVault/internal/config"
)

var (
	MinioClient *minio.Client
	bucketName  string
)

// InitMinio connects to the object store and makes sure the repository
// bucket exists.
func InitMinio(cfg config.Config) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: false,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bucketName = cfg.MinioBucket
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		log.Printf("Warning: Failed to check bucket existence: %v", err)
	} else if !exists {
		if err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			log.Printf("Warning: Failed to create bucket: %v", err)
		} else {
			log.Printf("Created bucket: %s", bucketName)
		}
	}

	MinioClient = client
	log.Println("Connected to MinIO")
}

// PutObject streams an uploaded file into the repository bucket.
func PutObject(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error {
	_, err := MinioClient.PutObject(ctx, bucketName, objectName, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

// RemoveObject deletes a stored file.
func RemoveObject(ctx context.Context, objectName string) error {
	return MinioClient.RemoveObject(ctx, bucketName, objectName, minio.RemoveObjectOptions{})
}

// PresignedDownloadURL generates a short-lived direct download link. The
// response-content-disposition parameter makes browsers save the file under
// its original name instead of the stored one.
func PresignedDownloadURL(ctx context.Context, objectName, downloadName string, expiry time.Duration) (string, error) {
	reqParams := url.Values{}
	if downloadName != "" {
		reqParams.Set("response-content-disposition", `attachment; filename="`+downloadName+`"`)
	}
	u, err := MinioClient.PresignedGetObject(ctx, bucketName, objectName, expiry, reqParams)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
