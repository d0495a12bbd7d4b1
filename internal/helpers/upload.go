package helpers

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const (
	UploadFolder = "uploads"

	// MaxUploadSize caps event image uploads at 10 MiB.
	MaxUploadSize = 10 << 20
)

// AllowedImageTypes maps accepted content types to the file extension used
// in the object key.
var AllowedImageTypes = map[string]string{
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// UploadImage streams an image to the bucket under a fresh UUID key and
// returns the public object URL.
func UploadImage(ctx context.Context, uploader *manager.Uploader, bucket, region string, body io.Reader, contentType string) (string, error) {
	ext, ok := AllowedImageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}

	key := fmt.Sprintf("%s/%s.%s", UploadFolder, uuid.New().String(), ext)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %v", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key), nil
}
