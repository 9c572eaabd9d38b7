package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName, credentialsPath string) (*CloudStorageClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// UploadChatAttachment stores a chat attachment under the order's namespace
// and returns its public URL. The object key combines the current time with a
// random suffix, and the write carries a does-not-exist precondition: a
// colliding key is an error, never a silent replace.
func (c *CloudStorageClient) UploadChatAttachment(ctx context.Context, orderID, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}

	objectName := fmt.Sprintf("chat/%s/%d-%s%s",
		orderID, time.Now().UnixMilli(), uuid.New().String()[:8], ext)

	obj := c.client.Bucket(c.bucketName).Object(objectName)
	wc := obj.If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	wc.ContentType = contentTypeFor(ext)
	wc.CacheControl = "public, max-age=3600"

	if _, err := io.Copy(wc, bytes.NewReader(data)); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to copy attachment to GCS: %v", err)
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to set ACL: %v", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, objectName), nil
}

func contentTypeFor(ext string) string {
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
