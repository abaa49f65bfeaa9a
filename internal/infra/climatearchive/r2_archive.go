package climatearchive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/ecosense/internal/domain/climate"
)

// DefaultKey names the archive object when none is configured.
const DefaultKey = "climate/hanoi-yearly.json"

// R2Archive stores yearly climate records as one JSON object in Cloudflare R2
// or any S3-compatible bucket.
type R2Archive struct {
	client *minio.Client
	bucket string
	key    string
	logger *slog.Logger
}

// NewR2Archive constructs the archive adapter.
func NewR2Archive(endpoint, accessKey, secretKey, bucket, region, key string, logger *slog.Logger) (*R2Archive, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("archive bucket is required")
	}
	if key == "" {
		key = DefaultKey
	}
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       strings.HasPrefix(strings.ToLower(endpoint), "https"),
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init r2 client: %w", err)
	}
	return &R2Archive{client: client, bucket: bucket, key: key, logger: logger.With("component", "climatearchive.r2")}, nil
}

// Load reads the archive object. A missing object or bucket reports false.
func (a *R2Archive) Load(ctx context.Context) ([]climate.YearRecord, bool, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, a.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, false, err
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var records []climate.YearRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, fmt.Errorf("decode climate archive: %w", err)
	}
	return records, len(records) > 0, nil
}

// Store overwrites the archive object.
func (a *R2Archive) Store(ctx context.Context, records []climate.YearRecord) error {
	if err := a.ensureBucket(ctx); err != nil {
		return err
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return err
	}
	_, err = a.client.PutObject(ctx, a.bucket, a.key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType:      "application/json",
		DisableMultipart: true,
	})
	if err != nil {
		return err
	}
	a.logger.Info("climate archive stored", "key", a.key, "years", len(records))
	return nil
}

func (a *R2Archive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err == nil && exists {
		return nil
	}
	err = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

var _ climate.Archive = (*R2Archive)(nil)
