package storage

import (
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"

	"github.com/surajroy7430/DB-Songs-Uploader/internal/config"
)

// Key namespaces within the bucket.
const (
	SongPrefix  = "songs/"
	CoverPrefix = "covers/"
	AlbumPrefix = "albums/"
)

const signedURLTTL = 15 * time.Minute

type Client struct {
	backend Provider
	bucket  string
	region  string
}

func New(cfg *config.Config) *Client {
	var backend Provider

	if cfg.Storage.Provider == "local" {
		backend = NewLocalProvider(cfg.Storage.LocalRoot)
	} else {
		s3Config := &aws.Config{
			Credentials: credentials.NewStaticCredentials(cfg.AWS.KeyID, cfg.AWS.SecretKey, ""),
			Region:      aws.String(cfg.AWS.Region),
		}
		if cfg.AWS.Endpoint != "" {
			s3Config.Endpoint = aws.String(cfg.AWS.Endpoint)
			s3Config.S3ForcePathStyle = aws.Bool(true)
		}
		sess := session.Must(session.NewSession(s3Config))
		backend = NewS3Provider(sess)
	}

	return &Client{
		backend: backend,
		bucket:  cfg.AWS.Bucket,
		region:  cfg.AWS.Region,
	}
}

// NewWithProvider wires an explicit backend. Tests use it with the local
// provider.
func NewWithProvider(backend Provider, bucket, region string) *Client {
	return &Client{backend: backend, bucket: bucket, region: region}
}

// ObjectURL is a pure function of bucket, region and key. Callers that skip
// an upload because the key already exists rebuild the URL from the key
// alone, never from a previous Put response.
func (c *Client) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}

func (c *Client) Exists(key string) (bool, error) {
	return c.backend.Exists(c.bucket, key)
}

// Upload overwrites the key and returns its canonical URL.
func (c *Client) Upload(key string, body io.ReadSeeker, contentType string) (string, error) {
	if err := c.backend.Put(c.bucket, key, body, contentType); err != nil {
		return "", err
	}
	return c.ObjectURL(key), nil
}

func (c *Client) Delete(key string) error {
	return c.backend.Delete(c.bucket, key)
}

func (c *Client) SignedURL(key, disposition string) (string, error) {
	return c.backend.Presign(c.bucket, key, disposition, signedURLTTL)
}

func (c *Client) List(prefix string) ([]ObjectInfo, error) {
	return c.backend.List(c.bucket, prefix)
}
