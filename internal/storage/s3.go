package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

const filenameMetaKey = "filename"

// s3API is the subset of the s3 client the store uses; allows test fakes.
type s3API interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store keeps artifacts in a single bucket under prefix+id.
type S3Store struct {
	client   s3API
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewS3Client creates an S3 client honoring env configuration for MinIO.
// Env support: AWS_REGION, AWS_ENDPOINT_URL_S3, AWS_S3_FORCE_PATH_STYLE.
func NewS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if ep := os.Getenv("AWS_ENDPOINT_URL_S3"); ep != "" {
			o.BaseEndpoint = aws.String(ep)
		}
		if strings.EqualFold(os.Getenv("AWS_S3_FORCE_PATH_STYLE"), "true") {
			o.UsePathStyle = true
		}
	}), nil
}

// NewS3Store returns a store over bucket. Uploads stream through the
// multipart uploader, which aborts the upload if the body fails mid-way.
func NewS3Store(client s3API, bucket, prefix string) *S3Store {
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   prefix,
	}
}

func (s *S3Store) key(id string) string {
	return s.prefix + id
}

func (s *S3Store) Put(ctx context.Context, body io.Reader, filename string) (string, error) {
	id := NewID()
	in := &s3.PutObjectInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(s.key(id)),
		Body:     body,
		Metadata: map[string]string{filenameMetaKey: encodeFilename(filename)},
	}
	if ct := mime.TypeByExtension(path.Ext(filename)); ct != "" {
		in.ContentType = aws.String(ct)
	}
	if _, err := s.uploader.Upload(ctx, in); err != nil {
		return "", fmt.Errorf("put %s/%s: %w", s.bucket, s.key(id), err)
	}
	return id, nil
}

func (s *S3Store) Get(ctx context.Context, id string) (*Object, error) {
	id, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", s.bucket, s.key(id), err)
	}
	obj := &Object{
		Body:        out.Body,
		Size:        -1,
		Filename:    decodeFilename(out.Metadata[filenameMetaKey]),
		ContentType: aws.ToString(out.ContentType),
	}
	if out.ContentLength != nil {
		obj.Size = *out.ContentLength
	}
	return obj, nil
}

// S3 user metadata is only safe as US-ASCII, so filenames are stored
// percent-encoded.
func encodeFilename(name string) string {
	return url.PathEscape(name)
}

func decodeFilename(v string) string {
	if name, err := url.PathUnescape(v); err == nil {
		return name
	}
	return v
}

func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *smithyhttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
