package s3

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"flightdocs/internal/config"
	"flightdocs/internal/domain"
	"flightdocs/internal/port"
)

// ObjectAPI is the subset of the S3 client used for fetching documents.
type ObjectAPI interface {
	manager.DownloadAPIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// DocumentSource fetches ticket documents from a single bucket.
type DocumentSource struct {
	api        ObjectAPI
	downloader *manager.Downloader
	bucket     string
	maxBytes   int64
}

// NewDocumentSource creates an S3-backed port.DocumentSource.
func NewDocumentSource(cfg *config.S3Config, maxBytes int64) (*DocumentSource, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return NewDocumentSourceWithAPI(s3.NewFromConfig(awsCfg, s3Opts...), cfg.Bucket, maxBytes), nil
}

// NewDocumentSourceWithAPI creates a source over an existing client (for testing).
func NewDocumentSourceWithAPI(api ObjectAPI, bucket string, maxBytes int64) *DocumentSource {
	return &DocumentSource{
		api:        api,
		downloader: manager.NewDownloader(api),
		bucket:     bucket,
		maxBytes:   maxBytes,
	}
}

// Fetch downloads the object at key. Missing objects map to domain.ErrDocumentNotFound.
func (d *DocumentSource) Fetch(ctx context.Context, key string) (*port.SourceObject, error) {
	head, err := d.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, key)
		}
		return nil, fmt.Errorf("s3 head: %w", err)
	}

	size := aws.ToInt64(head.ContentLength)
	if d.maxBytes > 0 && size > d.maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	buf := manager.NewWriteAtBuffer(make([]byte, 0, size))
	if _, err := d.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	}); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, key)
		}
		return nil, fmt.Errorf("s3 download: %w", err)
	}

	return &port.SourceObject{
		Key:         key,
		Body:        buf.Bytes(),
		ContentType: aws.ToString(head.ContentType),
	}, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var re interface{ HTTPStatusCode() int }
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
