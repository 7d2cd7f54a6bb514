package config

import (
	"context"
	"errors"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/editkit/blobstore"
	minioblob "github.com/hupe1980/editkit/blobstore/minio"
	s3blob "github.com/hupe1980/editkit/blobstore/s3"
	"github.com/hupe1980/editkit/codec"
	"github.com/hupe1980/editkit/transport"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrNoUploadTarget is returned by Consumer and BlobStore when no target is
// configured.
var ErrNoUploadTarget = errors.New("config: no upload target configured")

// Consumer builds the transport for the configured upload target.
func (c *Config) Consumer(ctx context.Context) (transport.Consumer, error) {
	u := c.Upload

	if u.Target == TargetHTTP {
		return transport.NewHTTPConsumer(u.URL), nil
	}

	store, revisions, err := c.BlobStore(ctx)
	if err != nil {
		return nil, err
	}

	cd, ok := codec.ByName(u.Codec)
	if !ok {
		return nil, fmt.Errorf("upload.codec: unknown codec %q", u.Codec)
	}

	opts := []transport.BlobOption{transport.WithCodec(cd)}
	if u.UniqueNames {
		opts = append(opts, transport.WithNaming(transport.UniqueName))
	}
	if revisions != nil {
		opts = append(opts, transport.WithRevisionLog(revisions))
	}
	return transport.NewBlobConsumer(store, opts...), nil
}

// BlobStore opens the store behind the configured upload target, together
// with its revision log when one is configured. The http target has no
// readable store.
func (c *Config) BlobStore(ctx context.Context) (blobstore.BlobStore, blobstore.RevisionLog, error) {
	u := c.Upload

	switch u.Target {
	case TargetNone:
		return nil, nil, ErrNoUploadTarget
	case TargetHTTP:
		return nil, nil, fmt.Errorf("upload.target: %q uploads cannot be read back", u.Target)
	case TargetLocal:
		return blobstore.NewLocalStore(u.Dir), nil, nil
	case TargetS3:
		var optFns []func(*awsconfig.LoadOptions) error
		if u.Region != "" {
			optFns = append(optFns, awsconfig.WithRegion(u.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
		if err != nil {
			return nil, nil, fmt.Errorf("config: load AWS config: %w", err)
		}
		store := s3blob.NewStore(awss3.NewFromConfig(awsCfg), u.Bucket, u.Prefix)
		if u.RevisionTable == "" {
			return store, nil, nil
		}
		return store, s3blob.NewDDBRevisionLog(dynamodb.NewFromConfig(awsCfg), u.RevisionTable), nil
	case TargetMinIO:
		client, err := minio.New(u.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(u.AccessKey, u.SecretKey, ""),
			Secure: u.Secure,
			Region: u.Region,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("config: create MinIO client: %w", err)
		}
		return minioblob.NewStore(client, u.Bucket, u.Prefix), nil, nil
	default:
		return nil, nil, fmt.Errorf("upload.target: unknown target %q", u.Target)
	}
}
