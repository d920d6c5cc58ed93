// Package awss3 implements the object store client on top of the AWS SDK v2.
package awss3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/mwantia/ossvfs/objstore"
)

// defaultEndpoint is resolved by the SDK itself from the region.
const defaultEndpoint = "s3.amazonaws.com"

type Client struct {
	s3Client     *s3.Client
	requestPayer s3types.RequestPayer
}

var _ objstore.Client = (*Client)(nil)

// Factory creates AWS SDK backed clients.
var Factory = objstore.FactoryFunc(func(ctx context.Context, cfg objstore.ContextConfig) (objstore.Client, error) {
	return New(ctx, cfg)
})

func New(ctx context.Context, cfg objstore.ContextConfig) (*Client, error) {
	if cfg.ServiceType != "" && cfg.ServiceType != objstore.ServiceS3 {
		return nil, fmt.Errorf("awss3: unsupported service type '%s'", cfg.ServiceType)
	}

	var provider aws.CredentialsProvider = aws.AnonymousCredentials{}
	if !cfg.Anonymous {
		provider = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(provider),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if cfg.Endpoint != "" && cfg.Endpoint != defaultEndpoint {
		scheme := "http"
		if cfg.Secure {
			scheme = "https"
		}
		awsCfg.BaseEndpoint = aws.String(fmt.Sprintf("%s://%s", scheme, cfg.Endpoint))
	}

	client := &Client{
		s3Client: s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = !cfg.VirtualHosting
		}),
	}
	if cfg.RequestPayer != "" {
		client.requestPayer = s3types.RequestPayer(cfg.RequestPayer)
	}

	return client, nil
}

func (c *Client) ListObjects(ctx context.Context, bucket, prefix string) ([]objstore.ObjectInfo, error) {
	var infos []objstore.ObjectInfo

	err := objstore.Retry(ctx, func() error {
		infos = infos[:0]

		paginator := s3.NewListObjectsV2Paginator(c.s3Client, &s3.ListObjectsV2Input{
			Bucket:       aws.String(bucket),
			Prefix:       aws.String(prefix),
			RequestPayer: c.requestPayer,
		})

		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return err
			}

			for _, obj := range page.Contents {
				infos = append(infos, objstore.ObjectInfo{
					Key:          aws.ToString(obj.Key),
					Size:         aws.ToInt64(obj.Size),
					LastModified: aws.ToTime(obj.LastModified),
					ETag:         aws.ToString(obj.ETag),
				})
			}
		}
		return nil
	}, isPermanent)

	if err != nil {
		return nil, err
	}
	return infos, nil
}

func (c *Client) GetObject(ctx context.Context, bucket, key string, start, end int64) (io.ReadCloser, error) {
	var body io.ReadCloser

	err := objstore.Retry(ctx, func() error {
		resp, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
			Bucket:       aws.String(bucket),
			Key:          aws.String(key),
			Range:        aws.String(fmt.Sprintf("bytes=%d-%d", start, end)),
			RequestPayer: c.requestPayer,
		})
		if err != nil {
			return err
		}

		body = resp.Body
		return nil
	}, isPermanent)
	if err != nil {
		return nil, err
	}

	return body, nil
}

// isPermanent reports client side failures (4xx) that will not go away by retrying.
func isPermanent(err error) bool {
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		status := respErr.HTTPStatusCode()
		return status >= http.StatusBadRequest && status < http.StatusInternalServerError
	}

	return false
}
