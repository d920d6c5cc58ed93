// Package minio implements the object store client on top of minio-go.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/mwantia/ossvfs/objstore"
)

const requestPayerHeader = "x-amz-request-payer"

type Client struct {
	client       *minio.Client
	requestPayer string
}

var _ objstore.Client = (*Client)(nil)

// Factory creates minio backed clients.
var Factory = objstore.FactoryFunc(func(ctx context.Context, cfg objstore.ContextConfig) (objstore.Client, error) {
	return New(cfg)
})

func New(cfg objstore.ContextConfig) (*Client, error) {
	if cfg.ServiceType != "" && cfg.ServiceType != objstore.ServiceS3 {
		return nil, fmt.Errorf("minio: unsupported service type '%s'", cfg.ServiceType)
	}

	// Empty keys make minio skip request signing
	creds := credentials.NewStaticV4("", "", "")
	if !cfg.Anonymous {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken)
	}

	lookup := minio.BucketLookupPath
	if cfg.VirtualHosting {
		lookup = minio.BucketLookupDNS
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        creds,
		Secure:       cfg.Secure,
		Region:       cfg.Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		client:       client,
		requestPayer: cfg.RequestPayer,
	}, nil
}

func (c *Client) ListObjects(ctx context.Context, bucket, prefix string) ([]objstore.ObjectInfo, error) {
	var infos []objstore.ObjectInfo

	err := objstore.Retry(ctx, func() error {
		infos = infos[:0]

		opts := minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: true,
		}
		if c.requestPayer != "" {
			opts.Set(requestPayerHeader, c.requestPayer)
		}

		for object := range c.client.ListObjects(ctx, bucket, opts) {
			if object.Err != nil {
				return object.Err
			}

			infos = append(infos, objstore.ObjectInfo{
				Key:          object.Key,
				Size:         object.Size,
				LastModified: object.LastModified,
				ETag:         object.ETag,
			})
		}
		return nil
	}, isPermanent)

	if err != nil {
		return nil, err
	}
	return infos, nil
}

func (c *Client) GetObject(ctx context.Context, bucket, key string, start, end int64) (io.ReadCloser, error) {
	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(start, end); err != nil {
		return nil, err
	}
	if c.requestPayer != "" {
		opts.Set(requestPayerHeader, c.requestPayer)
	}

	var object *minio.Object
	err := objstore.Retry(ctx, func() error {
		var err error
		object, err = c.client.GetObject(ctx, bucket, key, opts)
		return err
	}, isPermanent)
	if err != nil {
		return nil, err
	}

	return object, nil
}

// isPermanent reports errors that will not go away by retrying.
func isPermanent(err error) bool {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchBucket", "NoSuchKey", "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return true
	}

	return resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError
}
