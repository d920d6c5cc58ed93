package ossvfs

import (
	"strings"
	"sync"

	"github.com/mwantia/ossvfs/config"
	"github.com/mwantia/ossvfs/credentials"
	"github.com/mwantia/ossvfs/data/errors"
	"github.com/mwantia/ossvfs/objstore"
)

// DefaultEndpoint is used when AWS_S3_ENDPOINT is not configured.
const DefaultEndpoint = "s3.amazonaws.com"

// HandleHelper carries the bucket, object key and connection parameters
// resolved for one path. The secret is zeroed on Release.
type HandleHelper struct {
	mu sync.Mutex

	accessKeyID  string
	secret       []byte
	sessionToken string
	anonymous    bool

	endpoint       string
	region         string
	requestPayer   string
	secure         bool
	virtualHosting bool

	bucket    string
	objectKey string
	released  bool
}

// BuildFromURI splits uri ("bucket/key", with the mount prefix already removed)
// at the first slash and resolves credentials and connection settings for it.
// Without a slash the whole uri is the bucket, which is only accepted if
// allowEmptyObjectKey is set.
func BuildFromURI(uri, prefix string, allowEmptyObjectKey bool, resolver *credentials.Resolver, opts config.Values) (*HandleHelper, error) {
	bucket, objectKey, err := splitBucketAndObjectKey(uri, prefix, allowEmptyObjectKey)
	if err != nil {
		return nil, err
	}

	if resolver == nil {
		resolver = credentials.NewResolver(nil, nil, nil)
	}

	creds, err := resolver.Resolve(opts)
	if err != nil {
		return nil, err
	}

	cfg := resolver.Config()
	return &HandleHelper{
		accessKeyID:  creds.AccessKeyID,
		secret:       creds.SecretAccessKey,
		sessionToken: creds.SessionToken,
		anonymous:    creds.Anonymous,

		endpoint:       cfg.Fetch(opts, config.KeyEndpoint, DefaultEndpoint),
		region:         creds.Region,
		requestPayer:   cfg.Fetch(opts, config.KeyRequestPayer, ""),
		secure:         config.TestBool(cfg.Fetch(opts, config.KeyHTTPS, "YES")),
		virtualHosting: config.TestBool(cfg.Fetch(opts, config.KeyVirtualHosting, "NO")),

		bucket:    bucket,
		objectKey: objectKey,
	}, nil
}

func splitBucketAndObjectKey(uri, prefix string, allowEmptyObjectKey bool) (string, string, error) {
	bucket, objectKey, found := strings.Cut(uri, "/")
	if !found && !allowEmptyObjectKey {
		return "", "", errors.MalformedPath(prefix+uri, prefix)
	}

	return bucket, objectKey, nil
}

func (h *HandleHelper) Bucket() string {
	return h.bucket
}

func (h *HandleHelper) ObjectKey() string {
	return h.objectKey
}

func (h *HandleHelper) Endpoint() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.endpoint
}

func (h *HandleHelper) Region() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.region
}

func (h *HandleHelper) RequestPayer() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.requestPayer
}

func (h *HandleHelper) SetEndpoint(endpoint string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.endpoint = endpoint
}

func (h *HandleHelper) SetRegion(region string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.region = region
}

func (h *HandleHelper) SetRequestPayer(requestPayer string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.requestPayer = requestPayer
}

// ContextConfig converts the helper into the parameters passed to a client factory.
func (h *HandleHelper) ContextConfig() objstore.ContextConfig {
	h.mu.Lock()
	defer h.mu.Unlock()

	return objstore.ContextConfig{
		ServiceType:     objstore.ServiceS3,
		Region:          h.region,
		Endpoint:        h.endpoint,
		AccessKey:       h.accessKeyID,
		SecretKey:       string(h.secret),
		SessionToken:    h.sessionToken,
		RequestPayer:    h.requestPayer,
		Anonymous:       h.anonymous,
		Secure:          h.secure,
		VirtualHosting:  h.virtualHosting,
		ReadBufferSize:  objstore.DefaultBufferSize,
		WriteBufferSize: objstore.DefaultBufferSize,
	}
}

// Released reports whether Release has been called.
func (h *HandleHelper) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.released
}

// Release zeroes the secret key. Calling it more than once is a no-op.
func (h *HandleHelper) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return
	}

	clear(h.secret)
	h.secret = nil
	h.sessionToken = ""
	h.released = true
}
