// Package credentials resolves the access key material and region used to
// talk to the object store.
//
// Resolution follows a fixed precedence: anonymous access, explicit options
// or configuration values, and finally the AWS style credentials and config
// profile files. Profile file results are kept in an injectable Cache.
package credentials

// DefaultRegion is used when neither configuration nor profile files
// define a region.
const DefaultRegion = "ap-northeast-1"

// Credentials carries the resolved key material for one request context.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey []byte
	SessionToken    string
	Region          string

	// Anonymous is set when requests must not be signed.
	Anonymous bool
	// Source names where the key material came from (e.g. "env" or a file path).
	Source string
}

// Clone returns a deep copy, including a separate secret buffer.
func (c *Credentials) Clone() *Credentials {
	clone := *c
	if c.SecretAccessKey != nil {
		clone.SecretAccessKey = append([]byte(nil), c.SecretAccessKey...)
	}
	return &clone
}

// Secret returns the secret access key as string.
// The returned string is a copy that Wipe cannot erase.
func (c *Credentials) Secret() string {
	return string(c.SecretAccessKey)
}

// Wipe overwrites the secret access key with zero bytes.
// This is best-effort: copies handed out through Secret or held by the
// runtime are not reachable from here.
func (c *Credentials) Wipe() {
	clear(c.SecretAccessKey)
	c.SecretAccessKey = nil
}
