package credentials

import (
	"path/filepath"

	"github.com/mwantia/ossvfs/config"
	"github.com/mwantia/ossvfs/data/errors"
	"github.com/mwantia/ossvfs/log"
)

const defaultProfile = "default"

// Resolver produces Credentials from explicit options, configuration values
// and profile files. It never performs network calls.
type Resolver struct {
	cfg   *config.Config
	cache *Cache
	log   *log.Logger
}

func NewResolver(cfg *config.Config, cache *Cache, logger *log.Logger) *Resolver {
	if cfg == nil {
		cfg = config.Default()
	}
	if cache == nil {
		cache = NewCache(DefaultCacheTTL)
	}
	if logger == nil {
		logger = log.Discard()
	}

	return &Resolver{
		cfg:   cfg,
		cache: cache,
		log:   logger,
	}
}

// Cache returns the credential cache used by this resolver.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Config returns the configuration layers consulted by this resolver.
func (r *Resolver) Config() *config.Config {
	return r.cfg
}

// Resolve returns the credentials and region for the given explicit options.
func (r *Resolver) Resolve(opts config.Values) (*Credentials, error) {
	creds, err := r.resolveKeys(opts)
	if err != nil {
		return nil, err
	}

	// The default region overrides the region of the in-use profile
	if region := r.cfg.Fetch(opts, config.KeyDefaultRegion, ""); region != "" {
		creds.Region = region
	}

	return creds, nil
}

func (r *Resolver) resolveKeys(opts config.Values) (*Credentials, error) {
	region := r.cfg.Fetch(opts, config.KeyRegion, DefaultRegion)

	if config.TestBool(r.cfg.Fetch(opts, config.KeyNoSignRequest, "NO")) {
		r.log.Debug("Resolve: unsigned requests enabled, using anonymous access")
		return &Credentials{
			Region:    region,
			Anonymous: true,
			Source:    config.KeyNoSignRequest,
		}, nil
	}

	secret := r.cfg.Fetch(opts, config.KeySecretAccessKey, "")
	accessKeyID := r.cfg.Fetch(opts, config.KeyAccessKeyID, "")
	if secret != "" {
		if accessKeyID == "" {
			return nil, errors.InvalidCredentials("%s configuration option not defined", config.KeyAccessKeyID)
		}

		r.log.Debug("Resolve: using credentials from configuration options")
		return &Credentials{
			AccessKeyID:     accessKeyID,
			SecretAccessKey: []byte(secret),
			SessionToken:    r.cfg.Fetch(opts, config.KeySessionToken, ""),
			Region:          region,
			Source:          "config",
		}, nil
	}
	if accessKeyID != "" {
		return nil, errors.InvalidCredentials("%s configuration option not defined", config.KeySecretAccessKey)
	}

	profile := r.cfg.Fetch(opts, config.KeyDefaultProfile, "")
	if profile == "" {
		profile = defaultProfile
	}

	if cached, ok := r.cache.Get(profile); ok {
		r.log.Debug("Resolve: using cached credentials for profile '%s'", profile)
		if cached.Region == "" {
			cached.Region = region
		}
		return cached, nil
	}

	creds, credentialsPath, err := r.resolveProfile(profile)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, errors.InvalidCredentials("%s and %s configuration options not defined, and %s not filled",
			config.KeySecretAccessKey, config.KeyNoSignRequest, credentialsPath)
	}

	r.cache.Put(profile, creds)
	if creds.Region == "" {
		creds.Region = region
	}

	return creds, nil
}

// resolveProfile reads the credentials file and then the config file for
// profile. Values from the credentials file take precedence.
// Returns nil credentials if no complete key pair was found.
func (r *Resolver) resolveProfile(profile string) (*Credentials, string, error) {
	dir := defaultProfileDir(r.cfg.HomeDir())

	credentialsPath := r.cfg.String(config.KeyCredentialsFile, filepath.Join(dir, "credentials"))
	configPath, explicitConfig := r.cfg.Lookup(config.KeyConfigFile)
	if !explicitConfig {
		configPath = filepath.Join(dir, "config")
	}

	creds := &Credentials{Source: credentialsPath}

	section, found, err := readProfileSection(credentialsPath, profile)
	if err != nil {
		r.log.Warn("Resolve: unable to parse %s - %v", credentialsPath, err)
	} else if found {
		creds.AccessKeyID = section.accessKeyID
		creds.SecretAccessKey = []byte(section.secretAccessKey)
		creds.SessionToken = section.sessionToken
	}

	section, found, err = readProfileSection(configPath, profile, "profile "+profile)
	switch {
	case err != nil:
		r.log.Warn("Resolve: unable to parse %s - %v", configPath, err)
	case found:
		var secret string
		if creds.SecretAccessKey != nil {
			secret = string(creds.SecretAccessKey)
		}

		creds.AccessKeyID = r.reconcile(iniAccessKeyID, creds.AccessKeyID, section.accessKeyID, credentialsPath, configPath)
		secret = r.reconcile(iniSecretAccessKey, secret, section.secretAccessKey, credentialsPath, configPath)
		creds.SessionToken = r.reconcile(iniSessionToken, creds.SessionToken, section.sessionToken, credentialsPath, configPath)
		creds.SecretAccessKey = []byte(secret)
		creds.Region = section.region
	case explicitConfig && configPath != "":
		r.log.Warn("Resolve: %s does not exist or cannot be opened", configPath)
	}

	if creds.AccessKeyID == "" || len(creds.SecretAccessKey) == 0 {
		creds.Wipe()
		return nil, credentialsPath, nil
	}

	return creds, credentialsPath, nil
}

// reconcile keeps the credentials file value and warns if the config file
// defines a different one.
func (r *Resolver) reconcile(key, current, candidate, credentialsPath, configPath string) string {
	if candidate == "" {
		return current
	}
	if current == "" {
		return candidate
	}
	if current != candidate {
		r.log.Warn("%s defined in both %s and %s. The one of %s will be used",
			key, credentialsPath, configPath, credentialsPath)
	}
	return current
}
