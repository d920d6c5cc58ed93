package credentials

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-ini/ini"
)

const (
	iniAccessKeyID     = "aws_access_key_id"
	iniSecretAccessKey = "aws_secret_access_key"
	iniSessionToken    = "aws_session_token"
	iniRegion          = "region"
)

// profileSection holds the recognized keys of one profile section.
// A key that is absent from the section stays empty.
type profileSection struct {
	accessKeyID     string
	secretAccessKey string
	sessionToken    string
	region          string
}

// readProfileSection loads path and returns the first section whose name
// matches one of names. The second result is false if the file does not
// exist; a missing section yields an empty profileSection.
func readProfileSection(path string, names ...string) (*profileSection, bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}

	file, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:     true,
		IgnoreInlineComment: true,
	}, path)
	if err != nil {
		return nil, true, err
	}

	section := &profileSection{}
	for _, s := range file.Sections() {
		if !matchesAny(s.Name(), names) {
			continue
		}

		section.accessKeyID = s.Key(iniAccessKeyID).String()
		section.secretAccessKey = s.Key(iniSecretAccessKey).String()
		section.sessionToken = s.Key(iniSessionToken).String()
		section.region = s.Key(iniRegion).String()
		break
	}

	return section, true, nil
}

func matchesAny(name string, candidates []string) bool {
	for _, candidate := range candidates {
		if name == candidate {
			return true
		}
	}
	return false
}

// defaultProfileDir returns the directory holding the default credentials
// and config files.
func defaultProfileDir(home string) string {
	return filepath.Join(home, ".aws")
}
