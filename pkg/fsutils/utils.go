package fsutils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/datatug/pngnote/pkg/logging"
	"gopkg.in/yaml.v3"
)

// Decoder decodes
type Decoder interface {
	Decode(o interface{}) error
}

func ReadYAMLFile(filePath string, required bool, o interface{}) (err error) {
	yamlDecoderFactory := func(r io.Reader) Decoder {
		return yaml.NewDecoder(r)
	}
	return ReadFile(filePath, required, o, yamlDecoderFactory)
}

// ReadFile decodes a file into o. A missing file is only an error when
// required, and an empty file leaves o untouched.
func ReadFile(filePath string, required bool, o interface{}, newDecoder func(r io.Reader) Decoder) (err error) {
	var file *os.File
	if file, err = os.Open(filePath); err != nil {
		if os.IsNotExist(err) && !required {
			err = nil
		}
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.New("fsutils").Warn("failed to close file", "path", filePath, "error", err)
		}
	}()
	decoder := newDecoder(file)
	if err = decoder.Decode(o); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return err
}

var yamlMarshal = yaml.Marshal

// WriteYAMLFile writes o creating missing parent directories.
func WriteYAMLFile(filePath string, o interface{}) error {
	data, err := yamlMarshal(o)
	if err != nil {
		return err
	}
	dir := filepath.Dir(filePath)
	exists, err := DirExists(dir)
	if err != nil {
		return err
	}
	if !exists {
		if err = os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0o600)
}

func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err // some other error
	}
	return info.IsDir(), nil
}

// ExpandHome expands leading ~ to the user's home directory.
func ExpandHome(p string) string {
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "~/") || p == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if p == "~" {
				return home
			}
			return filepath.Join(home, strings.TrimPrefix(p, "~/"))
		}
	}
	return p
}
