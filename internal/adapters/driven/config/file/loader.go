package file

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
	"github.com/custodia-labs/missedcalls/internal/logger"
)

// DefaultPath is read when no --config flag is given. It is optional.
const DefaultPath = "missedcalls.toml"

// Format is a configuration file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor picks the syntax from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unsupported config extension %q (want .toml, .yaml or .yml)",
			domain.ErrInvalidInput, filepath.Ext(path))
	}
}

// Load reads the configuration at path over the defaults and validates it.
// A missing file yields the defaults unless required is set.
func Load(path string, required bool) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !required:
		logger.Debug("No config file at %s, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := Decode(path, data, &cfg); err != nil {
			return nil, err
		}
		logger.Debug("Loaded config from %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Decode parses data in the format implied by path and overlays it on cfg.
// Unknown keys are rejected so typos do not pass silently.
func Decode(path string, data []byte, cfg *domain.Config) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&fc)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&fc); errors.Is(err, io.EOF) {
			err = nil
		}
	}
	if err != nil {
		return fmt.Errorf("%w: parse %s: %w", domain.ErrInvalidInput, path, err)
	}

	return fc.apply(cfg)
}

// Save writes cfg to path in the format implied by its extension.
func Save(path string, cfg domain.Config) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	fc := fromDomain(cfg)
	var data []byte
	switch format {
	case FormatTOML:
		data, err = toml.Marshal(fc)
	case FormatYAML:
		data, err = yaml.Marshal(fc)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0600)
}
