/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package settings holds the generator settings: principal identifiers, token lifetimes and key parameters.
//
// Settings are read from the embedded defaults, optionally overlaid with a user supplied YAML file,
// and validated once at load time.
package settings

import (
	"crypto"
	_ "embed" // default settings
	"errors"
	"fmt"
	"os"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/component/models/sdjwt/common"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Supported key types.
const (
	KeyTypeOKP = "OKP"
	KeyTypeRSA = "RSA"

	minRSAKeySize = 2048
)

//go:embed default_settings.yaml
var defaultSettings []byte

var logger = log.New("sdjwt-examples/settings")

// ErrInvalidSettings is returned when the resolved settings fail validation.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the resolved settings structure.
type Settings struct {
	Issuer         string `mapstructure:"issuer"`
	Verifier       string `mapstructure:"verifier"`
	DefaultExpMins int    `mapstructure:"default_exp_mins"`
	FixedIAT       int64  `mapstructure:"fixed_iat"`
	FixedEXP       int64  `mapstructure:"fixed_exp"`
	KeyType        string `mapstructure:"key_type"`
	KeySize        int    `mapstructure:"key_size"`
	HashAlgorithm  string `mapstructure:"hash_algorithm"`
	WrapWidth      int    `mapstructure:"wrap_width"`
}

// Default returns the embedded default settings.
func Default() (*Settings, error) {
	s := &Settings{}

	if err := decode(defaultSettings, s); err != nil {
		return nil, fmt.Errorf("decode default settings: %w", err)
	}

	return s, s.Validate()
}

// Load returns the default settings overlaid with the settings file at path.
// Keys missing from the file keep their default value; unknown keys are rejected.
// An empty path returns the defaults.
func Load(path string) (*Settings, error) {
	s, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	if err = decode(data, s); err != nil {
		return nil, fmt.Errorf("decode settings file %s: %w", path, err)
	}

	logger.Debugf("loaded settings from %s", path)

	return s, s.Validate()
}

// Validate checks that every setting holds a usable value.
func (s *Settings) Validate() error {
	if s.Issuer == "" {
		return fmt.Errorf("%w: issuer must be set", ErrInvalidSettings)
	}

	if s.Verifier == "" {
		return fmt.Errorf("%w: verifier must be set", ErrInvalidSettings)
	}

	if s.DefaultExpMins <= 0 {
		return fmt.Errorf("%w: default_exp_mins must be positive", ErrInvalidSettings)
	}

	if s.FixedEXP <= s.FixedIAT {
		return fmt.Errorf("%w: fixed_exp must be after fixed_iat", ErrInvalidSettings)
	}

	switch s.KeyType {
	case KeyTypeOKP:
	case KeyTypeRSA:
		if s.KeySize < minRSAKeySize {
			return fmt.Errorf("%w: key_size must be at least %d for RSA keys", ErrInvalidSettings, minRSAKeySize)
		}
	default:
		return fmt.Errorf("%w: key_type '%s' is not supported", ErrInvalidSettings, s.KeyType)
	}

	if _, err := s.Hash(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, err.Error())
	}

	if s.WrapWidth < 0 {
		return fmt.Errorf("%w: wrap_width cannot be negative", ErrInvalidSettings)
	}

	return nil
}

// Hash returns the digest function named by hash_algorithm.
func (s *Settings) Hash() (crypto.Hash, error) {
	return common.GetCryptoHash(s.HashAlgorithm)
}

func decode(data []byte, s *Settings) error {
	var raw map[string]interface{}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      s,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}

	return d.Decode(raw)
}
