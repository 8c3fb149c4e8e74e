/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v3/jwt"

	"github.com/hyperledger/aries-sdjwt-examples/pkg/entropy"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/settings"
)

// RunConfig is the resolved configuration of one run. It is not modified after NewRunConfig returns.
type RunConfig struct {
	LogLevel      string
	Deterministic bool

	Nonce    string
	IssuedAt *jwt.NumericDate
	Expiry   *jwt.NumericDate

	Indent    int
	WrapWidth int
	OutputDir string

	IssuerID   string
	VerifierID string

	KeyType string
	KeySize int
}

// Overrides are the values given on the command line. Nil timestamps and an empty nonce are resolved from
// settings and the entropy source.
type Overrides struct {
	LogLevel  string
	Nonce     string
	IssuedAt  *int64
	Expiry    *int64
	Indent    int
	OutputDir string
}

// NewRunConfig resolves the run configuration.
//
// Without overrides a deterministic run uses the fixed timestamps of the settings and a nonce drawn from
// the seeded source; a random run uses the current time and a random nonce. The expiry defaults to the issue
// time plus the default lifetime, except for deterministic runs without an explicit issue time.
func NewRunConfig(s *settings.Settings, src *entropy.Source, o *Overrides, now time.Time) (*RunConfig, error) {
	if o == nil {
		o = &Overrides{}
	}

	cfg := &RunConfig{
		LogLevel:      o.LogLevel,
		Deterministic: src.Deterministic(),
		Nonce:         o.Nonce,
		Indent:        o.Indent,
		WrapWidth:     s.WrapWidth,
		OutputDir:     o.OutputDir,
		IssuerID:      s.Issuer,
		VerifierID:    s.Verifier,
		KeyType:       s.KeyType,
		KeySize:       s.KeySize,
	}

	switch {
	case o.IssuedAt != nil:
		cfg.IssuedAt = jwt.NewNumericDate(time.Unix(*o.IssuedAt, 0))
	case cfg.Deterministic:
		cfg.IssuedAt = jwt.NewNumericDate(time.Unix(s.FixedIAT, 0))
	default:
		cfg.IssuedAt = jwt.NewNumericDate(now)
	}

	switch {
	case o.Expiry != nil:
		cfg.Expiry = jwt.NewNumericDate(time.Unix(*o.Expiry, 0))
	case cfg.Deterministic && o.IssuedAt == nil:
		cfg.Expiry = jwt.NewNumericDate(time.Unix(s.FixedEXP, 0))
	default:
		cfg.Expiry = jwt.NewNumericDate(cfg.IssuedAt.Time().Add(time.Duration(s.DefaultExpMins) * time.Minute))
	}

	if cfg.Nonce == "" {
		nonce, err := src.Nonce()
		if err != nil {
			return nil, fmt.Errorf("generate nonce: %w", err)
		}

		cfg.Nonce = nonce
	}

	return cfg, nil
}
