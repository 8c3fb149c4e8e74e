/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package keys provisions the issuer and holder key material of a generator run and adapts it to
// the jose signers and verifiers used by the SD-JWT roles.
package keys

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/hyperledger/aries-framework-go/component/kmscrypto/doc/jose"
	"github.com/hyperledger/aries-framework-go/component/kmscrypto/doc/jose/jwk"
	"github.com/hyperledger/aries-framework-go/component/kmscrypto/doc/jose/jwk/jwksupport"
	"github.com/hyperledger/aries-framework-go/component/log"
	afgjwt "github.com/hyperledger/aries-framework-go/component/models/jwt"

	"github.com/hyperledger/aries-sdjwt-examples/pkg/entropy"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/settings"
)

// Signing algorithms produced by the supported key types.
const (
	AlgorithmEdDSA = "EdDSA"
	AlgorithmRS256 = "RS256"
)

var logger = log.New("sdjwt-examples/keys")

var (
	// ErrMissingSeed is returned when deterministic key derivation is requested without a seed.
	ErrMissingSeed = errors.New("deterministic key derivation requires a seed")
	// ErrNotReproducible is returned when deterministic key derivation is requested for a key type
	// that cannot be derived reproducibly.
	ErrNotReproducible = errors.New("key type cannot be derived deterministically")
	// ErrUnsupportedKey is returned for keys other than Ed25519 and RSA.
	ErrUnsupportedKey = errors.New("unsupported key")
)

// Material is the key material of one run. It is never persisted.
type Material struct {
	IssuerKey       crypto.Signer
	HolderKey       crypto.Signer
	IssuerPublicKey crypto.PublicKey
}

// Derive provisions issuer and holder keys. With deterministic set the keys are a pure function of seed and
// settings; otherwise they are drawn from crypto/rand and seed is ignored.
func Derive(s *settings.Settings, deterministic bool, seed *big.Int) (*Material, error) {
	if deterministic && seed == nil {
		return nil, ErrMissingSeed
	}

	if !deterministic {
		seed = nil
	}

	src := entropy.New(seed)

	issuerKey, err := generate(s, src, entropy.StreamIssuerKey)
	if err != nil {
		return nil, fmt.Errorf("issuer key: %w", err)
	}

	holderKey, err := generate(s, src, entropy.StreamHolderKey)
	if err != nil {
		return nil, fmt.Errorf("holder key: %w", err)
	}

	logger.Debugf("derived %s keys (deterministic=%t)", s.KeyType, deterministic)

	return &Material{
		IssuerKey:       issuerKey,
		HolderKey:       holderKey,
		IssuerPublicKey: issuerKey.Public(),
	}, nil
}

func generate(s *settings.Settings, src *entropy.Source, label string) (crypto.Signer, error) {
	r, err := src.Stream(label)
	if err != nil {
		return nil, err
	}

	switch s.KeyType {
	case settings.KeyTypeOKP:
		keySeed := make([]byte, ed25519.SeedSize)

		if _, err = io.ReadFull(r, keySeed); err != nil {
			return nil, fmt.Errorf("read key seed: %w", err)
		}

		return ed25519.NewKeyFromSeed(keySeed), nil
	case settings.KeyTypeRSA:
		if src.Deterministic() {
			return nil, fmt.Errorf("%w: %s", ErrNotReproducible, s.KeyType)
		}

		return rsa.GenerateKey(r, s.KeySize)
	default:
		return nil, fmt.Errorf("%w: key type '%s'", ErrUnsupportedKey, s.KeyType)
	}
}

// NewSigner adapts a private key to a jose signer usable with aries JWT serialization.
func NewSigner(key crypto.Signer) (jose.Signer, error) {
	switch k := key.(type) {
	case ed25519.PrivateKey:
		return afgjwt.NewEd25519Signer(k), nil
	case *rsa.PrivateKey:
		return afgjwt.NewRS256Signer(k, nil), nil
	default:
		return nil, fmt.Errorf("%w: signer for %T", ErrUnsupportedKey, key)
	}
}

// NewVerifier adapts a public key to a jose signature verifier.
func NewVerifier(key crypto.PublicKey) (jose.SignatureVerifier, error) {
	switch k := key.(type) {
	case ed25519.PublicKey:
		return afgjwt.NewEd25519Verifier(k)
	case *rsa.PublicKey:
		return afgjwt.NewRS256Verifier(k), nil
	default:
		return nil, fmt.Errorf("%w: verifier for %T", ErrUnsupportedKey, key)
	}
}

// Algorithm returns the JWS algorithm produced by the key.
func Algorithm(key crypto.PublicKey) (string, error) {
	switch key.(type) {
	case ed25519.PublicKey:
		return AlgorithmEdDSA, nil
	case *rsa.PublicKey:
		return AlgorithmRS256, nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
	}
}

// PublicJWK returns the JWK representation of a public key, as embedded in the SD-JWT "cnf" claim.
func PublicJWK(key crypto.PublicKey) (*jwk.JWK, error) {
	return jwksupport.JWKFromKey(key)
}
