/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package entropy supplies the randomness consumed by a generator run.
//
// A Source is either secure (backed by crypto/rand) or deterministic (derived from a seed).
// It is created once per run and passed explicitly to every component that needs random bytes,
// so no component reaches for a process-wide generator.
package entropy

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

const (
	// StreamNonce is the label of the stream used for holder binding nonces.
	StreamNonce = "nonce"
	// StreamIssuerKey is the label of the stream used for the issuer key.
	StreamIssuerKey = "issuer-key"
	// StreamHolderKey is the label of the stream used for the holder key.
	StreamHolderKey = "holder-key"
	// StreamIssuance is the label of the stream used for salts and decoy digests.
	StreamIssuance = "issuance"

	nonceSize  = 16
	streamSalt = "aries-sdjwt-examples/entropy"
)

// Source hands out byte streams. The zero value is a secure source.
type Source struct {
	seed []byte
}

// New returns a deterministic source for a non-nil seed and a secure source otherwise.
func New(seed *big.Int) *Source {
	if seed == nil {
		return &Source{}
	}

	return &Source{seed: seed.Bytes()}
}

// Deterministic reports whether streams of this source are reproducible.
func (s *Source) Deterministic() bool {
	return s.seed != nil
}

// Stream returns the byte stream for the given label.
// Deterministic streams with different labels are independent of each other, so consuming one never shifts
// the output of another.
func (s *Source) Stream(label string) (io.Reader, error) {
	if !s.Deterministic() {
		return rand.Reader, nil
	}

	key := make([]byte, chacha20.KeySize)

	_, err := io.ReadFull(hkdf.New(sha256.New, s.seed, []byte(streamSalt), []byte(label)), key)
	if err != nil {
		return nil, fmt.Errorf("derive key for stream %q: %w", label, err)
	}

	cipher, err := chacha20.NewUnauthenticatedCipher(key, make([]byte, chacha20.NonceSize))
	if err != nil {
		return nil, fmt.Errorf("create stream %q: %w", label, err)
	}

	return &keystream{cipher: cipher}, nil
}

// Nonce returns 16 bytes of the nonce stream encoded as lower-case hex.
func (s *Source) Nonce() (string, error) {
	r, err := s.Stream(StreamNonce)
	if err != nil {
		return "", err
	}

	b := make([]byte, nonceSize)

	if _, err = io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}

	return hex.EncodeToString(b), nil
}

// keystream exposes the raw ChaCha20 keystream as an io.Reader.
type keystream struct {
	cipher *chacha20.Cipher
}

func (k *keystream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}

	k.cipher.XORKeyStream(p, p)

	return len(p), nil
}
