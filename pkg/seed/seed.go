/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package seed derives the seed of a deterministic generator run.
package seed

import (
	"crypto/sha256"
	"math/big"
)

// Resolve returns nil when deterministic is false. Otherwise it returns the SHA-256 digest of the raw
// example bytes read as a big-endian unsigned integer, so that every example gets its own key material.
func Resolve(deterministic bool, example []byte) *big.Int {
	if !deterministic {
		return nil
	}

	digest := sha256.Sum256(example)

	return new(big.Int).SetBytes(digest[:])
}
