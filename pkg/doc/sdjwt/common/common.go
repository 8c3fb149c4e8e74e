/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package common holds the SD-JWT helpers shared by the issuer, holder and verifier roles.
package common

import (
	"crypto"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	josejson "github.com/go-jose/go-jose/v3/json"
	afgcommon "github.com/hyperledger/aries-framework-go/component/models/sdjwt/common"
)

// Reserved SD-JWT claim names.
const (
	SDKey          = afgcommon.SDKey
	SDAlgorithmKey = afgcommon.SDAlgorithmKey
	CNFKey         = afgcommon.CNFKey

	CombinedFormatSeparator = afgcommon.CombinedFormatSeparator
)

const (
	disclosureParts = 3
	saltIndex       = 0
	nameIndex       = 1
	valueIndex      = 2

	jwtParts = 3
)

// Disclosure is a decoded SD-JWT disclosure together with the digest referencing it in the SD-JWT.
type Disclosure struct {
	Encoded string
	Decoded string
	Salt    string
	Name    string
	Value   interface{}
	Digest  string
}

// DecodeDisclosures decodes disclosures and computes their digests with hash.
// The result keeps the order of the input.
func DecodeDisclosures(disclosures []string, hash crypto.Hash) ([]*Disclosure, error) {
	result := make([]*Disclosure, 0, len(disclosures))

	for _, disclosure := range disclosures {
		d, err := DecodeDisclosure(disclosure, hash)
		if err != nil {
			return nil, err
		}

		result = append(result, d)
	}

	return result, nil
}

// DecodeDisclosure decodes a single base64url encoded [salt, name, value] disclosure.
func DecodeDisclosure(disclosure string, hash crypto.Hash) (*Disclosure, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(disclosure)
	if err != nil {
		return nil, fmt.Errorf("failed to decode disclosure: %w", err)
	}

	var disclosureArr []interface{}

	err = json.Unmarshal(decoded, &disclosureArr)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal disclosure array: %w", err)
	}

	if len(disclosureArr) != disclosureParts {
		return nil, fmt.Errorf("disclosure array size[%d] must be %d", len(disclosureArr), disclosureParts)
	}

	salt, ok := disclosureArr[saltIndex].(string)
	if !ok {
		return nil, fmt.Errorf("disclosure salt type[%T] must be string", disclosureArr[saltIndex])
	}

	name, ok := disclosureArr[nameIndex].(string)
	if !ok {
		return nil, fmt.Errorf("disclosure name type[%T] must be string", disclosureArr[nameIndex])
	}

	digest, err := afgcommon.GetHash(hash, disclosure)
	if err != nil {
		return nil, fmt.Errorf("hash disclosure: %w", err)
	}

	return &Disclosure{
		Encoded: disclosure,
		Decoded: string(decoded),
		Salt:    salt,
		Name:    name,
		Value:   disclosureArr[valueIndex],
		Digest:  digest,
	}, nil
}

// DecodeJWT returns the decoded header and payload segments of a compact serialized JWT.
// The signature is not checked.
func DecodeJWT(serialized string) ([]byte, []byte, error) {
	parts := strings.Split(serialized, ".")
	if len(parts) != jwtParts {
		return nil, nil, fmt.Errorf("JWT must have %d parts, got %d", jwtParts, len(parts))
	}

	header, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("decode JWT header: %w", err)
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, nil, fmt.Errorf("decode JWT payload: %w", err)
	}

	return header, payload, nil
}

// HashFromPayload returns the digest function announced by the "_sd_alg" claim of an SD-JWT payload.
func HashFromPayload(payload map[string]interface{}) (crypto.Hash, error) {
	return afgcommon.GetCryptoHashFromClaims(payload)
}

// HashName returns the "_sd_alg" name of a digest function.
func HashName(hash crypto.Hash) string {
	return strings.ToLower(hash.String())
}

// NormalizeNumbers replaces the json.Number values produced by aries payload decoding with int64, or float64
// for non-integral numbers, in place and recursively. Without it encoding/json renders such numbers as strings.
func NormalizeNumbers(claims map[string]interface{}) map[string]interface{} {
	for k, v := range claims {
		claims[k] = normalizeNumber(v)
	}

	return claims
}

func normalizeNumber(v interface{}) interface{} {
	switch t := v.(type) {
	case josejson.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}

		if f, err := t.Float64(); err == nil {
			return f
		}

		return t.String()
	case map[string]interface{}:
		return NormalizeNumbers(t)
	case []interface{}:
		for i := range t {
			t[i] = normalizeNumber(t[i])
		}

		return t
	default:
		return v
	}
}
