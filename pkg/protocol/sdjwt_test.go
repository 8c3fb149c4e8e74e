/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package protocol

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v3/jwt"
	afgcommon "github.com/hyperledger/aries-framework-go/component/models/sdjwt/common"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-sdjwt-examples/pkg/entropy"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/keys"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/settings"
)

const (
	testIssuer   = "https://example.com/issuer"
	testVerifier = "https://example.com/verifier"
	testNonce    = "2d1a8a5bbd1f4d0c7f0b2c31b6c3e9a4"
)

var _ Protocol = (*SDJWT)(nil)

func TestSDJWT(t *testing.T) {
	r := require.New(t)

	material := deriveKeys(t)

	now := time.Now()
	iat := jwt.NewNumericDate(now)
	exp := jwt.NewNumericDate(now.Add(15 * time.Minute))

	issueParams := func(binding bool) *IssueParams {
		params := &IssueParams{
			Issuer:    testIssuer,
			IssuerKey: material.IssuerKey,
			Claims: map[string]interface{}{
				"given_name": "Alice",
				"age":        30,
				"address":    map[string]interface{}{"locality": "Berlin", "country": "DE"},
			},
			NonSDClaims: map[string]interface{}{"sub": "user_42"},
			IssuedAt:    iat,
			Expiry:      exp,
			AddDecoys:   true,
		}

		if binding {
			params.HolderPublicKey = material.HolderKey.Public()
		}

		return params
	}

	t.Run("success - without holder binding", func(t *testing.T) {
		p := NewSDJWT(rand.Reader)

		issuance, err := p.Issue(issueParams(false))
		r.NoError(err)
		r.Len(issuance.Disclosures, 4)
		r.Equal(testIssuer, issuance.Payload["iss"])
		r.Equal("user_42", issuance.Payload["sub"])
		r.NotContains(issuance.Payload, "cnf")
		r.True(strings.HasPrefix(issuance.Combined, issuance.SerializedSDJWT+afgcommon.CombinedFormatSeparator))

		h, err := p.NewHolder(issuance.Combined)
		r.NoError(err)

		presentation, err := h.Present(&PresentParams{
			Selector: map[string]interface{}{"given_name": true, "address": map[string]interface{}{"country": true}},
			IssuedAt: iat,
		})
		r.NoError(err)
		r.Len(presentation.Disclosures, 2)
		r.Empty(presentation.HolderBindingJWT)
		r.Nil(presentation.HolderBindingPayload)

		v, err := p.NewVerifier(presentation.Combined)
		r.NoError(err)

		claims, err := v.Verify(&VerifyParams{IssuerPublicKey: material.IssuerPublicKey, Issuer: testIssuer})
		r.NoError(err)
		r.Equal("Alice", claims["given_name"])
		r.Equal(map[string]interface{}{"country": "DE"}, claims["address"])
		r.Equal("user_42", claims["sub"])
		r.NotContains(claims, "age")
	})

	t.Run("success - with holder binding", func(t *testing.T) {
		p := NewSDJWT(rand.Reader, WithStructuredClaims(false))

		issuance, err := p.Issue(issueParams(true))
		r.NoError(err)
		r.Len(issuance.Disclosures, 3)
		r.Contains(issuance.Payload, "cnf")

		h, err := p.NewHolder(issuance.Combined)
		r.NoError(err)

		presentation, err := h.Present(&PresentParams{
			Selector:  map[string]interface{}{"age": true},
			Nonce:     testNonce,
			Audience:  testVerifier,
			HolderKey: material.HolderKey,
			IssuedAt:  iat,
		})
		r.NoError(err)
		r.NotEmpty(presentation.HolderBindingJWT)
		r.Equal(testNonce, presentation.HolderBindingPayload["nonce"])
		r.Equal(testVerifier, presentation.HolderBindingPayload["aud"])

		v, err := p.NewVerifier(presentation.Combined)
		r.NoError(err)

		claims, err := v.Verify(&VerifyParams{
			IssuerPublicKey: material.IssuerPublicKey,
			Issuer:          testIssuer,
			Audience:        testVerifier,
			Nonce:           testNonce,
		})
		r.NoError(err)
		r.Equal(float64(30), claims["age"])

		_, err = v.Verify(&VerifyParams{
			IssuerPublicKey: material.IssuerPublicKey,
			Issuer:          testIssuer,
			Audience:        testVerifier,
			Nonce:           "other",
		})
		r.Error(err)
	})

	t.Run("reproducible with a deterministic entropy source", func(t *testing.T) {
		seed := big.NewInt(42)

		issue := func() *IssuanceArtifact {
			stream, err := entropy.New(seed).Stream(entropy.StreamIssuance)
			r.NoError(err)

			issuance, err := NewSDJWT(stream, WithHash(crypto.SHA256)).Issue(issueParams(true))
			r.NoError(err)

			return issuance
		}

		first, second := issue(), issue()
		r.Equal(first.Combined, second.Combined)
		r.Equal(first.Payload, second.Payload)
	})

	t.Run("error - issuer rejects claims", func(t *testing.T) {
		params := issueParams(false)
		params.NonSDClaims = map[string]interface{}{"given_name": "Bob"}

		_, err := NewSDJWT(rand.Reader).Issue(params)
		r.Error(err)
	})

	t.Run("error - unsupported keys", func(t *testing.T) {
		ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		r.NoError(err)

		params := issueParams(false)
		params.IssuerKey = ecKey

		_, err = NewSDJWT(rand.Reader).Issue(params)
		r.ErrorIs(err, keys.ErrUnsupportedKey)

		params = issueParams(false)
		params.HolderPublicKey = "not a key"

		_, err = NewSDJWT(rand.Reader).Issue(params)
		r.Error(err)
		r.Contains(err.Error(), "holder public key")

		issuance, err := NewSDJWT(rand.Reader).Issue(issueParams(false))
		r.NoError(err)

		h, err := NewSDJWT(rand.Reader).NewHolder(issuance.Combined)
		r.NoError(err)

		_, err = h.Present(&PresentParams{HolderKey: ecKey})
		r.ErrorIs(err, keys.ErrUnsupportedKey)

		v, err := NewSDJWT(rand.Reader).NewVerifier(issuance.SerializedSDJWT + afgcommon.CombinedFormatSeparator)
		r.NoError(err)

		_, err = v.Verify(&VerifyParams{IssuerPublicKey: ecKey.Public()})
		r.ErrorIs(err, keys.ErrUnsupportedKey)
	})

	t.Run("error - holder rejects input", func(t *testing.T) {
		_, err := NewSDJWT(rand.Reader).NewHolder("not a JWT")
		r.Error(err)
	})

	t.Run("error - verifier rejects wrong issuer key", func(t *testing.T) {
		p := NewSDJWT(rand.Reader)

		issuance, err := p.Issue(issueParams(false))
		r.NoError(err)

		otherPub, _, err := ed25519.GenerateKey(rand.Reader)
		r.NoError(err)

		v, err := p.NewVerifier(issuance.SerializedSDJWT + afgcommon.CombinedFormatSeparator)
		r.NoError(err)

		_, err = v.Verify(&VerifyParams{IssuerPublicKey: otherPub, Issuer: testIssuer})
		r.Error(err)
	})
}

func deriveKeys(t *testing.T) *keys.Material {
	t.Helper()

	s, err := settings.Default()
	require.NoError(t, err)

	material, err := keys.Derive(s, false, nil)
	require.NoError(t, err)

	return material
}
