/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package keys

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"math/big"
	"testing"

	"github.com/hyperledger/aries-framework-go/component/kmscrypto/doc/jose"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-sdjwt-examples/pkg/seed"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/settings"
)

func defaultSettings(t *testing.T) *settings.Settings {
	t.Helper()

	s, err := settings.Default()
	require.NoError(t, err)

	return s
}

func TestDerive(t *testing.T) {
	s := defaultSettings(t)

	t.Run("deterministic keys are reproducible", func(t *testing.T) {
		sd := seed.Resolve(true, []byte("example one"))

		m1, err := Derive(s, true, sd)
		require.NoError(t, err)

		m2, err := Derive(s, true, sd)
		require.NoError(t, err)

		require.Equal(t, m1.IssuerKey, m2.IssuerKey)
		require.Equal(t, m1.HolderKey, m2.HolderKey)
		require.Equal(t, m1.IssuerPublicKey, m2.IssuerPublicKey)
		require.NotEqual(t, m1.IssuerKey, m1.HolderKey)
	})

	t.Run("different examples get different keys", func(t *testing.T) {
		m1, err := Derive(s, true, seed.Resolve(true, []byte("example one")))
		require.NoError(t, err)

		m2, err := Derive(s, true, seed.Resolve(true, []byte("example two")))
		require.NoError(t, err)

		require.NotEqual(t, m1.IssuerKey, m2.IssuerKey)
		require.NotEqual(t, m1.HolderKey, m2.HolderKey)
	})

	t.Run("random keys ignore the seed", func(t *testing.T) {
		m1, err := Derive(s, false, big.NewInt(1))
		require.NoError(t, err)

		m2, err := Derive(s, false, big.NewInt(1))
		require.NoError(t, err)

		require.NotEqual(t, m1.IssuerKey, m2.IssuerKey)
		require.IsType(t, ed25519.PublicKey{}, m1.IssuerPublicKey)
	})

	t.Run("deterministic without seed", func(t *testing.T) {
		_, err := Derive(s, true, nil)
		require.ErrorIs(t, err, ErrMissingSeed)
	})

	t.Run("deterministic RSA is rejected", func(t *testing.T) {
		rsaSettings := *s
		rsaSettings.KeyType = settings.KeyTypeRSA

		_, err := Derive(&rsaSettings, true, big.NewInt(1))
		require.ErrorIs(t, err, ErrNotReproducible)
	})

	t.Run("random RSA", func(t *testing.T) {
		rsaSettings := *s
		rsaSettings.KeyType = settings.KeyTypeRSA

		m, err := Derive(&rsaSettings, false, nil)
		require.NoError(t, err)
		require.IsType(t, &rsa.PublicKey{}, m.IssuerPublicKey)
		require.Equal(t, 2048, m.IssuerPublicKey.(*rsa.PublicKey).N.BitLen())
	})

	t.Run("unsupported key type", func(t *testing.T) {
		bad := *s
		bad.KeyType = "EC"

		_, err := Derive(&bad, false, nil)
		require.ErrorIs(t, err, ErrUnsupportedKey)
	})
}

func TestSignerAndVerifier(t *testing.T) {
	msg := []byte("signing input")

	t.Run("Ed25519", func(t *testing.T) {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)

		signer, err := NewSigner(priv)
		require.NoError(t, err)

		sig, err := signer.Sign(msg)
		require.NoError(t, err)

		v, err := NewVerifier(pub)
		require.NoError(t, err)
		require.NoError(t, v.Verify(jose.Headers{jose.HeaderAlgorithm: AlgorithmEdDSA}, nil, msg, sig))

		alg, err := Algorithm(pub)
		require.NoError(t, err)
		require.Equal(t, AlgorithmEdDSA, alg)

		j, err := PublicJWK(pub)
		require.NoError(t, err)
		require.Equal(t, "OKP", j.Kty)
		require.Equal(t, "Ed25519", j.Crv)
	})

	t.Run("RSA", func(t *testing.T) {
		priv, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		signer, err := NewSigner(priv)
		require.NoError(t, err)

		sig, err := signer.Sign(msg)
		require.NoError(t, err)

		v, err := NewVerifier(&priv.PublicKey)
		require.NoError(t, err)
		require.NoError(t, v.Verify(jose.Headers{jose.HeaderAlgorithm: AlgorithmRS256}, nil, msg, sig))

		alg, err := Algorithm(&priv.PublicKey)
		require.NoError(t, err)
		require.Equal(t, AlgorithmRS256, alg)
	})

	t.Run("unsupported", func(t *testing.T) {
		ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)

		_, err = NewSigner(ecKey)
		require.ErrorIs(t, err, ErrUnsupportedKey)

		_, err = NewVerifier(&ecKey.PublicKey)
		require.ErrorIs(t, err, ErrUnsupportedKey)

		_, err = Algorithm(&ecKey.PublicKey)
		require.ErrorIs(t, err, ErrUnsupportedKey)
	})
}
