/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package protocol

import (
	"crypto"
	"fmt"
	"io"

	"github.com/hyperledger/aries-sdjwt-examples/pkg/doc/sdjwt/holder"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/doc/sdjwt/issuer"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/doc/sdjwt/verifier"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/keys"
)

// SDJWT implements Protocol with SD-JWT.
type SDJWT struct {
	entropy    io.Reader
	hash       crypto.Hash
	structured bool
}

// Opt configures SDJWT.
type Opt func(p *SDJWT)

// WithHash sets the disclosure digest algorithm (default SHA-256).
func WithHash(hash crypto.Hash) Opt {
	return func(p *SDJWT) {
		p.hash = hash
	}
}

// WithStructuredClaims controls whether nested objects are disclosed claim by claim (default true).
func WithStructuredClaims(flag bool) Opt {
	return func(p *SDJWT) {
		p.structured = flag
	}
}

// NewSDJWT returns an SD-JWT protocol drawing salts and decoy digests from entropy.
func NewSDJWT(entropy io.Reader, opts ...Opt) *SDJWT {
	p := &SDJWT{
		entropy:    entropy,
		hash:       crypto.SHA256,
		structured: true,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Issue creates the SD-JWT and its disclosures.
func (p *SDJWT) Issue(params *IssueParams) (*IssuanceArtifact, error) {
	signer, err := keys.NewSigner(params.IssuerKey)
	if err != nil {
		return nil, err
	}

	opts := []issuer.NewOpt{
		issuer.WithEntropy(p.entropy),
		issuer.WithHashAlgorithm(p.hash),
		issuer.WithStructuredClaims(p.structured),
		issuer.WithDecoyDigests(params.AddDecoys),
		issuer.WithNonSelectivelyDisclosableClaims(params.NonSDClaims),
		issuer.WithIssuedAt(params.IssuedAt),
		issuer.WithExpiry(params.Expiry),
	}

	if params.HolderPublicKey != nil {
		holderJWK, e := keys.PublicJWK(params.HolderPublicKey)
		if e != nil {
			return nil, fmt.Errorf("holder public key: %w", e)
		}

		opts = append(opts, issuer.WithHolderPublicKey(holderJWK))
	}

	token, err := issuer.New(params.Issuer, params.Claims, signer, opts...)
	if err != nil {
		return nil, err
	}

	serialized, err := token.Serialize(false)
	if err != nil {
		return nil, fmt.Errorf("serialize SD-JWT: %w", err)
	}

	combined, err := token.SerializeCombined()
	if err != nil {
		return nil, fmt.Errorf("serialize combined format for issuance: %w", err)
	}

	return &IssuanceArtifact{
		Payload:         token.Payload(),
		SerializedSDJWT: serialized,
		Disclosures:     token.Disclosures,
		Combined:        combined,
	}, nil
}

// NewHolder parses the combined format for issuance.
func (p *SDJWT) NewHolder(combinedIssuance string) (Holder, error) {
	h, err := holder.New(combinedIssuance)
	if err != nil {
		return nil, err
	}

	return &sdJWTHolder{holder: h}, nil
}

// NewVerifier prepares verification of the combined format for presentation.
func (p *SDJWT) NewVerifier(combinedPresentation string) (Verifier, error) {
	return &sdJWTVerifier{verifier: verifier.New(combinedPresentation)}, nil
}

type sdJWTHolder struct {
	holder *holder.Holder
}

func (h *sdJWTHolder) Present(params *PresentParams) (*PresentationArtifact, error) {
	var opts []holder.Option

	if params.HolderKey != nil {
		signer, err := keys.NewSigner(params.HolderKey)
		if err != nil {
			return nil, err
		}

		opts = append(opts, holder.WithHolderBinding(params.Nonce, params.Audience, params.IssuedAt, signer))
	}

	presentation, err := h.holder.CreatePresentation(params.Selector, opts...)
	if err != nil {
		return nil, err
	}

	return &PresentationArtifact{
		Disclosures:          presentation.Disclosures,
		HolderBindingJWT:     presentation.HolderBinding,
		HolderBindingPayload: presentation.HolderBindingPayload,
		Combined:             presentation.Combined,
	}, nil
}

type sdJWTVerifier struct {
	verifier *verifier.Verifier
}

func (v *sdJWTVerifier) Verify(params *VerifyParams) (VerifiedClaims, error) {
	sigVerifier, err := keys.NewVerifier(params.IssuerPublicKey)
	if err != nil {
		return nil, err
	}

	alg, err := keys.Algorithm(params.IssuerPublicKey)
	if err != nil {
		return nil, err
	}

	opts := []verifier.Option{
		verifier.WithIssuerPublicKey(sigVerifier),
		verifier.WithExpectedIssuer(params.Issuer),
		verifier.WithSigningAlgorithms([]string{alg}),
	}

	if params.Audience != "" || params.Nonce != "" {
		opts = append(opts, verifier.WithHolderBinding(params.Audience, params.Nonce))
	}

	claims, err := v.verifier.Verify(opts...)
	if err != nil {
		return nil, err
	}

	return claims, nil
}
