/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package protocol defines the issuer, holder and verifier roles driven by the orchestrator and the
// artifacts they exchange.
package protocol

import (
	"crypto"

	"github.com/go-jose/go-jose/v3/jwt"

	"github.com/hyperledger/aries-sdjwt-examples/pkg/doc/sdjwt/common"
)

//go:generate mockgen -destination ../internal/gomocks/protocol/mocks.gen.go -package protocol -source=protocol.go

// Protocol creates the three roles of a selective disclosure exchange.
//
// NewHolder and NewVerifier receive the serialized artifact the role would receive on the wire and nothing else.
type Protocol interface {
	Issue(params *IssueParams) (*IssuanceArtifact, error)
	NewHolder(combinedIssuance string) (Holder, error)
	NewVerifier(combinedPresentation string) (Verifier, error)
}

// Holder presents a subset of the issued claims.
type Holder interface {
	Present(params *PresentParams) (*PresentationArtifact, error)
}

// Verifier checks a presentation and returns the claims it can rely on.
type Verifier interface {
	Verify(params *VerifyParams) (VerifiedClaims, error)
}

// IssueParams are the issuer inputs.
type IssueParams struct {
	Issuer      string
	IssuerKey   crypto.Signer
	Claims      map[string]interface{}
	NonSDClaims map[string]interface{}

	// HolderPublicKey binds the token to the holder when set.
	HolderPublicKey crypto.PublicKey

	IssuedAt  *jwt.NumericDate
	Expiry    *jwt.NumericDate
	AddDecoys bool
}

// PresentParams are the holder inputs. A holder binding JWT is created only when HolderKey is set.
type PresentParams struct {
	Selector map[string]interface{}

	Nonce     string
	Audience  string
	HolderKey crypto.Signer
	IssuedAt  *jwt.NumericDate
}

// VerifyParams are the verifier inputs. A holder binding is required only when Audience or Nonce is set.
type VerifyParams struct {
	IssuerPublicKey crypto.PublicKey
	Issuer          string

	Audience string
	Nonce    string
}

// IssuanceArtifact is the issuer output.
type IssuanceArtifact struct {
	// Payload is the SD-JWT payload, with digests in place of the selectively disclosable claims.
	Payload         map[string]interface{}
	SerializedSDJWT string
	Disclosures     []string
	// Combined is the combined format for issuance sent to the holder.
	Combined string
}

// PresentationArtifact is the holder output.
type PresentationArtifact struct {
	Disclosures          []*common.Disclosure
	HolderBindingJWT     string
	HolderBindingPayload map[string]interface{}
	// Combined is the combined format for presentation sent to the verifier.
	Combined string
}

// VerifiedClaims are the claims a verifier accepted.
type VerifiedClaims map[string]interface{}
