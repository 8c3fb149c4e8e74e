/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package orchestrator runs the issuer, holder and verifier of an example in sequence.
//
// Each role only receives the artifact it would receive on the wire: the holder is created from the
// combined format for issuance, the verifier from the combined format for presentation. The issuer never
// learns which claims the holder discloses.
package orchestrator

import (
	"crypto"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-sdjwt-examples/pkg/entropy"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/example"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/keys"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/protocol"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/settings"
)

var logger = log.New("sdjwt-examples/orchestrator")

// Result holds the artifacts of one run, in the order they were produced.
type Result struct {
	Issuance     *protocol.IssuanceArtifact
	Presentation *protocol.PresentationArtifact
	Verified     protocol.VerifiedClaims
}

// Orchestrator drives the roles of a protocol.
type Orchestrator struct {
	protocol protocol.Protocol
}

// New returns an orchestrator for p.
func New(p protocol.Protocol) *Orchestrator {
	return &Orchestrator{protocol: p}
}

// NewSDJWT returns the SD-JWT protocol of a run: salts and decoy digests come from the issuance stream of
// src and disclosures are hashed with the settings' hash algorithm.
func NewSDJWT(s *settings.Settings, src *entropy.Source) (*protocol.SDJWT, error) {
	hash, err := s.Hash()
	if err != nil {
		return nil, err
	}

	stream, err := src.Stream(entropy.StreamIssuance)
	if err != nil {
		return nil, err
	}

	return protocol.NewSDJWT(stream, protocol.WithHash(hash)), nil
}

// Run issues, presents and verifies the example. Role errors are returned wrapped with the failing step.
func (o *Orchestrator) Run(spec *example.Spec, cfg *RunConfig, km *keys.Material) (*Result, error) {
	binding := spec.HolderBinding

	var holderPublicKey crypto.PublicKey
	if binding {
		holderPublicKey = km.HolderKey.Public()
	}

	issuance, err := o.protocol.Issue(&protocol.IssueParams{
		Issuer:          cfg.IssuerID,
		IssuerKey:       km.IssuerKey,
		Claims:          spec.UserClaims,
		NonSDClaims:     spec.NonSDClaims,
		HolderPublicKey: holderPublicKey,
		IssuedAt:        cfg.IssuedAt,
		Expiry:          cfg.Expiry,
		AddDecoys:       spec.AddDecoyClaims,
	})
	if err != nil {
		return nil, fmt.Errorf("issue: %w", err)
	}

	logger.Debugf("issued SD-JWT with %d disclosures", len(issuance.Disclosures))

	holder, err := o.protocol.NewHolder(issuance.Combined)
	if err != nil {
		return nil, fmt.Errorf("holder: %w", err)
	}

	presentParams := &protocol.PresentParams{
		Selector: spec.HolderDisclosedClaims,
		IssuedAt: cfg.IssuedAt,
	}

	if binding {
		presentParams.Nonce = cfg.Nonce
		presentParams.Audience = cfg.VerifierID
		presentParams.HolderKey = km.HolderKey
	}

	presentation, err := holder.Present(presentParams)
	if err != nil {
		return nil, fmt.Errorf("present: %w", err)
	}

	logger.Debugf("holder presents %d disclosures", len(presentation.Disclosures))

	verifier, err := o.protocol.NewVerifier(presentation.Combined)
	if err != nil {
		return nil, fmt.Errorf("verifier: %w", err)
	}

	verifyParams := &protocol.VerifyParams{
		IssuerPublicKey: km.IssuerPublicKey,
		Issuer:          cfg.IssuerID,
	}

	if binding {
		verifyParams.Audience = cfg.VerifierID
		verifyParams.Nonce = cfg.Nonce
	}

	verified, err := verifier.Verify(verifyParams)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	logger.Debugf("verified %d claims", len(verified))

	return &Result{
		Issuance:     issuance,
		Presentation: presentation,
		Verified:     verified,
	}, nil
}
