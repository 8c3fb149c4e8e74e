/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

/*
Package verifier enables the Verifier: An entity that requests, checks and
extracts the claims from an SD-JWT and respective Disclosures.
*/
package verifier

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/hyperledger/aries-framework-go/component/kmscrypto/doc/jose"
	"github.com/hyperledger/aries-framework-go/component/log"
	afgjwt "github.com/hyperledger/aries-framework-go/component/models/jwt"
	afgcommon "github.com/hyperledger/aries-framework-go/component/models/sdjwt/common"
	afgverifier "github.com/hyperledger/aries-framework-go/component/models/sdjwt/verifier"

	"github.com/hyperledger/aries-sdjwt-examples/pkg/doc/sdjwt/common"
)

var logger = log.New("sdjwt-examples/verifier")

var (
	// ErrMissingIssuerKey is returned when no issuer key is configured.
	ErrMissingIssuerKey = errors.New("issuer public key is required")
	// ErrIssuerMismatch is returned when the SD-JWT was not issued by the expected issuer.
	ErrIssuerMismatch = errors.New("unexpected issuer")
)

type verifyOpts struct {
	sigVerifier       jose.SignatureVerifier
	expectedIssuer    string
	signingAlgorithms []string

	holderBinding    bool
	expectedAudience string
	expectedNonce    string

	leeway time.Duration
}

// Option is a verifier option.
type Option func(opts *verifyOpts)

// WithIssuerPublicKey sets the verifier of the issuer's SD-JWT signature.
func WithIssuerPublicKey(signatureVerifier jose.SignatureVerifier) Option {
	return func(opts *verifyOpts) {
		opts.sigVerifier = signatureVerifier
	}
}

// WithExpectedIssuer rejects SD-JWTs whose "iss" claim differs from issuer.
func WithExpectedIssuer(issuer string) Option {
	return func(opts *verifyOpts) {
		opts.expectedIssuer = issuer
	}
}

// WithHolderBinding requires a holder binding JWT addressed to audience over nonce.
func WithHolderBinding(audience, nonce string) Option {
	return func(opts *verifyOpts) {
		opts.holderBinding = true
		opts.expectedAudience = audience
		opts.expectedNonce = nonce
	}
}

// WithSigningAlgorithms option is for defining secure signing algorithms, for both issuer and holder.
func WithSigningAlgorithms(algorithms []string) Option {
	return func(opts *verifyOpts) {
		opts.signingAlgorithms = algorithms
	}
}

// WithLeeway is an option for claims time(s) validation.
func WithLeeway(leeway time.Duration) Option {
	return func(opts *verifyOpts) {
		opts.leeway = leeway
	}
}

// Verifier checks a combined format for presentation received from the holder.
type Verifier struct {
	combinedFormatForPresentation string
}

// New returns a verifier for the combined format for presentation.
func New(combinedFormatForPresentation string) *Verifier {
	return &Verifier{combinedFormatForPresentation: combinedFormatForPresentation}
}

// Verify checks the issuer signature, the disclosure digests and, when required, the holder binding, and
// returns the claims the verifier can rely on.
//
// Structured claims whose content was not disclosed at all are dropped instead of being returned as empty
// objects.
func (v *Verifier) Verify(opts ...Option) (map[string]interface{}, error) {
	vOpts := &verifyOpts{
		leeway: jwt.DefaultLeeway,
	}

	for _, opt := range opts {
		opt(vOpts)
	}

	if vOpts.sigVerifier == nil {
		return nil, ErrMissingIssuerKey
	}

	parseOpts := []afgverifier.ParseOpt{
		afgverifier.WithSignatureVerifier(vOpts.sigVerifier),
		afgverifier.WithHolderVerificationRequired(vOpts.holderBinding),
		afgverifier.WithLeewayForClaimsValidation(vOpts.leeway),
	}

	if vOpts.holderBinding {
		parseOpts = append(parseOpts,
			afgverifier.WithExpectedAudienceForHolderVerification(vOpts.expectedAudience),
			afgverifier.WithExpectedNonceForHolderVerification(vOpts.expectedNonce))
	}

	if len(vOpts.signingAlgorithms) > 0 {
		parseOpts = append(parseOpts,
			afgverifier.WithIssuerSigningAlgorithms(vOpts.signingAlgorithms),
			afgverifier.WithHolderSigningAlgorithms(vOpts.signingAlgorithms))
	}

	claims, err := afgverifier.Parse(v.combinedFormatForPresentation, parseOpts...)
	if err != nil {
		return nil, err
	}

	if vOpts.expectedIssuer != "" && claims["iss"] != vOpts.expectedIssuer {
		return nil, fmt.Errorf("%w: '%v' (expected '%s')", ErrIssuerMismatch, claims["iss"], vOpts.expectedIssuer)
	}

	payload, err := v.payload()
	if err != nil {
		return nil, err
	}

	pruneUndisclosed(claims, payload)
	common.NormalizeNumbers(claims)

	logger.Debugf("verified presentation: %d top-level claims (holder binding %t)", len(claims), vOpts.holderBinding)

	return claims, nil
}

// payload returns the already verified SD-JWT payload.
func (v *Verifier) payload() (map[string]interface{}, error) {
	cfp := afgcommon.ParseCombinedFormatForPresentation(v.combinedFormatForPresentation)

	_, payload, err := common.DecodeJWT(cfp.SDJWT)
	if err != nil {
		return nil, err
	}

	return afgjwt.PayloadToMap(payload)
}

// pruneUndisclosed removes objects that only carried digests in the SD-JWT and received no disclosure.
func pruneUndisclosed(claims, payload map[string]interface{}) {
	for key, value := range claims {
		obj, ok := value.(map[string]interface{})
		if !ok {
			continue
		}

		original, ok := payload[key].(map[string]interface{})
		if !ok {
			continue
		}

		if _, structured := original[common.SDKey]; !structured {
			continue
		}

		pruneUndisclosed(obj, original)

		if len(obj) == 0 {
			delete(claims, key)
		}
	}
}
