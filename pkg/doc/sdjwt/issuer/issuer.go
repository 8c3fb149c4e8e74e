/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package issuer enables the Issuer: an entity that creates SD-JWTs.
//
// Output is reproducible: claims are visited in sorted key order, the digests of every "_sd" array are sorted,
// and salts and decoy digests are drawn from an explicit entropy reader. Given the same reader contents,
// claims and key the issuer produces byte-identical tokens.
package issuer

import (
	"crypto"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/hyperledger/aries-framework-go/component/kmscrypto/doc/jose"
	"github.com/hyperledger/aries-framework-go/component/kmscrypto/doc/jose/jwk"
	"github.com/hyperledger/aries-framework-go/component/log"
	afgjwt "github.com/hyperledger/aries-framework-go/component/models/jwt"
	afgcommon "github.com/hyperledger/aries-framework-go/component/models/sdjwt/common"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hyperledger/aries-sdjwt-examples/pkg/doc/sdjwt/common"
)

const (
	defaultHash     = crypto.SHA256
	defaultSaltSize = 128 / 8

	decoyMinElements = 1
	decoyMaxElements = 4
)

var logger = log.New("sdjwt-examples/issuer")

var (
	// ErrReservedClaim is returned when input claims use a name the SD-JWT payload reserves.
	ErrReservedClaim = errors.New("reserved claim name")
	// ErrClaimConflict is returned when a claim is both selectively disclosable and always disclosed.
	ErrClaimConflict = errors.New("claim is both selectively disclosable and non-selectively disclosable")
)

// nolint:gochecknoglobals
var reservedClaims = []string{"iss", "iat", "exp", "nbf", common.CNFKey, common.SDKey, common.SDAlgorithmKey}

// newOpts holds options for creating new SD-JWT.
type newOpts struct {
	Expiry   *jwt.NumericDate
	IssuedAt *jwt.NumericDate

	HolderPublicKey *jwk.JWK

	HashAlg crypto.Hash

	nonSDClaims map[string]interface{}
	headers     jose.Headers

	entropy     io.Reader
	jsonMarshal func(v interface{}) ([]byte, error)
	getSalt     func() (string, error)

	addDecoyDigests  bool
	structuredClaims bool
}

// NewOpt is the SD-JWT New option.
type NewOpt func(opts *newOpts)

// WithJSONMarshaller is option is for marshalling disclosure.
func WithJSONMarshaller(jsonMarshal func(v interface{}) ([]byte, error)) NewOpt {
	return func(opts *newOpts) {
		opts.jsonMarshal = jsonMarshal
	}
}

// WithSaltFnc overrides salt generation. By default salts are read from the entropy reader.
func WithSaltFnc(fnc func() (string, error)) NewOpt {
	return func(opts *newOpts) {
		opts.getSalt = fnc
	}
}

// WithEntropy sets the reader salts and decoy digests are drawn from (default is crypto/rand).
func WithEntropy(r io.Reader) NewOpt {
	return func(opts *newOpts) {
		opts.entropy = r
	}
}

// WithIssuedAt is an option for SD-JWT payload.
func WithIssuedAt(issuedAt *jwt.NumericDate) NewOpt {
	return func(opts *newOpts) {
		opts.IssuedAt = issuedAt
	}
}

// WithExpiry is an option for SD-JWT payload.
func WithExpiry(expiry *jwt.NumericDate) NewOpt {
	return func(opts *newOpts) {
		opts.Expiry = expiry
	}
}

// WithHolderPublicKey binds the SD-JWT to a holder key through the "cnf" claim.
func WithHolderPublicKey(jwk *jwk.JWK) NewOpt {
	return func(opts *newOpts) {
		opts.HolderPublicKey = jwk
	}
}

// WithHashAlgorithm is an option for hashing disclosures.
func WithHashAlgorithm(alg crypto.Hash) NewOpt {
	return func(opts *newOpts) {
		opts.HashAlg = alg
	}
}

// WithDecoyDigests is an option for adding decoy digests(default is false).
func WithDecoyDigests(flag bool) NewOpt {
	return func(opts *newOpts) {
		opts.addDecoyDigests = flag
	}
}

// WithStructuredClaims is an option for handling structured claims(default is false).
func WithStructuredClaims(flag bool) NewOpt {
	return func(opts *newOpts) {
		opts.structuredClaims = flag
	}
}

// WithNonSelectivelyDisclosableClaims adds claims that are always disclosed in clear.
func WithNonSelectivelyDisclosableClaims(claims map[string]interface{}) NewOpt {
	return func(opts *newOpts) {
		opts.nonSDClaims = claims
	}
}

// WithHeaders adds JOSE headers to the SD-JWT.
func WithHeaders(headers jose.Headers) NewOpt {
	return func(opts *newOpts) {
		opts.headers = headers
	}
}

// SelectiveDisclosureJWT defines Selective Disclosure JSON Web Token (https://tools.ietf.org/html/rfc7519)
type SelectiveDisclosureJWT struct {
	SignedJWT   *afgjwt.JSONWebToken
	Disclosures []string
}

// New creates new signed Selective Disclosure JWT based on input claims.
func New(issuer string, claims map[string]interface{}, signer jose.Signer,
	opts ...NewOpt) (*SelectiveDisclosureJWT, error) {
	nOpts := &newOpts{
		jsonMarshal: json.Marshal,
		HashAlg:     defaultHash,
		entropy:     rand.Reader,
	}

	for _, opt := range opts {
		opt(nOpts)
	}

	if nOpts.getSalt == nil {
		nOpts.getSalt = saltFromReader(nOpts.entropy)
	}

	if err := checkClaims(claims, nOpts.nonSDClaims); err != nil {
		return nil, err
	}

	disclosures, digests, err := createDisclosuresAndDigests(claims, nOpts)
	if err != nil {
		return nil, err
	}

	payload, err := createPayload(issuer, digests, nOpts)
	if err != nil {
		return nil, err
	}

	signedJWT, err := afgjwt.NewSigned(payload, nOpts.headers, signer)
	if err != nil {
		return nil, fmt.Errorf("failed to create SD-JWT from payload[%+v]: %w", payload, err)
	}

	logger.Debugf("issued SD-JWT with %d disclosures", len(disclosures))

	return &SelectiveDisclosureJWT{Disclosures: disclosures, SignedJWT: signedJWT}, nil
}

// DecodeClaims fills input c with claims of a token.
func (j *SelectiveDisclosureJWT) DecodeClaims(c interface{}) error {
	return j.SignedJWT.DecodeClaims(c)
}

// Payload returns the SD-JWT payload with digests in place of selectively disclosable claims.
func (j *SelectiveDisclosureJWT) Payload() map[string]interface{} {
	return j.SignedJWT.Payload
}

// Serialize makes (compact) serialization of the signed SD-JWT alone.
func (j *SelectiveDisclosureJWT) Serialize(detached bool) (string, error) {
	if j.SignedJWT == nil {
		return "", errors.New("JWS serialization is supported only")
	}

	return j.SignedJWT.Serialize(detached)
}

// SerializeCombined makes the combined format for issuance: the signed SD-JWT followed by every disclosure.
func (j *SelectiveDisclosureJWT) SerializeCombined() (string, error) {
	signedJWT, err := j.Serialize(false)
	if err != nil {
		return "", err
	}

	cf := afgcommon.CombinedFormatForIssuance{
		SDJWT:       signedJWT,
		Disclosures: j.Disclosures,
	}

	return cf.Serialize(), nil
}

func checkClaims(claims, nonSDClaims map[string]interface{}) error {
	for _, name := range reservedClaims {
		if _, ok := claims[name]; ok {
			return fmt.Errorf("%w: '%s'", ErrReservedClaim, name)
		}

		if _, ok := nonSDClaims[name]; ok {
			return fmt.Errorf("%w: '%s'", ErrReservedClaim, name)
		}
	}

	if afgcommon.KeyExistsInMap(common.SDKey, claims) || afgcommon.KeyExistsInMap(common.SDKey, nonSDClaims) {
		return fmt.Errorf("%w: '%s'", ErrReservedClaim, common.SDKey)
	}

	for name := range claims {
		if _, ok := nonSDClaims[name]; ok {
			return fmt.Errorf("%w: '%s'", ErrClaimConflict, name)
		}
	}

	return nil
}

func createPayload(issuer string, digests map[string]interface{}, nOpts *newOpts) (map[string]interface{}, error) {
	var cnf map[string]interface{}
	if nOpts.HolderPublicKey != nil {
		cnf = map[string]interface{}{"jwk": nOpts.HolderPublicKey}
	}

	p := &payload{
		Issuer:   issuer,
		IssuedAt: nOpts.IssuedAt,
		Expiry:   nOpts.Expiry,
		CNF:      cnf,
		SDAlg:    common.HashName(nOpts.HashAlg),
	}

	pBytes, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	claims, err := afgjwt.PayloadToMap(pBytes)
	if err != nil {
		return nil, fmt.Errorf("convert payload to map: %w", err)
	}

	for k, v := range digests {
		claims[k] = v
	}

	for k, v := range nOpts.nonSDClaims {
		claims[k] = v
	}

	return common.NormalizeNumbers(claims), nil
}

func createDisclosuresAndDigests(claims map[string]interface{}, opts *newOpts) ([]string, map[string]interface{}, error) { // nolint:lll
	var disclosures []string

	var digests []string

	digestsMap := make(map[string]interface{})

	keys := maps.Keys(claims)
	slices.Sort(keys)

	for _, key := range keys {
		value := claims[key]

		if obj, ok := value.(map[string]interface{}); ok && opts.structuredClaims && len(obj) > 0 {
			nestedDisclosures, nestedDigestsMap, e := createDisclosuresAndDigests(obj, opts)
			if e != nil {
				return nil, nil, e
			}

			digestsMap[key] = nestedDigestsMap

			disclosures = append(disclosures, nestedDisclosures...)

			continue
		}

		disclosure, e := createDisclosure(key, value, opts)
		if e != nil {
			return nil, nil, fmt.Errorf("create disclosure: %w", e)
		}

		digest, e := afgcommon.GetHash(opts.HashAlg, disclosure)
		if e != nil {
			return nil, nil, fmt.Errorf("hash disclosure: %w", e)
		}

		disclosures = append(disclosures, disclosure)
		digests = append(digests, digest)
	}

	decoyDigests, err := createDecoyDigests(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create decoy disclosures: %w", err)
	}

	digests = append(digests, decoyDigests...)

	// sorting hides the claim order of the input
	slices.Sort(digests)

	if digests == nil {
		digests = []string{}
	}

	digestsMap[common.SDKey] = digests

	return disclosures, digestsMap, nil
}

func createDecoyDigests(opts *newOpts) ([]string, error) {
	if !opts.addDecoyDigests {
		return nil, nil
	}

	var b [1]byte

	if _, err := io.ReadFull(opts.entropy, b[:]); err != nil {
		return nil, fmt.Errorf("read decoy count: %w", err)
	}

	n := int(b[0])%(decoyMaxElements-decoyMinElements+1) + decoyMinElements

	decoys := make([]string, 0, n)

	for i := 0; i < n; i++ {
		salt, err := opts.getSalt()
		if err != nil {
			return nil, err
		}

		digest, err := afgcommon.GetHash(opts.HashAlg, salt)
		if err != nil {
			return nil, fmt.Errorf("hash decoy: %w", err)
		}

		decoys = append(decoys, digest)
	}

	return decoys, nil
}

func createDisclosure(key string, value interface{}, opts *newOpts) (string, error) {
	salt, err := opts.getSalt()
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	disclosure := []interface{}{salt, key, value}

	disclosureBytes, err := opts.jsonMarshal(disclosure)
	if err != nil {
		return "", fmt.Errorf("marshal disclosure: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(disclosureBytes), nil
}

func saltFromReader(r io.Reader) func() (string, error) {
	return func() (string, error) {
		salt := make([]byte, defaultSaltSize)

		if _, err := io.ReadFull(r, salt); err != nil {
			return "", err
		}

		// it is RECOMMENDED to base64url-encode the salt value, producing a string.
		return base64.RawURLEncoding.EncodeToString(salt), nil
	}
}

// payload represents the registered part of the SD-JWT payload.
type payload struct {
	Issuer string `json:"iss,omitempty"`

	Expiry   *jwt.NumericDate `json:"exp,omitempty"`
	IssuedAt *jwt.NumericDate `json:"iat,omitempty"`

	CNF map[string]interface{} `json:"cnf,omitempty"`

	SDAlg string `json:"_sd_alg,omitempty"`
}
