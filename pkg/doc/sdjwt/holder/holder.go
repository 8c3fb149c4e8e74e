/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package holder enables the Holder: an entity that receives SD-JWTs from the Issuer and has control over them.
package holder

import (
	"fmt"

	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/hyperledger/aries-framework-go/component/kmscrypto/doc/jose"
	"github.com/hyperledger/aries-framework-go/component/log"
	afgjwt "github.com/hyperledger/aries-framework-go/component/models/jwt"
	afgcommon "github.com/hyperledger/aries-framework-go/component/models/sdjwt/common"
	afgholder "github.com/hyperledger/aries-framework-go/component/models/sdjwt/holder"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hyperledger/aries-sdjwt-examples/pkg/doc/sdjwt/common"
)

var logger = log.New("sdjwt-examples/holder")

// Holder keeps a parsed combined format for issuance and builds presentations from it.
type Holder struct {
	combinedFormatForIssuance string

	payload     map[string]interface{}
	disclosures []*common.Disclosure
	byDigest    map[string]*common.Disclosure
}

// New parses the combined format for issuance as received from the issuer.
//
// The holder has no issuer key on the wire, so the SD-JWT signature is not checked here; every disclosure
// must however be referenced by a digest in the SD-JWT.
func New(combinedFormatForIssuance string) (*Holder, error) {
	claims, err := afgholder.Parse(combinedFormatForIssuance,
		afgholder.WithSignatureVerifier(&afgholder.NoopSignatureVerifier{}))
	if err != nil {
		return nil, fmt.Errorf("parse combined format for issuance: %w", err)
	}

	cfi := afgcommon.ParseCombinedFormatForIssuance(combinedFormatForIssuance)

	signedJWT, _, err := afgjwt.Parse(cfi.SDJWT, afgjwt.WithSignatureVerifier(&afgholder.NoopSignatureVerifier{}))
	if err != nil {
		return nil, fmt.Errorf("parse SD-JWT: %w", err)
	}

	hash, err := common.HashFromPayload(signedJWT.Payload)
	if err != nil {
		return nil, err
	}

	disclosures, err := common.DecodeDisclosures(cfi.Disclosures, hash)
	if err != nil {
		return nil, err
	}

	byDigest := make(map[string]*common.Disclosure, len(disclosures))
	for _, d := range disclosures {
		byDigest[d.Digest] = d
	}

	logger.Debugf("holder received SD-JWT with %d selectable claims", len(claims))

	return &Holder{
		combinedFormatForIssuance: combinedFormatForIssuance,
		payload:                   signedJWT.Payload,
		disclosures:               disclosures,
		byDigest:                  byDigest,
	}, nil
}

// Disclosures returns every disclosure received from the issuer, in issuance order.
func (h *Holder) Disclosures() []*common.Disclosure {
	return h.disclosures
}

// Presentation is the holder's output: the selected disclosures, the optional holder binding JWT and the
// combined format for presentation sent to the verifier.
type Presentation struct {
	Disclosures          []*common.Disclosure
	HolderBinding        string
	HolderBindingPayload map[string]interface{}
	Combined             string
}

type options struct {
	bindingInfo *afgholder.BindingInfo
}

// Option is a holder option.
type Option func(opts *options)

// WithHolderBinding adds a holder binding JWT signed by signer over nonce, audience and issuedAt.
func WithHolderBinding(nonce, audience string, issuedAt *jwt.NumericDate, signer jose.Signer) Option {
	return func(opts *options) {
		opts.bindingInfo = &afgholder.BindingInfo{
			Payload: afgholder.BindingPayload{
				Nonce:    nonce,
				Audience: audience,
				IssuedAt: issuedAt,
			},
			Signer: signer,
		}
	}
}

// CreatePresentation selects disclosures with selector and assembles the combined format for presentation.
//
// Selector keys mirror the claim structure. For a claim disclosed as a whole, any truthy value (true, a
// non-empty string, sequence or mapping, a non-zero number) selects it. For a structured claim, a mapping
// selects within it and true selects everything below it. False, null and unknown keys select nothing.
func (h *Holder) CreatePresentation(selector map[string]interface{}, opts ...Option) (*Presentation, error) {
	pOpts := &options{}

	for _, opt := range opts {
		opt(pOpts)
	}

	selected := make(map[string]bool)

	if err := h.selectDisclosures(h.payload, selector, selected, ""); err != nil {
		return nil, err
	}

	var (
		disclosures []*common.Disclosure
		encoded     []string
	)

	for _, d := range h.disclosures {
		if selected[d.Digest] {
			disclosures = append(disclosures, d)
			encoded = append(encoded, d.Encoded)
		}
	}

	combined, err := h.combine(encoded, pOpts.bindingInfo)
	if err != nil {
		return nil, fmt.Errorf("create presentation: %w", err)
	}

	presentation := &Presentation{
		Disclosures: disclosures,
		Combined:    combined,
	}

	if pOpts.bindingInfo != nil {
		cfp := afgcommon.ParseCombinedFormatForPresentation(combined)

		_, payload, e := common.DecodeJWT(cfp.HolderVerification)
		if e != nil {
			return nil, fmt.Errorf("decode holder binding: %w", e)
		}

		presentation.HolderBinding = cfp.HolderVerification

		hbPayload, e := afgjwt.PayloadToMap(payload)
		if e != nil {
			return nil, fmt.Errorf("decode holder binding payload: %w", e)
		}

		presentation.HolderBindingPayload = common.NormalizeNumbers(hbPayload)
	}

	logger.Debugf("holder disclosed %d of %d claims (holder binding %t)",
		len(disclosures), len(h.disclosures), pOpts.bindingInfo != nil)

	return presentation, nil
}

func (h *Holder) combine(disclosures []string, bindingInfo *afgholder.BindingInfo) (string, error) {
	if len(h.disclosures) > 0 {
		var holderOpts []afgholder.Option
		if bindingInfo != nil {
			holderOpts = append(holderOpts, afgholder.WithHolderVerification(bindingInfo))
		}

		return afgholder.CreatePresentation(h.combinedFormatForIssuance, disclosures, holderOpts...)
	}

	// an SD-JWT without disclosures is still presented, with its holder binding if requested
	cf := afgcommon.CombinedFormatForPresentation{
		SDJWT: afgcommon.ParseCombinedFormatForIssuance(h.combinedFormatForIssuance).SDJWT,
	}

	if bindingInfo != nil {
		hb, err := afgholder.CreateHolderVerification(bindingInfo)
		if err != nil {
			return "", fmt.Errorf("failed to create holder verification: %w", err)
		}

		cf.HolderVerification = hb
	}

	return cf.Serialize(), nil
}

func (h *Holder) selectDisclosures(obj, selector map[string]interface{}, selected map[string]bool, path string) error {
	levelByName, err := h.levelDisclosures(obj)
	if err != nil {
		return err
	}

	keys := maps.Keys(selector)
	slices.Sort(keys)

	for _, key := range keys {
		sel := selector[key]

		if d, ok := levelByName[key]; ok {
			if isSelected(sel) {
				selected[d.Digest] = true
			}

			continue
		}

		child, ok := obj[key].(map[string]interface{})
		if _, structured := child[common.SDKey]; !ok || !structured {
			logger.Warnf("selector key '%s%s' does not name a selectively disclosable claim", path, key)

			continue
		}

		if s, isMap := sel.(map[string]interface{}); isMap {
			err = h.selectDisclosures(child, s, selected, path+key+".")
		} else if isSelected(sel) {
			err = h.selectAll(child, selected)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (h *Holder) selectAll(obj map[string]interface{}, selected map[string]bool) error {
	levelByName, err := h.levelDisclosures(obj)
	if err != nil {
		return err
	}

	for _, d := range levelByName {
		selected[d.Digest] = true
	}

	for _, v := range obj {
		if child, ok := v.(map[string]interface{}); ok {
			if err = h.selectAll(child, selected); err != nil {
				return err
			}
		}
	}

	return nil
}

// levelDisclosures maps claim names to the received disclosures referenced by the "_sd" array of obj.
func (h *Holder) levelDisclosures(obj map[string]interface{}) (map[string]*common.Disclosure, error) {
	digests, err := afgcommon.GetDisclosureDigests(obj)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*common.Disclosure, len(digests))

	for digest := range digests {
		if d, ok := h.byDigest[digest]; ok {
			byName[d.Name] = d
		}
	}

	return byName, nil
}

func isSelected(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}
