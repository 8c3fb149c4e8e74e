/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package render

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/hyperledger/aries-sdjwt-examples/pkg/doc/sdjwt/common"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/example"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/orchestrator"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/protocol"
)

// Kind is the content kind of an artifact. Its value is the file extension used in directory mode.
type Kind string

// Content kinds.
const (
	KindJSON     Kind = "json"
	KindText     Kind = "txt"
	KindMarkdown Kind = "md"
)

// Artifact labels.
const (
	LabelUserClaims           = "user_claims"
	LabelSDJWTPayload         = "sd_jwt_payload"
	LabelSerializedSDJWT      = "serialized_sd_jwt"
	LabelDisclosures          = "disclosures"
	LabelCombinedIssuance     = "combined_issuance"
	LabelHBJWTPayload         = "hb_jwt_payload"
	LabelHBJWTSerialized      = "hb_jwt_serialized"
	LabelCombinedPresentation = "combined_presentation"
	LabelVerifiedContents     = "verified_contents"
)

// Artifact is one rendered output of a run.
type Artifact struct {
	Label       string
	Description string
	Content     interface{}
	Kind        Kind
}

// Bundle is the ordered list of artifacts of a run.
type Bundle []Artifact

// Labels returns the artifact labels in bundle order.
func (b Bundle) Labels() []string {
	return lo.Map(b, func(a Artifact, _ int) string {
		return a.Label
	})
}

// Build assembles the bundle of a run. Artifacts without a value, such as the holder binding JWT of an
// example without holder binding, are left out.
func Build(spec *example.Spec, result *orchestrator.Result, wrapWidth int) (Bundle, error) {
	disclosures, err := disclosuresMarkdown(result.Issuance, wrapWidth)
	if err != nil {
		return nil, err
	}

	all := Bundle{
		{LabelUserClaims, "User claims", spec.UserClaims, KindJSON},
		{LabelSDJWTPayload, "Payload of the SD-JWT", result.Issuance.Payload, KindJSON},
		{LabelSerializedSDJWT, "Serialized SD-JWT", result.Issuance.SerializedSDJWT, KindText},
		{LabelDisclosures, "Disclosures", disclosures, KindMarkdown},
		{LabelCombinedIssuance, "Combined format for issuance", result.Issuance.Combined, KindText},
		{LabelHBJWTPayload, "Payload of the holder binding JWT", result.Presentation.HolderBindingPayload, KindJSON},
		{LabelHBJWTSerialized, "Serialized holder binding JWT", result.Presentation.HolderBindingJWT, KindText},
		{LabelCombinedPresentation, "Combined format for presentation", result.Presentation.Combined, KindText},
		{LabelVerifiedContents, "Verified contents", result.Verified, KindJSON},
	}

	return lo.Reject(all, func(a Artifact, _ int) bool {
		return absent(a.Content)
	}), nil
}

func absent(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case map[string]interface{}:
		return t == nil
	case protocol.VerifiedClaims:
		return t == nil
	default:
		return false
	}
}

// disclosuresMarkdown lists every issued disclosure, in issuance order, with its digest and decoded contents.
func disclosuresMarkdown(issuance *protocol.IssuanceArtifact, wrapWidth int) (string, error) {
	if len(issuance.Disclosures) == 0 {
		return "", nil
	}

	hash, err := common.HashFromPayload(issuance.Payload)
	if err != nil {
		return "", err
	}

	disclosures, err := common.DecodeDisclosures(issuance.Disclosures, hash)
	if err != nil {
		return "", fmt.Errorf("decode disclosures: %w", err)
	}

	hashName := strings.ToUpper(common.HashName(hash))

	blocks := lo.Map(disclosures, func(d *common.Disclosure, _ int) string {
		lines := strings.Split(wrap(d.Encoded, wrapWidth), "\n")

		encoded := lo.Map(lines, func(line string, _ int) string {
			return "   `" + line + "`"
		})

		return fmt.Sprintf("__Claim `%s`:__\n\n * %s hash: `%s`\n * Disclosure:\\\n%s\n * Contents:\n   `%s`\n",
			d.Name, hashName, d.Digest, strings.Join(encoded, "\\\n"), d.Decoded)
	})

	return strings.Join(blocks, "\n"), nil
}
