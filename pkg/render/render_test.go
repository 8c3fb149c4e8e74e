/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-sdjwt-examples/pkg/entropy"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/example"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/keys"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/orchestrator"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/protocol"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/seed"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/settings"
)

const wrapWidth = 70

var printedLabel = regexp.MustCompile(`(?m)^[A-Za-z -]+ \(([a-z_]+)\):$`)

func runExample(t *testing.T, path string) (*example.Spec, *orchestrator.Result) {
	t.Helper()

	r := require.New(t)

	spec, data, err := example.Load(path)
	r.NoError(err)

	s, err := settings.Default()
	r.NoError(err)

	sd := seed.Resolve(true, data)
	src := entropy.New(sd)

	cfg, err := orchestrator.NewRunConfig(s, src, nil, time.Now())
	r.NoError(err)

	km, err := keys.Derive(s, true, sd)
	r.NoError(err)

	p, err := orchestrator.NewSDJWT(s, src)
	r.NoError(err)

	result, err := orchestrator.New(p).Run(spec, cfg, km)
	r.NoError(err)

	return spec, result
}

func TestBuild(t *testing.T) {
	t.Run("with holder binding", func(t *testing.T) {
		spec, result := runExample(t, "testdata/address.yml")

		b, err := Build(spec, result, wrapWidth)
		require.NoError(t, err)

		expected := []string{
			LabelUserClaims, LabelSDJWTPayload, LabelSerializedSDJWT, LabelDisclosures, LabelCombinedIssuance,
			LabelHBJWTPayload, LabelHBJWTSerialized, LabelCombinedPresentation, LabelVerifiedContents,
		}

		if diff := cmp.Diff(expected, b.Labels()); diff != "" {
			t.Errorf("unexpected labels (-want +got):\n%s", diff)
		}

		disclosures := b[3].Content.(string)
		blocks := strings.Split(disclosures, "\n\n__Claim")
		require.Len(t, blocks, len(result.Issuance.Disclosures))
		require.True(t, strings.HasPrefix(disclosures, "__Claim `country`:__"))
		require.Contains(t, disclosures, " * SHA-256 hash: `")
		require.Contains(t, disclosures, `"street_address","123 Main St"]`)

		for _, line := range strings.Split(disclosures, "\n") {
			if strings.HasPrefix(line, "   `Wy") {
				require.LessOrEqual(t, len(strings.TrimSuffix(strings.TrimSpace(line), "\\")), wrapWidth+2)
			}
		}
	})

	t.Run("without holder binding", func(t *testing.T) {
		spec, result := runExample(t, "testdata/alice.yml")

		b, err := Build(spec, result, 0)
		require.NoError(t, err)

		require.NotContains(t, b.Labels(), LabelHBJWTPayload)
		require.NotContains(t, b.Labels(), LabelHBJWTSerialized)
		require.Len(t, b, 7)
	})

	t.Run("absent values are skipped", func(t *testing.T) {
		spec := &example.Spec{UserClaims: map[string]interface{}{}}
		result := &orchestrator.Result{
			Issuance:     &protocol.IssuanceArtifact{SerializedSDJWT: "a.b.c"},
			Presentation: &protocol.PresentationArtifact{},
		}

		b, err := Build(spec, result, 0)
		require.NoError(t, err)
		require.Equal(t, []string{LabelUserClaims, LabelSerializedSDJWT}, b.Labels())
	})

	t.Run("error - disclosures without hash algorithm", func(t *testing.T) {
		result := &orchestrator.Result{
			Issuance:     &protocol.IssuanceArtifact{Payload: map[string]interface{}{}, Disclosures: []string{"WyJhIl0"}},
			Presentation: &protocol.PresentationArtifact{},
		}

		_, err := Build(&example.Spec{}, result, 0)
		require.Error(t, err)
	})
}

func TestRenderer(t *testing.T) {
	t.Run("rendering parity", func(t *testing.T) {
		for _, path := range []string{"testdata/address.yml", "testdata/alice.yml"} {
			spec, result := runExample(t, path)

			b, err := Build(spec, result, wrapWidth)
			require.NoError(t, err)

			dir := t.TempDir()
			renderer := New(4, wrapWidth, &bytes.Buffer{})

			require.NoError(t, renderer.WriteDir(dir, spec.Name(), b))

			entries, err := os.ReadDir(filepath.Join(dir, spec.Name()))
			require.NoError(t, err)

			var written []string
			for _, e := range entries {
				written = append(written, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
			}

			var out bytes.Buffer
			renderer.Out = &out

			require.NoError(t, renderer.Print(b))

			var printed []string
			for _, m := range printedLabel.FindAllStringSubmatch(out.String(), -1) {
				printed = append(printed, m[1])
			}

			require.ElementsMatch(t, written, printed)
			require.ElementsMatch(t, b.Labels(), printed)
		}
	})

	t.Run("directory mode formats", func(t *testing.T) {
		dir := t.TempDir()

		b := Bundle{
			{LabelUserClaims, "User claims", map[string]interface{}{"name": "<Alice>"}, KindJSON},
			{LabelSerializedSDJWT, "Serialized SD-JWT", "abcdefghij", KindText},
			{LabelDisclosures, "Disclosures", "__Claim `name`:__ with a long line", KindMarkdown},
		}

		renderer := New(2, 4, nil)
		require.NoError(t, renderer.WriteDir(dir, "example", b))

		// idempotent
		require.NoError(t, renderer.WriteDir(dir, "example", b))

		content, err := os.ReadFile(filepath.Join(dir, "example", "user_claims.json"))
		require.NoError(t, err)
		require.Equal(t, "{\n  \"n\name\"\n: \"<\nAlic\ne>\"\n}\n", string(content))

		content, err = os.ReadFile(filepath.Join(dir, "example", "serialized_sd_jwt.txt"))
		require.NoError(t, err)
		require.Equal(t, "abcd\nefgh\nij\n", string(content))

		content, err = os.ReadFile(filepath.Join(dir, "example", "disclosures.md"))
		require.NoError(t, err)
		require.Equal(t, "__Claim `name`:__ with a long line\n", string(content))
	})

	t.Run("console mode decodes tokens", func(t *testing.T) {
		var out bytes.Buffer

		b := Bundle{
			// {"alg":"none"}.{"iss":"me"}
			{LabelSerializedSDJWT, "Serialized SD-JWT", "eyJhbGciOiJub25lIn0.eyJpc3MiOiJtZSJ9.", KindText},
			{LabelCombinedIssuance, "Combined format for issuance", "eyJhbGciOiJub25lIn0.eyJpc3MiOiJtZSJ9.~", KindText},
		}

		require.NoError(t, New(4, 0, &out).Print(b))
		require.Equal(t, strings.Join([]string{
			"Serialized SD-JWT (serialized_sd_jwt):",
			"",
			"eyJhbGciOiJub25lIn0.eyJpc3MiOiJtZSJ9.",
			"",
			"Decoded header:",
			"",
			"{",
			`    "alg": "none"`,
			"}",
			"",
			"Decoded payload:",
			"",
			"{",
			`    "iss": "me"`,
			"}",
			"",
			"Combined format for issuance (combined_issuance):",
			"",
			"eyJhbGciOiJub25lIn0.eyJpc3MiOiJtZSJ9.~",
			"",
			"",
		}, "\n"), out.String())
	})

	t.Run("errors", func(t *testing.T) {
		renderer := New(4, 0, &bytes.Buffer{})

		_, err := renderer.Format(Artifact{Label: "x", Content: "y", Kind: "pdf"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "unknown kind 'pdf'")

		_, err = renderer.Format(Artifact{Label: "x", Content: func() {}, Kind: KindJSON})
		require.Error(t, err)

		err = renderer.Print(Bundle{{LabelHBJWTSerialized, "Serialized holder binding JWT", "not a jwt", KindText}})
		require.Error(t, err)
		require.Contains(t, err.Error(), "decode hb_jwt_serialized")

		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, filePerm))

		err = renderer.WriteDir(file, "example", Bundle{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "create output directory")

		err = renderer.Print(Bundle{{LabelUserClaims, "User claims", "x", KindText}})
		require.NoError(t, err)

		renderer.Out = failingWriter{}
		require.Error(t, renderer.Print(Bundle{{LabelUserClaims, "User claims", "x", KindText}}))
	})
}

func TestWrap(t *testing.T) {
	require.Equal(t, "abc", wrap("abc", 0))
	require.Equal(t, "abc", wrap("abc", 3))
	require.Equal(t, "ab\nc\nde\nf", wrap("abc\ndef", 2))
	require.Equal(t, "Mö\nbi\nus", wrap("Möbius", 2))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write error")
}
