/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package render writes the artifacts of a run to the console or to a directory.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/samber/lo"
	"github.com/tidwall/pretty"

	"github.com/hyperledger/aries-sdjwt-examples/pkg/doc/sdjwt/common"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var logger = log.New("sdjwt-examples/render")

// serialized tokens get a decoded view in console mode
var tokenLabels = []string{LabelSerializedSDJWT, LabelHBJWTSerialized} //nolint:gochecknoglobals

// Renderer formats artifacts: JSON is indented and wrapped, text is wrapped, markdown is kept as is.
type Renderer struct {
	Indent    int
	WrapWidth int
	Out       io.Writer
}

// New returns a renderer printing to out.
func New(indent, wrapWidth int, out io.Writer) *Renderer {
	return &Renderer{Indent: indent, WrapWidth: wrapWidth, Out: out}
}

// Format returns the rendered content of an artifact.
func (r *Renderer) Format(a Artifact) (string, error) {
	switch a.Kind {
	case KindJSON:
		s, err := r.marshal(a.Content)
		if err != nil {
			return "", fmt.Errorf("format %s: %w", a.Label, err)
		}

		return wrap(s, r.WrapWidth), nil
	case KindText:
		return wrap(fmt.Sprint(a.Content), r.WrapWidth), nil
	case KindMarkdown:
		return fmt.Sprint(a.Content), nil
	default:
		return "", fmt.Errorf("format %s: unknown kind '%s'", a.Label, a.Kind)
	}
}

// WriteDir writes every artifact to <dir>/<name>/<label>.<kind>.
func (r *Renderer) WriteDir(dir, name string, b Bundle) error {
	target := filepath.Join(dir, name)

	if err := os.MkdirAll(target, dirPerm); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, a := range b {
		content, err := r.Format(a)
		if err != nil {
			return err
		}

		path := filepath.Join(target, a.Label+"."+string(a.Kind))

		if err = os.WriteFile(path, []byte(content+"\n"), filePerm); err != nil {
			return fmt.Errorf("write %s: %w", a.Label, err)
		}

		logger.Debugf("wrote %s", path)
	}

	logger.Infof("wrote %d artifacts to %s", len(b), target)

	return nil
}

// Print writes every artifact to the console, followed by a decoded view of the serialized tokens.
func (r *Renderer) Print(b Bundle) error {
	for _, a := range b {
		content, err := r.Format(a)
		if err != nil {
			return err
		}

		if _, err = fmt.Fprintf(r.Out, "%s (%s):\n\n%s\n\n", a.Description, a.Label, content); err != nil {
			return err
		}

		if !lo.Contains(tokenLabels, a.Label) {
			continue
		}

		if err = r.printDecoded(fmt.Sprint(a.Content)); err != nil {
			return fmt.Errorf("decode %s: %w", a.Label, err)
		}
	}

	return nil
}

func (r *Renderer) printDecoded(token string) error {
	header, payload, err := common.DecodeJWT(token)
	if err != nil {
		return err
	}

	opts := &pretty.Options{Width: r.WrapWidth, Indent: strings.Repeat(" ", r.Indent)}

	_, err = fmt.Fprintf(r.Out, "Decoded header:\n\n%s\nDecoded payload:\n\n%s\n",
		pretty.PrettyOptions(header, opts), pretty.PrettyOptions(payload, opts))

	return err
}

func (r *Renderer) marshal(v interface{}) (string, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", r.Indent))

	if err := enc.Encode(v); err != nil {
		return "", err
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// wrap breaks every line longer than width runes. A width of zero or less disables wrapping.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}

	lines := strings.Split(s, "\n")

	var wrapped []string

	for _, line := range lines {
		runes := []rune(line)

		for len(runes) > width {
			wrapped = append(wrapped, string(runes[:width]))
			runes = runes[width:]
		}

		wrapped = append(wrapped, string(runes))
	}

	return strings.Join(wrapped, "\n")
}
