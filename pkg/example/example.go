/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package example loads and validates SD-JWT example files.
//
// An example file is a YAML mapping with the claim set handed to the issuer, the claims always disclosed
// in clear, and the selector the holder applies when building a presentation.
package example

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

var logger = log.New("sdjwt-examples/example")

var schemaLoader = gojsonschema.NewStringLoader(exampleSchema) //nolint:gochecknoglobals

// ErrInvalidExample is returned when an example file is not a well-formed example mapping.
var ErrInvalidExample = errors.New("invalid example")

const requiredErrorType = "required"

// MissingFieldsError lists every required field absent from an example file, in schema order.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("example is missing required field(s): %s", strings.Join(e.Fields, ", "))
}

// Spec is a parsed example file.
type Spec struct {
	UserClaims            map[string]interface{} `mapstructure:"user_claims"`
	NonSDClaims           map[string]interface{} `mapstructure:"non_sd_claims"`
	HolderDisclosedClaims map[string]interface{} `mapstructure:"holder_disclosed_claims"`
	HolderBinding         bool                   `mapstructure:"holder_binding"`
	AddDecoyClaims        bool                   `mapstructure:"add_decoy_claims"`

	path string
}

// Name returns the example file's base name without its extension.
func (s *Spec) Name() string {
	base := filepath.Base(s.path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Path returns the file the example was loaded from; empty for examples parsed from memory.
func (s *Spec) Path() string {
	return s.path
}

// Load reads and validates the example at path. The raw file bytes are returned alongside the parsed
// example since they seed deterministic runs.
func Load(path string) (*Spec, []byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, nil, fmt.Errorf("read example file: %w", err)
	}

	spec, err := Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("example %s: %w", path, err)
	}

	spec.path = path

	logger.Debugf("loaded example %s: %d user claims, %d non-SD claims, holder binding %t, decoys %t",
		path, len(spec.UserClaims), len(spec.NonSDClaims), spec.HolderBinding, spec.AddDecoyClaims)

	return spec, data, nil
}

// Parse validates and decodes an example document.
func Parse(data []byte) (*Spec, error) {
	var raw interface{}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExample, err.Error())
	}

	raw, err := normalize(raw)
	if err != nil {
		return nil, err
	}

	if err = validate(raw); err != nil {
		return nil, err
	}

	spec := &Spec{}

	if err = mapstructure.Decode(raw, spec); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExample, err.Error())
	}

	return spec, nil
}

func validate(raw interface{}) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("validation of example failed: %w", err)
	}

	if result.Valid() {
		return nil
	}

	missing := &MissingFieldsError{}

	errMsg := "example is not valid:\n"

	for _, desc := range result.Errors() {
		if desc.Type() == requiredErrorType {
			missing.Fields = append(missing.Fields, fmt.Sprint(desc.Details()["property"]))

			continue
		}

		errMsg += fmt.Sprintf("- %s\n", desc)
	}

	if len(missing.Fields) > 0 {
		return missing
	}

	return fmt.Errorf("%w: %s", ErrInvalidExample, errMsg)
}

// normalize converts YAML mappings with non-string keys so that the document can be JSON encoded.
func normalize(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, e := range t {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}

			t[k] = n
		}

		return t, nil
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))

		for k, e := range t {
			key := fmt.Sprint(k)
			if _, ok := m[key]; ok {
				return nil, fmt.Errorf("%w: duplicate key '%s'", ErrInvalidExample, key)
			}

			n, err := normalize(e)
			if err != nil {
				return nil, err
			}

			m[key] = n
		}

		return m, nil
	case []interface{}:
		for i, e := range t {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}

			t[i] = n
		}

		return t, nil
	default:
		return v, nil
	}
}
