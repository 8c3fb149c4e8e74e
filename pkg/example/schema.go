/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package example

// nolint:gochecknoglobals
var (
	exampleSchema = `{
  "type": "object",
  "required": [
    "user_claims",
    "non_sd_claims",
    "holder_disclosed_claims"
  ],
  "properties": {
    "user_claims": {
      "type": ["object", "null"]
    },
    "non_sd_claims": {
      "type": ["object", "null"]
    },
    "holder_disclosed_claims": {
      "type": ["object", "null"]
    },
    "holder_binding": {
      "type": "boolean"
    },
    "add_decoy_claims": {
      "type": "boolean"
    }
  }
}`
)
