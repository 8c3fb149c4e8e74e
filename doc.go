/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package sdjwtexamples generates worked SD-JWT examples: an issuer creates an SD-JWT from the user claims
// of an example file, a holder discloses a subset of them and a verifier checks the presentation. Every
// intermediate artifact is rendered to the console or to a directory.
//
// Packages
//
// cmd/sdjwt-generate: The command line entry point.
//
// pkg/orchestrator: Runs issuer, holder and verifier in sequence and resolves the run configuration.
//
// pkg/protocol: The role interfaces and their SD-JWT implementation.
//
// pkg/doc/sdjwt: The SD-JWT issuer, holder and verifier.
//
// pkg/render: Builds the artifact bundle of a run and writes it out.
//
// pkg/example, pkg/settings: Example file and settings loading and validation.
//
// pkg/seed, pkg/entropy, pkg/keys: Deterministic or random seeding, the entropy streams drawn from it and
// the issuer and holder keys.
package sdjwtexamples
