/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package sdjwt-generate issues, presents and verifies the SD-JWT described by an example file
// and renders every intermediate artifact.
package main

import (
	"os"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-sdjwt-examples/cmd/sdjwt-generate/generatecmd"
)

func main() {
	// artifacts go to stdout, logs to stderr
	log.Initialize(generatecmd.NewLogProvider(os.Stderr))

	logger := log.New("sdjwt-examples/generate")

	rootCmd, err := generatecmd.Cmd(os.Stdout)
	if err != nil {
		logger.Fatalf(err.Error())
	}

	rootCmd.SetArgs(generatecmd.NormalizeArgs(os.Args[1:]))

	if err := rootCmd.Execute(); err != nil {
		logger.Fatalf("Failed to run sdjwt-generate: %s", err)
	}
}
