/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package generatecmd provides the command that turns an example file into SD-JWT artifacts.
package generatecmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/spf13/cobra"

	"github.com/hyperledger/aries-sdjwt-examples/pkg/entropy"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/example"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/keys"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/orchestrator"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/render"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/seed"
	"github.com/hyperledger/aries-sdjwt-examples/pkg/settings"
)

const (
	// Version is the generator version printed by --version.
	Version = "0.1.0"

	// log level.
	logLevelFlagName      = "debug"
	logLevelEnvKey        = "SDJWT_LOG_LEVEL"
	logLevelFlagShorthand = "d"
	logLevelFlagUsage     = "Log level." +
		" Possible values [CRITICAL] [ERROR] [WARNING] [INFO] [DEBUG]. Defaults to INFO if not set." +
		" Alternatively, this can be set with the following environment variable: " + logLevelEnvKey
	defaultLogLevel = "INFO"

	// no randomness flag.
	noRandomnessFlagName      = "no-randomness"
	noRandomnessEnvKey        = "SDJWT_NO_RANDOMNESS"
	noRandomnessFlagShorthand = "n"
	noRandomnessFlagUsage     = "Derive keys, salts, decoys and the nonce from the example file so that the output" +
		" is reproducible. Also accepted as -nr." +
		" Alternatively, this can be set with the following environment variable: " + noRandomnessEnvKey

	// NoRandomnessLegacyFlag is the single dash spelling of --no-randomness.
	NoRandomnessLegacyFlag = "-nr"

	nonceFlagName  = "nonce"
	nonceEnvKey    = "SDJWT_NONCE"
	nonceFlagUsage = "Nonce of the holder binding JWT. Defaults to 16 random bytes, hex encoded." +
		" Alternatively, this can be set with the following environment variable: " + nonceEnvKey

	iatFlagName  = "iat"
	iatEnvKey    = "SDJWT_IAT"
	iatFlagUsage = "Issued at timestamp (seconds since the epoch). Defaults to now, or to fixed_iat of the" +
		" settings when --no-randomness is set." +
		" Alternatively, this can be set with the following environment variable: " + iatEnvKey

	expFlagName  = "exp"
	expEnvKey    = "SDJWT_EXP"
	expFlagUsage = "Expiry timestamp (seconds since the epoch). Defaults to iat plus default_exp_mins of the" +
		" settings, or to fixed_exp when --no-randomness is set and iat is not given." +
		" Alternatively, this can be set with the following environment variable: " + expEnvKey

	settingsPathFlagName  = "settings-path"
	settingsPathEnvKey    = "SDJWT_SETTINGS_PATH"
	settingsPathFlagUsage = "Settings file overriding the default settings." +
		" Alternatively, this can be set with the following environment variable: " + settingsPathEnvKey

	indentFlagName  = "indent"
	indentEnvKey    = "SDJWT_INDENT"
	indentFlagUsage = "Indentation of JSON output. Defaults to " + defaultIndent + "." +
		" Alternatively, this can be set with the following environment variable: " + indentEnvKey
	defaultIndent = "4"

	outputDirFlagName  = "output-dir"
	outputDirEnvKey    = "SDJWT_OUTPUT_DIR"
	outputDirFlagUsage = "Write the artifacts to <output-dir>/<example name>/ instead of printing them." +
		" Alternatively, this can be set with the following environment variable: " + outputDirEnvKey
)

var logger = log.New("sdjwt-examples/generatecmd")

// Cmd returns the generate command. Console output goes to out.
func Cmd(out io.Writer) (*cobra.Command, error) {
	generateCmd := createGenerateCMD(out)

	createFlags(generateCmd)

	return generateCmd, nil
}

func createGenerateCMD(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:     "sdjwt-generate <example>",
		Short:   "Generate SD-JWT examples",
		Long:    `Issue, present and verify the SD-JWT described by an example file and render every artifact`,
		Version: Version,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logLevel, err := getUserSetVar(cmd, logLevelFlagName, logLevelEnvKey, true)
			if err != nil {
				return err
			}

			if logLevel == "" {
				logLevel = defaultLogLevel
			}

			if err = setLogLevel(logLevel); err != nil {
				return err
			}

			params, err := getParameters(cmd)
			if err != nil {
				return err
			}

			params.logLevel = logLevel
			params.example = args[0]

			return generate(params, out)
		},
	}
}

func createFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(logLevelFlagName, logLevelFlagShorthand, "", logLevelFlagUsage)
	cmd.Flags().BoolP(noRandomnessFlagName, noRandomnessFlagShorthand, false, noRandomnessFlagUsage)
	cmd.Flags().String(nonceFlagName, "", nonceFlagUsage)
	cmd.Flags().String(iatFlagName, "", iatFlagUsage)
	cmd.Flags().String(expFlagName, "", expFlagUsage)
	cmd.Flags().String(settingsPathFlagName, "", settingsPathFlagUsage)
	cmd.Flags().String(indentFlagName, "", indentFlagUsage)
	cmd.Flags().String(outputDirFlagName, "", outputDirFlagUsage)
}

type parameters struct {
	example      string
	logLevel     string
	noRandomness bool
	nonce        string
	iat          *int64
	exp          *int64
	settingsPath string
	indent       int
	outputDir    string
}

func getParameters(cmd *cobra.Command) (*parameters, error) {
	noRandomness, err := getUserSetBool(cmd, noRandomnessFlagName, noRandomnessEnvKey)
	if err != nil {
		return nil, err
	}

	nonce, err := getUserSetVar(cmd, nonceFlagName, nonceEnvKey, true)
	if err != nil {
		return nil, err
	}

	iat, err := getUserSetTimestamp(cmd, iatFlagName, iatEnvKey)
	if err != nil {
		return nil, err
	}

	exp, err := getUserSetTimestamp(cmd, expFlagName, expEnvKey)
	if err != nil {
		return nil, err
	}

	settingsPath, err := getUserSetVar(cmd, settingsPathFlagName, settingsPathEnvKey, true)
	if err != nil {
		return nil, err
	}

	indentStr, err := getUserSetVar(cmd, indentFlagName, indentEnvKey, true)
	if err != nil {
		return nil, err
	}

	if indentStr == "" {
		indentStr = defaultIndent
	}

	indent, err := strconv.Atoi(indentStr)
	if err != nil || indent < 0 {
		return nil, fmt.Errorf("invalid %s '%s': must be a non-negative integer", indentFlagName, indentStr)
	}

	outputDir, err := getUserSetVar(cmd, outputDirFlagName, outputDirEnvKey, true)
	if err != nil {
		return nil, err
	}

	return &parameters{
		noRandomness: noRandomness,
		nonce:        nonce,
		iat:          iat,
		exp:          exp,
		settingsPath: settingsPath,
		indent:       indent,
		outputDir:    outputDir,
	}, nil
}

func generate(params *parameters, out io.Writer) error {
	s, err := settings.Load(params.settingsPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	spec, data, err := example.Load(params.example)
	if err != nil {
		return err
	}

	sd := seed.Resolve(params.noRandomness, data)
	src := entropy.New(sd)

	cfg, err := orchestrator.NewRunConfig(s, src, &orchestrator.Overrides{
		LogLevel:  params.logLevel,
		Nonce:     params.nonce,
		IssuedAt:  params.iat,
		Expiry:    params.exp,
		Indent:    params.indent,
		OutputDir: params.outputDir,
	}, time.Now())
	if err != nil {
		return err
	}

	km, err := keys.Derive(s, cfg.Deterministic, sd)
	if err != nil {
		return fmt.Errorf("derive keys: %w", err)
	}

	p, err := orchestrator.NewSDJWT(s, src)
	if err != nil {
		return err
	}

	result, err := orchestrator.New(p).Run(spec, cfg, km)
	if err != nil {
		return err
	}

	bundle, err := render.Build(spec, result, cfg.WrapWidth)
	if err != nil {
		return fmt.Errorf("build artifacts: %w", err)
	}

	renderer := render.New(cfg.Indent, cfg.WrapWidth, out)

	if cfg.OutputDir != "" {
		return renderer.WriteDir(cfg.OutputDir, spec.Name(), bundle)
	}

	return renderer.Print(bundle)
}

// NormalizeArgs rewrites the legacy -nr spelling to --no-randomness.
func NormalizeArgs(args []string) []string {
	normalized := make([]string, len(args))

	for i, arg := range args {
		if arg == NoRandomnessLegacyFlag {
			arg = "--" + noRandomnessFlagName
		}

		normalized[i] = arg
	}

	return normalized
}

func getUserSetVar(cmd *cobra.Command, flagName, envKey string, isOptional bool) (string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", fmt.Errorf(flagName+" flag not found: %s", err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		return value, nil
	}

	return "", errors.New("Neither " + flagName + " (command line flag) nor " + envKey +
		" (environment variable) have been set.")
}

func getUserSetBool(cmd *cobra.Command, flagName, envKey string) (bool, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetBool(flagName)
		if err != nil {
			return false, fmt.Errorf(flagName+" flag not found: %s", err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)
	if !isSet || value == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid value '%s' for %s: %w", value, envKey, err)
	}

	return b, nil
}

func getUserSetTimestamp(cmd *cobra.Command, flagName, envKey string) (*int64, error) {
	value, err := getUserSetVar(cmd, flagName, envKey, true)
	if err != nil {
		return nil, err
	}

	if value == "" {
		return nil, nil // nolint:nilnil
	}

	ts, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s '%s': must be a unix timestamp", flagName, value)
	}

	return &ts, nil
}

func setLogLevel(logLevel string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level '%s' : %w", logLevel, err)
	}

	log.SetLevel("", level)

	logger.Debugf("logger level set to %s", logLevel)

	return nil
}
