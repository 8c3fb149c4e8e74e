/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package generatecmd

import (
	"fmt"
	"io"
	builtinlog "log"
	"os"

	spi "github.com/hyperledger/aries-framework-go/spi/log"
)

const (
	logPrefixFormatter = " [%s] "
	logLevelFormatter  = "UTC -> %s "
)

// LogProvider is a logging provider writing to out, so that log lines stay off the console artifacts.
// Level filtering is left to the aries log wrapper.
type LogProvider struct {
	out io.Writer
}

// NewLogProvider returns a provider writing to out.
func NewLogProvider(out io.Writer) *LogProvider {
	return &LogProvider{out: out}
}

// GetLogger returns the logger of a module.
func (p *LogProvider) GetLogger(module string) spi.Logger {
	return &writerLog{
		logger: builtinlog.New(p.out, fmt.Sprintf(logPrefixFormatter, module),
			builtinlog.Ldate|builtinlog.Ltime|builtinlog.LUTC),
	}
}

type writerLog struct {
	logger *builtinlog.Logger
}

func (l *writerLog) Fatalf(format string, args ...interface{}) {
	l.logf("CRITICAL", format, args...)
	os.Exit(1)
}

func (l *writerLog) Panicf(format string, args ...interface{}) {
	l.logf("CRITICAL", format, args...)
	panic(fmt.Sprintf(format, args...))
}

func (l *writerLog) Debugf(format string, args ...interface{}) {
	l.logf("DEBUG", format, args...)
}

func (l *writerLog) Infof(format string, args ...interface{}) {
	l.logf("INFO", format, args...)
}

func (l *writerLog) Warnf(format string, args ...interface{}) {
	l.logf("WARN", format, args...)
}

func (l *writerLog) Errorf(format string, args ...interface{}) {
	l.logf("ERROR", format, args...)
}

func (l *writerLog) logf(level, format string, args ...interface{}) {
	l.logger.Printf(logLevelFormatter+"%s", level, fmt.Sprintf(format, args...))
}
