// Copyright (c) 2025 Snowflake Computing Inc. All rights reserved.

package gosnowrest

import (
	"context"
	"io"

	rlog "github.com/sirupsen/logrus"
)

type contextKey string

// SFRequestIDKey is the context key of the request id attached to log records.
const SFRequestIDKey contextKey = "LOG_REQUEST_ID"

// SFStatementHandleKey is the context key of the statement handle attached to
// log records.
const SFStatementHandleKey contextKey = "LOG_STATEMENT_HANDLE"

var logKeys = [...]contextKey{SFRequestIDKey, SFStatementHandleKey}

// SFLogger is the logger interface which abstracts away the underlying
// logging mechanism.
type SFLogger interface {
	rlog.Ext1FieldLogger
	SetLogLevel(level string) error
	GetLogLevel() string
	WithContext(ctx context.Context) *rlog.Entry
	SetOutput(output io.Writer)
}

type defaultLogger struct {
	*rlog.Logger
}

func (log *defaultLogger) SetLogLevel(level string) error {
	actualLevel, err := rlog.ParseLevel(level)
	if err != nil {
		return err
	}
	log.Logger.SetLevel(actualLevel)
	return nil
}

func (log *defaultLogger) GetLogLevel() string {
	return log.Logger.GetLevel().String()
}

// WithContext returns an entry carrying the fields extracted from the
// registered context keys.
func (log *defaultLogger) WithContext(ctx context.Context) *rlog.Entry {
	return log.Logger.WithFields(*context2Fields(ctx))
}

func (log *defaultLogger) SetOutput(output io.Writer) {
	log.Logger.SetOutput(output)
}

// CreateDefaultLogger creates a new logger with the default configuration.
func CreateDefaultLogger() SFLogger {
	return &defaultLogger{Logger: rlog.New()}
}

var logger = CreateDefaultLogger()

func init() {
	_ = logger.SetLogLevel("error")
}

// GetLogger returns the logger in use.
func GetLogger() SFLogger {
	return logger
}

// SetLogger replaces the logger.
func SetLogger(inLogger *SFLogger) {
	logger = *inLogger
}

func context2Fields(ctx context.Context) *rlog.Fields {
	fields := rlog.Fields{}
	if ctx == nil {
		return &fields
	}
	for i := 0; i < len(logKeys); i++ {
		if ctx.Value(logKeys[i]) != nil {
			fields[string(logKeys[i])] = ctx.Value(logKeys[i])
		}
	}
	return &fields
}
