package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// maskPlaceholder replaces every occurrence of a configured secret.
const maskPlaceholder = "***"

// minMaskedSecretLength is the shortest secret worth masking.
// Masking very short values would mangle unrelated log text.
const minMaskedSecretLength = 5

// maskingCore wraps a zapcore.Core and rewrites entries so that configured
// secret values never reach the underlying sink.
type maskingCore struct {
	zapcore.Core

	// secrets are the sensitive values to replace in messages and fields.
	secrets []string
}

// Check adds the core to a checked entry if the log entry level is enabled for logging.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *maskingCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}

	return ce
}

// With returns a new core with added fields, masked before they are attached.
//
//nolint:ireturn,nolintlint // Returning zapcore.Core is intended for zap integration.
func (c *maskingCore) With(fields []zapcore.Field) zapcore.Core {
	return &maskingCore{
		c.Core.With(c.maskFields(fields)),
		c.secrets,
	}
}

// Write masks the entry message and fields before delegating to the wrapped core.
//
//nolint:gocritic // Write must match the zapcore.Core signature.
func (c *maskingCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	ent.Message = c.mask(ent.Message)
	ent.LoggerName = c.mask(ent.LoggerName)

	return c.Core.Write(ent, c.maskFields(fields))
}

// mask replaces every configured secret in s with the placeholder.
func (c *maskingCore) mask(s string) string {
	for _, secret := range c.secrets {
		s = strings.ReplaceAll(s, secret, maskPlaceholder)
	}

	return s
}

// maskFields returns a copy of fields with secret values scrubbed from
// string and error payloads. Other field types cannot carry the secrets
// this core is configured with.
func (c *maskingCore) maskFields(fields []zapcore.Field) []zapcore.Field {
	masked := make([]zapcore.Field, len(fields))

	for i, field := range fields {
		switch field.Type {
		case zapcore.StringType:
			field.String = c.mask(field.String)
		case zapcore.ErrorType:
			if err, ok := field.Interface.(error); ok && err != nil {
				field = zap.String(field.Key, c.mask(err.Error()))
			}
		default:
		}

		masked[i] = field
	}

	return masked
}

// WithSecretMasking is an option that wraps the logger core so the provided
// secret values are replaced with "***" in every log entry. Empty and very
// short values are ignored.
//
//nolint:ireturn,nolintlint // Returning zap.Option is intended for zap integration.
func WithSecretMasking(secrets ...string) zap.Option {
	filtered := make([]string, 0, len(secrets))

	for _, secret := range secrets {
		if len(secret) >= minMaskedSecretLength {
			filtered = append(filtered, secret)
		}
	}

	return zap.WrapCore(
		func(core zapcore.Core) zapcore.Core {
			return &maskingCore{core, filtered}
		})
}
