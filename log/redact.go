package log

import "go.uber.org/zap/zapcore"

const redacted = "[redacted]"

// RedactFieldsCore replaces the value of fields whose key is in keys.
// Resolution params can carry credentials; this keeps them out of logs.
func RedactFieldsCore(core zapcore.Core, keys ...string) zapcore.Core {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key != "" {
			set[key] = struct{}{}
		}
	}
	if len(set) == 0 {
		return core
	}
	return redactCore{Core: core, keys: set}
}

type redactCore struct {
	zapcore.Core
	keys map[string]struct{}
}

func (c redactCore) With(fields []zapcore.Field) zapcore.Core {
	return redactCore{Core: c.Core.With(c.redact(fields)), keys: c.keys}
}

func (c redactCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c redactCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(ent, c.redact(fields))
}

func (c redactCore) redact(fields []zapcore.Field) []zapcore.Field {
	var out []zapcore.Field
	for i, field := range fields {
		if _, ok := c.keys[field.Key]; !ok {
			continue
		}
		if out == nil {
			out = make([]zapcore.Field, len(fields))
			copy(out, fields)
		}
		out[i] = zapcore.Field{Key: field.Key, Type: zapcore.StringType, String: redacted}
	}
	if out == nil {
		return fields
	}
	return out
}
