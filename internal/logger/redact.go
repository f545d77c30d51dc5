package logger

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

const redacted = "[REDACTED]"

// redactingCore 在写出前替换消息和字段中的敏感字符串。
//
// Telegram 客户端的传输错误会带上包含令牌的请求地址，日志里不能出现原文。
type redactingCore struct {
	zapcore.Core
	replacer *strings.Replacer
}

// NewRedactingCore 包装 core；没有需要抹去的内容时原样返回
func NewRedactingCore(core zapcore.Core, secrets ...string) zapcore.Core {
	var pairs []string
	for _, s := range secrets {
		if s != "" {
			pairs = append(pairs, s, redacted)
		}
	}
	if len(pairs) == 0 {
		return core
	}
	return &redactingCore{Core: core, replacer: strings.NewReplacer(pairs...)}
}

func (c *redactingCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactingCore{Core: c.Core.With(c.fields(fields)), replacer: c.replacer}
}

func (c *redactingCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *redactingCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	ent.Message = c.replacer.Replace(ent.Message)
	return c.Core.Write(ent, c.fields(fields))
}

func (c *redactingCore) fields(fields []zapcore.Field) []zapcore.Field {
	out := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		switch f.Type {
		case zapcore.StringType:
			f.String = c.replacer.Replace(f.String)
		case zapcore.ErrorType:
			if err, ok := f.Interface.(error); ok && err != nil {
				f = zapcore.Field{Key: f.Key, Type: zapcore.StringType, String: c.replacer.Replace(err.Error())}
			}
		}
		out[i] = f
	}
	return out
}
