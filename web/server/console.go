package server

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConsoleMessage represents a log line forwarded to the browser console
type ConsoleMessage struct {
	RenderID  string    `json:"renderID"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// consoleCore is a zapcore.Core that forwards entries to a channel.
// Entries are dropped when the channel is full so rendering never blocks on a slow client.
type consoleCore struct {
	zapcore.LevelEnabler
	enc      zapcore.Encoder
	renderID string
	messages chan<- ConsoleMessage
}

func newConsoleCore(renderID string, messages chan<- ConsoleMessage, level zapcore.LevelEnabler) zapcore.Core {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "msg",
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})
	return &consoleCore{LevelEnabler: level, enc: enc, renderID: renderID, messages: messages}
}

// NewConsoleLogger returns a logger that writes to base and also sends entries at or
// above level to messages. A nil base only feeds messages.
func NewConsoleLogger(base *zap.Logger, renderID string, messages chan<- ConsoleMessage, level zapcore.LevelEnabler) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return zap.New(zapcore.NewTee(base.Core(), newConsoleCore(renderID, messages, level)))
}

func (c *consoleCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.enc = c.enc.Clone()
	for _, field := range fields {
		field.AddTo(clone.enc)
	}
	return &clone
}

func (c *consoleCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *consoleCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}
	message := strings.TrimSuffix(buf.String(), "\n")
	buf.Free()

	select {
	case c.messages <- ConsoleMessage{
		RenderID:  c.renderID,
		Timestamp: entry.Time,
		Level:     entry.Level.String(),
		Message:   message,
	}:
	default:
	}
	return nil
}

func (c *consoleCore) Sync() error {
	return nil
}
