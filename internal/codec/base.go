package codec

import (
	"fjacquet/format-converter/internal/logging"
)

// BaseCodec holds what every codec shares. Codecs embed it:
//
//	type Codec struct {
//		codec.BaseCodec
//	}
type BaseCodec struct {
	logger logging.Logger
}

// NewBaseCodec returns a BaseCodec logging to logger, or to a default text
// logger when logger is nil.
func NewBaseCodec(logger logging.Logger) BaseCodec {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return BaseCodec{logger: logger}
}

// SetLogger replaces the logger. A nil logger is ignored.
func (b *BaseCodec) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger.
func (b *BaseCodec) GetLogger() logging.Logger {
	return b.logger
}
