package factory

import (
	"fjacquet/format-converter/internal/codec"
	"fjacquet/format-converter/internal/csvcodec"
	"fjacquet/format-converter/internal/jsoncodec"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/parsererror"
	"fjacquet/format-converter/internal/xmlcodec"
	"fjacquet/format-converter/internal/yamlcodec"
)

// GetCodec returns a new instance of the codec for the given format with the
// provided logger.
func GetCodec(format codec.Format, logger logging.Logger) (codec.Codec, error) {
	switch format {
	case codec.XML:
		return xmlcodec.New(logger), nil
	case codec.JSON:
		return jsoncodec.New(logger), nil
	case codec.YAML:
		return yamlcodec.New(logger), nil
	case codec.CSV:
		return csvcodec.New(logger), nil
	default:
		return nil, &parsererror.UnsupportedFormatError{Format: string(format)}
	}
}

// NewRegistry returns a registry holding a codec for every supported format,
// all sharing logger.
func NewRegistry(logger logging.Logger) *codec.Registry {
	r := codec.NewRegistry()
	for _, f := range codec.Formats {
		c, err := GetCodec(f, logger)
		if err != nil {
			continue
		}
		r.Register(c)
	}
	return r
}
