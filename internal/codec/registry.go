package codec

import (
	"fjacquet/format-converter/internal/parsererror"
	"fjacquet/format-converter/internal/tree"
)

// Registry resolves a Format to its Codec.
type Registry struct {
	codecs map[Format]Codec
}

// NewRegistry returns a registry holding codecs.
func NewRegistry(codecs ...Codec) *Registry {
	r := &Registry{codecs: make(map[Format]Codec, len(codecs))}
	for _, c := range codecs {
		r.Register(c)
	}
	return r
}

// Register adds c, replacing any codec registered for the same format.
func (r *Registry) Register(c Codec) {
	r.codecs[c.Format()] = c
}

// Get returns the codec for f.
func (r *Registry) Get(f Format) (Codec, error) {
	c, ok := r.codecs[f]
	if !ok {
		return nil, &parsererror.UnsupportedFormatError{Format: string(f)}
	}
	return c, nil
}

// Parse reads text in format f.
func (r *Registry) Parse(text string, f Format, opts Options) (tree.Node, error) {
	c, err := r.Get(f)
	if err != nil {
		return nil, err
	}
	return c.Parse(text, opts)
}

// Serialize renders n in format f.
func (r *Registry) Serialize(n tree.Node, f Format, opts Options) (string, error) {
	c, err := r.Get(f)
	if err != nil {
		return "", err
	}
	return c.Serialize(n, opts)
}

// Formats returns the registered formats in the order of the package-level
// Formats list.
func (r *Registry) Formats() []Format {
	out := make([]Format, 0, len(r.codecs))
	for _, f := range Formats {
		if _, ok := r.codecs[f]; ok {
			out = append(out, f)
		}
	}
	return out
}
