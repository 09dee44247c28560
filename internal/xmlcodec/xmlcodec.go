// Package xmlcodec converts XML documents to trees and back.
//
// Elements become mappings keyed by child tag. Attributes are kept under
// tree.AttributesKey and element text under tree.TextKey. A tag that occurs
// more than once among its siblings is promoted to a sequence on its second
// occurrence. An element holding nothing but text collapses to a string.
package xmlcodec

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"fjacquet/format-converter/internal/codec"
	"fjacquet/format-converter/internal/logging"
	"fjacquet/format-converter/internal/parsererror"
	"fjacquet/format-converter/internal/tree"

	"github.com/beevik/etree"
)

const declaration = `version="1.0" encoding="UTF-8"`

// Codec is the XML codec.
type Codec struct {
	codec.BaseCodec
}

// New returns an XML codec.
func New(logger logging.Logger) *Codec {
	return &Codec{BaseCodec: codec.NewBaseCodec(logger)}
}

// Format returns codec.XML.
func (c *Codec) Format() codec.Format { return codec.XML }

// ContentType returns the XML MIME type.
func (c *Codec) ContentType() string { return "application/xml" }

// Parse reads text and returns the tree of its root element. The root tag is
// not part of the result unless opts.XML.PreserveRoot is set, in which case
// the tree is wrapped as {rootTag: tree}.
func (c *Codec) Parse(text string, opts codec.Options) (tree.Node, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.ValidateInput = true
	if err := doc.ReadFromString(text); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &parsererror.ParseError{Format: string(codec.XML), Message: "no root element", Err: err}
		}
		return nil, &parsererror.ParseError{Format: string(codec.XML), Message: err.Error(), Err: err}
	}

	root := doc.Root()
	if root == nil {
		return nil, &parsererror.ParseError{Format: string(codec.XML), Message: "no root element"}
	}

	n := elementToNode(root)
	c.GetLogger().Debug("Parsed XML document",
		logging.F(logging.FieldFormat, codec.XML),
		logging.F("root", root.FullTag()))

	if opts.XML.PreserveRoot {
		wrapped := tree.NewMapping()
		wrapped.Set(root.FullTag(), n)
		return wrapped, nil
	}
	return n, nil
}

func elementToNode(e *etree.Element) tree.Node {
	m := tree.NewMapping()

	if len(e.Attr) > 0 {
		attrs := tree.NewMapping()
		for _, a := range e.Attr {
			attrs.Set(a.FullKey(), tree.NewString(a.Value))
		}
		m.Set(tree.AttributesKey, attrs)
	}

	text := ""
	for _, token := range e.Child {
		switch t := token.(type) {
		case *etree.Element:
			addChild(m, t.FullTag(), elementToNode(t))
		case *etree.CharData:
			if trimmed := strings.TrimSpace(t.Data); trimmed != "" {
				text = trimmed
			}
		}
	}
	if text != "" {
		m.Set(tree.TextKey, tree.NewString(text))
	}

	if m.Len() == 1 && m.Has(tree.TextKey) {
		return tree.NewString(text)
	}
	return m
}

// addChild stores child under tag. Element values are never sequences, so
// an existing sequence always means the tag was already promoted.
func addChild(m *tree.Mapping, tag string, child tree.Node) {
	existing, ok := m.Get(tag)
	if !ok {
		m.Set(tag, child)
		return
	}
	if seq, ok := existing.(*tree.Sequence); ok {
		seq.Append(child)
		return
	}
	m.Set(tag, tree.NewSequence(existing, child))
}

// Serialize writes n as an indented XML document with a UTF-8 declaration.
//
// The document element is named opts.XML.RootElement. With PreserveRoot, a
// mapping with a single element key supplies the document element instead.
// A sequence at the top is written as repeated opts.XML.ItemElement
// children. The tree is not modified.
func (c *Codec) Serialize(n tree.Node, opts codec.Options) (string, error) {
	rootName := opts.XML.RootElement
	if rootName == "" {
		rootName = "root"
	}
	if opts.XML.PreserveRoot {
		if m, ok := n.(*tree.Mapping); ok && m.Len() == 1 {
			key := m.Keys()[0]
			if !strings.HasPrefix(key, "@") && key != tree.TextKey {
				rootName = key
				n, _ = m.Get(key)
			}
		}
	}

	w := &writer{opts: opts.XML}
	if w.opts.ItemElement == "" {
		w.opts.ItemElement = "item"
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", declaration)
	root, err := w.element(&doc.Element, rootName)
	if err != nil {
		return "", &parsererror.SerializeError{Format: string(codec.XML), Err: err}
	}
	if err := w.write(root, n); err != nil {
		return "", &parsererror.SerializeError{Format: string(codec.XML), Err: err}
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", &parsererror.SerializeError{Format: string(codec.XML), Err: err}
	}
	return strings.TrimSuffix(out, "\n"), nil
}

type writer struct {
	opts codec.XMLOptions
}

func (w *writer) element(parent *etree.Element, name string) (*etree.Element, error) {
	if !isName(name) {
		return nil, fmt.Errorf("invalid element name %q", name)
	}
	return parent.CreateElement(name), nil
}

// write fills el with the content of n. Null and absent values leave el
// empty so that it is written as a self-closing tag.
func (w *writer) write(el *etree.Element, n tree.Node) error {
	switch v := n.(type) {
	case nil:
		return nil
	case tree.Scalar:
		el.SetText(v.Text())
		return nil
	case *tree.Sequence:
		for _, item := range v.Items {
			child, err := w.element(el, w.opts.ItemElement)
			if err != nil {
				return err
			}
			if err := w.write(child, item); err != nil {
				return err
			}
		}
		return nil
	case *tree.Mapping:
		return w.writeMapping(el, v)
	}
	return fmt.Errorf("unsupported node %T", n)
}

func (w *writer) writeMapping(el *etree.Element, m *tree.Mapping) error {
	if attrs, ok := m.Get(tree.AttributesKey); ok && w.opts.UseAttributes {
		if am, ok := attrs.(*tree.Mapping); ok {
			var err error
			am.Each(func(k string, v tree.Node) bool {
				if !isName(k) {
					err = fmt.Errorf("invalid attribute name %q", k)
					return false
				}
				el.CreateAttr(k, text(v))
				return true
			})
			if err != nil {
				return err
			}
		}
	}

	if t, ok := m.Get(tree.TextKey); ok {
		el.SetText(text(t))
		return nil
	}

	var err error
	m.Each(func(key string, value tree.Node) bool {
		if key == tree.AttributesKey || (w.opts.UseAttributes && strings.HasPrefix(key, "@")) {
			return true
		}
		if seq, ok := value.(*tree.Sequence); ok {
			for _, item := range seq.Items {
				if err = w.child(el, key, item); err != nil {
					return false
				}
			}
			return true
		}
		err = w.child(el, key, value)
		return err == nil
	})
	return err
}

func (w *writer) child(parent *etree.Element, name string, value tree.Node) error {
	el, err := w.element(parent, name)
	if err != nil {
		return err
	}
	return w.write(el, value)
}

func text(n tree.Node) string {
	switch v := n.(type) {
	case nil:
		return ""
	case tree.Scalar:
		return v.Text()
	default:
		return tree.CompactJSON(n)
	}
}

// isName reports whether s is an XML name. Prefixed names are accepted.
func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == ':' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)):
		default:
			return false
		}
	}
	return true
}
