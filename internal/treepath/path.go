// Package treepath parses path strings and reads or writes document trees
// through them.
//
// Grammar:
//
//	path    = [ first { "." key | bracket } ]
//	first   = key | bracket
//	bracket = "[*]" | "[" digits "]" | "[" quoted "]"
//
// A key is any run of characters other than '.', '[' and ']'. Keys that
// contain those characters, or '"', or are empty, are written in quoted
// bracket form: meta["content.type"]. Inside quotes \" and \\ are escapes.
// The empty path addresses the root.
package treepath

import (
	"fmt"
	"strconv"
	"strings"

	"fjacquet/format-converter/internal/parsererror"
)

// SegmentKind identifies the type of a path segment.
type SegmentKind int

const (
	SegmentKey SegmentKind = iota
	SegmentIndex
	SegmentWildcard
)

// Segment is one step of a path.
type Segment struct {
	Kind  SegmentKind
	Key   string
	Index int
}

// Key returns a mapping key segment.
func Key(k string) Segment { return Segment{Kind: SegmentKey, Key: k} }

// Index returns a sequence index segment.
func Index(i int) Segment { return Segment{Kind: SegmentIndex, Index: i} }

// Wildcard returns the [*] segment.
func Wildcard() Segment { return Segment{Kind: SegmentWildcard} }

// Path is a parsed path.
type Path []Segment

// Append returns a new path with segs added. p itself is never modified.
func (p Path) Append(segs ...Segment) Path {
	out := make(Path, 0, len(p)+len(segs))
	out = append(out, p...)
	return append(out, segs...)
}

// HasWildcard reports whether p contains a [*] segment.
func (p Path) HasWildcard() bool {
	for _, seg := range p {
		if seg.Kind == SegmentWildcard {
			return true
		}
	}
	return false
}

// String returns the canonical form of p.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		switch seg.Kind {
		case SegmentWildcard:
			b.WriteString("[*]")
		case SegmentIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
		default:
			if needsQuoting(seg.Key) {
				b.WriteString(`["`)
				b.WriteString(quoteReplacer.Replace(seg.Key))
				b.WriteString(`"]`)
				continue
			}
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(seg.Key)
		}
	}
	return b.String()
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func needsQuoting(key string) bool {
	return key == "" || strings.ContainsAny(key, `.[]"`)
}

// MaxIndex is the largest index segment Parse accepts. Writing through an
// index grows the target sequence up to it.
const MaxIndex = 100000

// Parse parses s into a Path.
func Parse(s string) (Path, error) {
	p := Path{}
	i := 0
	for i < len(s) {
		switch s[i] {
		case '[':
			seg, next, err := parseBracket(s, i)
			if err != nil {
				return nil, err
			}
			p = append(p, seg)
			i = next
		case '.':
			if len(p) == 0 {
				return nil, pathError(s, "path starts with '.'")
			}
			i++
			if i == len(s) {
				return nil, pathError(s, "path ends with '.'")
			}
			if s[i] == '.' || s[i] == '[' || s[i] == ']' {
				return nil, pathError(s, fmt.Sprintf("empty key at offset %d", i))
			}
			key, next := readKey(s, i)
			p = append(p, Key(key))
			i = next
		case ']':
			return nil, pathError(s, fmt.Sprintf("unexpected ']' at offset %d", i))
		default:
			if len(p) > 0 {
				return nil, pathError(s, fmt.Sprintf("missing '.' before key at offset %d", i))
			}
			key, next := readKey(s, i)
			p = append(p, Key(key))
			i = next
		}
	}
	return p, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate reports whether s is a well-formed path.
func Validate(s string) error {
	_, err := Parse(s)
	return err
}

func readKey(s string, i int) (string, int) {
	start := i
	for i < len(s) && s[i] != '.' && s[i] != '[' && s[i] != ']' {
		i++
	}
	return s[start:i], i
}

func parseBracket(s string, i int) (Segment, int, error) {
	rest := s[i+1:]
	switch {
	case strings.HasPrefix(rest, "*]"):
		return Wildcard(), i + 3, nil
	case strings.HasPrefix(rest, `"`):
		var key strings.Builder
		j := i + 2
		for j < len(s) {
			c := s[j]
			if c == '\\' {
				if j+1 == len(s) {
					break
				}
				next := s[j+1]
				if next != '"' && next != '\\' {
					return Segment{}, 0, pathError(s, fmt.Sprintf("invalid escape '\\%c' at offset %d", next, j))
				}
				key.WriteByte(next)
				j += 2
				continue
			}
			if c == '"' {
				if j+1 >= len(s) || s[j+1] != ']' {
					return Segment{}, 0, pathError(s, fmt.Sprintf("expected ']' after quoted key at offset %d", j+1))
				}
				return Key(key.String()), j + 2, nil
			}
			key.WriteByte(c)
			j++
		}
		return Segment{}, 0, pathError(s, "unterminated quoted key")
	default:
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return Segment{}, 0, pathError(s, "unterminated '['")
		}
		digits := rest[:end]
		if digits == "" || strings.Trim(digits, "0123456789") != "" {
			return Segment{}, 0, pathError(s, fmt.Sprintf("invalid bracket segment %q", "["+digits+"]"))
		}
		n, err := strconv.Atoi(digits)
		if err != nil || n > MaxIndex {
			return Segment{}, 0, pathError(s, fmt.Sprintf("index %s is out of range, the limit is %d", digits, MaxIndex))
		}
		return Index(n), i + end + 2, nil
	}
}

func pathError(path, reason string) error {
	return &parsererror.UnsupportedPathError{Path: path, Reason: reason}
}
