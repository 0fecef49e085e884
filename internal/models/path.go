package models

import (
	"cmp"
	"strconv"
	"strings"
)

// SegmentKind distinguishes object keys from array indices.
type SegmentKind int

const (
	ObjectSegment SegmentKind = iota
	ArraySegment
)

// PathSegment is one step of a Path: an object key or an array index.
type PathSegment struct {
	Kind  SegmentKind
	Key   string
	Index int
}

// Key returns an object-key segment.
func Key(k string) PathSegment {
	return PathSegment{Kind: ObjectSegment, Key: k}
}

// Index returns an array-index segment.
func Index(i int) PathSegment {
	return PathSegment{Kind: ArraySegment, Index: i}
}

// IsIndex reports whether s addresses an array slot.
func (s PathSegment) IsIndex() bool {
	return s.Kind == ArraySegment
}

func (s PathSegment) String() string {
	if s.Kind == ArraySegment {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// CompareSegments orders object keys before array indices, then by key or
// index.
func CompareSegments(a, b PathSegment) int {
	if a.Kind != b.Kind {
		return cmp.Compare(a.Kind, b.Kind)
	}
	if a.Kind == ArraySegment {
		return cmp.Compare(a.Index, b.Index)
	}
	return strings.Compare(a.Key, b.Key)
}

// Path addresses one location from the document root. The empty Path is the
// root itself.
type Path []PathSegment

// String joins the segments with "." (for example "a.b.2.c").
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Display is String with the root rendered as ".".
func (p Path) Display() string {
	if len(p) == 0 {
		return "."
	}
	return p.String()
}

// Compare orders paths segment by segment; a prefix sorts first.
func (p Path) Compare(o Path) int {
	for i := 0; i < min(len(p), len(o)); i++ {
		if c := CompareSegments(p[i], o[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(p), len(o))
}

// Equal reports whether p and o address the same location.
func (p Path) Equal(o Path) bool {
	return p.Compare(o) == 0
}

// Concat returns a fresh path holding the segments of every part in order.
func Concat(parts ...Path) Path {
	n := 0
	for _, part := range parts {
		n += len(part)
	}
	out := make(Path, 0, n)
	for _, part := range parts {
		out = append(out, part...)
	}
	return out
}
