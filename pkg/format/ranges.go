package format

import (
	"sort"

	"github.com/yaklabco/g4fmt/pkg/grammar"
)

// RangeKind tells how a requested range was resolved.
type RangeKind uint8

// Range resolutions.
const (
	// RangeInvalid is a negative, reversed or out of bounds request.
	RangeInvalid RangeKind = iota

	// RangeWhole covers the entire document.
	RangeWhole

	// RangeUnits covers a run of whole units.
	RangeUnits

	// RangeEmpty lies entirely in whitespace between units.
	RangeEmpty
)

func (k RangeKind) String() string {
	switch k {
	case RangeInvalid:
		return "invalid"
	case RangeWhole:
		return "whole"
	case RangeUnits:
		return "units"
	case RangeEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Range is the outcome of snapping a requested range to unit boundaries.
// Start and Stop are inclusive byte offsets of the text to replace.
type Range struct {
	Kind  RangeKind
	Start int
	Stop  int

	// First and Last are the unit indexes to render, valid for RangeWhole
	// and RangeUnits when the document has units.
	First int
	Last  int
}

// Formats reports whether the range has anything to render.
func (r Range) Formats() bool {
	return (r.Kind == RangeWhole || r.Kind == RangeUnits) && r.Last >= r.First
}

// ResolveRange snaps the inclusive range [start, stop] to the smallest run
// of whole units that covers it. A bound lying in the whitespace around the
// run is kept, so the result always contains the request.
//
// Invalid requests resolve to the span of the first unit, or (0, -1) for a
// document without units. A request covering the whole input resolves to
// (0, len-1). A request touching no unit resolves to itself, clamped to the
// input.
func ResolveRange(doc *grammar.Document, start, stop int) Range {
	size := len(doc.Content)
	units := doc.Units

	if start < 0 || start > stop || start >= size {
		r := Range{Kind: RangeInvalid, Stop: -1, Last: -1}
		if len(units) > 0 {
			r.Start = units[0].Span.Start
			r.Stop = units[0].Span.End - 1
		}
		return r
	}

	if start == 0 && stop >= size-1 {
		return Range{Kind: RangeWhole, Start: 0, Stop: size - 1, First: 0, Last: len(units) - 1}
	}

	stop = min(stop, size-1)

	first := sort.Search(len(units), func(i int) bool {
		return units[i].Span.End > start
	})
	last := sort.Search(len(units), func(i int) bool {
		return units[i].Span.Start > stop
	}) - 1

	if first > last {
		return Range{Kind: RangeEmpty, Start: start, Stop: stop, First: 0, Last: -1}
	}

	return Range{
		Kind:  RangeUnits,
		Start: min(start, units[first].Span.Start),
		Stop:  max(stop, units[last].Span.End-1),
		First: first,
		Last:  last,
	}
}
