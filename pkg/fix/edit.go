// Package fix turns formatting results into text edits and applies them.
package fix

import (
	"errors"
	"fmt"
	"sort"

	"github.com/yaklabco/g4fmt/pkg/format"
	"github.com/yaklabco/g4fmt/pkg/grammar"
	"github.com/yaklabco/g4fmt/pkg/options"
)

// ErrInvalidRange is returned for a requested range the formatter rejects.
var ErrInvalidRange = errors.New("invalid range")

// TextEdit represents a single text replacement in a file.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// EditFromResult converts a formatting result into an edit. It reports
// false when the result carries no text.
func EditFromResult(r *format.Result) (TextEdit, bool) {
	if r == nil || r.Text == "" {
		return TextEdit{}, false
	}
	return TextEdit{StartOffset: r.Start, EndOffset: r.Stop + 1, NewText: r.Text}, true
}

// Range is a requested inclusive byte range.
type Range struct {
	Start int
	Stop  int
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d", r.Start, r.Stop)
}

// RangeEdits formats each requested range of doc and returns one result per
// rewritten run of units. Requests whose snapped runs overlap are formatted
// together, so the results never overlap.
func RangeEdits(doc *grammar.Document, base options.Options, ranges []Range) ([]*format.Result, error) {
	reqs := make([]Range, len(ranges))
	copy(reqs, ranges)
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].Start != reqs[j].Start {
			return reqs[i].Start < reqs[j].Start
		}
		return reqs[i].Stop < reqs[j].Stop
	})

	var (
		results []*format.Result
		merged  []Range
	)
	for _, req := range reqs {
		result := format.FormatDocument(doc, base, req.Start, req.Stop)
		switch result.Kind {
		case format.RangeInvalid:
			return nil, fmt.Errorf("%w %s", ErrInvalidRange, req)
		case format.RangeEmpty:
			continue
		case format.RangeWhole, format.RangeUnits:
		}

		if n := len(results); n > 0 && result.Start <= results[n-1].Stop {
			union := Range{Start: merged[n-1].Start, Stop: max(merged[n-1].Stop, req.Stop)}
			results[n-1] = format.FormatDocument(doc, base, union.Start, union.Stop)
			merged[n-1] = union
			continue
		}

		results = append(results, result)
		merged = append(merged, req)
	}

	return results, nil
}
