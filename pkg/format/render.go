package format

import (
	"strings"

	"github.com/yaklabco/g4fmt/pkg/grammar"
	"github.com/yaklabco/g4fmt/pkg/options"
)

// renderer emits units first..last of a document.
type renderer struct {
	doc   *grammar.Document
	snaps *options.Snapshots
	first int
	last  int

	blank   []int
	layouts map[int]*ruleLayout
	groups  []AlignmentGroup
}

func newRenderer(doc *grammar.Document, snaps *options.Snapshots, first, last int) *renderer {
	return &renderer{
		doc:     doc,
		snaps:   snaps,
		first:   first,
		last:    last,
		blank:   make([]int, last-first+1),
		layouts: make(map[int]*ruleLayout),
	}
}

// blankLines returns the number of empty lines written before unit i.
func (f *renderer) blankLines(i int) int {
	if i == f.first {
		return 0
	}
	unit := f.doc.Units[i]
	opts := f.snaps.At(i).Options

	n := min(unit.BlankLinesBefore(f.doc.Content), opts.MaxEmptyLinesToKeep)
	if unit.Kind == grammar.UnitRule && f.doc.Units[i-1].Kind == grammar.UnitRule {
		n = max(n, opts.MinEmptyLines)
	}
	return n
}

// formatted reports whether unit i gets a computed layout.
func (f *renderer) formatted(i int) bool {
	unit := f.doc.Units[i]
	return unit.Kind == grammar.UnitRule && !unit.Rule.Verbatim && !f.snaps.At(i).Disabled
}

// prepare measures every formatted rule and plans alignment.
func (f *renderer) prepare() {
	var rules []*ruleLayout
	breakPending := false
	blankPending := false

	for i := f.first; i <= f.last; i++ {
		unit := f.doc.Units[i]
		disabled := f.snaps.At(i).Disabled

		f.blank[i-f.first] = f.blankLines(i)
		if disabled || f.blank[i-f.first] > 0 {
			blankPending = true
		}

		if !f.formatted(i) {
			if disabled || unit.Kind == grammar.UnitRule || unit.Kind == grammar.UnitOpaque {
				breakPending = true
			}
			continue
		}

		layout := newRuleLayout(i, unit.Rule, f.snaps.At(i).Options)
		layout.breakBefore = breakPending
		layout.blankBefore = blankPending
		f.layouts[i] = layout
		rules = append(rules, layout)
		breakPending = false
		blankPending = false
	}

	f.groups = plan(rules)
}

func (f *renderer) render() string {
	f.prepare()

	var b strings.Builder
	for i := f.first; i <= f.last; i++ {
		unit := f.doc.Units[i]
		disabled := f.snaps.At(i).Disabled

		if i > f.first {
			if disabled {
				b.WriteString(f.doc.Text(unit.Leading))
			} else {
				b.WriteString(strings.Repeat("\n", f.blank[i-f.first]+1))
			}
		}

		switch {
		case disabled:
			b.WriteString(f.doc.Text(unit.Span))
		case f.layouts[i] != nil:
			f.layouts[i].emit(&b)
		default:
			f.writeUnit(&b, unit)
		}
	}
	return b.String()
}

func (f *renderer) writeUnit(b *strings.Builder, unit *grammar.Unit) {
	switch unit.Kind {
	case grammar.UnitStatement:
		stmt := unit.Statement
		if stmt.Verbatim {
			b.WriteString(f.doc.Text(unit.Span))
			return
		}
		b.WriteString(strings.Join(stmt.Words, " "))
		if stmt.Trailing != nil {
			b.WriteString(" " + stmt.Trailing.Text)
		}
	case grammar.UnitComment, grammar.UnitDirective:
		b.WriteString(unit.Comment.Text)
	case grammar.UnitRule, grammar.UnitOpaque:
		// Verbatim rules and unparsed input.
		b.WriteString(f.doc.Text(unit.Span))
	}
}
