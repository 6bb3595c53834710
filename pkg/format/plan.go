package format

import "github.com/yaklabco/g4fmt/pkg/options"

// Axis is a column that consecutive rules can align on.
type Axis int

// Alignment axes, in planning order. Each axis's positions depend on the
// padding chosen for the axes before it on the same line.
const (
	AxisColon Axis = iota
	AxisAction
	AxisLabel
	AxisCommand
	AxisComment

	axisCount
)

// AxisNone marks tail items that never align.
const AxisNone Axis = -1

//nolint:gochecknoglobals // Read-only lookup table.
var axisNames = [...]string{
	AxisColon:   "colon",
	AxisAction:  "action",
	AxisLabel:   "label",
	AxisCommand: "lexer command",
	AxisComment: "trailing comment",
}

func (a Axis) String() string {
	if a >= 0 && a < axisCount {
		return axisNames[a]
	}
	return "none"
}

func (a Axis) enabled(opts options.Options) bool {
	switch a {
	case AxisColon:
		return opts.AlignColons == options.ColonTrailing
	case AxisAction:
		return opts.AlignActions
	case AxisLabel:
		return opts.AlignLabels
	case AxisCommand:
		return opts.AlignLexerCommands
	case AxisComment:
		return opts.AlignTrailingComments
	default:
		return false
	}
}

// AlignmentGroup is a run of consecutive rules sharing one column on an
// axis. First and Last are unit indexes.
type AlignmentGroup struct {
	Axis   Axis
	First  int
	Last   int
	Column int
}

// minColumn returns the column the rule would use for axis with single
// spaces, and whether the rule has anything on that axis at all.
func (r *ruleLayout) minColumn(axis Axis) (int, bool) {
	if axis == AxisColon {
		return r.headEnd + 1, true
	}

	found := false
	best := 0
	for _, line := range r.tailLines() {
		starts := line.place(&r.cols)
		for i, item := range line.items {
			if item.axis == axis {
				found = true
				best = max(best, starts[i])
			}
		}
	}
	return best, found
}

// planAxis partitions rules into maximal runs that take part in axis and
// assigns each run the largest minimal column of its members. A run ends at
// a rule that has the axis disabled or nothing to align, at a rule marked
// breakBefore, and, with grouped alignments, at an empty output line.
func planAxis(axis Axis, rules []*ruleLayout) []AlignmentGroup {
	var groups []AlignmentGroup
	var run []*ruleLayout
	target := 0

	flush := func() {
		if len(run) == 0 {
			return
		}
		for _, r := range run {
			r.cols[axis] = target
		}
		groups = append(groups, AlignmentGroup{
			Axis:   axis,
			First:  run[0].index,
			Last:   run[len(run)-1].index,
			Column: target,
		})
		run = run[:0]
		target = 0
	}

	for _, r := range rules {
		if !axis.enabled(r.opts) {
			flush()
			continue
		}
		col, ok := r.minColumn(axis)
		if !ok {
			flush()
			continue
		}
		if r.breakBefore || (r.opts.GroupedAlignments && r.blankBefore) {
			flush()
		}
		run = append(run, r)
		target = max(target, col)
	}
	flush()

	return groups
}

// plan lays out and aligns rules, one axis at a time. Rule bodies are laid
// out after the colon axis because the colon column fixes their indentation.
func plan(rules []*ruleLayout) []AlignmentGroup {
	groups := planAxis(AxisColon, rules)
	for _, r := range rules {
		r.layoutBody()
	}
	for axis := AxisAction; axis < axisCount; axis++ {
		groups = append(groups, planAxis(axis, rules)...)
	}
	return groups
}
