package format

import (
	"strings"

	"github.com/yaklabco/g4fmt/pkg/grammar"
	"github.com/yaklabco/g4fmt/pkg/options"
)

// tailItem is one piece written after an alternative's elements.
type tailItem struct {
	axis Axis
	text string

	// glue items follow the previous text without a space.
	glue bool
}

// tailLine is the end of a rendered line that carries tail items.
type tailLine struct {
	// end is the column after the line's own text.
	end int

	// bare is set when the line has no content after its ':' or '|'.
	bare bool

	items []tailItem
}

// place returns the start column of each item, given the planned columns.
// Unplanned axes get a single separating space.
func (l *tailLine) place(cols *[axisCount]int) []int {
	starts := make([]int, len(l.items))
	col := l.end
	for i, item := range l.items {
		start := col + 1
		if item.glue && (i > 0 || !l.bare) {
			start = col
		} else if item.axis != AxisNone && cols[item.axis] > start {
			start = cols[item.axis]
		}
		starts[i] = start
		col = advance(start, item.text)
	}
	return starts
}

func (l *tailLine) write(b *strings.Builder, cols *[axisCount]int) {
	col := l.end
	for i, start := range l.place(cols) {
		b.WriteString(spaces(start - col))
		b.WriteString(l.items[i].text)
		col = advance(start, l.items[i].text)
	}
}

type altLayout struct {
	alt   *grammar.Alternative
	elems []string

	// lines are the rendered lines without tails.
	lines []string
	tail  *tailLine
}

// ruleLayout carries a rule through measuring, planning and emitting.
type ruleLayout struct {
	index int
	rule  *grammar.Rule
	opts  options.Options

	head    string
	headEnd int

	single      bool
	semiHanging bool
	barCol      int

	alts    []*altLayout
	closing *tailLine

	// cols holds the planned column per axis, or -1.
	cols [axisCount]int

	// breakBefore is set when something between the previous laid out rule
	// and this one cannot take part in alignment.
	breakBefore bool

	// blankBefore is set when the output has an empty line between the
	// previous laid out rule and this one.
	blankBefore bool
}

func newRuleLayout(index int, rule *grammar.Rule, opts options.Options) *ruleLayout {
	r := &ruleLayout{index: index, rule: rule, opts: opts}
	for i := range r.cols {
		r.cols[i] = -1
	}

	parts := make([]string, 0, len(rule.Modifiers)+len(rule.Prelude)+1)
	parts = append(parts, rule.Modifiers...)
	parts = append(parts, rule.Name+rule.Args)
	parts = append(parts, rule.Prelude...)
	r.head = strings.Join(parts, " ")
	r.headEnd = advance(0, r.head)

	r.alts = make([]*altLayout, len(rule.Alternatives))
	for i, alt := range rule.Alternatives {
		r.alts[i] = &altLayout{alt: alt, elems: renderElements(alt.Elements, opts)}
	}

	r.single = r.fitsSingleLine()
	if !r.single {
		last := rule.Alternatives[len(rule.Alternatives)-1]
		r.semiHanging = opts.AlignSemicolons == options.SemicolonHanging &&
			len(rule.EndComments) == 0 && last.Comment == nil
	}

	return r
}

func (r *ruleLayout) hanging() bool {
	return r.opts.AlignColons == options.ColonHanging
}

// colonColumn is the planned colon column, or the minimal one.
func (r *ruleLayout) colonColumn() int {
	if r.cols[AxisColon] >= 0 {
		return r.cols[AxisColon]
	}
	return r.headEnd + 1
}

// colonPrefix renders the head and colon of single-line and trailing-colon
// rules.
func (r *ruleLayout) colonPrefix() (string, int) {
	if r.hanging() {
		return r.head + ":", r.headEnd + 1
	}
	pad := padTo(r.headEnd, r.colonColumn())
	return r.head + pad + ":", r.headEnd + len(pad) + 1
}

func (r *ruleLayout) fitsSingleLine() bool {
	rule := r.rule
	if !r.opts.AllowShortRulesOnASingleLine || len(rule.Alternatives) != 1 || len(rule.EndComments) > 0 {
		return false
	}
	alt := rule.Alternatives[0]
	if alt.Comment != nil || len(alt.Leading) > 0 {
		return false
	}

	var b strings.Builder
	b.WriteString(r.head)
	if !r.hanging() {
		b.WriteByte(' ')
	}
	b.WriteByte(':')
	for _, elem := range r.alts[0].elems {
		b.WriteByte(' ')
		b.WriteString(elem)
	}
	for _, item := range altItems(alt) {
		b.WriteByte(' ')
		b.WriteString(item.text)
	}
	b.WriteByte(';')

	line := b.String()
	return !strings.ContainsRune(line, '\n') && textWidth(line) <= r.opts.ColumnLimit
}

// altItems lists an alternative's tails in output order.
func altItems(alt *grammar.Alternative) []tailItem {
	var items []tailItem
	if alt.Action != "" {
		axis := AxisAction
		if strings.ContainsRune(alt.Action, '\n') {
			axis = AxisNone
		}
		items = append(items, tailItem{axis: axis, text: alt.Action})
	}
	if alt.Label != "" {
		items = append(items, tailItem{axis: AxisLabel, text: "# " + alt.Label})
	}
	if len(alt.Commands) > 0 {
		items = append(items, tailItem{axis: AxisCommand, text: "-> " + strings.Join(alt.Commands, ", ")})
	}
	return items
}

// endItems returns the items that close the rule on the current line.
func (r *ruleLayout) endItems() []tailItem {
	items := []tailItem{{axis: AxisNone, text: ";", glue: true}}
	if r.rule.Trailing != nil && len(r.rule.Exceptions) == 0 {
		items = append(items, tailItem{axis: AxisComment, text: r.rule.Trailing.Text})
	}
	return items
}

func indentUnit(opts options.Options) (string, int) {
	if opts.UseTab {
		return "\t", opts.TabWidth
	}
	return spaces(opts.IndentWidth), opts.IndentWidth
}

// layoutBody renders the rule's lines once the colon column is known.
func (r *ruleLayout) layoutBody() {
	if r.single {
		r.layoutSingle()
		return
	}

	indent, indentWidth := indentUnit(r.opts)
	barIndent := indent
	r.barCol = indentWidth
	if !r.hanging() {
		r.barCol = r.colonColumn()
		barIndent = spaces(r.barCol)
	}
	contentCol := r.barCol + 2

	for i, a := range r.alts {
		var lines []string
		var prefix string
		col := contentCol

		switch {
		case len(a.alt.Leading) > 0 && i == 0:
			// The colon stays on its own line so the comments remain
			// inside the rule.
			if r.hanging() {
				lines = append(lines, barIndent+":")
			} else {
				colon, _ := r.colonPrefix()
				lines = append(lines, colon)
			}
			for _, c := range a.alt.Leading {
				lines = append(lines, barIndent+c.Text)
			}
			prefix = spaces(contentCol)
		case i == 0 && !r.hanging():
			colon, colonEnd := r.colonPrefix()
			prefix = colon + " "
			col = colonEnd + 1
		default:
			for _, c := range a.alt.Leading {
				lines = append(lines, barIndent+c.Text)
			}
			marker := "| "
			if i == 0 {
				marker = ": "
			}
			prefix = barIndent + marker
		}

		body, end, bare := r.wrap(prefix, col, a)
		a.lines = append(lines, body...)

		items := altItems(a.alt)
		if i == len(r.alts)-1 && r.semiHanging {
			items = append(items, r.endItems()...)
		} else if a.alt.Comment != nil {
			items = append(items, tailItem{axis: AxisComment, text: a.alt.Comment.Text})
		}
		a.tail = &tailLine{end: end, bare: bare, items: items}
	}

	if !r.semiHanging {
		items := r.endItems()[1:]
		r.closing = &tailLine{end: r.barCol + 1, items: items}
	}
}

func (r *ruleLayout) layoutSingle() {
	a := r.alts[0]
	prefix, col := r.colonPrefix()
	line := prefix
	if len(a.elems) > 0 {
		body := strings.Join(a.elems, " ")
		line += " " + body
		col = advance(col+1, body)
	}
	a.lines = []string{line}
	items := append(altItems(a.alt), r.endItems()...)
	a.tail = &tailLine{end: col, bare: len(a.elems) == 0, items: items}
}

// wrap fills lines with the alternative's elements, breaking before an
// element that would cross the column limit. Lines never break next to an
// inline comment.
func (r *ruleLayout) wrap(prefix string, col int, a *altLayout) ([]string, int, bool) {
	if len(a.elems) == 0 {
		trimmed := strings.TrimRight(prefix, " ")
		return []string{trimmed}, col - (len(prefix) - len(trimmed)), true
	}

	contCol := r.barCol + 2 + r.opts.ContinuationIndentWidth
	var lines []string
	var line strings.Builder
	line.WriteString(prefix)

	for i, text := range a.elems {
		if i > 0 {
			breakable := a.alt.Elements[i].Kind != grammar.ElemComment &&
				a.alt.Elements[i-1].Kind != grammar.ElemComment
			if breakable && col+1+textWidth(firstLine(text)) > r.opts.ColumnLimit {
				lines = append(lines, line.String())
				line.Reset()
				line.WriteString(spaces(contCol))
				col = contCol
			} else {
				line.WriteByte(' ')
				col++
			}
		}
		line.WriteString(text)
		col = advance(col, text)
	}

	return append(lines, line.String()), col, false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// emit writes the rule's final text.
func (r *ruleLayout) emit(b *strings.Builder) {
	indent, _ := indentUnit(r.opts)
	var lines []string

	if !r.single && r.hanging() {
		lines = append(lines, r.head)
	}

	for _, a := range r.alts {
		var last strings.Builder
		last.WriteString(a.lines[len(a.lines)-1])
		a.tail.write(&last, &r.cols)
		lines = append(lines, a.lines[:len(a.lines)-1]...)
		lines = append(lines, last.String())
	}

	if r.closing != nil {
		barIndent := indent
		if !r.hanging() {
			barIndent = spaces(r.barCol)
		}
		for _, c := range r.rule.EndComments {
			lines = append(lines, barIndent+c.Text)
		}
		var closing strings.Builder
		closing.WriteString(barIndent + ";")
		r.closing.write(&closing, &r.cols)
		lines = append(lines, closing.String())
	}

	for i, clause := range r.rule.Exceptions {
		line := indent + clause
		if i == len(r.rule.Exceptions)-1 && r.rule.Trailing != nil {
			line += " " + r.rule.Trailing.Text
		}
		lines = append(lines, line)
	}

	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.TrimRight(line, " \t"))
	}
}

// tailLines lists every line of the rule that carries tail items.
func (r *ruleLayout) tailLines() []*tailLine {
	lines := make([]*tailLine, 0, len(r.alts)+1)
	for _, a := range r.alts {
		lines = append(lines, a.tail)
	}
	if r.closing != nil {
		lines = append(lines, r.closing)
	}
	return lines
}

func renderElements(elems []*grammar.Element, opts options.Options) []string {
	out := make([]string, len(elems))
	for i, elem := range elems {
		out[i] = renderElement(elem, opts)
	}
	return out
}

func renderElement(elem *grammar.Element, opts options.Options) string {
	var b strings.Builder

	if elem.Label != "" {
		b.WriteString(elem.Label)
		if opts.SpaceBeforeAssignmentOperators {
			b.WriteString(" " + elem.LabelOp + " ")
		} else {
			b.WriteString(elem.LabelOp)
		}
	}
	if elem.Not {
		b.WriteByte('~')
	}

	switch elem.Kind {
	case grammar.ElemBlock:
		b.WriteByte('(')
		for i, alt := range elem.Block {
			text := renderInline(alt, opts)
			if i > 0 {
				b.WriteString(" |")
				if text != "" {
					b.WriteByte(' ')
				}
			}
			b.WriteString(text)
		}
		b.WriteByte(')')
	case grammar.ElemTerm, grammar.ElemAction, grammar.ElemComment:
		b.WriteString(elem.Text)
	}

	b.WriteString(elem.Options)
	b.WriteString(elem.Suffix)
	return b.String()
}

// renderInline renders a sub-block alternative on one line.
func renderInline(alt *grammar.Alternative, opts options.Options) string {
	parts := renderElements(alt.Elements, opts)
	for _, item := range altItems(alt) {
		parts = append(parts, item.text)
	}
	return strings.Join(parts, " ")
}
