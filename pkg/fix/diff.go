package fix

import (
	"fmt"
	"slices"
	"strings"
)

// Diff represents a unified diff between original and modified content.
type Diff struct {
	// Path is the file path for the diff header.
	Path string

	// Original is the original file content.
	Original []byte

	// Modified is the modified file content.
	Modified []byte

	// Hunks contains the diff hunks.
	Hunks []DiffHunk

	// Additions is the number of lines added.
	Additions int

	// Deletions is the number of lines deleted.
	Deletions int
}

// DiffHunk represents a single hunk in a unified diff.
type DiffHunk struct {
	// OriginalStart is the 1-based line number where the hunk starts in the original.
	OriginalStart int

	// OriginalCount is the number of lines from the original in this hunk.
	OriginalCount int

	// ModifiedStart is the 1-based line number where the hunk starts in the modified.
	ModifiedStart int

	// ModifiedCount is the number of lines from the modified in this hunk.
	ModifiedCount int

	// Lines contains the diff lines in this hunk.
	Lines []DiffLine
}

// DiffLine represents a single line in a diff hunk.
type DiffLine struct {
	// Kind indicates whether this is a context, add, or remove line.
	Kind DiffLineKind

	// Content is the line content (without the diff prefix or newline).
	Content string

	// NoNewline marks the last line of a text without a final newline.
	NoNewline bool
}

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	// DiffLineContext is an unchanged context line.
	DiffLineContext DiffLineKind = iota

	// DiffLineAdd is a line added in the modified version.
	DiffLineAdd

	// DiffLineRemove is a line removed from the original version.
	DiffLineRemove
)

// contextLines is the number of context lines to show around changes.
const contextLines = 3

// GenerateDiff creates a unified diff between original and modified content.
// Returns nil if there are no changes.
func GenerateDiff(path string, original, modified []byte) *Diff {
	origLines := splitLines(original)
	modLines := splitLines(modified)
	if slices.Equal(origLines, modLines) {
		return nil
	}

	script := editScript(origLines, modLines)
	diff := &Diff{
		Path:     path,
		Original: original,
		Modified: modified,
		Hunks:    hunksOf(script),
	}
	for _, op := range script {
		switch op.kind {
		case DiffLineAdd:
			diff.Additions++
		case DiffLineRemove:
			diff.Deletions++
		case DiffLineContext:
		}
	}

	return diff
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String returns the diff in unified diff format (without the git header).
func (d *Diff) String() string {
	if d == nil || len(d.Hunks) == 0 {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- a/%s\n", path)
	fmt.Fprintf(&builder, "+++ b/%s\n", path)

	for _, hunk := range d.Hunks {
		fmt.Fprintf(&builder, "@@ -%d,%d +%d,%d @@\n",
			hunk.OriginalStart, hunk.OriginalCount,
			hunk.ModifiedStart, hunk.ModifiedCount)

		for _, line := range hunk.Lines {
			switch line.Kind {
			case DiffLineContext:
				fmt.Fprintf(&builder, " %s\n", line.Content)
			case DiffLineAdd:
				fmt.Fprintf(&builder, "+%s\n", line.Content)
			case DiffLineRemove:
				fmt.Fprintf(&builder, "-%s\n", line.Content)
			}
			if line.NoNewline {
				builder.WriteString("\\ No newline at end of file\n")
			}
		}
	}

	return builder.String()
}

// FullString returns the complete diff including the git header.
func (d *Diff) FullString() string {
	if d == nil || len(d.Hunks) == 0 {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// splitLines splits content into lines that keep their newline, so a
// missing final newline shows up as a changed last line.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}

	lines := strings.SplitAfter(string(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// lineOp is one step of an edit script. orig and mod count the lines of
// each side that come before it, so a hunk can be numbered from its first op.
type lineOp struct {
	kind      DiffLineKind
	text      string
	orig, mod int
}

// editScript turns orig into mod. Formatting usually touches a few lines of
// a long file, so the shared head and tail are kept as context and only the
// lines between them are aligned by longest common subsequence.
func editScript(orig, mod []string) []lineOp {
	head := 0
	for head < len(orig) && head < len(mod) && orig[head] == mod[head] {
		head++
	}
	tail := 0
	for tail < len(orig)-head && tail < len(mod)-head &&
		orig[len(orig)-1-tail] == mod[len(mod)-1-tail] {
		tail++
	}
	from, to := orig[head:len(orig)-tail], mod[head:len(mod)-tail]

	// common[i][j] is the LCS length of from[i:] and to[j:], filled from the
	// back so the script can be read off front to back.
	common := make([][]int, len(from)+1)
	for i := range common {
		common[i] = make([]int, len(to)+1)
	}
	for i := len(from) - 1; i >= 0; i-- {
		for j := len(to) - 1; j >= 0; j-- {
			if from[i] == to[j] {
				common[i][j] = common[i+1][j+1] + 1
			} else {
				common[i][j] = max(common[i+1][j], common[i][j+1])
			}
		}
	}

	script := make([]lineOp, 0, len(orig)+len(to))
	keep := func(line string, at int) {
		script = append(script, lineOp{kind: DiffLineContext, text: line, orig: at, mod: at - len(orig) + len(mod)})
	}
	for i := range head {
		script = append(script, lineOp{kind: DiffLineContext, text: orig[i], orig: i, mod: i})
	}

	i, j := 0, 0
	for i < len(from) || j < len(to) {
		op := lineOp{orig: head + i, mod: head + j}
		switch {
		case i < len(from) && j < len(to) && from[i] == to[j]:
			op.kind, op.text = DiffLineContext, from[i]
			i++
			j++
		case j == len(to) || (i < len(from) && common[i+1][j] >= common[i][j+1]):
			// Removals go first within a change.
			op.kind, op.text = DiffLineRemove, from[i]
			i++
		default:
			op.kind, op.text = DiffLineAdd, to[j]
			j++
		}
		script = append(script, op)
	}

	for at := len(orig) - tail; at < len(orig); at++ {
		keep(orig[at], at)
	}

	return script
}

// hunksOf cuts a script into hunks of changes with contextLines of context
// on each side. Changes separated by at most twice that share a hunk.
func hunksOf(script []lineOp) []DiffHunk {
	var hunks []DiffHunk

	for at := 0; at < len(script); {
		if script[at].kind == DiffLineContext {
			at++
			continue
		}

		end := at
		for {
			for end < len(script) && script[end].kind != DiffLineContext {
				end++
			}
			next := end
			for next < len(script) && script[next].kind == DiffLineContext {
				next++
			}
			if next == len(script) || next-end > 2*contextLines {
				break
			}
			end = next
		}

		start, stop := max(at-contextLines, 0), min(end+contextLines, len(script))
		hunks = append(hunks, newHunk(script[start:stop]))
		at = stop
	}

	return hunks
}

func newHunk(ops []lineOp) DiffHunk {
	hunk := DiffHunk{
		OriginalStart: ops[0].orig + 1,
		ModifiedStart: ops[0].mod + 1,
		Lines:         make([]DiffLine, 0, len(ops)),
	}

	for _, op := range ops {
		if op.kind != DiffLineAdd {
			hunk.OriginalCount++
		}
		if op.kind != DiffLineRemove {
			hunk.ModifiedCount++
		}
		hunk.Lines = append(hunk.Lines, DiffLine{
			Kind:      op.kind,
			Content:   strings.TrimSuffix(op.text, "\n"),
			NoNewline: !strings.HasSuffix(op.text, "\n"),
		})
	}

	return hunk
}
