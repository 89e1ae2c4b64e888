package editor

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op marks a diff line as kept, removed or added.
type Op byte

const (
	OpEqual  Op = ' '
	OpDelete Op = '-'
	OpInsert Op = '+'
)

// DiffLine is one line of a line diff.
type DiffLine struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

// String renders the line with its one-character prefix.
func (l DiffLine) String() string {
	return string(l.Op) + l.Text
}

// LineDiff compares two texts line by line.
func LineDiff(before, after string) []DiffLine {
	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var out []DiffLine
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		op := OpEqual
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			out = append(out, DiffLine{Op: op, Text: line})
		}
	}
	return out
}

// Changed reports whether a diff contains any insertions or deletions.
func Changed(lines []DiffLine) bool {
	for _, l := range lines {
		if l.Op != OpEqual {
			return true
		}
	}
	return false
}

// FormatDiff renders lines as text, one prefixed line per diff line. With
// context >= 0, runs of unchanged lines longer than 2*context are collapsed
// to a "..." marker.
func FormatDiff(lines []DiffLine, context int) string {
	var b strings.Builder
	write := func(l DiffLine) {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}

	for i := 0; i < len(lines); {
		if lines[i].Op != OpEqual || context < 0 {
			write(lines[i])
			i++
			continue
		}
		j := i
		for j < len(lines) && lines[j].Op == OpEqual {
			j++
		}
		run := lines[i:j]
		head, tail := context, context
		if i == 0 {
			head = 0
		}
		if j == len(lines) {
			tail = 0
		}
		if len(run) <= head+tail || len(run) <= 2*context {
			for _, l := range run {
				write(l)
			}
		} else {
			for _, l := range run[:head] {
				write(l)
			}
			b.WriteString("...\n")
			for _, l := range run[len(run)-tail:] {
				write(l)
			}
		}
		i = j
	}
	return b.String()
}
