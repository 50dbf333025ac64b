// Package workload reads allocation traces and replays them against a heap.
//
// A trace is plain text, one op per line:
//
//	# comment
//	alloc <name> <size> [align]
//	free <name>
//
// Sizes and alignments are decimal or 0x-prefixed hex. Names are arbitrary
// tokens tying a free to the allocation it releases.
package workload

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind is the operation a trace line performs.
type Kind uint8

const (
	KindAlloc Kind = iota
	KindFree
)

func (k Kind) String() string {
	switch k {
	case KindAlloc:
		return "alloc"
	case KindFree:
		return "free"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Op is one parsed trace line.
type Op struct {
	Kind  Kind
	Name  string
	Size  uint64
	Align uint64
	Line  int // 1-based source line, 0 for ops built in code
}

func (op Op) String() string {
	if op.Kind == KindFree {
		return fmt.Sprintf("free %s", op.Name)
	}
	return fmt.Sprintf("alloc %s %d %d", op.Name, op.Size, op.Align)
}

const (
	commentPrefix = "#"
	defaultAlign  = 8
	maxLineSize   = 64 * 1024
)

// Parse reads a whole trace. It stops at the first malformed line.
func Parse(r io.Reader) ([]Op, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var ops []Op
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		op, ok, err := ParseLine(scanner.Text(), lineNo)
		if err != nil {
			return nil, err
		}
		if ok {
			ops = append(ops, op)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("workload: reading trace: %w", err)
	}
	return ops, nil
}

// ParseLine parses one trace line. ok is false for blank and comment lines.
func ParseLine(line string, lineNo int) (op Op, ok bool, err error) {
	if i := strings.Index(line, commentPrefix); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Op{}, false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "alloc":
		if len(fields) < 3 || len(fields) > 4 {
			return Op{}, false, fmt.Errorf("%w: line %d: want \"alloc <name> <size> [align]\"", ErrSyntax, lineNo)
		}
		size, err := parseUint(fields[2])
		if err != nil {
			return Op{}, false, fmt.Errorf("%w: line %d: size %q: %w", ErrSyntax, lineNo, fields[2], err)
		}
		align := uint64(defaultAlign)
		if len(fields) == 4 {
			if align, err = parseUint(fields[3]); err != nil {
				return Op{}, false, fmt.Errorf("%w: line %d: align %q: %w", ErrSyntax, lineNo, fields[3], err)
			}
		}
		return Op{Kind: KindAlloc, Name: fields[1], Size: size, Align: align, Line: lineNo}, true, nil

	case "free":
		if len(fields) != 2 {
			return Op{}, false, fmt.Errorf("%w: line %d: want \"free <name>\"", ErrSyntax, lineNo)
		}
		return Op{Kind: KindFree, Name: fields[1], Line: lineNo}, true, nil
	}
	return Op{}, false, fmt.Errorf("%w: line %d: unknown op %q", ErrSyntax, lineNo, fields[0])
}

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 0, 64)
}
