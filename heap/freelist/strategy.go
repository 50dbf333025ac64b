package freelist

import (
	"fmt"
	"strings"
)

// Strategy selects which free block satisfies a request. It is fixed for the
// lifetime of a FreeList and never changes the list invariants.
type Strategy uint8

const (
	// FirstFit takes the lowest-addressed block that is large enough.
	FirstFit Strategy = iota
	// BestFit takes the smallest block that is large enough.
	BestFit
	// WorstFit takes the largest block.
	WorstFit
	// NextFit is FirstFit resumed from where the previous allocation ended.
	NextFit
)

var strategyNames = [...]string{
	FirstFit: "first-fit",
	BestFit:  "best-fit",
	WorstFit: "worst-fit",
	NextFit:  "next-fit",
}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

// Valid reports whether s is one of the four strategies.
func (s Strategy) Valid() bool {
	return int(s) < len(strategyNames)
}

// Strategies returns every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{FirstFit, BestFit, WorstFit, NextFit}
}

// ParseStrategy accepts "first-fit", "firstfit", "first_fit" or "first"
// (and likewise for the others), case-insensitively.
func ParseStrategy(name string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	key = strings.TrimSuffix(key, "fit")
	switch key {
	case "first":
		return FirstFit, nil
	case "best":
		return BestFit, nil
	case "worst":
		return WorstFit, nil
	case "next":
		return NextFit, nil
	}
	return 0, fmt.Errorf("freelist: unknown strategy %q", name)
}

// Set implements pflag.Value so a Strategy can be bound to a command-line flag.
func (s *Strategy) Set(name string) error {
	v, err := ParseStrategy(name)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Type implements pflag.Value.
func (s *Strategy) Type() string { return "strategy" }
