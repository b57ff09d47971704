package apply

import (
	"fmt"
	"strings"

	"github.com/sokinpui/mend/internal/diff"
)

// combo is one native-apply attempt: a strip depth, three-way merge on or
// off, and a tolerance flag set. The ladder is exhausted deterministically
// in the order combos are generated, so an audit can always tell which
// single relaxation a path needed.
type combo struct {
	strip    int
	threeWay bool
	flags    []string
}

func (c combo) args() []string {
	args := []string{"apply", fmt.Sprintf("-p%d", c.strip)}
	if c.threeWay {
		args = append(args, "-3")
	}
	return append(args, c.flags...)
}

func (c combo) String() string {
	return strings.Join(c.args(), " ")
}

// toleranceFlagSets are tried strictest first. The reject sets come last
// because they may leave a partially applied tree behind on failure.
var toleranceFlagSets = [][]string{
	nil,
	{"--ignore-whitespace"},
	{"--inaccurate-eof"},
	{"--unidiff-zero"},
	{"--ignore-whitespace", "--inaccurate-eof"},
	{"--reject", "--ignore-whitespace"},
	{"--reject", "--unidiff-zero"},
}

// stripOrder picks the depth matching the patch's path convention first,
// minimizing wasted attempts.
func stripOrder(patch *diff.Patch) []int {
	if patch.UsesABPrefix() {
		return []int{1, 0}
	}
	return []int{0, 1}
}

// fullMatrix enumerates every whole-patch / section attempt: strip depths
// in adaptive order, three-way off then on, flag sets strictest first.
func fullMatrix(patch *diff.Patch) []combo {
	var combos []combo
	for _, strip := range stripOrder(patch) {
		for _, threeWay := range []bool{false, true} {
			for _, flags := range toleranceFlagSets {
				combos = append(combos, combo{strip: strip, threeWay: threeWay, flags: flags})
			}
		}
	}
	return combos
}

// zeroContextCombos are the attempts for context-free rewritten sections:
// whitespace- and zero-context-tolerant, no three-way.
func zeroContextCombos(patch *diff.Patch) []combo {
	var combos []combo
	for _, strip := range stripOrder(patch) {
		combos = append(combos, combo{strip: strip, flags: []string{"--unidiff-zero", "--ignore-whitespace"}})
	}
	return combos
}
