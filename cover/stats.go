package cover

import (
	"fmt"
	"strings"
)

// Statistics renders a multi-line diagnostic summary.
func (f *Family) Statistics() string {
	var sb strings.Builder
	if f.maxSize > 0 {
		fmt.Fprintf(&sb, "maximum subsets without penalty: %d, penalty per subset: %v\n", f.maxSize, f.penalty)
	}
	fmt.Fprintf(&sb, "universe size: %d\n", f.universe)
	fmt.Fprintf(&sb, "subsets: %d\n", f.size)
	fmt.Fprintf(&sb, "cost: %v\n", f.Cost())
	fmt.Fprintf(&sb, "necessary subsets: %d\n", f.necessary)
	fmt.Fprintf(&sb, "uncovered indices: %d\n", f.uncoveredN)
	fmt.Fprintf(&sb, "singly covered indices: %d\n", f.singleN)
	fmt.Fprintf(&sb, "multiply covered indices: %d\n", f.multipleN)
	fmt.Fprintf(&sb, "mean coverage frequency: %.4f\n", f.MeanFrequency())
	fmt.Fprintf(&sb, "mean subset size: %.4f\n", f.MeanSubsetSize())
	fmt.Fprintf(&sb, "mean density: %.2f%%\n", 100*f.MeanDensity())
	return sb.String()
}
