// Package report prints the distribution of a training sample: the joint
// (phase bin, outcome) table and both marginals.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/ChizhovVadim/dataforge/internal/domain"
	"github.com/ChizhovVadim/dataforge/internal/sampling"
	"github.com/muesli/termenv"
)

var outcomes = []domain.Outcome{domain.Loss, domain.Draw, domain.Win}

type Table struct {
	Bins  int
	Total int
	Joint [][3]int
	WDL   [3]int
	Phase []int
}

func NewTable(cells []sampling.Cell, bins int) Table {
	var t = Table{
		Bins:  bins,
		Joint: make([][3]int, bins),
		Phase: make([]int, bins),
	}
	for _, cell := range cells {
		var col = outcomeColumn(cell.WDL)
		if col < 0 || cell.Bin < 0 || cell.Bin >= bins {
			continue
		}
		t.Joint[cell.Bin][col] += cell.Count
		t.WDL[col] += cell.Count
		t.Phase[cell.Bin] += cell.Count
		t.Total += cell.Count
	}
	return t
}

func (t *Table) share(n int) float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(n) / float64(t.Total)
}

// BinLabel returns the phase range covered by the bin, e.g. "86-170".
func BinLabel(bin, bins int) string {
	var lo, hi = -1, -1
	for p := domain.MinPhase; p <= domain.MaxPhase; p++ {
		if sampling.Bin(p, bins) != bin {
			continue
		}
		if lo < 0 {
			lo = p
		}
		hi = p
	}
	if lo < 0 {
		return "-"
	}
	return fmt.Sprintf("%v-%v", lo, hi)
}

func outcomeColumn(o domain.Outcome) int {
	for i, x := range outcomes {
		if x == o {
			return i
		}
	}
	return -1
}

// Write prints the table. Options select the terminal profile; without them
// the profile is detected from w.
func Write(w io.Writer, t Table, opts ...termenv.OutputOption) error {
	var out = termenv.NewOutput(w, opts...)
	var title = func(s string) string {
		return out.String(s).Bold().String()
	}
	var sb = &strings.Builder{}

	fmt.Fprintf(sb, "%v (%v positions)\n", title("Joint distribution (phase_bin x WDL)"), t.Total)
	fmt.Fprintf(sb, "%-10v", "phase")
	for _, o := range outcomes {
		fmt.Fprintf(sb, "%10v", o)
	}
	sb.WriteString("\n")
	for bin := 0; bin < t.Bins; bin++ {
		fmt.Fprintf(sb, "%-10v", BinLabel(bin, t.Bins))
		for col := range outcomes {
			fmt.Fprintf(sb, "%10.4f", t.share(t.Joint[bin][col]))
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(sb, "\n%v\n", title("WDL marginal"))
	for col, o := range outcomes {
		fmt.Fprintf(sb, "%-10v%10.4f\n", o, t.share(t.WDL[col]))
	}

	fmt.Fprintf(sb, "\n%v\n", title("Phase marginal"))
	for bin := 0; bin < t.Bins; bin++ {
		fmt.Fprintf(sb, "%-10v%10.4f\n", BinLabel(bin, t.Bins), t.share(t.Phase[bin]))
	}

	var _, err = io.WriteString(w, sb.String())
	return err
}
