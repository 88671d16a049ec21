package allocate

import (
	"math"
	"testing"

	"github.com/mhertel/cardgrid/pkg/card"
)

// agg builds a row aggregate with explicit floor and natural line counts.
func agg(maxNatural, minLines int, lineH, overhead float64) card.RowAggregate {
	return card.RowAggregate{
		MaxNaturalLines: maxNatural,
		AvgLineHeight:   lineH,
		AvgOverhead:     overhead,
		MinLines:        minLines,
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{MinRowHeight: 160, HeightBudget: 740, MaxIterations: 200}, false},
		{"zero min row height", Options{MinRowHeight: 0, HeightBudget: 740, MaxIterations: 200}, false},
		{"negative min row height", Options{MinRowHeight: -1, HeightBudget: 740, MaxIterations: 200}, true},
		{"negative budget", Options{MinRowHeight: 160, HeightBudget: -1, MaxIterations: 200}, true},
		{"zero iterations", Options{MinRowHeight: 160, HeightBudget: 740, MaxIterations: 0}, true},
	}

	for _, tt := range tests {
		err := tt.opts.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestOptionsSetDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()

	if opts.MinRowHeight != DefaultMinRowHeight {
		t.Errorf("MinRowHeight = %g, want %g", opts.MinRowHeight, DefaultMinRowHeight)
	}
	if opts.HeightBudget != DefaultHeightBudget {
		t.Errorf("HeightBudget = %g, want %g", opts.HeightBudget, DefaultHeightBudget)
	}
	if opts.MaxIterations != DefaultMaxIterations {
		t.Errorf("MaxIterations = %d, want %d", opts.MaxIterations, DefaultMaxIterations)
	}
}

func TestIdeal(t *testing.T) {
	rows := []card.RowAggregate{
		agg(10, 7, 20, 16),
		agg(3, 7, 20, 16), // floor above natural
	}

	got := Ideal(rows)
	want := []int{10, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Ideal()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestTotalHeight(t *testing.T) {
	rows := []card.RowAggregate{
		agg(5, 2, 20, 16),
		agg(3, 2, 10, 4),
	}
	// 5*20+16 + 3*10+4 = 116 + 34 = 150
	got := TotalHeight(rows, []int{5, 3})
	if math.Abs(got-150) > 1e-9 {
		t.Errorf("TotalHeight = %g, want 150", got)
	}
}

func TestAllocateEmpty(t *testing.T) {
	if got := Allocate(nil, 740, 200); got != nil {
		t.Errorf("Allocate(nil) = %v, want nil", got)
	}
}

func TestAllocateIdealFits(t *testing.T) {
	// Total ideal height 2*(5*20+20) = 240, well under budget.
	rows := []card.RowAggregate{
		agg(5, 2, 20, 20),
		agg(5, 2, 20, 20),
	}

	got := Allocate(rows, 740, 200)
	for i, lines := range got {
		if lines != 5 {
			t.Errorf("row %d = %d lines, want 5 (ideal fit)", i, lines)
		}
	}
}

func TestAllocateConstrained(t *testing.T) {
	// Four identical rows, ideal height 200 each (9 lines * 20 + 20), total
	// 800 over a 740 budget. Floors are 7 lines (160 each, 640 total),
	// leaving room for exactly 5 extra lines.
	rows := []card.RowAggregate{
		agg(9, 7, 20, 20),
		agg(9, 7, 20, 20),
		agg(9, 7, 20, 20),
		agg(9, 7, 20, 20),
	}

	got := Allocate(rows, 740, 200)

	total := TotalHeight(rows, got)
	if total > 740+1e-9 {
		t.Errorf("total height %g exceeds budget", total)
	}

	granted := 0
	for i, lines := range got {
		if lines < 7 || lines > 9 {
			t.Errorf("row %d = %d lines, want within [7, 9]", i, lines)
		}
		granted += lines - 7
	}
	if granted != 5 {
		t.Errorf("granted %d extra lines, want 5", granted)
	}

	// Equal need ties resolve in original row order, and a row keeps
	// receiving lines until saturated before the pointer moves on.
	want := []int{9, 9, 8, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("allocation = %v, want %v", got, want)
			break
		}
	}
}

func TestAllocateFloorAboveNatural(t *testing.T) {
	// One line of content, but the readability floor forces 8 lines. The row
	// has no remaining need and must stay pinned at its floor.
	rows := []card.RowAggregate{
		agg(1, 8, 20, 10),
		agg(12, 8, 20, 10),
	}

	got := Allocate(rows, 400, 200)
	if got[0] != 8 {
		t.Errorf("floored row = %d lines, want 8", got[0])
	}
	if got[1] < 8 {
		t.Errorf("needy row = %d lines, want ≥ 8", got[1])
	}
}

func TestAllocateNoNeedyRows(t *testing.T) {
	// Every row's natural content is at or below its floor: phase 2 returns
	// the all-floor allocation untouched.
	rows := []card.RowAggregate{
		agg(2, 5, 20, 100), // tall overhead forces the ideal over budget
		agg(3, 5, 20, 100),
	}

	got := Allocate(rows, 100, 200)
	want := []int{5, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("allocation = %v, want %v", got, want)
			break
		}
	}
}

func TestAllocateInfeasibleBudget(t *testing.T) {
	// The all-floor allocation already exceeds the budget. No grant can ever
	// commit, the iteration cap trips, and the floors come back unchanged.
	rows := []card.RowAggregate{
		agg(10, 7, 20, 20),
		agg(10, 7, 20, 20),
	}

	got := Allocate(rows, 50, 200)
	want := []int{7, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("allocation = %v, want %v", got, want)
			break
		}
	}
}

func TestAllocateIterationCap(t *testing.T) {
	// A cap of 1 permits at most one loop step: one grant to the neediest
	// row, nothing else. The partial allocation is returned without error.
	rows := []card.RowAggregate{
		agg(9, 7, 20, 20),
		agg(9, 7, 20, 20),
		agg(9, 7, 20, 20),
		agg(9, 7, 20, 20),
	}

	got := Allocate(rows, 740, 1)
	want := []int{8, 7, 7, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("allocation = %v, want %v", got, want)
			break
		}
	}
}

func TestAllocatePrioritizesNeed(t *testing.T) {
	// Row 1 has more unclamped content and must be served first.
	rows := []card.RowAggregate{
		agg(8, 7, 20, 20),  // need 1
		agg(20, 7, 20, 20), // need 13
	}

	// Floors: 160 + 160 = 320. Budget 400 leaves room for 4 lines.
	got := Allocate(rows, 400, 200)
	if got[1] != 11 {
		t.Errorf("neediest row = %d lines, want 11", got[1])
	}
	if got[0] != 7 {
		t.Errorf("low-need row = %d lines, want 7", got[0])
	}
}

func TestAllocateHeterogeneousLineCosts(t *testing.T) {
	// A cheap row can still fit a line after an expensive row failed; the
	// wrap-around must retry it rather than terminate early.
	rows := []card.RowAggregate{
		agg(10, 2, 50, 0), // expensive lines, need 8
		agg(10, 2, 10, 0), // cheap lines, need 8
	}

	// Floors: 100 + 20 = 120. Budget 155 leaves 35.
	// The expensive row is served first but only one 50-unit line would
	// overshoot, so all grants land on the cheap row: 3 lines of 10.
	got := Allocate(rows, 155, 200)
	if got[0] != 2 {
		t.Errorf("expensive row = %d lines, want 2", got[0])
	}
	if got[1] != 5 {
		t.Errorf("cheap row = %d lines, want 5", got[1])
	}

	total := TotalHeight(rows, got)
	if total > 155+1e-9 {
		t.Errorf("total height %g exceeds budget", total)
	}
}

func TestAllocateBudgetMonotonicity(t *testing.T) {
	// With a uniform line cost across rows, every grant costs the same and
	// the distribution is a prefix fill in priority order: raising the
	// budget only extends that prefix, so no row's allocation may shrink.
	// (Heterogeneous line costs void this: a bigger budget can let an
	// expensive high-priority row absorb grants that previously flowed past
	// it to a cheaper row.)
	rows := []card.RowAggregate{
		agg(12, 7, 20, 16),
		agg(9, 7, 20, 16),
		agg(8, 7, 20, 16),
	}

	// Floors: 3 × 156 = 468.
	prev := Allocate(rows, 468, 200)
	for budget := 470.0; budget <= 740; budget += 10 {
		got := Allocate(rows, budget, 200)
		for i := range rows {
			if got[i] < prev[i] {
				t.Fatalf("budget %g: row %d shrank from %d to %d lines",
					budget, i, prev[i], got[i])
			}
		}
		prev = got
	}

	// A budget past the ideal height lands on the ideal allocation.
	want := []int{12, 9, 8}
	got := Allocate(rows, 740, 200)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ample budget allocation = %v, want %v", got, want)
			break
		}
	}
}

func TestAllocateDeterministic(t *testing.T) {
	rows := []card.RowAggregate{
		agg(9, 7, 20, 20),
		agg(12, 7, 18, 22),
		agg(3, 7, 20, 20),
		agg(15, 7, 25, 10),
	}

	first := Allocate(rows, 600, 200)
	second := Allocate(rows, 600, 200)
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("allocation not deterministic: %v vs %v", first, second)
			break
		}
	}
}

func TestAllocateDoesNotMutateInput(t *testing.T) {
	rows := []card.RowAggregate{
		agg(9, 7, 20, 20),
		agg(9, 7, 20, 20),
	}
	before := make([]card.RowAggregate, len(rows))
	copy(before, rows)

	Allocate(rows, 300, 200)

	for i := range rows {
		if rows[i] != before[i] {
			t.Errorf("row %d mutated: %+v vs %+v", i, rows[i], before[i])
		}
	}
}

func TestAllocateBounds(t *testing.T) {
	// Floor and ceiling invariants across a mix of budgets.
	rows := []card.RowAggregate{
		agg(9, 7, 20, 20),
		agg(1, 8, 20, 10),
		agg(30, 3, 12, 8),
		agg(5, 5, 20, 16),
	}

	for _, budget := range []float64{0, 100, 400, 740, 2000} {
		got := Allocate(rows, budget, 200)
		for i, r := range rows {
			ceiling := max(r.MaxNaturalLines, r.MinLines)
			if got[i] < r.MinLines || got[i] > ceiling {
				t.Errorf("budget %g: row %d = %d lines, want within [%d, %d]",
					budget, i, got[i], r.MinLines, ceiling)
			}
		}
	}
}
