package card

import (
	"math"
	"testing"
)

func TestRowAggregate(t *testing.T) {
	row := Row{Cells: []CellMeasurement{
		{CardID: "a", NaturalLines: 12, LineHeight: 20, Overhead: 16},
		{CardID: "b", NaturalLines: 4, LineHeight: 24, Overhead: 20},
	}}

	agg := row.Aggregate(160)

	if agg.MaxNaturalLines != 12 {
		t.Errorf("MaxNaturalLines = %d, want 12", agg.MaxNaturalLines)
	}
	if math.Abs(agg.AvgLineHeight-22) > 1e-9 {
		t.Errorf("AvgLineHeight = %g, want 22", agg.AvgLineHeight)
	}
	if math.Abs(agg.AvgOverhead-18) > 1e-9 {
		t.Errorf("AvgOverhead = %g, want 18", agg.AvgOverhead)
	}
	// ceil((160-18)/22) = ceil(6.45) = 7
	if agg.MinLines != 7 {
		t.Errorf("MinLines = %d, want 7", agg.MinLines)
	}
}

func TestRowAggregateFloorOfOne(t *testing.T) {
	// Overhead alone exceeds the minimum row height: the floor computation
	// would go to zero or below, but a row always shows at least one line.
	row := Row{Cells: []CellMeasurement{
		{CardID: "a", NaturalLines: 3, LineHeight: 20, Overhead: 200},
	}}

	agg := row.Aggregate(160)
	if agg.MinLines != 1 {
		t.Errorf("MinLines = %d, want 1", agg.MinLines)
	}
}

func TestRowAggregateEmpty(t *testing.T) {
	agg := Row{}.Aggregate(160)
	if agg != (RowAggregate{}) {
		t.Errorf("empty row aggregate = %+v, want zero value", agg)
	}
}

func TestRowAggregateHeight(t *testing.T) {
	agg := RowAggregate{AvgLineHeight: 20, AvgOverhead: 16}
	if h := agg.Height(5); math.Abs(h-116) > 1e-9 {
		t.Errorf("Height(5) = %g, want 116", h)
	}
}

func TestRemainingNeed(t *testing.T) {
	tests := []struct {
		maxNatural int
		minLines   int
		want       int
	}{
		{12, 7, 5},
		{7, 7, 0},
		// Scenario: one line of content forced up to an 8-line floor. The
		// need clamps to zero; it never goes negative.
		{1, 8, 0},
	}

	for _, tt := range tests {
		agg := RowAggregate{MaxNaturalLines: tt.maxNatural, MinLines: tt.minLines}
		if got := agg.RemainingNeed(); got != tt.want {
			t.Errorf("RemainingNeed(%d, %d) = %d, want %d", tt.maxNatural, tt.minLines, got, tt.want)
		}
	}
}

func TestMeasurementValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       CellMeasurement
		wantErr bool
	}{
		{"valid", CellMeasurement{CardID: "a", NaturalLines: 1, LineHeight: 20}, false},
		{"zero lines", CellMeasurement{CardID: "a", NaturalLines: 0, LineHeight: 20}, true},
		{"zero line height", CellMeasurement{CardID: "a", NaturalLines: 1, LineHeight: 0}, true},
		{"negative overhead", CellMeasurement{CardID: "a", NaturalLines: 1, LineHeight: 20, Overhead: -1}, true},
	}

	for _, tt := range tests {
		err := tt.m.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestMeasurementsValidate(t *testing.T) {
	valid := Measurements{
		Columns: 2,
		Rows:    []Row{{Cells: []CellMeasurement{{CardID: "a", NaturalLines: 1, LineHeight: 20}}}},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid measurements rejected: %v", err)
	}

	if err := (Measurements{Columns: 0}).Validate(); err == nil {
		t.Error("zero columns accepted")
	}
	empty := Measurements{Columns: 2, Rows: []Row{{}}}
	if err := empty.Validate(); err == nil {
		t.Error("row without cells accepted")
	}
}

func TestMeasurementsRoundTrip(t *testing.T) {
	m := Measurements{
		Columns: 2,
		Rows: []Row{
			{Cells: []CellMeasurement{
				{CardID: "a", NaturalLines: 12, LineHeight: 20, Overhead: 16},
				{CardID: "b", NaturalLines: 4, LineHeight: 20, Overhead: 16},
			}},
		},
	}

	data, err := MarshalMeasurements(m)
	if err != nil {
		t.Fatalf("MarshalMeasurements() error = %v", err)
	}
	got, err := UnmarshalMeasurements(data)
	if err != nil {
		t.Fatalf("UnmarshalMeasurements() error = %v", err)
	}
	if got.Columns != 2 || got.CellCount() != 2 || got.Rows[0].Cells[0].NaturalLines != 12 {
		t.Errorf("round trip = %+v", got)
	}
}

func TestGridAllocation(t *testing.T) {
	g := Grid{Rows: []RowPlan{{Lines: 9}, {Lines: 7}}}
	got := g.Allocation()
	if len(got) != 2 || got[0] != 9 || got[1] != 7 {
		t.Errorf("Allocation() = %v, want [9 7]", got)
	}
}

func TestUnmarshalGridRejectsEmpty(t *testing.T) {
	if _, err := UnmarshalGrid([]byte(`{"columns":2,"rows":[]}`)); err == nil {
		t.Error("grid without rows accepted")
	}
	if _, err := UnmarshalGrid([]byte(`{"columns":0,"rows":[{"lines":1}]}`)); err == nil {
		t.Error("grid with zero columns accepted")
	}
}
