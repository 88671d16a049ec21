// Package allocate implements the row line-budget allocator at the heart of
// cardgrid.
//
// Given per-row aggregate measurements and a total height budget, the
// allocator computes an integer line count per row that shows as much of the
// natural content as fits, subject to a per-row readability floor. The
// algorithm is a two-phase greedy:
//
//  1. Ideal fit: if showing every row's full natural content (never below
//     its floor) fits the budget, that allocation is returned directly.
//  2. Constrained distribution: otherwise every row starts at its floor and
//     single lines are granted round-robin in priority order (largest
//     remaining need first, stable on ties), re-checking the exact
//     cumulative height after every grant. A hard iteration cap bounds the
//     loop.
//
// The allocator is a pure function of its inputs: no hidden state, no I/O,
// and identical inputs always produce identical output. Raising the budget
// never reduces a row's allocation as long as the line cost is uniform
// across rows; with heterogeneous per-row line costs a larger budget can let
// an expensive high-priority row absorb grants that previously flowed past
// it to a cheaper row, shrinking the cheaper row's share. That shift is
// defined behavior of the greedy, not a defect. Two defined
// non-error outcomes deserve mention: when even the all-floor allocation
// exceeds the budget, the all-floor allocation is returned and the budget is
// exceeded silently (content is never clamped below the floor); and when the
// iteration cap is reached, whatever allocation has accumulated is returned.
package allocate
