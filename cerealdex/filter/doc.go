// Package filter decides whether a list of (column, operator, value)
// constraints over the cereal catalog can ever match, and narrows row
// collections by it.
//
// The pipeline is Compile (column lookup, operator lookup, value coercion),
// Check (per-column feasibility, fail-fast) and Apply (sequential
// narrowing). Everything here is pure: states are built per call and no
// package-level value is mutated after init.
//
// Integer feasibility compares the width of the remaining range with the
// number of excluded integers inside it; float columns track open and
// closed bounds instead of stepping by one.
package filter
