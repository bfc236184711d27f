// Package sparse defines the sparse ternary vector shared by the dataset
// format, the reference engine and the benchmarks.
//
// A Vec holds only its nonzero coordinates: Pos lists the coordinates valued
// +1 and Neg those valued -1. Generated and decoded vectors keep both lists
// strictly ascending and disjoint; Validate checks that contract.
package sparse
