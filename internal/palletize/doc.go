// Package palletize consolidates packed boxes into pallets or crates. Standard
// boxes go first onto the cheaper pallet type, large boxes follow onto
// oversize pallets, and anything left over gets one more try on an oversize
// pallet before it is reported.
package palletize
