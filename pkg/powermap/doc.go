// Package powermap provides TotalMap, a dense map holding exactly one value
// for every key of a finite domain.
//
// The storage of a TotalMap mirrors the encoding of its key type: a slot for
// a unit product, a pair of stores for a sum and, for a product, one nested
// store per value of the leading field. Leaf fields must be enumerable (see
// countenum) with at most MaxLeafKeys values; 8- and 16-bit integers, bool
// and small composites qualify.
//
// Memory and traversal cost are proportional to the number of keys times the
// size of V.
package powermap
