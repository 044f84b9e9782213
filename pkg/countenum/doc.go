// Package countenum orders finite domains and maps their values to indices.
//
// Enumerations are built by structural recursion over the encoding of a type
// (see algtype): an empty sum has no values, a unit product one, a sum orders
// all values of its first variant before the rest, and a product varies its
// rightmost field fastest. Integer and bool leaves are built in; other leaf
// types are enumerated through their own encoding or registered with
// RegisterLeaf.
//
// Counts that leave the uint64 range are reported as Overflow rather than
// wrapped:
//
//	e := countenum.Must[algtype.Option[bool]]()
//	e.Card()                    // 3
//	e.Index(algtype.Some(true)) // 2, true
package countenum
