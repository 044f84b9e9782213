// Package algtype encodes structs, arrays and sealed unions as sums of
// products.
//
// Every encodable type has a Shape, a right-leaning list of variants each
// holding a right-leaning list of fields:
//
//	Sum<Product<A, Product<B, One>>, Sum<One, Zero>>
//
// and a Codec converting values to and from their encoding (Repr). Codecs
// for structs and arrays are derived by reflection; sealed unions declare
// their variants with RegisterUnion; anything else can be defined by hand
// with Define. The enumeration and dense map algebras in countenum and
// powermap are written against the encoding alone.
package algtype
