package countenum

import (
	"reflect"

	"github.com/mesh-intelligence/algtype/pkg/algtype"
)

// codecDomain enumerates a type through its isomorphism: queries project the
// value with EncodeRef and results are decoded.
type codecDomain struct {
	codec algtype.Codec
	root  node
}

func (d *codecDomain) Type() reflect.Type             { return d.codec.Type() }
func (d *codecDomain) Card() Count                    { return d.root.card() }
func (d *codecDomain) Index(p any) (uint64, bool)     { return d.root.index(d.codec.EncodeRef(p)) }
func (d *codecDomain) CountFrom(p any) Count          { return d.root.countFrom(d.codec.EncodeRef(p)) }
func (d *codecDomain) FromIndex(i uint64) (any, bool) { return d.decode(d.root.fromIndex(i)) }
func (d *codecDomain) First() (any, bool)             { return d.decode(d.root.first()) }
func (d *codecDomain) Last() (any, bool)              { return d.decode(d.root.last()) }
func (d *codecDomain) Prev(p any) (any, bool)         { return d.decode(d.root.prev(d.codec.EncodeRef(p))) }
func (d *codecDomain) Succ(p any) (any, bool)         { return d.decode(d.root.succ(d.codec.EncodeRef(p))) }

func (d *codecDomain) decode(r algtype.Repr, ok bool) (any, bool) {
	if !ok {
		return nil, false
	}
	return d.codec.Decode(r), true
}

func (d *codecDomain) Each(yield func(any) bool) bool {
	return d.root.each(func(r algtype.Repr) bool { return yield(d.codec.Decode(r)) })
}

func (d *codecDomain) EachFrom(p any, yield func(any) bool) bool {
	return d.root.eachFrom(d.codec.EncodeRef(p), func(r algtype.Repr) bool { return yield(d.codec.Decode(r)) })
}

func (d *codecDomain) Own(p any) any {
	return reflect.ValueOf(p).Elem().Interface()
}

func (d *codecDomain) Ref(x any) any {
	p := reflect.New(d.codec.Type())
	if x != nil {
		p.Elem().Set(reflect.ValueOf(x))
	}
	return p.Interface()
}
