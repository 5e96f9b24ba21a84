package inferskema

import (
	js "github.com/reoring/inferskema/jsonschema"
)

// Emit converts a descriptor into a schema document. Every object-typed
// position is closed: it lists its properties and required keys and rejects
// any key that was never observed.
//
// Emit never fails and never mutates d. The same descriptor state always
// yields the same schema.
func Emit(d *Descriptor, opts ...EmitOpt) *js.Schema {
	var opt EmitOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	s := emit(d, opt)
	s.Dialect = opt.Dialect
	return s
}

func emit(d *Descriptor, opt EmitOpt) *js.Schema {
	s := &js.Schema{}
	if d == nil {
		return s
	}
	kinds := d.kinds.Widened()
	if n := kinds.Len(); n > 0 && (opt.MaxUnion <= 0 || n <= opt.MaxUnion) {
		s.Type = js.Types(kinds.Names())
	}

	if kinds.Has(KindObject) {
		s.Properties = make(map[string]*js.Schema, len(d.properties))
		for k, child := range d.properties {
			s.Properties[k] = emit(child, opt)
		}
		s.Required = d.RequiredKeys()
		s.AdditionalProperties = false
	}
	if kinds.Has(KindArray) {
		// Nil items yields {}: no element was ever observed.
		s.Items = emit(d.items, opt)
	}
	return s
}
