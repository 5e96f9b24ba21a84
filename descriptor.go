package inferskema

import "sort"

// Descriptor accumulates everything observed at one position of the document
// tree across all folded samples.
//
// Knowledge only grows: kinds, properties and items are never removed once
// added. The required key set is the only part that shrinks, as the
// intersection of the key sets of every object sample seen so far.
//
// A Descriptor is not safe for concurrent use; folds must be applied
// sequentially.
type Descriptor struct {
	kinds      KindSet
	properties map[string]*Descriptor
	required   map[string]struct{}
	objects    int // object samples folded so far
	items      *Descriptor
}

// NewDescriptor returns an empty descriptor with no observations.
func NewDescriptor() *Descriptor { return &Descriptor{} }

// Fold incorporates one sample into the descriptor in place.
func (d *Descriptor) Fold(v Value) {
	d.kinds = d.kinds.With(v.kind)
	switch v.kind {
	case KindObject:
		d.foldObject(v.members)
	case KindArray:
		// An empty array leaves items untouched: it says nothing about element shapes.
		for _, item := range v.items {
			if d.items == nil {
				d.items = NewDescriptor()
			}
			d.items.Fold(item)
		}
	}
}

func (d *Descriptor) foldObject(members []Member) {
	if d.properties == nil {
		d.properties = make(map[string]*Descriptor, len(members))
	}
	for _, m := range members {
		child, ok := d.properties[m.Key]
		if !ok {
			child = NewDescriptor()
			d.properties[m.Key] = child
		}
		child.Fold(m.Value)
	}

	if d.objects == 0 {
		d.required = make(map[string]struct{}, len(members))
		for _, m := range members {
			d.required[m.Key] = struct{}{}
		}
	} else if len(d.required) > 0 {
		present := make(map[string]struct{}, len(members))
		for _, m := range members {
			present[m.Key] = struct{}{}
		}
		for k := range d.required {
			if _, ok := present[k]; !ok {
				delete(d.required, k)
			}
		}
	}
	d.objects++
}

// Kinds returns the raw set of observed kinds. Integer and number may both be
// present; see KindSet.Widened for the emitted view.
func (d *Descriptor) Kinds() KindSet { return d.kinds }

// ObjectSamples reports how many object samples were folded at this position.
func (d *Descriptor) ObjectSamples() int { return d.objects }

// PropertyNames returns every key ever seen at this position, sorted.
func (d *Descriptor) PropertyNames() []string {
	names := make([]string, 0, len(d.properties))
	for k := range d.properties {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Property returns the child descriptor for key.
func (d *Descriptor) Property(key string) (*Descriptor, bool) {
	child, ok := d.properties[key]
	return child, ok
}

// RequiredKeys returns the keys present in every object sample, sorted. The
// result is non-nil whenever an object was observed.
func (d *Descriptor) RequiredKeys() []string {
	if d.objects == 0 {
		return nil
	}
	keys := make([]string, 0, len(d.required))
	for k := range d.required {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Items returns the shared element descriptor, or nil when no array element
// was ever observed.
func (d *Descriptor) Items() *Descriptor { return d.items }
