/*
Package document converts OSM nodes and ways into nested documents.

A document keeps the insertion order of its fields, so the JSON output
follows the order of the source attributes and tags.
*/
package document

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Field names with a fixed meaning. Tags and attributes with these names
// never overwrite them.
const (
	TypeField     = "type"
	CreatedField  = "created"
	PosField      = "pos"
	AddressField  = "address"
	NodeRefsField = "node_refs"
)

// Fields is an insertion-ordered string mapping, used for the created and
// address sub-documents.
type Fields = orderedmap.OrderedMap[string, string]

type Document struct {
	fields *orderedmap.OrderedMap[string, interface{}]
}

func newDocument(typ string) *Document {
	d := &Document{fields: orderedmap.New[string, interface{}]()}
	d.fields.Set(TypeField, typ)
	return d
}

// Type returns the source element tag, node or way.
func (d *Document) Type() string {
	v, _ := d.fields.Get(TypeField)
	typ, _ := v.(string)
	return typ
}

// Get returns the value of a field. Values are either a string, *Fields
// for created and address, *Pos for pos or []string for node_refs.
func (d *Document) Get(key string) (interface{}, bool) {
	return d.fields.Get(key)
}

// Keys returns all field names in insertion order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, d.fields.Len())
	for pair := d.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (d *Document) Len() int {
	return d.fields.Len()
}

func (d *Document) MarshalJSON() ([]byte, error) {
	return d.fields.MarshalJSON()
}

// Map returns the document as plain maps and slices, the same structure
// encoding/json produces when decoding the document into an interface{}.
func (d *Document) Map() map[string]interface{} {
	m := make(map[string]interface{}, d.fields.Len())
	for pair := d.fields.Oldest(); pair != nil; pair = pair.Next() {
		switch v := pair.Value.(type) {
		case *Fields:
			sub := make(map[string]interface{}, v.Len())
			for p := v.Oldest(); p != nil; p = p.Next() {
				sub[p.Key] = p.Value
			}
			m[pair.Key] = sub
		case *Pos:
			m[pair.Key] = v.slice()
		case []string:
			refs := make([]interface{}, len(v))
			for i := range v {
				refs[i] = v[i]
			}
			m[pair.Key] = refs
		default:
			m[pair.Key] = v
		}
	}
	return m
}

func (d *Document) setScalar(key, value string) {
	if isReserved(key) {
		return
	}
	d.fields.Set(key, value)
}

func (d *Document) subFields(key string) *Fields {
	if v, ok := d.fields.Get(key); ok {
		return v.(*Fields)
	}
	f := orderedmap.New[string, string]()
	d.fields.Set(key, f)
	return f
}

func (d *Document) pos() *Pos {
	if v, ok := d.fields.Get(PosField); ok {
		return v.(*Pos)
	}
	p := &Pos{}
	d.fields.Set(PosField, p)
	return p
}

func isReserved(key string) bool {
	switch key {
	case TypeField, CreatedField, PosField, AddressField, NodeRefsField:
		return true
	}
	return false
}

// Pos is a [lat, lon] pair. Missing halves encode as null.
type Pos struct {
	Lat    string
	Lon    string
	HasLat bool
	HasLon bool
}

func (p *Pos) slice() []interface{} {
	pair := []interface{}{nil, nil}
	if p.HasLat {
		pair[0] = p.Lat
	}
	if p.HasLon {
		pair[1] = p.Lon
	}
	return pair
}

func (p *Pos) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.slice())
}
