package document

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/omniscale/osmdocs/element"
	"github.com/omniscale/osmdocs/keys"
	"github.com/omniscale/osmdocs/parser/osmxml"
)

// parseFirst returns the first node or way of an OSM XML snippet.
func parseFirst(t *testing.T, doc string) *element.Element {
	t.Helper()
	p := osmxml.New(strings.NewReader(doc))
	for {
		e, err := p.Next()
		if err != nil {
			t.Fatal(err)
		}
		if e.Tag == element.NodeTag || e.Tag == element.WayTag || e.Tag == "relation" {
			return e
		}
	}
}

func marshal(t *testing.T, d *Document) string {
	t.Helper()
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestShape(t *testing.T) {
	for _, tt := range []struct {
		name     string
		doc      string
		expected string
	}{
		{
			name: "node with position and created",
			doc:  `<osm><node id="1" lat="12.9" lon="77.6" user="alice" version="3"/></osm>`,
			expected: `{"type":"node","id":"1","pos":["12.9","77.6"],` +
				`"created":{"user":"alice","version":"3"}}`,
		},
		{
			name:     "pos order is fixed",
			doc:      `<osm><node lon="77.6" lat="12.9"/></osm>`,
			expected: `{"type":"node","pos":["12.9","77.6"]}`,
		},
		{
			name:     "partial pos",
			doc:      `<osm><node id="1" lat="12.9"/></osm>`,
			expected: `{"type":"node","id":"1","pos":["12.9",null]}`,
		},
		{
			name: "all created attributes",
			doc:  `<osm><node changeset="7" timestamp="2017-01-01T00:00:00Z" uid="42" user="bob" version="1" visible="true"/></osm>`,
			expected: `{"type":"node","created":{"changeset":"7","timestamp":"2017-01-01T00:00:00Z",` +
				`"uid":"42","user":"bob","version":"1"},"visible":"true"}`,
		},
		{
			name:     "way node refs keep order",
			doc:      `<osm><way id="5"><nd ref="10"/><nd ref="11"/><nd ref="9"/></way></osm>`,
			expected: `{"type":"way","id":"5","node_refs":["10","11","9"]}`,
		},
		{
			name:     "address",
			doc:      `<osm><node id="1"><tag k="addr:city" v="Bengaluru"/><tag k="addr:postcode" v="560001"/></node></osm>`,
			expected: `{"type":"node","id":"1","address":{"city":"Bengaluru","postcode":"560001"}}`,
		},
		{
			name:     "problem chars are dropped",
			doc:      `<osm><node id="1"><tag k="a,b" v="x"/><tag k="addr:street name" v="y"/><tag k="name" v="z"/></node></osm>`,
			expected: `{"type":"node","id":"1","name":"z"}`,
		},
		{
			name:     "colon keys without addr prefix are dropped",
			doc:      `<osm><node id="1"><tag k="name:en" v="x"/><tag k="amenity" v="cafe"/></node></osm>`,
			expected: `{"type":"node","id":"1","amenity":"cafe"}`,
		},
		{
			name:     "uppercase keys are kept",
			doc:      `<osm><node id="1"><tag k="FIXME" v="check"/></node></osm>`,
			expected: `{"type":"node","id":"1","FIXME":"check"}`,
		},
		{
			name:     "nested addr keys keep their remaining colons",
			doc:      `<osm><node id="1"><tag k="addr:street:name" v="MG Road"/></node></osm>`,
			expected: `{"type":"node","id":"1","address":{"street:name":"MG Road"}}`,
		},
		{
			name:     "later tags overwrite earlier ones",
			doc:      `<osm><node id="1"><tag k="name" v="a"/><tag k="amenity" v="cafe"/><tag k="name" v="b"/></node></osm>`,
			expected: `{"type":"node","id":"1","name":"b","amenity":"cafe"}`,
		},
		{
			name: "reserved field names are never overwritten",
			doc: `<osm><way id="1"><nd ref="1"/><tag k="type" v="multipolygon"/><tag k="address" v="x"/>` +
				`<tag k="node_refs" v="y"/><tag k="addr:city" v="Pune"/></way></osm>`,
			expected: `{"type":"way","id":"1","address":{"city":"Pune"},"node_refs":["1"]}`,
		},
		{
			name:     "tags without k or v",
			doc:      `<osm><node id="1"><tag v="orphan"/><tag k="noname"/><nd/></node></osm>`,
			expected: `{"type":"node","id":"1","noname":""}`,
		},
		{
			name:     "way with tags and refs",
			doc:      `<osm><way id="3" user="alice"><nd ref="1"/><tag k="highway" v="residential"/><nd ref="2"/></way></osm>`,
			expected: `{"type":"way","id":"3","created":{"user":"alice"},"highway":"residential","node_refs":["1","2"]}`,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			d := Shape(parseFirst(t, tt.doc))
			if d == nil {
				t.Fatal("no document")
			}
			if got := marshal(t, d); got != tt.expected {
				t.Errorf("unexpected document\n got: %s\nwant: %s", got, tt.expected)
			}
		})
	}
}

func TestShapeSkipsOtherElements(t *testing.T) {
	for _, doc := range []string{
		`<osm><relation id="4"><member type="way" ref="3" role="outer"/><tag k="type" v="multipolygon"/></relation></osm>`,
	} {
		if d := Shape(parseFirst(t, doc)); d != nil {
			t.Errorf("expected no document, got %s", marshal(t, d))
		}
	}
	for _, e := range []*element.Element{
		{Tag: "tag", Attrs: []element.Attr{{Key: "k", Value: "name"}}},
		{Tag: "nd"},
		{Tag: "osm"},
		{Tag: "bounds"},
	} {
		if d := Shape(e); d != nil {
			t.Errorf("expected no document for %s, got %s", e.Tag, marshal(t, d))
		}
	}
}

func TestShapeIsPure(t *testing.T) {
	e := parseFirst(t, `<osm><way id="3" user="alice" lat="1"><nd ref="1"/><tag k="addr:city" v="X"/><tag k="name" v="Y"/></way></osm>`)
	shaper := NewShaper(keys.NewClassifier(16))

	first := shaper.Shape(e)
	second := shaper.Shape(e)
	if diff := cmp.Diff(first.Map(), second.Map()); diff != "" {
		t.Errorf("shaping twice differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Map(), Shape(e).Map()); diff != "" {
		t.Errorf("cached shaper differs (-cached +plain):\n%s", diff)
	}
	if len(e.Children) != 3 || len(e.Attrs) != 3 {
		t.Error("element modified by Shape")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	e := parseFirst(t, `<osm><way id="3" user="alice" version="2" lat="1">`+
		`<nd ref="1"/><nd ref="2"/><tag k="addr:city" v="X"/><tag k="name" v="&lt;Y&gt;"/></way></osm>`)
	d := Shape(e)

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(d.Map(), decoded); diff != "" {
		t.Errorf("round trip differs (-doc +decoded):\n%s", diff)
	}
}

func TestDocumentAccessors(t *testing.T) {
	d := Shape(parseFirst(t, `<osm><node id="1" lat="2" user="u"><tag k="addr:city" v="C"/></node></osm>`))

	if d.Type() != "node" {
		t.Errorf("unexpected type %q", d.Type())
	}
	if diff := cmp.Diff([]string{"type", "id", "pos", "created", "address"}, d.Keys()); diff != "" {
		t.Errorf("unexpected keys:\n%s", diff)
	}
	if d.Len() != 5 {
		t.Errorf("unexpected len %d", d.Len())
	}

	v, ok := d.Get(PosField)
	if !ok {
		t.Fatal("missing pos")
	}
	if p := v.(*Pos); !p.HasLat || p.HasLon || p.Lat != "2" {
		t.Errorf("unexpected pos %+v", p)
	}
	v, _ = d.Get(AddressField)
	if city, _ := v.(*Fields).Get("city"); city != "C" {
		t.Errorf("unexpected city %q", city)
	}
}
