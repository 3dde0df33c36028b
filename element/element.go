package element

// Tags of the OSM XML format with a meaning for osmdocs.
const (
	NodeTag = "node"
	WayTag  = "way"
	TagTag  = "tag"
	NdTag   = "nd"
)

type Attr struct {
	Key   string
	Value string
}

// Element is a single XML element of an OSM file with its attributes in
// document order and its child elements.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
}

// Attr returns the value of the first attribute with the given key.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (e *Element) HasAttr(key string) bool {
	_, ok := e.Attr(key)
	return ok
}

// Descendants calls fn for all descendants of e with the given tag in
// document order. e itself is not visited.
func (e *Element) Descendants(tag string, fn func(*Element)) {
	for _, c := range e.Children {
		if c.Tag == tag {
			fn(c)
		}
		c.Descendants(tag, fn)
	}
}

// Scanner yields the elements of an OSM file one by one.
// Next returns io.EOF after the last element.
type Scanner interface {
	Next() (*Element, error)
}
