/*
Package count summarizes the raw elements of an OSM file.

Each summary is an Aggregator that folds one element at a time. Tags,
KeyTypes and Users run a full scan for a single summary, All folds all
three in one scan with identical results.
*/
package count

import (
	"io"

	"github.com/omniscale/osmdocs/element"
	"github.com/omniscale/osmdocs/keys"
)

type Aggregator interface {
	Add(e *element.Element)
}

// Run reads all elements from s and passes each to all aggregators.
func Run(s element.Scanner, aggs ...Aggregator) error {
	for {
		e, err := s.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		for _, agg := range aggs {
			agg.Add(e)
		}
	}
}

// TagCounter counts the elements per tag.
type TagCounter map[string]int

func (c TagCounter) Add(e *element.Element) {
	c[e.Tag]++
}

// Total returns the number of counted elements.
func (c TagCounter) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// KeyTypeCounter counts the keys of all tag elements per key class.
type KeyTypeCounter struct {
	Counts     map[keys.Class]int
	classifier *keys.Classifier
}

// NewKeyTypeCounter returns a counter with all classes set to zero.
// classifier can be nil.
func NewKeyTypeCounter(classifier *keys.Classifier) *KeyTypeCounter {
	counts := make(map[keys.Class]int, len(keys.Classes))
	for _, class := range keys.Classes {
		counts[class] = 0
	}
	return &KeyTypeCounter{Counts: counts, classifier: classifier}
}

// Add classifies the k attribute of tag elements. A missing k counts as
// empty key.
func (c *KeyTypeCounter) Add(e *element.Element) {
	if e.Tag != element.TagTag {
		return
	}
	k, _ := e.Attr("k")
	c.Counts[c.classifier.Classify(k)]++
}

func (c *KeyTypeCounter) Total() int {
	n := 0
	for _, v := range c.Counts {
		n += v
	}
	return n
}

// UserSet collects the distinct user attributes of all elements.
type UserSet map[string]struct{}

func (u UserSet) Add(e *element.Element) {
	if user, ok := e.Attr("user"); ok {
		u[user] = struct{}{}
	}
}

func Tags(s element.Scanner) (TagCounter, error) {
	c := make(TagCounter)
	if err := Run(s, c); err != nil {
		return nil, err
	}
	return c, nil
}

func KeyTypes(s element.Scanner, classifier *keys.Classifier) (map[keys.Class]int, error) {
	c := NewKeyTypeCounter(classifier)
	if err := Run(s, c); err != nil {
		return nil, err
	}
	return c.Counts, nil
}

func Users(s element.Scanner) (UserSet, error) {
	u := make(UserSet)
	if err := Run(s, u); err != nil {
		return nil, err
	}
	return u, nil
}

type Summary struct {
	Tags     TagCounter
	KeyTypes map[keys.Class]int
	Users    UserSet
}

// All collects all summaries in a single scan.
func All(s element.Scanner, classifier *keys.Classifier) (*Summary, error) {
	tags := make(TagCounter)
	keyTypes := NewKeyTypeCounter(classifier)
	users := make(UserSet)
	if err := Run(s, tags, keyTypes, users); err != nil {
		return nil, err
	}
	return &Summary{Tags: tags, KeyTypes: keyTypes.Counts, Users: users}, nil
}
