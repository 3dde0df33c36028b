/*
Package keys classifies OSM tag keys.

Every key falls into exactly one Class. The checks run in a fixed order
and the first match wins: Lower, LowerColon, ProblemChars, Other.
*/
package keys

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

type Class string

const (
	Lower        Class = "lower"
	LowerColon   Class = "lower_colon"
	ProblemChars Class = "problemchars"
	Other        Class = "other"
)

// Classes lists all classes in match order.
var Classes = []Class{Lower, LowerColon, ProblemChars, Other}

var (
	lowerRe      = regexp.MustCompile(`^[a-z_]*$`)
	lowerColonRe = regexp.MustCompile(`^[a-z_]*:[a-z_]*$`)
)

// problemChars are characters that are not allowed in document field names.
// Includes horizontal and vertical whitespace.
const problemChars = "=+/&<>;'\"?%#$@,. \t\r\n\v\f"

// Classify returns the class of key.
func Classify(key string) Class {
	switch {
	case lowerRe.MatchString(key):
		return Lower
	case lowerColonRe.MatchString(key):
		return LowerColon
	case HasProblemChars(key):
		return ProblemChars
	default:
		return Other
	}
}

// HasProblemChars reports whether key contains any character that
// makes it unusable as a document field name.
func HasProblemChars(key string) bool {
	return strings.ContainsAny(key, problemChars)
}

func HasColon(key string) bool {
	return strings.IndexByte(key, ':') >= 0
}

// Classifier memoizes Classify for the most recently seen keys.
// OSM files reuse a small set of keys for millions of tags.
// A Classifier is safe for concurrent use.
type Classifier struct {
	cache *lru.Cache[string, Class]
}

// NewClassifier returns a Classifier that caches up to size keys.
// A size <= 0 disables caching.
func NewClassifier(size int) *Classifier {
	if size <= 0 {
		return &Classifier{}
	}
	cache, err := lru.New[string, Class](size)
	if err != nil {
		// only returned for size <= 0
		panic(err)
	}
	return &Classifier{cache: cache}
}

func (c *Classifier) Classify(key string) Class {
	if c == nil || c.cache == nil {
		return Classify(key)
	}
	if class, ok := c.cache.Get(key); ok {
		return class
	}
	class := Classify(key)
	c.cache.Add(key, class)
	return class
}

// Len returns the number of cached keys.
func (c *Classifier) Len() int {
	if c == nil || c.cache == nil {
		return 0
	}
	return c.cache.Len()
}
