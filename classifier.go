package dbroute

import (
	"strings"
	"sync"
	"unicode"
)

// DefaultReadPrefixes are the operation-name prefixes treated as
// read-indicating by default.
var DefaultReadPrefixes = []string{"get", "select", "find", "list", "query"}

// Classifier decides whether an operation reads or writes by matching its
// name against a configured prefix set. Classification is a naming
// convention, not an inspection of the operation's SQL: an operation whose
// name starts with a read prefix but performs a write is silently routed to
// a replica. Callers must name operations consistently with their effect.
type Classifier struct {
	mutex    sync.RWMutex
	prefixes []string
}

// NewClassifier creates a classifier for the given read prefixes. With no
// arguments it uses DefaultReadPrefixes.
func NewClassifier(prefixes ...string) *Classifier {
	if len(prefixes) == 0 {
		prefixes = DefaultReadPrefixes
	}
	c := &Classifier{}
	c.AddReadPrefixes(prefixes...)
	return c
}

// AddReadPrefixes extends the set of read-indicating prefixes. Safe for
// concurrent use with Classify.
func (c *Classifier) AddReadPrefixes(prefixes ...string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, prefix := range prefixes {
		prefix = strings.ToLower(strings.TrimSpace(prefix))
		if prefix == "" {
			continue
		}
		c.prefixes = append(c.prefixes, prefix)
	}
}

// ReadPrefixes returns a copy of the configured read prefixes in match order.
func (c *Classifier) ReadPrefixes() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	ret := make([]string, len(c.prefixes))
	copy(ret, c.prefixes)

	return ret
}

// Classify maps an operation name to its intent. Matching is
// case-insensitive and tolerates leading whitespace; any name that does not
// start with a configured read prefix is a write.
func (c *Classifier) Classify(operation string) Intent {
	trimmed := strings.ToLower(strings.TrimLeftFunc(operation, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}))

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for _, prefix := range c.prefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return ReadIntent
		}
	}

	return WriteIntent
}
