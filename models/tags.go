// ABOUTME: Ordered, duplicate-free tag collection for won-proposal examples
// ABOUTME: Trims input and preserves insertion order
package models

import "strings"

type TagSet struct {
	tags []string
}

func NewTagSet(tags ...string) *TagSet {
	ts := &TagSet{}
	for _, t := range tags {
		ts.Add(t)
	}
	return ts
}

// Add appends the trimmed tag unless it is empty or already present.
// Comparison is case-sensitive.
func (ts *TagSet) Add(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || ts.Contains(tag) {
		return false
	}
	ts.tags = append(ts.tags, tag)
	return true
}

func (ts *TagSet) Remove(tag string) {
	out := ts.tags[:0]
	for _, t := range ts.tags {
		if t != tag {
			out = append(out, t)
		}
	}
	ts.tags = out
}

func (ts *TagSet) Contains(tag string) bool {
	for _, t := range ts.tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (ts *TagSet) Len() int {
	return len(ts.tags)
}

// Slice returns a copy of the tags, or nil when empty.
func (ts *TagSet) Slice() []string {
	if len(ts.tags) == 0 {
		return nil
	}
	out := make([]string, len(ts.tags))
	copy(out, ts.tags)
	return out
}
