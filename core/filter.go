package core

import "strings"

// ContainsFold reports whether needle is a case-insensitive substring of any of fields.
// An empty needle matches everything.
func ContainsFold(needle string, fields ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, fld := range fields {
		if strings.Contains(strings.ToLower(fld), needle) {
			return true
		}
	}
	return false
}

// EnumSet is a closed set of lowercase values with a fallback for unrecognized input.
type EnumSet struct {
	values   []string
	fallback string
}

func NewEnumSet(fallback string, values ...string) EnumSet {
	return EnumSet{values: values, fallback: fallback}
}

func (s EnumSet) Values() []string {
	vals := make([]string, len(s.values))
	copy(vals, s.values)
	return vals
}

func (s EnumSet) Default() string { return s.fallback }

// Lookup returns the canonical member equal to v, ignoring case and surrounding spaces.
func (s EnumSet) Lookup(v string) (string, bool) {
	v = CleanString(v, true /* lower */)
	for _, val := range s.values {
		if val == v {
			return val, true
		}
	}
	return "", false
}

// Normalize returns the canonical member for v, or the fallback when v is not a member.
func (s EnumSet) Normalize(v string) string {
	if val, ok := s.Lookup(v); ok {
		return val
	}
	return s.fallback
}

// Match compares a record value against a filter criterion.
// An empty criterion matches everything; a criterion outside the set matches nothing.
func (s EnumSet) Match(recordValue, criterion string) bool {
	if strings.TrimSpace(criterion) == "" {
		return true
	}
	want, ok := s.Lookup(criterion)
	if !ok {
		return false
	}
	return s.Normalize(recordValue) == want
}

// FilterSlice keeps the items for which keep returns true, preserving order.
func FilterSlice[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
