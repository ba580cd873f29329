package domain

import "sort"

// Answer is the value stored for one question.
// Scalar kinds (single, text, number) use Value; multi-select uses Selected.
type Answer struct {
	Value    string   `json:"value,omitempty"`
	Selected []string `json:"selected,omitempty"`
}

// Empty reports whether the answer carries nothing.
func (a Answer) Empty() bool {
	return a.Value == "" && len(a.Selected) == 0
}

// Has reports whether opt is part of the answer.
// For scalar answers it compares against Value.
func (a Answer) Has(opt string) bool {
	if a.Value != "" && a.Value == opt {
		return true
	}
	for _, s := range a.Selected {
		if s == opt {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slice with a.
func (a Answer) Clone() Answer {
	out := Answer{Value: a.Value}
	if a.Selected != nil {
		out.Selected = append([]string(nil), a.Selected...)
	}
	return out
}

// Answers is the Answer Store: question key to accumulated value.
// Keys appear only once a question has been answered.
type Answers map[string]Answer

// Get returns the answer stored under key.
func (a Answers) Get(key string) (Answer, bool) {
	ans, ok := a[key]
	return ans, ok
}

// Value returns the scalar value stored under key, or "".
func (a Answers) Value(key string) string {
	return a[key].Value
}

// Selected returns a copy of the multi-select set stored under key.
func (a Answers) Selected(key string) []string {
	sel := a[key].Selected
	if sel == nil {
		return nil
	}
	return append([]string(nil), sel...)
}

// Set stores a scalar value. An empty value removes the key.
func (a Answers) Set(key, value string) {
	if value == "" {
		delete(a, key)
		return
	}
	a[key] = Answer{Value: value}
}

// Toggle adds opt to the set under key if absent, removes it otherwise.
// The key is removed once its set becomes empty, so a double toggle
// restores the previous store exactly.
func (a Answers) Toggle(key, opt string) {
	current := a[key].Selected
	next := make([]string, 0, len(current)+1)
	found := false
	for _, s := range current {
		if s == opt {
			found = true
			continue
		}
		next = append(next, s)
	}
	if !found {
		next = append(next, opt)
	}
	if len(next) == 0 {
		delete(a, key)
		return
	}
	a[key] = Answer{Selected: next}
}

// Clone returns a deep copy of the store.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v.Clone()
	}
	return out
}

// Keys returns the stored keys in lexical order.
func (a Answers) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Data flattens the store for template interpolation:
// scalar answers map to strings, multi-select answers to []string.
func (a Answers) Data() map[string]any {
	data := make(map[string]any, len(a))
	for k, v := range a {
		if v.Selected != nil {
			data[k] = append([]string(nil), v.Selected...)
		} else {
			data[k] = v.Value
		}
	}
	return data
}

// Equal reports whether both answers hold the same value or the same set.
// Set comparison ignores order.
func (a Answer) Equal(b Answer) bool {
	if a.Value != b.Value || len(a.Selected) != len(b.Selected) {
		return false
	}
	seen := make(map[string]int, len(a.Selected))
	for _, s := range a.Selected {
		seen[s]++
	}
	for _, s := range b.Selected {
		if seen[s] == 0 {
			return false
		}
		seen[s]--
	}
	return true
}
