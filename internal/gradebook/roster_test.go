package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDelta(t *testing.T) {
	valid := []string{"s1", "s2", "s3", "s4"}

	tests := []struct {
		name    string
		current []string
		add     []string
		remove  []string
		want    []string
	}{
		{name: "empty delta is identity", current: []string{"s1", "s2"}, want: []string{"s1", "s2"}},
		{name: "add new", current: []string{"s1"}, add: []string{"s3"}, want: []string{"s1", "s3"}},
		{name: "add present is noop", current: []string{"s1"}, add: []string{"s1"}, want: []string{"s1"}},
		{name: "remove absent is noop", current: []string{"s1"}, remove: []string{"s2"}, want: []string{"s1"}},
		{name: "remove present", current: []string{"s1", "s2", "s3"}, remove: []string{"s2"}, want: []string{"s1", "s3"}},
		{name: "remove wins", current: []string{"s1"}, add: []string{"s2"}, remove: []string{"s2"}, want: []string{"s1"}},
		{name: "invalid add ignored", current: []string{"s1"}, add: []string{"teacher", "ghost"}, want: []string{"s1"}},
		{name: "invalid remove ignored", current: []string{"s1", "ghost"}, remove: []string{"ghost"}, want: []string{"s1", "ghost"}},
		{name: "duplicate adds collapse", add: []string{"s2", "s2", "s1"}, want: []string{"s2", "s1"}},
		{name: "adjacent removals", current: []string{"s1", "s2", "s3", "s4"}, remove: []string{"s2", "s3"}, want: []string{"s1", "s4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyDelta(tt.current, tt.add, tt.remove, valid)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyDeltaSetAlgebra(t *testing.T) {
	current := []string{"a", "b", "c"}
	add := []string{"d", "e", "x"}
	remove := []string{"a", "y"}
	valid := []string{"a", "b", "c", "d", "e"}

	got := ApplyDelta(current, add, remove, valid)

	// (R ∪ (A∩V)) \ (Rm∩V)
	assert.ElementsMatch(t, []string{"b", "c", "d", "e"}, got)
}

func TestApplyDeltaDoesNotMutateInput(t *testing.T) {
	current := []string{"s1", "s2", "s3"}
	remove := []string{"s1", "s2"}
	snapshot := append([]string(nil), current...)

	_ = ApplyDelta(current, nil, remove, current)

	assert.Equal(t, snapshot, current)
	assert.Equal(t, []string{"s1", "s2"}, remove)
}

func TestDiff(t *testing.T) {
	added, removed := Diff([]string{"s1", "s2"}, []string{"s2", "s3"})
	assert.Equal(t, []string{"s3"}, added)
	assert.Equal(t, []string{"s1"}, removed)

	added, removed = Diff([]string{"s1"}, []string{"s1"})
	assert.Empty(t, added)
	assert.Empty(t, removed)
}
