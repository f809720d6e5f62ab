package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	gen1 := uint64(1)
	user3 := 3

	tests := []struct {
		name     string
		old      *Session
		new      *Session
		wantDiff *SessionDiff // nil means we expect no diff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  &Session{ID: "sess-1", UserID: 3, Generation: 1, Expanded: []int{10}},
			wantDiff: &SessionDiff{
				SessionID:  "sess-1",
				UserID:     &user3,
				Generation: &gen1,
				Expanded:   []int{10},
			},
		},
		{
			name:     "No Changes",
			old:      &Session{ID: "sess-1", UserID: 3, Generation: 1, Expanded: []int{10}},
			new:      &Session{ID: "sess-1", UserID: 3, Generation: 1, Expanded: []int{10}},
			wantDiff: nil,
		},
		{
			name: "Toggle Only",
			old:  &Session{ID: "sess-1", UserID: 3, Generation: 1, Expanded: []int{10}},
			new:  &Session{ID: "sess-1", UserID: 3, Generation: 1, Expanded: []int{11}},
			wantDiff: &SessionDiff{
				SessionID: "sess-1",
				Expanded:  []int{11},
				Collapsed: []int{10},
			},
		},
		{
			name: "New Selection",
			old:  &Session{ID: "sess-1", UserID: 1, Generation: 0, Expanded: []int{1, 2}},
			new:  &Session{ID: "sess-1", UserID: 3, Generation: 1, Expanded: []int{}},
			wantDiff: &SessionDiff{
				SessionID:  "sess-1",
				UserID:     &user3,
				Generation: &gen1,
				Collapsed:  []int{1, 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if !reflect.DeepEqual(got, tt.wantDiff) {
				gotJSON, _ := json.Marshal(got)
				wantJSON, _ := json.Marshal(tt.wantDiff)
				t.Errorf("Diff() mismatch\ngot:  %s\nwant: %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestDiff_NilNew(t *testing.T) {
	if d := Diff(&Session{ID: "x"}, nil); d != nil {
		t.Errorf("expected nil diff, got %+v", d)
	}
}

func TestDiff_JSONOmitsUnchanged(t *testing.T) {
	d := Diff(
		&Session{ID: "sess-1", UserID: 3, Generation: 2},
		&Session{ID: "sess-1", UserID: 3, Generation: 2, Expanded: []int{7}},
	)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	if strings.Contains(s, "user_id") || strings.Contains(s, "generation") {
		t.Errorf("unchanged fields should be omitted: %s", s)
	}
	if !strings.Contains(s, `"expanded":[7]`) {
		t.Errorf("expected expanded delta: %s", s)
	}
}
