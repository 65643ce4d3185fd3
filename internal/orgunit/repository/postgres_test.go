package repository

import (
	"testing"

	"github.com/Staersistemi/jorvik/internal/hierarchy"
)

func TestNewPostgresRepositoryDepthBound(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"zero selects default", 0, hierarchy.DefaultMaxDepth},
		{"negative selects default", -3, hierarchy.DefaultMaxDepth},
		{"configured bound kept", 12, 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewPostgresRepository(nil, tc.in)
			if r.maxDepth != tc.want {
				t.Errorf("maxDepth = %d, want %d", r.maxDepth, tc.want)
			}
		})
	}
}
