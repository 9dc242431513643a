package filter

import (
	"context"
	"testing"

	"github.com/rushteam/cinerec/core"
)

func candidate(id int64, attrs core.Attributes) *core.Item {
	it := core.NewItem(id)
	it.Attrs = attrs
	return it
}

func TestNewRuleFilterRejectsBadExpressions(t *testing.T) {
	if _, err := NewRuleFilter("item.year <"); err == nil {
		t.Fatal("expected a compile error")
	}
}

func TestRuleFilterShouldFilter(t *testing.T) {
	tests := []struct {
		name string
		expr string
		item *core.Item
		want bool
	}{
		{
			name: "year cutoff matches",
			expr: "item.year < 1950",
			item: candidate(1, core.Attributes{Year: 1940}),
			want: true,
		},
		{
			name: "year cutoff passes",
			expr: "item.year < 1950",
			item: candidate(1, core.Attributes{Year: 1999}),
			want: false,
		},
		{
			name: "genre membership",
			expr: "7 in item.genres",
			item: candidate(1, core.Attributes{Year: 2000, Genres: []int64{3, 7}}),
			want: true,
		},
		{
			name: "runtime guard with unknown sentinel",
			expr: "item.runtime > 0 && item.runtime > 240",
			item: candidate(1, core.Attributes{Year: 2000, Runtime: 0}),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewRuleFilter(tt.expr)
			if err != nil {
				t.Fatal(err)
			}
			got, err := f.ShouldFilter(context.Background(), core.NewRecommendContext(1), tt.item)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestFilterNodeDropsMatches(t *testing.T) {
	f, err := NewRuleFilter("item.film_id == 2")
	if err != nil {
		t.Fatal(err)
	}
	n := &Node{Filters: []Filter{f}}

	items := []*core.Item{
		candidate(1, core.Attributes{Year: 2000}),
		candidate(2, core.Attributes{Year: 2000}),
		candidate(3, core.Attributes{Year: 2000}),
	}
	out, err := n.Process(context.Background(), core.NewRecommendContext(1), items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].FilmID != 1 || out[1].FilmID != 3 {
		t.Fatalf("got %d items, want films 1 and 3", len(out))
	}
}
