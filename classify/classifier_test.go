package classify

import (
	"context"
	"testing"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pkg/utils"
)

func newCandidate(id int64, attrs core.Attributes) *core.Item {
	it := core.NewItem(id)
	it.Attrs = attrs
	it.PutLabel("recall_source", utils.Label{Value: "director", Source: "recall"})
	return it
}

func classify(t *testing.T, p *core.Profile, items ...*core.Item) []*core.Item {
	t.Helper()
	rctx := core.NewRecommendContext(1)
	rctx.Profile = p
	out, err := (&Classifier{}).Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestClassifierBoundsChecks(t *testing.T) {
	p := &core.Profile{
		Runtime: core.Bounds{Lower: 90, Upper: 150},
		Year:    core.Bounds{Lower: 1990, Upper: 2010},
	}

	tests := []struct {
		name          string
		attrs         core.Attributes
		wantNotWanted bool
	}{
		{name: "inside both bounds", attrs: core.Attributes{Runtime: 120, Year: 2000}, wantNotWanted: false},
		{name: "runtime too long", attrs: core.Attributes{Runtime: 200, Year: 2000}, wantNotWanted: true},
		{name: "unknown runtime passes", attrs: core.Attributes{Runtime: 0, Year: 2000}, wantNotWanted: false},
		{name: "year out of range", attrs: core.Attributes{Runtime: 120, Year: 1950}, wantNotWanted: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := classify(t, p, newCandidate(1, tt.attrs))
			if got := out[0].Tiers.Has(core.TierNotWanted); got != tt.wantNotWanted {
				t.Errorf("not wanted = %v, want %v", got, tt.wantNotWanted)
			}
		})
	}
}

func TestClassifierColor(t *testing.T) {
	year := core.Bounds{Lower: 1900, Upper: 2100}

	t.Run("only form excludes mismatches", func(t *testing.T) {
		p := &core.Profile{Year: year, Color: core.FullColorOnly()}
		out := classify(t, p,
			newCandidate(1, core.Attributes{Year: 2000, Color: core.Monochrome}),
			newCandidate(2, core.Attributes{Year: 2000, Color: core.FullColor}),
			newCandidate(3, core.Attributes{Year: 2000, Color: core.ColorUnknown}),
		)
		if !out[0].Tiers.Has(core.TierNotWanted) {
			t.Error("monochrome candidate should be excluded")
		}
		if out[1].Tiers.Has(core.TierNotWanted) || out[2].Tiers.Has(core.TierNotWanted) {
			t.Error("full color and unknown candidates should pass")
		}
	})

	t.Run("fraction form collects monochrome into the quota tier", func(t *testing.T) {
		p := &core.Profile{Year: year, Color: core.MonoFraction(0.3)}
		out := classify(t, p,
			newCandidate(1, core.Attributes{Year: 2000, Color: core.Monochrome}),
			newCandidate(2, core.Attributes{Year: 2000, Color: core.FullColor}),
		)
		if !out[0].Tiers.Has(core.TierMono) {
			t.Error("monochrome candidate should be tagged mono")
		}
		if out[0].Tiers.Has(core.TierNotWanted) {
			t.Error("fraction form must not exclude")
		}
		if !out[1].Tiers.Empty() {
			t.Error("full color candidate should stay untagged")
		}
	})
}

func TestClassifierLanguage(t *testing.T) {
	p := &core.Profile{
		Year:      core.Bounds{Lower: 1900, Upper: 2100},
		Languages: []int64{1, 2},
	}
	out := classify(t, p,
		newCandidate(1, core.Attributes{Year: 2000, Languages: []int64{2, 5}}),
		newCandidate(2, core.Attributes{Year: 2000, Languages: []int64{5}}),
		newCandidate(3, core.Attributes{Year: 2000}), // unknown languages
	)
	if out[0].Tiers.Has(core.TierNotWanted) {
		t.Error("overlapping language should pass")
	}
	if !out[1].Tiers.Has(core.TierNotWanted) {
		t.Error("disjoint language should be excluded")
	}
	if !out[2].Tiers.Has(core.TierNotWanted) {
		t.Error("unknown language cannot overlap the wanted set")
	}
}

func TestClassifierGenres(t *testing.T) {
	year := core.Bounds{Lower: 1900, Upper: 2100}
	p := &core.Profile{
		Year:   year,
		Combos: []core.GenreCombo{{Genres: []int64{1, 2}, Weight: 3}, {Genres: []int64{3, 4}, Weight: 0}},
		Genres: []core.GenreWeight{{GenreID: 5, Weight: 2}, {GenreID: 6, Weight: 1}, {GenreID: 7, Weight: 0}},
	}

	tests := []struct {
		name   string
		genres []int64
		want   core.Tier
	}{
		{name: "matching weight-3 combo goes first", genres: []int64{1, 2, 9}, want: core.TierFirst},
		{name: "matching weight-0 combo is excluded", genres: []int64{3, 4}, want: core.TierNotWanted},
		{name: "no combo falls back to singles, weight 2", genres: []int64{5, 9}, want: core.TierSecond},
		{name: "single weight 1 goes third", genres: []int64{6}, want: core.TierThird},
		{name: "single weight 0 is excluded", genres: []int64{7}, want: core.TierNotWanted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := classify(t, p, newCandidate(1, core.Attributes{Year: 2000, Genres: tt.genres}))
			if !out[0].Tiers.Has(tt.want) {
				t.Errorf("tiers = %b, want %v set", out[0].Tiers, tt.want)
			}
		})
	}

	t.Run("combo match suppresses single fallback", func(t *testing.T) {
		// genres hit the weight-3 combo and the weight-0 single
		out := classify(t, p, newCandidate(1, core.Attributes{Year: 2000, Genres: []int64{1, 2, 7}}))
		if !out[0].Tiers.Has(core.TierFirst) {
			t.Error("combo should tag first")
		}
		if out[0].Tiers.Has(core.TierNotWanted) {
			t.Error("singles must not fire once a combo matched")
		}
	})
}

func TestClassifierDualPoolBonus(t *testing.T) {
	p := &core.Profile{Year: core.Bounds{Lower: 1900, Upper: 2100}}

	it := core.NewItem(1)
	it.Attrs = core.Attributes{Year: 2000}
	it.PutLabel("recall_source", utils.Label{Value: "director", Source: "recall"})
	it.PutLabel("recall_source", utils.Label{Value: "actor", Source: "recall"})

	out := classify(t, p, it)
	if !out[0].Tiers.Has(core.TierSecond) {
		t.Error("candidate from both pools should be pre-seeded second")
	}

	single := newCandidate(2, core.Attributes{Year: 2000})
	out = classify(t, p, single)
	if out[0].Tiers.Has(core.TierSecond) {
		t.Error("single-pool candidate should not get the bonus")
	}
}

func TestClassifierSkipsWithoutProfile(t *testing.T) {
	rctx := core.NewRecommendContext(1)
	it := newCandidate(1, core.Attributes{Year: 1800})
	out, err := (&Classifier{}).Process(context.Background(), rctx, []*core.Item{it})
	if err != nil {
		t.Fatal(err)
	}
	if !out[0].Tiers.Empty() {
		t.Error("no profile means no tags")
	}
}
