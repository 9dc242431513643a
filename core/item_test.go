package core

import "testing"

func TestTierSetResolve(t *testing.T) {
	tests := []struct {
		name string
		add  []Tier
		want Tier
	}{
		{name: "empty resolves to none", add: nil, want: TierNone},
		{name: "single tier", add: []Tier{TierThird}, want: TierThird},
		{name: "first beats everything", add: []Tier{TierThird, TierMono, TierFirst}, want: TierFirst},
		{name: "not wanted beats mono", add: []Tier{TierMono, TierNotWanted}, want: TierNotWanted},
		{name: "mono beats second", add: []Tier{TierSecond, TierMono}, want: TierMono},
		{name: "second beats third", add: []Tier{TierThird, TierSecond}, want: TierSecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s TierSet
			for _, tier := range tt.add {
				s.Add(tier)
			}
			if got := s.Resolve(); got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTierSetResolveBelow(t *testing.T) {
	var s TierSet
	s.Add(TierMono)
	s.Add(TierSecond)
	if got := s.ResolveBelow(TierMono); got != TierSecond {
		t.Errorf("ResolveBelow(mono) = %v, want second", got)
	}

	var only TierSet
	only.Add(TierMono)
	if got := only.ResolveBelow(TierMono); got != TierNone {
		t.Errorf("ResolveBelow(mono) on mono-only set = %v, want none", got)
	}
}

func TestTierWeight(t *testing.T) {
	tests := []struct {
		tier Tier
		want int
	}{
		{TierFirst, 10},
		{TierSecond, 9},
		{TierThird, 8},
		{TierMono, 7},
		{TierNone, 0},
		{TierNotWanted, 0},
	}
	for _, tt := range tests {
		if got := tt.tier.Weight(); got != tt.want {
			t.Errorf("%v.Weight() = %d, want %d", tt.tier, got, tt.want)
		}
	}
}

func TestRecommendContextInHistory(t *testing.T) {
	rctx := NewRecommendContext(1)
	rctx.History = []int64{2, 5, 9, 14, 30}

	for _, id := range rctx.History {
		if !rctx.InHistory(id) {
			t.Errorf("InHistory(%d) = false, want true", id)
		}
	}
	for _, id := range []int64{1, 3, 15, 31} {
		if rctx.InHistory(id) {
			t.Errorf("InHistory(%d) = true, want false", id)
		}
	}
}

func TestColorPreferenceMatches(t *testing.T) {
	tests := []struct {
		name  string
		pref  ColorPreference
		color Color
		want  bool
	}{
		{"mono only accepts mono", MonoOnly(), Monochrome, true},
		{"mono only rejects color", MonoOnly(), FullColor, false},
		{"full color only rejects mono", FullColorOnly(), Monochrome, false},
		{"full color only accepts color", FullColorOnly(), FullColor, true},
		{"unknown candidate color always passes", MonoOnly(), ColorUnknown, true},
		{"unknown preference never rejects", ColorPrefUnknown(), Monochrome, true},
		{"fraction preference never rejects", MonoFraction(0.3), FullColor, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pref.Matches(tt.color); got != tt.want {
				t.Errorf("Matches(%v) = %v, want %v", tt.color, got, tt.want)
			}
		})
	}
}
