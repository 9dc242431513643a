package profile

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/store"
)

func TestRuntimeBounds(t *testing.T) {
	tests := []struct {
		name string
		rows []core.FilmRow
		want core.Bounds
	}{
		{
			name: "all unknown runtimes",
			rows: []core.FilmRow{{Runtime: 0}, {Runtime: 0}},
			want: core.Bounds{},
		},
		{
			name: "unknown runtimes are excluded from the stats",
			rows: []core.FilmRow{{Runtime: 100}, {Runtime: 100}, {Runtime: 0}},
			want: core.Bounds{Lower: 100, Upper: 100},
		},
		{
			name: "mean plus minus two sd, rounded",
			rows: []core.FilmRow{{Runtime: 90}, {Runtime: 100}, {Runtime: 110}},
			// mean 100, sd ~8.165 -> [83.67, 116.33] -> [84, 116]
			want: core.Bounds{Lower: 84, Upper: 116},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runtimeBounds(tt.rows); got != tt.want {
				t.Errorf("runtimeBounds() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestYearBounds(t *testing.T) {
	rows := []core.FilmRow{{Year: 1990}, {Year: 2000}, {Year: 2010}}
	// mean 2000, sd ~8.165 -> [1984, 2016]
	want := core.Bounds{Lower: 1984, Upper: 2016}
	if got := yearBounds(rows); got != want {
		t.Errorf("yearBounds() = %+v, want %+v", got, want)
	}
}

// sevenPercentCorpus pins the base monochrome rate at 7%.
var sevenPercentCorpus = core.CorpusColorStats{Monochrome: 7, FullColor: 93}

func colorRows(mono, full, unknown int) []core.FilmRow {
	var rows []core.FilmRow
	for i := 0; i < mono; i++ {
		rows = append(rows, core.FilmRow{Color: core.Monochrome})
	}
	for i := 0; i < full; i++ {
		rows = append(rows, core.FilmRow{Color: core.FullColor})
	}
	for i := 0; i < unknown; i++ {
		rows = append(rows, core.FilmRow{Color: core.ColorUnknown})
	}
	return rows
}

func TestColorPreference(t *testing.T) {
	est := &Estimator{Corpus: sevenPercentCorpus}

	tests := []struct {
		name     string
		rows     []core.FilmRow
		wantKind core.ColorPrefKind
		wantFrac float64
	}{
		{name: "all unknown", rows: colorRows(0, 0, 4), wantKind: core.PrefColorUnknown},
		{name: "all monochrome", rows: colorRows(5, 0, 1), wantKind: core.PrefMonoOnly},
		{name: "all full color", rows: colorRows(0, 5, 1), wantKind: core.PrefFullColorOnly},
		{
			// 3 of 10 against a 7% base rate: P(X >= 3) ~ 0.028 < 0.20
			name:     "significant monochrome excess yields a fraction",
			rows:     colorRows(3, 7, 0),
			wantKind: core.PrefMonoFraction,
			wantFrac: 0.3,
		},
		{
			// 1 of 10: P(X >= 1) ~ 0.52, not significant
			name:     "insignificant monochrome count falls back to full color",
			rows:     colorRows(1, 9, 0),
			wantKind: core.PrefFullColorOnly,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := est.colorPreference(tt.rows)
			if got.Kind != tt.wantKind {
				t.Fatalf("kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if tt.wantKind == core.PrefMonoFraction {
				frac, ok := got.Fraction()
				if !ok || math.Abs(frac-tt.wantFrac) > 1e-9 {
					t.Errorf("fraction = %v (%v), want %v", frac, ok, tt.wantFrac)
				}
			}
		})
	}
}

// seedLanguages builds a catalog where film i carries the i-th language set.
func seedLanguages(langs [][]int64) (*store.MemoryCatalog, *core.RecommendContext) {
	catalog := store.NewMemoryCatalog()
	rctx := core.NewRecommendContext(1)
	for i, l := range langs {
		id := int64(i + 1)
		catalog.AddFilm(core.FilmRow{FilmID: id, Year: 2000}, l, nil, nil, nil)
		rctx.History = append(rctx.History, id)
	}
	return catalog, rctx
}

func TestLanguageAffinity(t *testing.T) {
	tests := []struct {
		name  string
		langs [][]int64
		want  []int64
	}{
		{
			name:  "no known languages",
			langs: [][]int64{nil, nil, nil},
			want:  nil,
		},
		{
			name:  "language present in every film stands alone",
			langs: [][]int64{{1, 2}, {1}, {1, 3}},
			want:  []int64{1},
		},
		{
			name: "strong second place tags along",
			// singles: 1 x3, 2 x2 -> shares 0.6 / 0.4 (> 0.25)
			langs: [][]int64{{1}, {1}, {1}, {2}, {2}, {1, 2, 3}},
			want:  []int64{1, 2},
		},
		{
			name: "weak second place is dropped",
			// singles: 1 x4, 2 x1 -> shares 0.8 / 0.2
			langs: [][]int64{{1}, {1}, {1}, {1}, {2}, {1, 3}},
			want:  []int64{1},
		},
		{
			name: "tie at the top keeps the whole tie",
			// singles: 1 x2, 2 x2, 3 x1
			langs: [][]int64{{1}, {1}, {2}, {2}, {3}, {4, 5}},
			want:  []int64{1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, rctx := seedLanguages(tt.langs)
			est := &Estimator{Store: catalog, Corpus: sevenPercentCorpus}
			got, err := est.languageAffinity(context.Background(), rctx)
			if err != nil {
				t.Fatal(err)
			}
			if !equalInt64(got, tt.want) {
				t.Errorf("languages = %v, want %v", got, tt.want)
			}
		})
	}
}

func equalInt64(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
