package recall

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pkg/utils"
)

type stubSource struct {
	name  string
	items []int64
	err   error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Recall(_ context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*core.Item, 0, len(s.items))
	for _, id := range s.items {
		it := core.NewItem(id)
		it.PutLabel("recall_source", utils.Label{Value: s.name, Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

func TestFanoutMergesAndLabelsDuplicates(t *testing.T) {
	n := &Fanout{Sources: []Source{
		&stubSource{name: "director", items: []int64{1, 2, 3}},
		&stubSource{name: "actor", items: []int64{3, 4}},
	}}

	out, err := n.Process(context.Background(), core.NewRecommendContext(1), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 4 {
		t.Fatalf("got %d items, want 4", len(out))
	}

	byID := make(map[int64]*core.Item)
	for _, it := range out {
		byID[it.FilmID] = it
	}
	if lbl := byID[3].Labels["recall_source"]; lbl.Value != "director|actor" {
		t.Errorf("duplicate label = %q, want director|actor", lbl.Value)
	}
	if lbl := byID[1].Labels["recall_source"]; lbl.Value != "director" {
		t.Errorf("single-pool label = %q, want director", lbl.Value)
	}
}

func TestFanoutMinCandidatesGuard(t *testing.T) {
	n := &Fanout{
		Sources:       []Source{&stubSource{name: "director", items: []int64{1, 2}}},
		MinCandidates: 3,
	}
	_, err := n.Process(context.Background(), core.NewRecommendContext(1), nil)
	if !core.IsInsufficientSignal(err) {
		t.Fatalf("err = %v, want insufficient signal", err)
	}
}

func TestFanoutTruncatesAtMax(t *testing.T) {
	ids := make([]int64, 10)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	n := &Fanout{
		Sources:       []Source{&stubSource{name: "director", items: ids}},
		MaxCandidates: 4,
	}
	out, err := n.Process(context.Background(), core.NewRecommendContext(1), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 4 {
		t.Errorf("got %d items, want 4", len(out))
	}
}

func TestFanoutPropagatesSourceErrors(t *testing.T) {
	boom := errors.New("connection refused")
	n := &Fanout{Sources: []Source{
		&stubSource{name: "director", items: []int64{1}},
		&stubSource{name: "actor", err: boom},
	}}
	_, err := n.Process(context.Background(), core.NewRecommendContext(1), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the source error", err)
	}
}
