package report

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"rotcrack/internal/model"
	"rotcrack/internal/store"
)

func TestBuildHistory(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "rotcrack.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		rec := model.CrackRecord{
			CreatedAt:      time.Unix(0, 0).Add(time.Duration(i) * time.Minute),
			Lang:           "english",
			Key:            15,
			Score:          0.3 + float64(i)*0.1,
			Ambiguous:      i == 2,
			Letters:        100 + i,
			Source:         "stdin",
			CiphertextHead: "radyjgtxhp",
			PlaintextHead:  "clojureisa",
		}
		letters := []model.LetterCount{
			{Letter: "e", Count: i + 1},
			{Letter: "t", Count: 10},
		}
		id, err := st.InsertCrack(ctx, rec, letters)
		if err != nil {
			t.Fatalf("insert crack: %v", err)
		}
		ids = append(ids, id)
	}

	hist, err := BuildHistory(ctx, st, model.HistoryConfig{Lang: "english", Last: 2})
	if err != nil {
		t.Fatalf("build history: %v", err)
	}
	if len(hist.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(hist.Records))
	}
	if hist.Records[0].ID != ids[1] || hist.Records[1].ID != ids[2] {
		t.Fatalf("unexpected record ids: %+v", hist.Records)
	}
	if !hist.Records[1].Ambiguous {
		t.Fatalf("expected last record to be ambiguous")
	}
	if len(hist.LetterAggs) != 2 {
		t.Fatalf("expected 2 letter aggregates, got %d", len(hist.LetterAggs))
	}
	for _, agg := range hist.LetterAggs {
		switch agg.Letter {
		case "e":
			if agg.Count != 2+3 {
				t.Fatalf("letter e total = %d, want 5", agg.Count)
			}
		case "t":
			if agg.Count != 20 {
				t.Fatalf("letter t total = %d, want 20", agg.Count)
			}
		default:
			t.Fatalf("unexpected letter %q", agg.Letter)
		}
	}

	other, err := BuildHistory(ctx, st, model.HistoryConfig{Lang: "pirate"})
	if err != nil {
		t.Fatalf("build filtered history: %v", err)
	}
	if len(other.Records) != 0 || len(other.LetterAggs) != 0 {
		t.Fatalf("expected empty history for unknown lang, got %+v", other)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4}, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("value %d = %v, want %v", i, got[i], want[i])
		}
	}

	same := MovingAverage([]float64{5, 6}, 1)
	if same[0] != 5 || same[1] != 6 {
		t.Fatalf("window 1 changed values: %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
	if got := Sparkline([]float64{2, 2, 2}); got != "+++" {
		t.Fatalf("flat sparkline = %q, want +++", got)
	}
	got := Sparkline([]float64{0, 9})
	if got != " @" {
		t.Fatalf("sparkline = %q, want \" @\"", got)
	}
}
