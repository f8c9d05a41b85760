package search

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Cordless Drill, 18V", []string{"cordless", "drill", "18v"}},
		{"  MIXED case---punct!! ", []string{"mixed", "case", "punct"}},
		{"a b c drill", []string{"drill"}}, // single-rune tokens dropped
		{"Çekiç ve matkap", []string{"çekiç", "ve", "matkap"}},
		{"", nil},
		{"!!! ...", nil},
	}
	for _, tc := range cases {
		got := Tokenize(tc.in)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestProductIndex_SearchRanking(t *testing.T) {
	ix := NewProductIndex()
	ix.Upsert("p1", "Cordless Drill", "powerful cordless drill for home repair")
	ix.Upsert("p2", "Hammer Drill", "heavy duty hammer drill")
	ix.Upsert("p3", "Canoe", "two person canoe with paddles")

	hits := ix.Search("cordless drill")
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d: %v", len(hits), hits)
	}
	if hits[0].ProductID != "p1" || hits[1].ProductID != "p2" {
		t.Fatalf("unexpected ranking: %v", hits)
	}
	if hits[0].Score <= hits[1].Score {
		t.Fatalf("scores not descending: %v", hits)
	}

	// Zero-score listings never appear.
	for _, h := range ix.Search("canoe") {
		if h.ProductID != "p3" {
			t.Fatalf("unexpected hit %v", h)
		}
	}
}

func TestProductIndex_TieBreakByID(t *testing.T) {
	ix := NewProductIndex()
	ix.Upsert("pb", "kayak paddle")
	ix.Upsert("pa", "kayak paddle")

	hits := ix.Search("kayak paddle")
	if len(hits) != 2 || hits[0].ProductID != "pa" || hits[1].ProductID != "pb" {
		t.Fatalf("tie not broken by id: %v", hits)
	}
	if hits[0].Score != hits[1].Score {
		t.Fatalf("expected equal scores: %v", hits)
	}
}

func TestProductIndex_UpsertReplacesAndRemove(t *testing.T) {
	ix := NewProductIndex()
	ix.Upsert("p1", "pressure washer")
	if got := len(ix.Search("washer")); got != 1 {
		t.Fatalf("expected hit before replace, got %d", got)
	}

	ix.Upsert("p1", "impact wrench")
	if got := len(ix.Search("washer")); got != 0 {
		t.Fatalf("stale tokens survived upsert")
	}
	if got := len(ix.Search("wrench")); got != 1 {
		t.Fatalf("new tokens not indexed")
	}

	ix.Remove("p1")
	if ix.Len() != 0 {
		t.Fatalf("Len = %d after remove", ix.Len())
	}
	if got := len(ix.Search("wrench")); got != 0 {
		t.Fatalf("removed product still searchable")
	}
}

func TestProductIndex_EmptyQuery(t *testing.T) {
	ix := NewProductIndex()
	ix.Upsert("p1", "ladder")
	if hits := ix.Search("   "); hits != nil {
		t.Fatalf("blank query must match nothing, got %v", hits)
	}
	if hits := ix.Search("x"); hits != nil {
		t.Fatalf("single-rune query must match nothing, got %v", hits)
	}
}

func TestProductIndex_Stopwords(t *testing.T) {
	ix := NewProductIndex(WithStopwords([]string{"the", "for"}))
	ix.Upsert("p1", "the ladder for painting")

	if hits := ix.Search("the for"); hits != nil {
		t.Fatalf("all-stopword query must match nothing, got %v", hits)
	}
	hits := ix.Search("the ladder")
	if len(hits) != 1 || hits[0].ProductID != "p1" {
		t.Fatalf("unexpected hits %v", hits)
	}
	// Stopwords are excluded from both sides, so the match is exact.
	if hits[0].Score != 0.5 {
		t.Fatalf("score = %v, want 0.5", hits[0].Score)
	}
}

func TestProductIndex_MaxHits(t *testing.T) {
	ix := NewProductIndex(WithMaxHits(2))
	ix.Upsert("p1", "tent")
	ix.Upsert("p2", "tent")
	ix.Upsert("p3", "tent")

	hits := ix.Search("tent")
	if len(hits) != 2 {
		t.Fatalf("expected maxHits cap of 2, got %d", len(hits))
	}
	if hits[0].ProductID != "p1" || hits[1].ProductID != "p2" {
		t.Fatalf("cap must keep best-ranked ids: %v", hits)
	}
}
