package indexer

import (
	"reflect"
	"testing"
)

func TestStemDedupesAndNormalizes(t *testing.T) {
	terms := Stem("Running runners RUN the run!")
	want := []string{"run", "runner"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("Stem = %v, want %v", terms, want)
	}
}

func TestStemDropsStopWords(t *testing.T) {
	terms := Stem("the cluster and the storage")
	want := []string{"cluster", "storag"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("Stem = %v, want %v", terms, want)
	}
}

func TestStemStopWordsOnly(t *testing.T) {
	if terms := Stem("the and or of"); len(terms) != 0 {
		t.Errorf("Stem = %v, want empty", terms)
	}
}

func TestStemSplitsOnPunctuation(t *testing.T) {
	terms := Stem("foo-bar,baz.qux")
	want := []string{"foo", "bar", "baz", "qux"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("Stem = %v, want %v", terms, want)
	}
}

func TestBuildPostingsWeights(t *testing.T) {
	postings := BuildPostings("Cluster Guide", "cluster cluster storage")
	byTerm := make(map[string]int, len(postings))
	for _, p := range postings {
		byTerm[p.Term] = p.Weight
	}
	// 正文 2 次 + 标题 1 次 * 10
	if byTerm["cluster"] != 12 {
		t.Errorf("cluster weight = %d, want 12", byTerm["cluster"])
	}
	if byTerm["storag"] != 1 {
		t.Errorf("storag weight = %d, want 1", byTerm["storag"])
	}
	if byTerm["guid"] != 10 {
		t.Errorf("guid weight = %d, want 10", byTerm["guid"])
	}
}

func TestBuildPostingsIdempotent(t *testing.T) {
	a := BuildPostings("Title", "some body text with words and words")
	b := BuildPostings("Title", "some body text with words and words")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("postings differ across runs: %v vs %v", a, b)
	}
}

func TestHashTermStable(t *testing.T) {
	if HashTerm("cluster") != HashTerm("cluster") {
		t.Error("HashTerm is not deterministic")
	}
	if HashTerm("cluster") == HashTerm("storage") {
		t.Error("distinct terms hashed identically")
	}
	if got := len(HashTerm("cluster")); got != 32 {
		t.Errorf("digest length = %d, want 32", got)
	}
}
