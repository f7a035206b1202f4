package service

import (
	"regexp"
	"testing"

	"github.com/wikicore-next/internal/indexer"
)

func TestReindexReplacesNotAppends(t *testing.T) {
	env := setupWikiTest(t, false)
	post := env.createWikiPost(t, "Cluster Guide", "the cluster runs on storage", 1)

	if err := env.indexSvc.Reindex(post.ID); err != nil {
		t.Fatalf("reindex failed: %v", err)
	}
	first, err := env.indexRepo.ListByPost(post.ID)
	if err != nil {
		t.Fatalf("list postings failed: %v", err)
	}
	if len(first) == 0 {
		t.Fatalf("no postings after reindex")
	}

	if err := env.indexSvc.Reindex(post.ID); err != nil {
		t.Fatalf("second reindex failed: %v", err)
	}
	second, err := env.indexRepo.ListByPost(post.ID)
	if err != nil {
		t.Fatalf("list postings failed: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("reindex not idempotent: %d then %d postings", len(first), len(second))
	}
}

func TestReindexTitleBoost(t *testing.T) {
	env := setupWikiTest(t, false)
	post := env.createWikiPost(t, "cluster", "cluster storage", 1)

	if err := env.indexSvc.Reindex(post.ID); err != nil {
		t.Fatalf("reindex failed: %v", err)
	}
	postings, err := env.indexRepo.ListByPost(post.ID)
	if err != nil {
		t.Fatalf("list postings failed: %v", err)
	}
	weights := make(map[string]int, len(postings))
	for _, p := range postings {
		weights[p.Word] = p.Weight
	}
	// 标题词权重 10，正文词权重 1
	if weights["cluster"] != 11 {
		t.Fatalf("cluster weight want 11 got %d", weights["cluster"])
	}
	if weights["storag"] != 1 {
		t.Fatalf("storag weight want 1 got %d", weights["storag"])
	}
}

func TestReindexHashesTermsWhenEncrypted(t *testing.T) {
	env := setupWikiTest(t, true)
	post := env.createWikiPost(t, "Secret", "classified cluster data", 1)

	if err := env.indexSvc.Reindex(post.ID); err != nil {
		t.Fatalf("reindex failed: %v", err)
	}
	postings, err := env.indexRepo.ListByPost(post.ID)
	if err != nil {
		t.Fatalf("list postings failed: %v", err)
	}
	if len(postings) == 0 {
		t.Fatalf("no postings after reindex")
	}
	hexRe := regexp.MustCompile(`^[0-9a-f]{32}$`)
	for _, p := range postings {
		if !hexRe.MatchString(p.Word) {
			t.Fatalf("plaintext term %q leaked into encrypted index", p.Word)
		}
	}
	// 查询词项与索引词项走同一摘要
	terms, _ := env.indexSvc.QueryTerms("cluster")
	if len(terms) != 1 || terms[0] != indexer.HashTerm("cluster") {
		t.Fatalf("query terms not hashed: %v", terms)
	}
}

func TestQueryTermsLiteralOr(t *testing.T) {
	env := setupWikiTest(t, false)

	_, andMatch := env.indexSvc.QueryTerms("cluster database")
	if !andMatch {
		t.Fatalf("query without or should and-match")
	}
	_, andMatch = env.indexSvc.QueryTerms("cluster or database")
	if andMatch {
		t.Fatalf("query with or should any-match")
	}
	// 大小写不敏感，且词内子串同样命中（"history" 触发任意匹配）
	_, andMatch = env.indexSvc.QueryTerms("cluster ORACLE")
	if andMatch {
		t.Fatalf("uppercase or should any-match")
	}
	_, andMatch = env.indexSvc.QueryTerms("history")
	if andMatch {
		t.Fatalf("or substring inside a word should any-match")
	}
}

func TestDeleteIndex(t *testing.T) {
	env := setupWikiTest(t, false)
	post := env.createWikiPost(t, "gone", "some indexed words", 1)
	if err := env.indexSvc.Reindex(post.ID); err != nil {
		t.Fatalf("reindex failed: %v", err)
	}
	if err := env.indexSvc.Delete(post.ID); err != nil {
		t.Fatalf("delete index failed: %v", err)
	}
	postings, err := env.indexRepo.ListByPost(post.ID)
	if err != nil {
		t.Fatalf("list postings failed: %v", err)
	}
	if len(postings) != 0 {
		t.Fatalf("postings remain after delete: %d", len(postings))
	}
}
