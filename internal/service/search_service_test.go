package service

import (
	"testing"

	"github.com/wikicore-next/internal/access"
	"github.com/wikicore-next/internal/constants"
)

func TestSearchAndVersusOrQueries(t *testing.T) {
	env := setupWikiTest(t, false)
	admin := access.Identity{UserID: 9, IsAdmin: true, Authenticated: true}

	both := env.createWikiPost(t, "both", "the cluster and the database layer", 1)
	clusterOnly := env.createWikiPost(t, "cluster", "cluster notes", 1)
	unrelated := env.createWikiPost(t, "misc", "unrelated text", 1)
	for _, p := range []uint{both.ID, clusterOnly.ID, unrelated.ID} {
		if err := env.indexSvc.Reindex(p); err != nil {
			t.Fatalf("reindex failed: %v", err)
		}
	}

	result, err := env.searchSvc.Search(admin, SearchInput{Query: "cluster database", Page: 1})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 1 || len(result.Posts) != 1 || result.Posts[0].ID != both.ID {
		t.Fatalf("and-query want only post %d got %+v", both.ID, result.Posts)
	}

	result, err = env.searchSvc.Search(admin, SearchInput{Query: "cluster or database", Page: 1})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("or-query want 2 posts got %d", result.Total)
	}
}

func TestSearchStopwordOnlyQueryBrowses(t *testing.T) {
	env := setupWikiTest(t, false)
	admin := access.Identity{UserID: 9, IsAdmin: true, Authenticated: true}
	env.createWikiPost(t, "a", "body", 1)
	env.createWikiPost(t, "b", "body", 1)

	// 全停用词查询没有词项，按无关键词浏览处理
	result, err := env.searchSvc.Search(admin, SearchInput{Query: "the and of", Page: 1})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("stopword query want 2 posts got %d", result.Total)
	}
}

func TestSearchVisibilityForViewer(t *testing.T) {
	env := setupWikiTest(t, false)
	viewer := access.Identity{UserID: 42, Authenticated: true}

	granted := env.createWikiPost(t, "granted", "body", 1)
	env.createWikiPost(t, "hidden from viewer", "body", 1)
	own := env.createWikiPost(t, "own", "body", 42)
	env.grantViaRole(t, granted.ID, 42, constants.PermissionRead)

	result, err := env.searchSvc.Search(viewer, SearchInput{Page: 1})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("viewer want 2 posts got %d", result.Total)
	}
	for _, p := range result.Posts {
		if p.ID != granted.ID && p.ID != own.ID {
			t.Fatalf("unexpected post %d in viewer results", p.ID)
		}
	}
}

func TestSearchUnknownSortFallsBack(t *testing.T) {
	env := setupWikiTest(t, false)
	admin := access.Identity{UserID: 9, IsAdmin: true, Authenticated: true}
	env.createWikiPost(t, "a", "body", 1)

	result, err := env.searchSvc.Search(admin, SearchInput{Sort: "bogus", Page: 1})
	if err != nil {
		t.Fatalf("unknown sort must not fail: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("want 1 post got %d", result.Total)
	}
}

func TestSearchSummariesCarryDecryptedTeaser(t *testing.T) {
	env := setupWikiTest(t, true)
	admin := access.Identity{UserID: 9, IsAdmin: true, Authenticated: true}
	env.createWikiPost(t, "secret", "<teaser>visible teaser</teaser>hidden body", 1)

	result, err := env.searchSvc.Search(admin, SearchInput{Page: 1})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(result.Posts) != 1 {
		t.Fatalf("want 1 post got %d", len(result.Posts))
	}
	if result.Posts[0].Teaser != "visible teaser" {
		t.Fatalf("teaser not decrypted: %q", result.Posts[0].Teaser)
	}
}

func TestSearchAttachesTaxonomyAndGrants(t *testing.T) {
	env := setupWikiTest(t, false)
	admin := access.Identity{UserID: 9, IsAdmin: true, Authenticated: true}
	post := env.createWikiPost(t, "tagged", "body", 1)

	if err := env.taxRepo.ReplacePostTags(post.ID, []string{"HowTo", "internal"}); err != nil {
		t.Fatalf("set tags failed: %v", err)
	}
	env.grantViaRole(t, post.ID, 42, constants.PermissionRead)
	env.grantViaRole(t, post.ID, 42, constants.PermissionWrite)

	result, err := env.searchSvc.Search(admin, SearchInput{Page: 1})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	summary := result.Posts[0]
	if len(summary.Tags) != 2 {
		t.Fatalf("want 2 tags got %+v", summary.Tags)
	}
	// 标签名统一小写
	for _, tag := range summary.Tags {
		if tag.Name != "howto" && tag.Name != "internal" {
			t.Fatalf("unexpected tag %q", tag.Name)
		}
	}
	if len(summary.RoleGrants) != 2 {
		t.Fatalf("want 2 role grant summaries got %+v", summary.RoleGrants)
	}
}

func TestSearchPagination(t *testing.T) {
	env := setupWikiTest(t, false)
	env.searchSvc.cfg.SearchPageSize = 2
	admin := access.Identity{UserID: 9, IsAdmin: true, Authenticated: true}
	for i := 0; i < 5; i++ {
		env.createWikiPost(t, "post", "body", 1)
	}

	result, err := env.searchSvc.Search(admin, SearchInput{Page: 2})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 5 || result.TotalPages != 3 {
		t.Fatalf("want total=5 pages=3 got total=%d pages=%d", result.Total, result.TotalPages)
	}
	if len(result.Posts) != 2 || !result.HasNext || !result.HasPrev {
		t.Fatalf("page 2 want 2 posts with next and prev, got %d posts next=%v prev=%v",
			len(result.Posts), result.HasNext, result.HasPrev)
	}
}
