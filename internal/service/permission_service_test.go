package service

import (
	"context"
	"strings"
	"testing"

	"github.com/wikicore-next/internal/access"
	"github.com/wikicore-next/internal/constants"
	"github.com/wikicore-next/internal/models"
)

func TestResolveNoGrantsDeniesEveryoneButAdminAndCreator(t *testing.T) {
	env := setupWikiTest(t, false)
	post := env.createWikiPost(t, "locked", "body", 1)

	// 无任何授权行时普通用户与匿名访客都无权限
	for _, viewer := range []access.Identity{
		access.Anonymous(),
		{UserID: 42, Authenticated: true},
	} {
		set, err := env.permSvc.ForRequest(viewer).Resolve(post)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if !set.Empty() {
			t.Fatalf("viewer %+v want empty set got %v", viewer, set.Constants())
		}
	}

	admin := access.Identity{UserID: 99, IsAdmin: true, Authenticated: true}
	set, err := env.permSvc.ForRequest(admin).Resolve(post)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !set.IsWildcard() {
		t.Fatalf("admin want wildcard")
	}

	creator := access.Identity{UserID: 1, Authenticated: true}
	set, err = env.permSvc.ForRequest(creator).Resolve(post)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !set.IsWildcard() {
		t.Fatalf("creator want wildcard")
	}
}

func TestResolveRoleGrants(t *testing.T) {
	env := setupWikiTest(t, false)
	post := env.createWikiPost(t, "shared doc", "body", 1)
	env.grantViaRole(t, post.ID, 42, constants.PermissionRead)

	resolver := env.permSvc.ForRequest(access.Identity{UserID: 42, Authenticated: true})
	ok, err := resolver.HasPermission(post, constants.PermissionRead)
	if err != nil {
		t.Fatalf("has permission failed: %v", err)
	}
	if !ok {
		t.Fatalf("granted read not resolved")
	}
	ok, err = resolver.HasPermission(post, constants.PermissionWrite)
	if err != nil {
		t.Fatalf("has permission failed: %v", err)
	}
	if ok {
		t.Fatalf("write resolved without grant")
	}

	// 大小写不敏感
	ok, _ = resolver.HasPermission(post, "READ")
	if !ok {
		t.Fatalf("permission constant should be case insensitive")
	}
}

func TestResolverMemoIsRequestScoped(t *testing.T) {
	env := setupWikiTest(t, false)
	post := env.createWikiPost(t, "memo", "body", 1)
	env.grantViaRole(t, post.ID, 42, constants.PermissionRead)

	viewer := access.Identity{UserID: 42, Authenticated: true}
	resolver := env.permSvc.ForRequest(viewer)
	if ok, _ := resolver.HasPermission(post, constants.PermissionRead); !ok {
		t.Fatalf("initial resolve failed")
	}

	// 撤销授权后同一解析器仍用记忆结果，新解析器看到撤销
	if err := env.db.Where("post_id = ?", post.ID).Delete(&models.PostPermission{}).Error; err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if ok, _ := resolver.HasPermission(post, constants.PermissionRead); !ok {
		t.Fatalf("memoized result discarded within request")
	}
	if ok, _ := env.permSvc.ForRequest(viewer).HasPermission(post, constants.PermissionRead); ok {
		t.Fatalf("new request still sees revoked grant")
	}
}

func TestUUIDPermission(t *testing.T) {
	env := setupWikiTest(t, false)
	shared := env.createWikiPost(t, "shared", "body", 1)
	shared.Shared = true
	if err := env.postRepo.Update(shared); err != nil {
		t.Fatalf("update post failed: %v", err)
	}
	private := env.createWikiPost(t, "private", "body", 1)

	ctx := context.Background()
	resolver := env.permSvc.ForRequest(access.Anonymous())

	if !resolver.UUIDPermission(ctx, shared, shared.UUID, "sess-1") {
		t.Fatalf("canonical uuid rejected")
	}
	compact := strings.ReplaceAll(shared.UUID, "-", "")
	if !resolver.UUIDPermission(ctx, shared, compact, "sess-1") {
		t.Fatalf("compact uuid rejected")
	}
	if resolver.UUIDPermission(ctx, shared, "00000000-0000-0000-0000-000000000000", "sess-1") {
		t.Fatalf("wrong uuid accepted")
	}
	if resolver.UUIDPermission(ctx, shared, "not-a-uuid", "sess-1") {
		t.Fatalf("malformed uuid accepted")
	}
	// 未开启分享的文章不接受任何令牌
	if resolver.UUIDPermission(ctx, private, private.UUID, "sess-1") {
		t.Fatalf("uuid accepted on non-shared post")
	}
}

func TestExpandUUID(t *testing.T) {
	canonical := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	if got := ExpandUUID(canonical); got != canonical {
		t.Fatalf("canonical want %s got %s", canonical, got)
	}
	if got := ExpandUUID("6ba7b8109dad11d180b400c04fd430c8"); got != canonical {
		t.Fatalf("compact want %s got %s", canonical, got)
	}
	if got := ExpandUUID("  " + canonical + "  "); got != canonical {
		t.Fatalf("trimmed want %s got %s", canonical, got)
	}
	for _, bad := range []string{"", "zzz", "6ba7b810-9dad"} {
		if got := ExpandUUID(bad); got != "" {
			t.Fatalf("invalid %q want empty got %s", bad, got)
		}
	}
}
