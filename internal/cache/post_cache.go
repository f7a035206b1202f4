package cache

import (
	"context"
	"fmt"
	"time"
)

// 会话内记住的分享 UUID 的保留时长
const sharedUUIDTTL = 24 * time.Hour

// PostKey 单篇文章缓存键
func PostKey(postID uint) string {
	return fmt.Sprintf("post:%d", postID)
}

// InvalidatePost 使某文章的全部缓存失效，含所有列表缓存
func InvalidatePost(ctx context.Context, postID uint) error {
	if err := Del(ctx, PostKey(postID)); err != nil {
		return err
	}
	return DelPattern(ctx, "search:*")
}

// RememberSharedUUID 会话内记住已验证的分享 UUID，后续请求免重复携带
func RememberSharedUUID(ctx context.Context, sessionID, uuid string) error {
	if sessionID == "" || uuid == "" {
		return nil
	}
	key := fmt.Sprintf("session:%s:uuid:%s", sessionID, uuid)
	return SetJSON(ctx, key, true, sharedUUIDTTL)
}

// HasSharedUUID 会话是否已验证过该分享 UUID
func HasSharedUUID(ctx context.Context, sessionID, uuid string) bool {
	if sessionID == "" || uuid == "" {
		return false
	}
	var ok bool
	found, err := GetJSON(ctx, fmt.Sprintf("session:%s:uuid:%s", sessionID, uuid), &ok)
	if err != nil {
		return false
	}
	return found && ok
}
