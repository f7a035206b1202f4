package access

import "strings"

// Identity 已认证调用方身份，由上层传入，本层不做认证
type Identity struct {
	UserID        uint
	IsAdmin       bool
	Authenticated bool
}

// Anonymous 匿名访客身份
func Anonymous() Identity {
	return Identity{}
}

// PermissionSet 单次请求内某 (post, user) 的权限解析结果
// wildcard 表示管理员或创建者旁路，不枚举具体能力
type PermissionSet struct {
	wildcard  bool
	constants map[string]struct{}
}

// Wildcard 不受限权限集
func Wildcard() PermissionSet {
	return PermissionSet{wildcard: true}
}

// NewPermissionSet 由能力常量构造权限集，常量统一小写
func NewPermissionSet(constants []string) PermissionSet {
	set := make(map[string]struct{}, len(constants))
	for _, c := range constants {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		set[c] = struct{}{}
	}
	return PermissionSet{constants: set}
}

// IsWildcard 是否为旁路权限集
func (p PermissionSet) IsWildcard() bool {
	return p.wildcard
}

// Has 是否包含某能力，常量大小写不敏感
func (p PermissionSet) Has(constant string) bool {
	if p.wildcard {
		return true
	}
	_, ok := p.constants[strings.ToLower(constant)]
	return ok
}

// Constants 枚举能力常量，旁路权限集返回 nil
func (p PermissionSet) Constants() []string {
	if p.wildcard {
		return nil
	}
	out := make([]string, 0, len(p.constants))
	for c := range p.constants {
		out = append(out, c)
	}
	return out
}

// Empty 是否不含任何能力
func (p PermissionSet) Empty() bool {
	return !p.wildcard && len(p.constants) == 0
}
