package repository

import (
	"strings"
	"testing"
)

func TestReplacePostTagsNormalizesNames(t *testing.T) {
	_, db := setupPostRepositoryTest(t)
	repo := NewTaxonomyRepository(db)

	err := repo.ReplacePostTags(1, []string{
		"C++!",                  // 剥离后只剩 "c"，过短丢弃
		"x",                     // 过短丢弃
		"no spaces here",        // 空格剥离
		"Valid-Tag",             // 连字符保留，小写化
		strings.Repeat("a", 60), // 截断到上限
	})
	if err != nil {
		t.Fatalf("replace tags failed: %v", err)
	}

	tags, err := repo.TagsByPostIDs([]uint{1})
	if err != nil {
		t.Fatalf("load tags failed: %v", err)
	}
	names := make(map[string]bool, len(tags[1]))
	for _, tag := range tags[1] {
		names[tag.Name] = true
	}
	if len(names) != 3 {
		t.Fatalf("want 3 tags got %v", names)
	}
	for _, want := range []string{"nospaceshere", "valid-tag", strings.Repeat("a", 50)} {
		if !names[want] {
			t.Fatalf("tag %q missing from %v", want, names)
		}
	}
}

func TestNormalizeTagName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"HowTo", "howto"},
		{"C++!", ""},
		{"x", ""},
		{"no spaces here", "nospaceshere"},
		{"under_score", "under_score"},
		{strings.Repeat("z", 60), strings.Repeat("z", 50)},
	}
	for _, c := range cases {
		if got := normalizeTagName(c.in); got != c.want {
			t.Fatalf("normalize %q want %q got %q", c.in, c.want, got)
		}
	}
}
