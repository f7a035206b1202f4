package repository

// SearchFilter 文章检索过滤条件
// 同类取值之间为 OR，不同类之间为 AND；空的类别不参与过滤
type SearchFilter struct {
	Page        int
	PageSize    int
	ViewerID    uint
	ViewerAdmin bool // 管理员不做可见性过滤
	Keyword   string // 原始关键词串
	Terms     []string
	AndMatch  bool // 要求命中全部词项
	TypeIDs   []uint
	FormatIDs []uint
	TagIDs    []uint
	BadgeIDs  []uint
	Hidden    bool
	Deleted   bool
	TitleOnly bool
	Sort      string
}

// RevisionListFilter 修订历史过滤条件
type RevisionListFilter struct {
	Page      int
	PageSize  int
	PostID    uint
	OnlyDraft bool
}
