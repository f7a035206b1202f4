package constants

// 权限常量（post_permissions 关联的能力标识）
const (
	PermissionRead    = "read"
	PermissionWrite   = "write"
	PermissionComment = "comment"
	PermissionCreate  = "create"
)

// 文章格式常量
const (
	FormatWiki     = "wiki"
	FormatWikiHTML = "htmlw"
	FormatWikiCode = "codew"
	FormatHTML     = "html"
	FormatCode     = "code"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// 文章类型常量
const (
	TypeDocument = "doc"
	TypeApp      = "app"
)

// 文章模式常量
const (
	ModeDefault = "default"
	ModeRaw     = "raw"
)

// 排序键常量（未知排序键回退默认排序）
const (
	SortRelevance  = "relevance"
	SortUpdatedNew = "updatednew"
	SortUpdatedOld = "updatedold"
	SortCreatedNew = "creatednew"
	SortCreatedOld = "createdold"
	SortTitleAZ    = "titleaz"
	SortTitleZA    = "titleza"
	SortMostViews  = "mostviews"
)

// 草稿修订号，0 表示未提交
const DraftSequence = 0

// 从未索引的哨兵时间
const NeverIndexedAt = "1900-01-01 00:00:00"

// 异步任务名称常量
const (
	TaskPostReindex = "post:reindex"
)

// 队列名称常量
const (
	QueueDefault = "default"
)
