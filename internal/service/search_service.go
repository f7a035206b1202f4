package service

import (
	"strings"
	"time"

	"github.com/wikicore-next/internal/access"
	"github.com/wikicore-next/internal/config"
	"github.com/wikicore-next/internal/constants"
	"github.com/wikicore-next/internal/crypt"
	"github.com/wikicore-next/internal/logger"
	"github.com/wikicore-next/internal/models"
	"github.com/wikicore-next/internal/repository"
)

// SearchService 文章检索服务
type SearchService struct {
	postRepo repository.PostRepository
	permRepo repository.PermissionRepository
	taxRepo  repository.TaxonomyRepository
	indexSvc *IndexService
	cipher   *crypt.Cipher
	cfg      *config.WikiConfig
}

// NewSearchService 创建检索服务
func NewSearchService(
	postRepo repository.PostRepository,
	permRepo repository.PermissionRepository,
	taxRepo repository.TaxonomyRepository,
	indexSvc *IndexService,
	cipher *crypt.Cipher,
	cfg *config.WikiConfig,
) *SearchService {
	return &SearchService{
		postRepo: postRepo,
		permRepo: permRepo,
		taxRepo:  taxRepo,
		indexSvc: indexSvc,
		cipher:   cipher,
		cfg:      cfg,
	}
}

// SearchInput 检索输入
type SearchInput struct {
	Query     string
	TypeIDs   []uint
	FormatIDs []uint
	TagIDs    []uint
	BadgeIDs  []uint
	Hidden    bool
	Deleted   bool
	TitleOnly bool
	Sort      string
	Page      int
}

// PostSummary 列表项视图，摘要已解密
type PostSummary struct {
	ID         uint                          `json:"id"`
	UUID       string                        `json:"uuid"`
	Title      string                        `json:"title"`
	Teaser     string                        `json:"teaser"`
	FormatID   uint                          `json:"format_id"`
	TypeID     uint                          `json:"type_id"`
	Hidden     bool                          `json:"hidden"`
	Deleted    bool                          `json:"deleted"`
	Clicks     uint                          `json:"clicks"`
	CreatedBy  uint                          `json:"created_by"`
	CreatedAt  time.Time                     `json:"created_at"`
	UpdatedAt  time.Time                     `json:"updated_at"`
	Badges     []models.Badge                `json:"badges"`
	Tags       []models.Tag                  `json:"tags"`
	RoleGrants []repository.RoleGrantSummary `json:"role_grants"`
}

// SearchResult 分页结果
type SearchResult struct {
	Posts      []PostSummary `json:"posts"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
	HasNext    bool          `json:"has_next"`
	HasPrev    bool          `json:"has_prev"`
}

var validSortKeys = map[string]struct{}{
	constants.SortRelevance:  {},
	constants.SortUpdatedNew: {},
	constants.SortUpdatedOld: {},
	constants.SortCreatedNew: {},
	constants.SortCreatedOld: {},
	constants.SortTitleAZ:    {},
	constants.SortTitleZA:    {},
	constants.SortMostViews:  {},
}

// Search 检索文章
// 非管理员的结果集先经过可见性过滤；全部由停用词构成的查询按无关键词处理
func (s *SearchService) Search(viewer access.Identity, input SearchInput) (*SearchResult, error) {
	sort := normalizeSort(input.Sort)

	terms, andMatch := s.indexSvc.QueryTerms(input.Query)

	filter := repository.SearchFilter{
		Page:        input.Page,
		PageSize:    s.pageSize(),
		ViewerID:    viewer.UserID,
		ViewerAdmin: viewer.IsAdmin,
		Keyword:     input.Query,
		Terms:       terms,
		AndMatch:    andMatch,
		TypeIDs:     input.TypeIDs,
		FormatIDs:   input.FormatIDs,
		TagIDs:      input.TagIDs,
		BadgeIDs:    input.BadgeIDs,
		Hidden:      input.Hidden,
		Deleted:     input.Deleted,
		TitleOnly:   input.TitleOnly,
		Sort:        sort,
	}

	posts, total, err := s.postRepo.Search(filter)
	if err != nil {
		return nil, err
	}

	summaries, err := s.AttachMetadata(posts)
	if err != nil {
		return nil, err
	}

	pageSize := filter.PageSize
	page := filter.Page
	if page < 1 {
		page = 1
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &SearchResult{
		Posts:      summaries,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

// AttachMetadata 为一页结果批量附加徽章、标签与角色读写摘要
// 整个 id 集合各查一次，与页大小无关
func (s *SearchService) AttachMetadata(posts []models.Post) ([]PostSummary, error) {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	badges, err := s.taxRepo.BadgesByPostIDs(ids)
	if err != nil {
		return nil, err
	}
	tags, err := s.taxRepo.TagsByPostIDs(ids)
	if err != nil {
		return nil, err
	}
	grants, err := s.permRepo.RoleSummaries(ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		teaser, err := s.cipher.Decrypt(p.Teaser)
		if err != nil {
			logger.Errorw("teaser_decrypt_failed", "post_id", p.ID, "error", err)
			return nil, ErrEncryption
		}
		summaries = append(summaries, PostSummary{
			ID:         p.ID,
			UUID:       p.UUID,
			Title:      p.Title,
			Teaser:     teaser,
			FormatID:   p.FormatID,
			TypeID:     p.TypeID,
			Hidden:     p.Hidden,
			Deleted:    p.Deleted,
			Clicks:     p.Clicks,
			CreatedBy:  p.CreatedBy,
			CreatedAt:  p.CreatedAt,
			UpdatedAt:  p.UpdatedAt,
			Badges:     badges[p.ID],
			Tags:       tags[p.ID],
			RoleGrants: grants[p.ID],
		})
	}
	return summaries, nil
}

func (s *SearchService) pageSize() int {
	if s.cfg != nil && s.cfg.SearchPageSize > 0 {
		return s.cfg.SearchPageSize
	}
	return 50
}

// normalizeSort 非法排序键回退默认排序而非报错
func normalizeSort(sort string) string {
	sort = strings.ToLower(strings.TrimSpace(sort))
	if sort == "" {
		return ""
	}
	if _, ok := validSortKeys[sort]; !ok {
		logger.Debugw("unknown_sort_key_fallback", "sort", sort)
		return ""
	}
	if sort == constants.SortRelevance {
		return ""
	}
	return sort
}
