package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wikicore-next/internal/access"
	"github.com/wikicore-next/internal/cache"
	"github.com/wikicore-next/internal/config"
	"github.com/wikicore-next/internal/constants"
	"github.com/wikicore-next/internal/crypt"
	"github.com/wikicore-next/internal/logger"
	"github.com/wikicore-next/internal/models"
	"github.com/wikicore-next/internal/parser"
	"github.com/wikicore-next/internal/repository"
)

// PostService 文章业务服务
type PostService struct {
	postRepo repository.PostRepository
	taxRepo  repository.TaxonomyRepository
	revRepo  repository.RevisionRepository
	permRepo repository.PermissionRepository
	permSvc  *PermissionService
	indexSvc *IndexService
	cipher   *crypt.Cipher
	cfg      *config.WikiConfig
}

// NewPostService 创建文章服务
func NewPostService(
	postRepo repository.PostRepository,
	taxRepo repository.TaxonomyRepository,
	revRepo repository.RevisionRepository,
	permRepo repository.PermissionRepository,
	permSvc *PermissionService,
	indexSvc *IndexService,
	cipher *crypt.Cipher,
	cfg *config.WikiConfig,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		taxRepo:  taxRepo,
		revRepo:  revRepo,
		permRepo: permRepo,
		permSvc:  permSvc,
		indexSvc: indexSvc,
		cipher:   cipher,
		cfg:      cfg,
	}
}

// CreatePostInput 创建文章输入
type CreatePostInput struct {
	Title   string
	Content string
	Format  string
	Type    string
	Mode    string
	Hidden  bool
	Shared  bool
}

// Create 新建文章
// 生成 UUID、落盘密文、写入首个修订并触发建索引
func (s *PostService) Create(ctx context.Context, viewer access.Identity, input CreatePostInput) (*models.Post, error) {
	if !viewer.Authenticated {
		return nil, ErrDenied
	}
	if input.Title == "" {
		return nil, ErrValidation
	}

	format, err := s.taxRepo.GetFormatByConstant(defaultString(input.Format, constants.FormatWiki))
	if err != nil {
		return nil, err
	}
	typ, err := s.taxRepo.GetTypeByConstant(defaultString(input.Type, constants.TypeDocument))
	if err != nil {
		return nil, err
	}
	mode, err := s.taxRepo.GetModeByConstant(defaultString(input.Mode, constants.ModeDefault))
	if err != nil {
		return nil, err
	}
	if format == nil || typ == nil || mode == nil {
		return nil, ErrValidation
	}

	teaser := ExtractTeaser(input.Content, s.teaserLength())
	contentCipher, err := s.cipher.Encrypt(input.Content)
	if err != nil {
		logger.Errorw("content_encrypt_failed", "error", err)
		return nil, ErrEncryption
	}
	teaserCipher, err := s.cipher.Encrypt(teaser)
	if err != nil {
		logger.Errorw("teaser_encrypt_failed", "error", err)
		return nil, ErrEncryption
	}

	neverIndexed, _ := time.Parse("2006-01-02 15:04:05", constants.NeverIndexedAt)
	post := &models.Post{
		UUID:      uuid.NewString(),
		Title:     input.Title,
		Content:   contentCipher,
		Teaser:    teaserCipher,
		FormatID:  format.ID,
		TypeID:    typ.ID,
		ModeID:    mode.ID,
		Hidden:    input.Hidden,
		Shared:    input.Shared,
		IndexedAt: neverIndexed,
		CreatedBy: viewer.UserID,
		UpdatedBy: viewer.UserID,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}

	// 首个修订直接以 1 号落库
	first := &models.Revision{
		PostID:    post.ID,
		Sequence:  1,
		Title:     post.Title,
		Content:   contentCipher,
		CreatedBy: viewer.UserID,
	}
	if err := s.revRepo.SaveDraft(first); err != nil {
		return nil, err
	}

	s.indexSvc.ScheduleReindex(post.ID)
	logger.Infow("post_created", "post_id", post.ID, "created_by", viewer.UserID)
	return post, nil
}

// PostView 文章详情视图，内容已解密并解析
type PostView struct {
	Post    *models.Post `json:"post"`
	Content string       `json:"content"`
	Raw     string       `json:"raw"`
}

// View 查看文章
// 无 read 授权时尝试以分享 UUID 换取只读访问；命中即原子累加点击数
func (s *PostService) View(ctx context.Context, viewer access.Identity, postID uint, uuidToken, sessionID string) (*PostView, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, viewer, post, uuidToken, sessionID)
}

// ViewByUUID 按 UUID 查看未公开分享的文章
func (s *PostService) ViewByUUID(ctx context.Context, viewer access.Identity, token, sessionID string) (*PostView, error) {
	canonical := ExpandUUID(token)
	if canonical == "" {
		return nil, ErrNotFound
	}
	post, err := s.postRepo.GetByUUID(canonical)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, viewer, post, token, sessionID)
}

func (s *PostService) view(ctx context.Context, viewer access.Identity, post *models.Post, uuidToken, sessionID string) (*PostView, error) {
	if post == nil {
		return nil, ErrNotFound
	}
	resolver := s.permSvc.ForRequest(viewer)
	if post.Deleted && !viewer.IsAdmin && post.CreatedBy != viewer.UserID {
		return nil, ErrNotFound
	}
	ok, err := resolver.HasPermission(post, constants.PermissionRead)
	if err != nil {
		return nil, err
	}
	if !ok && !resolver.UUIDPermission(ctx, post, uuidToken, sessionID) {
		return nil, ErrDenied
	}

	if err := s.postRepo.IncrementClicks(post.ID); err != nil {
		logger.Warnw("post_clicks_increment_failed", "post_id", post.ID, "error", err)
	}

	// 解密与解析各自至多一次
	raw := post.Content
	if !post.Decrypted {
		raw, err = s.cipher.Decrypt(post.Content)
		if err != nil {
			logger.Errorw("post_decrypt_failed", "post_id", post.ID, "error", err)
			return nil, ErrEncryption
		}
		post.Decrypted = true
	}

	rendered := raw
	if !post.Parsed {
		kind := s.parserKind(post.FormatID)
		rendered, err = parser.Parse(kind, raw, parser.Context{
			UserID:        viewer.UserID,
			IsAdmin:       viewer.IsAdmin,
			Authenticated: viewer.Authenticated,
			PostID:        post.ID,
			CreatedBy:     post.CreatedBy,
		})
		if err != nil {
			return nil, err
		}
		post.Parsed = true
	}

	return &PostView{Post: post, Content: rendered, Raw: raw}, nil
}

// SetDeleted 软删除或恢复，需要 write 授权
func (s *PostService) SetDeleted(ctx context.Context, viewer access.Identity, postID uint, deleted bool) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	resolver := s.permSvc.ForRequest(viewer)
	ok, err := resolver.HasPermission(post, constants.PermissionWrite)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDenied
	}
	if err := s.postRepo.SetDeleted(postID, deleted, viewer.UserID); err != nil {
		return err
	}
	if err := cache.InvalidatePost(ctx, postID); err != nil {
		logger.Warnw("post_cache_invalidate_failed", "post_id", postID, "error", err)
	}
	logger.Infow("post_deleted_flag_set", "post_id", postID, "deleted", deleted, "by", viewer.UserID)
	return nil
}

// PermanentDelete 永久删除，仅管理员或创建者
// 级联清掉徽章、标签、索引、授权、阅读记录与全部修订
func (s *PostService) PermanentDelete(ctx context.Context, viewer access.Identity, postID uint) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	if !viewer.IsAdmin && post.CreatedBy != viewer.UserID {
		return ErrDenied
	}
	if err := s.postRepo.PermanentDelete(postID); err != nil {
		return err
	}
	if err := cache.InvalidatePost(ctx, postID); err != nil {
		logger.Warnw("post_cache_invalidate_failed", "post_id", postID, "error", err)
	}
	logger.Infow("post_permanently_deleted", "post_id", postID, "by", viewer.UserID)
	return nil
}

// SetBadges 整组替换徽章，需要 write 授权
func (s *PostService) SetBadges(ctx context.Context, viewer access.Identity, postID uint, badgeIDs []uint) error {
	if err := s.requireWrite(viewer, postID); err != nil {
		return err
	}
	if err := s.taxRepo.ReplacePostBadges(postID, badgeIDs); err != nil {
		return err
	}
	return cache.InvalidatePost(ctx, postID)
}

// SetTags 整组替换标签，需要 write 授权
func (s *PostService) SetTags(ctx context.Context, viewer access.Identity, postID uint, tagNames []string) error {
	if err := s.requireWrite(viewer, postID); err != nil {
		return err
	}
	if err := s.taxRepo.ReplacePostTags(postID, tagNames); err != nil {
		return err
	}
	return cache.InvalidatePost(ctx, postID)
}

// SetGrants 整组替换文章授权三元组，仅管理员或创建者
func (s *PostService) SetGrants(ctx context.Context, viewer access.Identity, postID uint, grants []models.PostPermission) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	if !viewer.IsAdmin && post.CreatedBy != viewer.UserID {
		return ErrDenied
	}
	if err := s.permRepo.ReplacePostGrants(postID, grants); err != nil {
		return err
	}
	return cache.InvalidatePost(ctx, postID)
}

func (s *PostService) requireWrite(viewer access.Identity, postID uint) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	resolver := s.permSvc.ForRequest(viewer)
	ok, err := resolver.HasPermission(post, constants.PermissionWrite)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDenied
	}
	return nil
}

func (s *PostService) parserKind(formatID uint) parser.Kind {
	format, err := s.taxRepo.GetFormatByID(formatID)
	if err != nil || format == nil {
		return parser.KindText
	}
	return parser.KindForFormat(format.Constant)
}

func (s *PostService) teaserLength() int {
	if s.cfg != nil && s.cfg.TeaserLength > 0 {
		return s.cfg.TeaserLength
	}
	return 500
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
