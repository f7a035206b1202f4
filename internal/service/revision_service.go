package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
	"gorm.io/gorm"

	"github.com/wikicore-next/internal/access"
	"github.com/wikicore-next/internal/cache"
	"github.com/wikicore-next/internal/config"
	"github.com/wikicore-next/internal/constants"
	"github.com/wikicore-next/internal/crypt"
	"github.com/wikicore-next/internal/logger"
	"github.com/wikicore-next/internal/models"
	"github.com/wikicore-next/internal/repository"
)

// 提交竞争的最大重试次数
const commitMaxRetries = 3

// RevisionService 修订与草稿服务
type RevisionService struct {
	revRepo  repository.RevisionRepository
	postRepo repository.PostRepository
	permSvc  *PermissionService
	indexSvc *IndexService
	cipher   *crypt.Cipher
	cfg      *config.WikiConfig
}

// NewRevisionService 创建修订服务
func NewRevisionService(
	revRepo repository.RevisionRepository,
	postRepo repository.PostRepository,
	permSvc *PermissionService,
	indexSvc *IndexService,
	cipher *crypt.Cipher,
	cfg *config.WikiConfig,
) *RevisionService {
	return &RevisionService{
		revRepo:  revRepo,
		postRepo: postRepo,
		permSvc:  permSvc,
		indexSvc: indexSvc,
		cipher:   cipher,
		cfg:      cfg,
	}
}

// Autosave 保存草稿，懒建且后写覆盖
// 不触碰文章已提交内容，也不触发索引重建
func (s *RevisionService) Autosave(viewer access.Identity, postID uint, title, content string) error {
	_, resolver, err := s.loadForWrite(viewer, postID)
	if err != nil {
		return err
	}

	ciphertext, err := s.cipher.Encrypt(content)
	if err != nil {
		logger.Errorw("draft_encrypt_failed", "post_id", postID, "error", err)
		return ErrEncryption
	}

	draft, err := s.revRepo.GetDraft(postID, resolver.Viewer().UserID)
	if err != nil {
		return err
	}
	if draft == nil {
		draft = &models.Revision{
			PostID:    postID,
			Sequence:  constants.DraftSequence,
			CreatedBy: resolver.Viewer().UserID,
		}
	}
	draft.Title = title
	draft.Content = ciphertext
	return s.revRepo.SaveDraft(draft)
}

// Commit 发布草稿
// 把内容写回文章本体、重算摘要、原地把草稿行改号为下一个修订号，
// 然后触发索引重建并使缓存失效；修订号分配按文章串行化
func (s *RevisionService) Commit(ctx context.Context, viewer access.Identity, postID uint, title, content string) (uint, error) {
	post, resolver, err := s.loadForWrite(viewer, postID)
	if err != nil {
		return 0, err
	}

	teaser := ExtractTeaser(content, s.teaserLength())
	contentCipher, err := s.cipher.Encrypt(content)
	if err != nil {
		logger.Errorw("content_encrypt_failed", "post_id", postID, "error", err)
		return 0, ErrEncryption
	}
	teaserCipher, err := s.cipher.Encrypt(teaser)
	if err != nil {
		logger.Errorw("teaser_encrypt_failed", "post_id", postID, "error", err)
		return 0, ErrEncryption
	}

	editorID := resolver.Viewer().UserID
	var sequence uint
	for attempt := 0; attempt < commitMaxRetries; attempt++ {
		sequence = 0
		err = s.revRepo.Transaction(func(tx *gorm.DB) error {
			revTx := s.revRepo.WithTx(tx)
			postTx := s.postRepo.WithTx(tx)

			// 先锁文章行再读最大修订号，聚合查询本身不能带行锁
			locked, err := postTx.GetByIDForUpdate(postID)
			if err != nil {
				return err
			}
			if locked == nil {
				return ErrNotFound
			}

			max, err := revTx.MaxCommittedSequence(postID)
			if err != nil {
				return err
			}
			next := max + 1

			draft, err := revTx.GetDraft(postID, editorID)
			if err != nil {
				return err
			}
			if draft == nil {
				// 无草稿直接提交，补一条修订行
				draft = &models.Revision{
					PostID:    postID,
					Sequence:  constants.DraftSequence,
					CreatedBy: editorID,
				}
			}
			draft.Title = title
			draft.Content = contentCipher
			if err := revTx.SaveDraft(draft); err != nil {
				return err
			}

			affected, err := s.revRepo.PromoteDraft(tx, draft.ID, next)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrConflict
			}

			post.Title = title
			post.Content = contentCipher
			post.Teaser = teaserCipher
			post.UpdatedBy = editorID
			post.UpdatedAt = time.Now()
			if err := postTx.Update(post); err != nil {
				return err
			}
			sequence = next
			return nil
		})
		if err == nil {
			break
		}
		if errors.Is(err, ErrConflict) || isDuplicateSequence(err) {
			logger.Warnw("commit_sequence_conflict_retry", "post_id", postID, "attempt", attempt+1)
			continue
		}
		return 0, err
	}
	if err != nil {
		return 0, ErrConflict
	}

	s.indexSvc.ScheduleReindex(postID)
	if err := cache.InvalidatePost(ctx, postID); err != nil {
		logger.Warnw("post_cache_invalidate_failed", "post_id", postID, "error", err)
	}
	logger.Infow("post_committed", "post_id", postID, "sequence", sequence, "editor_id", editorID)
	return sequence, nil
}

// DiscardDraft 丢弃调用方自己的草稿
func (s *RevisionService) DiscardDraft(viewer access.Identity, postID uint) error {
	_, resolver, err := s.loadForWrite(viewer, postID)
	if err != nil {
		return err
	}
	return s.revRepo.DeleteDraft(postID, resolver.Viewer().UserID)
}

// History 已提交修订历史
func (s *RevisionService) History(viewer access.Identity, postID uint, page, pageSize int) ([]models.Revision, int64, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, 0, err
	}
	if post == nil {
		return nil, 0, ErrNotFound
	}
	resolver := s.permSvc.ForRequest(viewer)
	ok, err := resolver.HasPermission(post, constants.PermissionRead)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, ErrDenied
	}
	return s.revRepo.ListCommitted(repository.RevisionListFilter{
		Page:     page,
		PageSize: pageSize,
		PostID:   postID,
	})
}

// DiffOp 差异段类别
type DiffOp string

const (
	DiffEqual  DiffOp = "equal"
	DiffInsert DiffOp = "insert"
	DiffDelete DiffOp = "delete"
)

// DiffSegment 带标注的差异段
type DiffSegment struct {
	Op   DiffOp `json:"op"`
	Text string `json:"text"`
}

// DraftDiff 某编辑者的草稿对已提交基线的差异
// 草稿密文损坏时 Undiffable 置位且不带差异段
type DraftDiff struct {
	EditorID   uint          `json:"editor_id"`
	Title      string        `json:"title"`
	Segments   []DiffSegment `json:"segments"`
	Undiffable bool          `json:"undiffable"`
}

// Diff 把文章的每份并发草稿分别与当前已提交明文做词级差异
// 存量内容损坏时退化为整段插入，不让差异查看失败
func (s *RevisionService) Diff(viewer access.Identity, postID uint) ([]DraftDiff, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	resolver := s.permSvc.ForRequest(viewer)
	ok, err := resolver.HasPermission(post, constants.PermissionWrite)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDenied
	}

	baseline, baseErr := s.cipher.Decrypt(post.Content)
	if baseErr != nil {
		logger.Warnw("diff_baseline_decrypt_failed", "post_id", postID, "error", baseErr)
		baseline = ""
	}

	drafts, err := s.revRepo.ListDrafts(postID)
	if err != nil {
		return nil, err
	}

	diffs := make([]DraftDiff, 0, len(drafts))
	for _, draft := range drafts {
		draftText, err := s.cipher.Decrypt(draft.Content)
		if err != nil {
			// 草稿本身损坏无法比对，标记后跳过而不是对空串做差异
			logger.Warnw("diff_draft_decrypt_failed", "post_id", postID, "editor_id", draft.CreatedBy, "error", err)
			diffs = append(diffs, DraftDiff{
				EditorID:   draft.CreatedBy,
				Title:      draft.Title,
				Undiffable: true,
			})
			continue
		}
		diffs = append(diffs, DraftDiff{
			EditorID: draft.CreatedBy,
			Title:    draft.Title,
			Segments: diffWords(baseline, draftText),
		})
	}
	return diffs, nil
}

// diffWords 词粒度差异
// 借 DiffLinesToChars 把词映射为单字符后再比较，避免字符级噪音
func diffWords(oldText, newText string) []DiffSegment {
	dmp := diffmatchpatch.New()
	oldWords := strings.Join(strings.Fields(oldText), "\n")
	newWords := strings.Join(strings.Fields(newText), "\n")
	c1, c2, arr := dmp.DiffLinesToChars(oldWords+"\n", newWords+"\n")
	diffs := dmp.DiffMain(c1, c2, false)
	diffs = dmp.DiffCharsToLines(diffs, arr)

	segments := make([]DiffSegment, 0, len(diffs))
	for _, d := range diffs {
		text := strings.TrimRight(strings.ReplaceAll(d.Text, "\n", " "), " ")
		if text == "" {
			continue
		}
		var op DiffOp
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		default:
			op = DiffEqual
		}
		segments = append(segments, DiffSegment{Op: op, Text: text})
	}
	return segments
}

// loadForWrite 统一的写路径前置检查：先查存在性，再查 write 权限
func (s *RevisionService) loadForWrite(viewer access.Identity, postID uint) (*models.Post, *Resolver, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, nil, err
	}
	if post == nil {
		return nil, nil, ErrNotFound
	}
	resolver := s.permSvc.ForRequest(viewer)
	ok, err := resolver.HasPermission(post, constants.PermissionWrite)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrDenied
	}
	return post, resolver, nil
}

func (s *RevisionService) teaserLength() int {
	if s.cfg != nil && s.cfg.TeaserLength > 0 {
		return s.cfg.TeaserLength
	}
	return 500
}

// isDuplicateSequence 识别修订号唯一性竞争导致的写冲突
func isDuplicateSequence(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
