package service

import (
	"strings"

	"github.com/wikicore-next/internal/crypt"
	"github.com/wikicore-next/internal/indexer"
	"github.com/wikicore-next/internal/logger"
	"github.com/wikicore-next/internal/models"
	"github.com/wikicore-next/internal/queue"
	"github.com/wikicore-next/internal/repository"
)

// IndexService 倒排索引服务
type IndexService struct {
	indexRepo repository.IndexRepository
	postRepo  repository.PostRepository
	cipher    *crypt.Cipher
	queue     *queue.Client
}

// NewIndexService 创建索引服务
func NewIndexService(indexRepo repository.IndexRepository, postRepo repository.PostRepository, cipher *crypt.Cipher, queueClient *queue.Client) *IndexService {
	return &IndexService{
		indexRepo: indexRepo,
		postRepo:  postRepo,
		cipher:    cipher,
		queue:     queueClient,
	}
}

// Reindex 重建某文章的全部词条，先删旧后插新
// 加密模式下词项以单向摘要落库，索引中不出现明文
func (s *IndexService) Reindex(postID uint) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	plaintext, err := s.cipher.Decrypt(post.Content)
	if err != nil {
		logger.Errorw("post_decrypt_failed", "post_id", postID, "error", err)
		return ErrEncryption
	}
	postings := indexer.BuildPostings(post.Title, plaintext)

	rows := make([]models.PostIndex, 0, len(postings))
	for _, p := range postings {
		word := p.Term
		if s.cipher.Enabled() {
			word = indexer.HashTerm(word)
		}
		rows = append(rows, models.PostIndex{PostID: postID, Word: word, Weight: p.Weight})
	}
	if err := s.indexRepo.Replace(postID, rows); err != nil {
		return err
	}
	logger.Debugw("post_reindexed", "post_id", postID, "terms", len(rows))
	return nil
}

// ScheduleReindex 提交后触发重建索引
// 队列可用则异步执行，失败交由队列重试；否则同步执行。
// 任何失败都只记日志，绝不让触发它的提交失败
func (s *IndexService) ScheduleReindex(postID uint) {
	if s.queue.Enabled() {
		err := s.queue.EnqueuePostReindex(queue.PostReindexPayload{PostID: postID})
		if err == nil {
			return
		}
		logger.Warnw("post_reindex_enqueue_failed", "post_id", postID, "error", err)
	}
	if err := s.Reindex(postID); err != nil {
		logger.Errorw("post_reindex_failed", "post_id", postID, "error", err)
	}
}

// Delete 删除某文章的全部词条
func (s *IndexService) Delete(postID uint) error {
	return s.indexRepo.DeleteByPost(postID)
}

// QueryTerms 把原始查询串变换为查询词项
// 原始串不含字面 "or"（大小写不敏感）时要求命中全部词项
func (s *IndexService) QueryTerms(raw string) (terms []string, andMatch bool) {
	terms = indexer.Stem(raw)
	if s.cipher.Enabled() {
		terms = indexer.HashTerms(terms)
	}
	andMatch = !strings.Contains(strings.ToLower(raw), "or")
	return terms, andMatch
}
