package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/wikicore-next/internal/config"
	"github.com/wikicore-next/internal/constants"
	"github.com/wikicore-next/internal/crypt"
	"github.com/wikicore-next/internal/models"
	"github.com/wikicore-next/internal/queue"
	"github.com/wikicore-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type wikiTestEnv struct {
	db        *gorm.DB
	cipher    *crypt.Cipher
	postRepo  *repository.GormPostRepository
	permRepo  *repository.GormPermissionRepository
	revRepo   *repository.GormRevisionRepository
	indexRepo *repository.GormIndexRepository
	taxRepo   *repository.GormTaxonomyRepository
	permSvc   *PermissionService
	indexSvc  *IndexService
	searchSvc *SearchService
	revSvc    *RevisionService
	postSvc   *PostService
}

func setupWikiTest(t *testing.T, encrypted bool) *wikiTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:wiki_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Post{}, &models.PostIndex{}, &models.Revision{},
		&models.Permission{}, &models.Role{}, &models.UserRole{}, &models.PostPermission{},
		&models.Badge{}, &models.Tag{}, &models.PostBadge{}, &models.PostTag{}, &models.PostRead{},
		&models.Format{}, &models.Type{}, &models.Mode{}, &models.User{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	secret := ""
	if encrypted {
		secret = "test-secret"
	}
	cipher, err := crypt.New(encrypted, secret)
	if err != nil {
		t.Fatalf("new cipher failed: %v", err)
	}

	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}

	cfg := &config.WikiConfig{TeaserLength: 500, SearchPageSize: 50}

	env := &wikiTestEnv{
		db:        db,
		cipher:    cipher,
		postRepo:  repository.NewPostRepository(db),
		permRepo:  repository.NewPermissionRepository(db),
		revRepo:   repository.NewRevisionRepository(db),
		indexRepo: repository.NewIndexRepository(db),
		taxRepo:   repository.NewTaxonomyRepository(db),
	}
	env.permSvc = NewPermissionService(env.permRepo)
	env.indexSvc = NewIndexService(env.indexRepo, env.postRepo, cipher, queueClient)
	env.searchSvc = NewSearchService(env.postRepo, env.permRepo, env.taxRepo, env.indexSvc, cipher, cfg)
	env.revSvc = NewRevisionService(env.revRepo, env.postRepo, env.permSvc, env.indexSvc, cipher, cfg)
	env.postSvc = NewPostService(env.postRepo, env.taxRepo, env.revRepo, env.permRepo, env.permSvc, env.indexSvc, cipher, cfg)

	seedLookupRows(t, db)
	return env
}

func seedLookupRows(t *testing.T, db *gorm.DB) {
	t.Helper()
	perms := []models.Permission{
		{Name: "Read", Constant: constants.PermissionRead},
		{Name: "Write", Constant: constants.PermissionWrite},
		{Name: "Comment", Constant: constants.PermissionComment},
	}
	for i := range perms {
		if err := db.Create(&perms[i]).Error; err != nil {
			t.Fatalf("seed permission failed: %v", err)
		}
	}
	formats := []models.Format{
		{Name: "Wiki", Constant: constants.FormatWiki},
		{Name: "Text", Constant: constants.FormatText},
		{Name: "Markdown", Constant: constants.FormatMarkdown},
	}
	for i := range formats {
		if err := db.Create(&formats[i]).Error; err != nil {
			t.Fatalf("seed format failed: %v", err)
		}
	}
	if err := db.Create(&models.Type{Name: "Document", Constant: constants.TypeDocument}).Error; err != nil {
		t.Fatalf("seed type failed: %v", err)
	}
	if err := db.Create(&models.Mode{Name: "Default", Constant: constants.ModeDefault}).Error; err != nil {
		t.Fatalf("seed mode failed: %v", err)
	}
}

// createWikiPost 直接落库一篇已加密的文章，绕过业务入口
func (env *wikiTestEnv) createWikiPost(t *testing.T, title, content string, createdBy uint) *models.Post {
	t.Helper()
	contentCipher, err := env.cipher.Encrypt(content)
	if err != nil {
		t.Fatalf("encrypt content failed: %v", err)
	}
	teaserCipher, err := env.cipher.Encrypt(ExtractTeaser(content, 500))
	if err != nil {
		t.Fatalf("encrypt teaser failed: %v", err)
	}
	post := &models.Post{
		UUID:      uuid.NewString(),
		Title:     title,
		Content:   contentCipher,
		Teaser:    teaserCipher,
		FormatID:  1,
		TypeID:    1,
		ModeID:    1,
		CreatedBy: createdBy,
	}
	if err := env.postRepo.Create(post); err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	return post
}

// grantViaRole 建一条 (post, role, permission) 授权并把用户挂进角色
func (env *wikiTestEnv) grantViaRole(t *testing.T, postID, userID uint, permConstant string) {
	t.Helper()
	var perm models.Permission
	if err := env.db.Where("constant = ?", permConstant).First(&perm).Error; err != nil {
		t.Fatalf("load permission %s failed: %v", permConstant, err)
	}
	role := models.Role{Name: fmt.Sprintf("role-%d-%d-%s", postID, userID, permConstant)}
	if err := env.db.Create(&role).Error; err != nil {
		t.Fatalf("create role failed: %v", err)
	}
	if err := env.db.Create(&models.UserRole{UserID: userID, RoleID: role.ID}).Error; err != nil {
		t.Fatalf("link user role failed: %v", err)
	}
	if err := env.db.Create(&models.PostPermission{PostID: postID, RoleID: role.ID, PermissionID: perm.ID}).Error; err != nil {
		t.Fatalf("grant failed: %v", err)
	}
}
