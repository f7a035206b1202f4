package provider

import (
	"github.com/wikicore-next/internal/cache"
	"github.com/wikicore-next/internal/config"
	"github.com/wikicore-next/internal/crypt"
	"github.com/wikicore-next/internal/logger"
	"github.com/wikicore-next/internal/models"
	"github.com/wikicore-next/internal/queue"
	"github.com/wikicore-next/internal/repository"
	"github.com/wikicore-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Cipher      *crypt.Cipher

	// Repositories
	UserRepo       repository.UserRepository
	PostRepo       repository.PostRepository
	PermissionRepo repository.PermissionRepository
	IndexRepo      repository.IndexRepository
	RevisionRepo   repository.RevisionRepository
	TaxonomyRepo   repository.TaxonomyRepository

	// Services
	AuthService       *service.AuthService
	PermissionService *service.PermissionService
	IndexService      *service.IndexService
	SearchService     *service.SearchService
	RevisionService   *service.RevisionService
	PostService       *service.PostService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	// 初始化内容加解密器，配置非法直接终止启动
	cipher, err := crypt.New(cfg.Wiki.UseEncryption, cfg.Wiki.EncryptSecret)
	if err != nil {
		logger.Errorw("provider_init_cipher_failed", "error", err)
		panic(err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Cipher:      cipher,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.PermissionRepo = repository.NewPermissionRepository(db)
	c.IndexRepo = repository.NewIndexRepository(db)
	c.RevisionRepo = repository.NewRevisionRepository(db)
	c.TaxonomyRepo = repository.NewTaxonomyRepository(db)
}

func (c *Container) initServices() {
	wikiCfg := &c.Config.Wiki

	c.AuthService = service.NewAuthService(c.UserRepo, &c.Config.JWT)
	c.PermissionService = service.NewPermissionService(c.PermissionRepo)
	c.IndexService = service.NewIndexService(c.IndexRepo, c.PostRepo, c.Cipher, c.QueueClient)
	c.SearchService = service.NewSearchService(c.PostRepo, c.PermissionRepo, c.TaxonomyRepo, c.IndexService, c.Cipher, wikiCfg)
	c.RevisionService = service.NewRevisionService(c.RevisionRepo, c.PostRepo, c.PermissionService, c.IndexService, c.Cipher, wikiCfg)
	c.PostService = service.NewPostService(c.PostRepo, c.TaxonomyRepo, c.RevisionRepo, c.PermissionRepo, c.PermissionService, c.IndexService, c.Cipher, wikiCfg)
}
