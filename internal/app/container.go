package app

import (
	"fmt"
	"log"

	"github.com/anoixa/image-share/cache"
	"github.com/anoixa/image-share/cache/memory"
	"github.com/anoixa/image-share/cache/redis"
	"github.com/anoixa/image-share/config"
	"github.com/anoixa/image-share/database"
	"github.com/anoixa/image-share/database/repo/accounts"
	"github.com/anoixa/image-share/database/repo/images"
	"github.com/anoixa/image-share/internal/auth"
	"github.com/anoixa/image-share/internal/gallery"
	"github.com/anoixa/image-share/internal/generate"
	"github.com/anoixa/image-share/storage"
	"gorm.io/gorm"
)

// Container 持有应用的全部共享依赖
type Container struct {
	Config *config.Config
	DB     *gorm.DB
	Cache  cache.Provider
	Blobs  storage.Provider

	AccountsRepo *accounts.Repository
	ImagesRepo   *images.Repository

	AuthService    *auth.Service
	GalleryService *gallery.Service
	GenerateClient *generate.Client
}

// NewContainer wires the database, cache, storage, repositories and services
// in dependency order. Fails fast on any backend that cannot be reached.
func NewContainer(cfg *config.Config) (*Container, error) {
	db, err := database.NewDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cacheProvider, err := newCacheProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	blobStore, err := storage.NewProvider(cfg, cfg.StorageConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	accountsRepo := accounts.NewRepository(db)
	imagesRepo := images.NewRepository(db)

	jwtService, err := auth.NewJWTService(cfg.JwtSecret, cfg.JwtExpiresIn)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:       cfg,
		DB:           db,
		Cache:        cacheProvider,
		Blobs:        blobStore,
		AccountsRepo: accountsRepo,
		ImagesRepo:   imagesRepo,

		AuthService:    auth.NewService(accountsRepo, jwtService),
		GalleryService: gallery.NewService(imagesRepo, accountsRepo, blobStore),
		GenerateClient: generate.NewClient(cfg.GenerateEndpoint, cfg.GenerateTimeout, cacheProvider, cfg.GenerateCacheTTL),
	}, nil
}

// JWTService exposes the token service for middleware wiring.
func (c *Container) JWTService() *auth.JWTService {
	return c.AuthService.JWT()
}

// Close 按依赖逆序释放资源
func (c *Container) Close() {
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Printf("Failed to close cache: %v", err)
		}
	}
	if c.DB != nil {
		if err := database.Close(c.DB); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}
}

func newCacheProvider(cfg *config.Config) (cache.Provider, error) {
	switch cfg.CacheType {
	case "", "memory":
		return memory.NewMemory(memory.DefaultConfig())
	case "redis":
		return redis.NewRedis(cfg.CacheRedisAddr, cfg.CacheRedisPassword, cfg.CacheRedisDB)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.CacheType)
	}
}
