package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"docqa/internal/ai"
	"docqa/internal/config"
	"docqa/internal/model"
	mysqlClient "docqa/internal/platform/mysql"
	rabbitmqClient "docqa/internal/platform/rabbitmq"
	redisClient "docqa/internal/platform/redis"
	"docqa/internal/repository"
	"docqa/internal/vectorstore"
	chromaStore "docqa/internal/vectorstore/chroma"
	memoryStore "docqa/internal/vectorstore/memory"
	"docqa/internal/worker"
)

type App struct {
	Config      *config.Config
	MySQL       *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	VectorStore vectorstore.Store
	AI          *ai.Client
	AuditWorker *worker.UploadAuditWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.User{}, &model.UploadRecord{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}
	if err := seedUser(ctx, mysqlDB, cfg.Auth.SeedEmail, cfg.Auth.SeedPassword); err != nil {
		return nil, err
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	store, err := newVectorStore(cfg)
	if err != nil {
		return nil, err
	}

	aiClient := ai.NewClient(ai.Config{
		BaseURL:        cfg.LLM.BaseURL,
		APIKey:         cfg.LLM.APIKey,
		ChatModel:      cfg.LLM.ChatModel,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		Temperature:    cfg.LLM.Temperature,
	})

	uploadRepo := repository.NewUploadRecordRepository(mysqlDB)
	auditWorker := worker.NewUploadAuditWorker(mqConn, uploadRepo, cfg.RabbitMQ.UploadAuditQueue)
	if err := auditWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start audit worker failed: %w", err)
	}

	return &App{
		Config:      cfg,
		MySQL:       mysqlDB,
		Redis:       redisCli,
		MQConn:      mqConn,
		VectorStore: store,
		AI:          aiClient,
		AuditWorker: auditWorker,
		StartedAt:   time.Now(),
	}, nil
}

func newVectorStore(cfg *config.Config) (vectorstore.Store, error) {
	switch cfg.Vector.Backend {
	case "memory":
		return memoryStore.NewStore(), nil
	case "chroma", "":
		return chromaStore.NewStore(cfg.Vector.ChromaURL, cfg.Vector.Collection, cfg.Vector.BatchSize)
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.Vector.Backend)
	}
}

// seedUser installs the bootstrap credential record so the service is usable
// immediately after first start. An existing account is left untouched.
func seedUser(ctx context.Context, db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password failed: %w", err)
	}
	return repository.NewUserRepository(db).EnsureSeedUser(ctx, email, string(hash))
}

func (a *App) Close() error {
	var closeErr error
	if a.AuditWorker != nil {
		a.AuditWorker.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if closer, ok := a.VectorStore.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
