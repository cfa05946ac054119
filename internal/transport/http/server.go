package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "docqa/internal/app"
	"docqa/internal/bootstrap"
	"docqa/internal/cache"
	"docqa/internal/platform/rabbitmq"
	"docqa/internal/repository"
	"docqa/internal/textproc"
	"docqa/internal/transport/http/handler"
	"docqa/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORS(app.Config.App.AllowedOrigins))

	userRepo := repository.NewUserRepository(app.MySQL)
	uploadRepo := repository.NewUploadRecordRepository(app.MySQL)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	ingestService := appsvc.NewIngestService(
		app.VectorStore,
		app.AI,
		textproc.NewChunker(textproc.DefaultChunkSize, textproc.DefaultChunkOverlap),
		rabbitmq.NewAuditPublisher(app.MQConn, app.Config.RabbitMQ.UploadAuditQueue),
		app.Config.LLM.EmbedBatchSize,
	)
	queryService := appsvc.NewQueryService(
		app.VectorStore,
		app.AI,
		app.AI,
		cache.NewAnswerCache(app.Redis, time.Duration(app.Config.Redis.AnswerTTLSeconds)*time.Second),
		app.Config.Vector.TopK,
	)

	authHandler := handler.NewAuthHandler(authService)
	documentHandler := handler.NewDocumentHandler(ingestService, uploadRepo)
	queryHandler := handler.NewQueryHandler(queryService)
	healthHandler := handler.NewHealthHandler(app)

	router.GET("/healthcheck", healthHandler.Check)
	router.POST("/token", authHandler.Token)

	authorized := router.Group("/")
	authorized.Use(middleware.AuthBearer(authService))
	authorized.POST("/upload", documentHandler.Upload)
	authorized.POST("/query", queryHandler.Query)
	authorized.DELETE("/documents", documentHandler.DeleteAll)
	authorized.GET("/uploads", documentHandler.ListUploads)

	return router
}
