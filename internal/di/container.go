// Package di wires the application components from config.
package di

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"news-chatbot/internal/adapter/ollama"
	"news-chatbot/internal/adapter/repository"
	"news-chatbot/internal/adapter/rssfeed"
	"news-chatbot/internal/adapter/sessionstore"
	"news-chatbot/internal/domain"
	"news-chatbot/internal/infra/config"
	"news-chatbot/internal/infra/httpclient"
	"news-chatbot/internal/usecase"
	"news-chatbot/internal/worker"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	ArticleIndex domain.ArticleIndex
	SessionStore domain.SessionStore

	RespondUsecase usecase.RespondUsecase
	SearchUsecase  usecase.SearchArticlesUsecase
	IngestUsecase  usecase.IngestArticleUsecase

	// Nil when no feeds are configured.
	IngestWorker *worker.IngestWorker
}

// NewApplicationComponents wires all dependencies from config, the
// database pool and the (possibly nil) Redis client.
func NewApplicationComponents(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, log *slog.Logger) *ApplicationComponents {
	articleIndex := repository.NewArticleRepository(pool)

	var store domain.SessionStore
	if cfg.Session.Backend == "memory" || redisClient == nil {
		store = sessionstore.NewMemoryStore(cfg.Session.MemoryMaxEntries, cfg.Session.TTL)
		log.Info("session_store_selected", slog.String("backend", "memory"))
	} else {
		store = sessionstore.NewRedisStore(redisClient)
		log.Info("session_store_selected", slog.String("backend", "redis"))
	}

	// Shared HTTP clients with connection pooling
	embedderHTTP := httpclient.NewPooledClient(cfg.Retrieval.EmbedTimeout)
	generatorHTTP := httpclient.NewPooledClient(cfg.Retrieval.GenTimeout)

	encoder := ollama.NewEmbedder(cfg.Ollama.URL, cfg.Ollama.EmbeddingModel, embedderHTTP)
	generator := ollama.NewGenerator(cfg.Ollama.URL, cfg.Ollama.ChatModel, generatorHTTP)

	sessions := usecase.NewSessionCoordinator(store, usecase.SessionConfig{
		MaxTurns:  cfg.Session.MaxTurns,
		TTL:       cfg.Session.TTL,
		OpTimeout: cfg.Session.OpTimeout,
	}, log)

	retrievalCfg := usecase.RetrievalConfig{
		TopK:          cfg.Retrieval.TopK,
		ContextBudget: cfg.Retrieval.ContextBudget,
		EmbedTimeout:  cfg.Retrieval.EmbedTimeout,
		SearchTimeout: cfg.Retrieval.SearchTimeout,
	}
	pipeline := usecase.NewRetrievalPipeline(encoder, articleIndex, retrievalCfg, log)
	searchUsecase := usecase.NewSearchArticlesUsecase(encoder, articleIndex, retrievalCfg, log)

	respondUsecase := usecase.NewRespondUsecase(
		sessions,
		usecase.NewQueryAnalyzer(),
		pipeline,
		usecase.NewNewsPromptBuilder(),
		generator,
		cfg.Retrieval.GenTimeout,
		log,
	)

	ingestUsecase := usecase.NewIngestArticleUsecase(encoder, articleIndex, log)

	var ingestWorker *worker.IngestWorker
	if len(cfg.Ingest.Feeds) > 0 {
		feedClient := rssfeed.NewClient(cfg.Ingest.ExcerptCap)
		ingestWorker = worker.NewIngestWorker(
			cfg.Ingest.Feeds, feedClient, ingestUsecase, cfg.Ingest.Interval, log)
	}

	return &ApplicationComponents{
		ArticleIndex:   articleIndex,
		SessionStore:   store,
		RespondUsecase: respondUsecase,
		SearchUsecase:  searchUsecase,
		IngestUsecase:  ingestUsecase,
		IngestWorker:   ingestWorker,
	}
}
