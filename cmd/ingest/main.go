// Command ingest runs one-off article ingestion against the index,
// bypassing the server's periodic worker.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"news-chatbot/internal/adapter/ollama"
	"news-chatbot/internal/adapter/repository"
	"news-chatbot/internal/adapter/rssfeed"
	"news-chatbot/internal/domain"
	"news-chatbot/internal/infra"
	"news-chatbot/internal/infra/config"
	"news-chatbot/internal/infra/httpclient"
	"news-chatbot/internal/infra/logger"
	"news-chatbot/internal/usecase"
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Feed ingestion tooling for the news index",
	Long: `One-off ingestion against the article index.

Examples:
  ingest feeds https://example.com/rss          # Ingest one feed now
  ingest feeds                                  # Ingest all configured feeds
  ingest article --id a1 --title "..." --url "..."  # Upsert a single article`,
}

var feedsCmd = &cobra.Command{
	Use:   "feeds [url...]",
	Short: "Fetch feeds and upsert their articles",
	RunE:  runFeeds,
}

var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "Upsert a single article",
	RunE:  runArticle,
}

func init() {
	rootCmd.AddCommand(feedsCmd)
	rootCmd.AddCommand(articleCmd)

	articleCmd.Flags().String("id", "", "article identifier (required)")
	articleCmd.Flags().String("title", "", "article title (required)")
	articleCmd.Flags().String("url", "", "article URL")
	articleCmd.Flags().String("source", "", "source name")
	articleCmd.Flags().String("category", "", "category tag")
	articleCmd.Flags().String("excerpt", "", "article excerpt")
	_ = articleCmd.MarkFlagRequired("id")
	_ = articleCmd.MarkFlagRequired("title")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildIngest(ctx context.Context, cfg *config.Config) (usecase.IngestArticleUsecase, func(), error) {
	log := logger.New()

	pool, err := infra.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	encoder := ollama.NewEmbedder(
		cfg.Ollama.URL,
		cfg.Ollama.EmbeddingModel,
		httpclient.NewPooledClient(cfg.Retrieval.EmbedTimeout),
	)
	ingest := usecase.NewIngestArticleUsecase(encoder, repository.NewArticleRepository(pool), log)
	return ingest, pool.Close, nil
}

func runFeeds(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	feeds := args
	if len(feeds) == 0 {
		feeds = cfg.Ingest.Feeds
	}
	if len(feeds) == 0 {
		return fmt.Errorf("no feeds given and INGEST_FEEDS is empty")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	ingest, cleanup, err := buildIngest(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	client := rssfeed.NewClient(cfg.Ingest.ExcerptCap)

	total := 0
	failed := 0
	for _, feedURL := range feeds {
		articles, err := client.Fetch(ctx, feedURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to fetch %s: %v\n", feedURL, err)
			failed++
			continue
		}
		for _, article := range articles {
			if err := ingest.Upsert(ctx, article); err != nil {
				fmt.Fprintf(os.Stderr, "failed to upsert %s: %v\n", article.ID, err)
				failed++
				continue
			}
			total++
		}
	}

	fmt.Printf("ingested %d articles (%d failures)\n", total, failed)
	if failed > 0 && total == 0 {
		return fmt.Errorf("all ingestion attempts failed")
	}
	return nil
}

func runArticle(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(cmd.Context(), 1*time.Minute)
	defer cancel()

	ingest, cleanup, err := buildIngest(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	id, _ := cmd.Flags().GetString("id")
	title, _ := cmd.Flags().GetString("title")
	url, _ := cmd.Flags().GetString("url")
	source, _ := cmd.Flags().GetString("source")
	category, _ := cmd.Flags().GetString("category")
	excerpt, _ := cmd.Flags().GetString("excerpt")

	article := domain.Article{
		ID:          id,
		Title:       title,
		URL:         url,
		Source:      source,
		Category:    category,
		PublishedAt: time.Now(),
		Excerpt:     excerpt,
	}
	if err := ingest.Upsert(ctx, article); err != nil {
		return fmt.Errorf("failed to upsert article: %w", err)
	}

	fmt.Printf("upserted article %s\n", id)
	return nil
}
