package worker

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"news-chatbot/internal/domain"
	"news-chatbot/internal/usecase"
)

const (
	cycleTimeout   = 5 * time.Minute
	initialBackoff = 30 * time.Second
	maxBackoff     = 30 * time.Minute

	// Concurrent feed fetches per cycle.
	feedConcurrency = 4
	// Upserts per second across all feeds; each upsert costs an
	// embedding call, so the limiter protects the embedding backend.
	upsertRate = 5
)

// IngestWorker periodically pulls the configured feeds and upserts their
// articles into the index.
type IngestWorker struct {
	feeds    []string
	client   domain.FeedClient
	ingest   usecase.IngestArticleUsecase
	interval time.Duration
	limiter  *rate.Limiter
	logger   *slog.Logger
	stopChan chan struct{}
	doneChan chan struct{}
	backoff  time.Duration
}

func NewIngestWorker(
	feeds []string,
	client domain.FeedClient,
	ingest usecase.IngestArticleUsecase,
	interval time.Duration,
	logger *slog.Logger,
) *IngestWorker {
	return &IngestWorker{
		feeds:    feeds,
		client:   client,
		ingest:   ingest,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Limit(upsertRate), upsertRate),
		logger:   logger,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

func (w *IngestWorker) Start() {
	w.logger.Info("starting ingest worker",
		slog.Int("feeds", len(w.feeds)),
		slog.Duration("interval", w.interval))
	go w.run()
}

func (w *IngestWorker) Stop() {
	w.logger.Info("stopping ingest worker")
	close(w.stopChan)
	<-w.doneChan
}

func (w *IngestWorker) run() {
	defer close(w.doneChan)

	// First cycle right away so a fresh deployment has articles to search.
	w.runCycle()

	ticker := time.NewTicker(w.nextInterval())
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.runCycle()
			ticker.Reset(w.nextInterval())
		}
	}
}

func (w *IngestWorker) nextInterval() time.Duration {
	if w.backoff > 0 {
		return w.backoff
	}
	return w.interval
}

func (w *IngestWorker) runCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
	defer cancel()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(feedConcurrency)

	for _, feedURL := range w.feeds {
		g.Go(func() error {
			return w.ingestFeed(ctx, feedURL)
		})
	}

	if err := g.Wait(); err != nil {
		w.backoff = w.nextBackoff(w.backoff)
		w.logger.Warn("ingest_cycle_failed",
			slog.String("error", err.Error()),
			slog.Duration("backoff", w.backoff))
		return
	}

	w.backoff = 0
	w.logger.Info("ingest_cycle_completed", slog.Duration("elapsed", time.Since(start)))
}

func (w *IngestWorker) ingestFeed(ctx context.Context, feedURL string) error {
	articles, err := w.client.Fetch(ctx, feedURL)
	if err != nil {
		return err
	}

	for _, article := range articles {
		if err := w.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := w.ingest.Upsert(ctx, article); err != nil {
			// One bad article should not abort the whole feed.
			w.logger.Warn("article_ingest_failed",
				slog.String("article_id", article.ID),
				slog.String("feed", feedURL),
				slog.String("error", err.Error()))
		}
	}

	w.logger.Info("feed_ingested",
		slog.String("feed", feedURL),
		slog.Int("articles", len(articles)))
	return nil
}

func (w *IngestWorker) nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return initialBackoff
	}
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
