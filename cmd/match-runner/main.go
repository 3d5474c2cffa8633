// cmd/match-runner/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"people-matcher/internal/common/config"
	"people-matcher/internal/common/database"
	"people-matcher/internal/common/logger"
	"people-matcher/internal/common/observability"
	"people-matcher/internal/directory"
	"people-matcher/internal/matching/nickname"
	"people-matcher/internal/matching/selector"
	"people-matcher/internal/matching/workflow"
	"people-matcher/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	scopeID := flag.String("scope", "", "scope (organization) id to match")
	approveAll := flag.Bool("approve-all", false, "bulk-approve the perfect bucket")
	refresh := flag.Bool("refresh", false, "bypass the directory cache")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting match runner...",
		zap.String("environment", cfg.App.Environment),
	)

	if *scopeID == "" {
		zapLog.Fatal("missing required -scope flag")
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Metrics + pprof endpoint ---
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/debug/pprof/", http.DefaultServeMux)
		if err := http.ListenAndServe(cfg.App.MetricsAddr, mux); err != nil {
			zapLog.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	// --- Nickname index: degrade to empty on a load failure ---
	idx, err := nickname.Load(cfg.Matching.NicknameDataset)
	if err != nil {
		log.WithError(err).Warn("nickname dataset unavailable, matching without nickname upgrades", map[string]interface{}{
			"path": cfg.Matching.NicknameDataset,
		})
	} else {
		zapLog.Info("nickname index loaded", zap.Int("names", idx.Size()))
	}

	recordStore := store.New(pg.GetDB(), log)
	provider, err := directory.NewProvider(cfg.Directory, rdb.GetClient(), log)
	if err != nil {
		zapLog.Fatal("directory provider init failed", zap.Error(err))
	}
	sel := selector.New(idx, cfg.Matching.MaxParallel, log)
	wf := workflow.New(recordStore, provider, sel, log)

	unlinked, err := wf.UnlinkedCount(ctx, *scopeID)
	if err != nil {
		zapLog.Fatal("unlinked count failed", zap.Error(err))
	}
	zapLog.Info("local records awaiting linkage", zap.Int("count", unlinked))

	runStart := time.Now()
	if *refresh {
		err = wf.Refresh(ctx, *scopeID)
	} else {
		err = wf.Start(ctx, *scopeID)
	}
	if err != nil {
		obs.RecordRunDuration(ctx, time.Since(runStart), "failed")
		zapLog.Error("matching run failed", zap.Error(err))
		os.Exit(1)
	}
	obs.RecordRun(ctx, "completed")
	obs.RecordRunDuration(ctx, time.Since(runStart), "completed")

	zapLog.Info("matching run finished",
		zap.Int("perfect", len(wf.PerfectMatches())),
		zap.Int("review", len(wf.ReviewQueue())),
		zap.String("state", string(wf.State())),
	)

	if *approveAll && len(wf.PerfectMatches()) > 0 {
		if err := wf.ApproveAllPerfect(ctx); err != nil {
			zapLog.Error("bulk approval finished with failures", zap.Error(err))
			os.Exit(1)
		}
		zapLog.Info("perfect bucket approved",
			zap.Int("remainingReview", len(wf.ReviewQueue())),
		)
	}

	for _, mc := range wf.ReviewQueue() {
		name := "no match found"
		if mc.Candidate != nil {
			name = mc.Candidate.Name
		}
		zapLog.Info("needs review",
			zap.String("localId", mc.Local.ID),
			zap.String("localName", mc.Local.FullName()),
			zap.String("candidate", name),
			zap.String("tier", mc.Tier.String()),
			zap.String("nameVerdict", mc.NameVerdict.String()),
		)
	}
}
