package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/compcheck/internal/ai"
	"github.com/xxxsen/compcheck/internal/config"
	"github.com/xxxsen/compcheck/internal/db"
	"github.com/xxxsen/compcheck/internal/handler"
	"github.com/xxxsen/compcheck/internal/job"
	"github.com/xxxsen/compcheck/internal/middleware"
	"github.com/xxxsen/compcheck/internal/repo"
	"github.com/xxxsen/compcheck/internal/schedule"
	"github.com/xxxsen/compcheck/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "compcheck",
		Short: "contract compliance query service",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run compcheck server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "verify database, vector collection and ai connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runCheck(cfg)
		},
	}

	rootCmd.AddCommand(runCmd, checkCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
	return cfg, nil
}

func buildAI(cfg *config.Config) (ai.IGenerator, ai.IEmbedder, error) {
	timeout := time.Duration(cfg.AI.Timeout) * time.Second

	var generators []ai.GeneratorEntry
	for _, pc := range cfg.AI.Chat {
		provider, err := ai.NewProvider(pc.Provider, pc.Data)
		if err != nil {
			return nil, nil, fmt.Errorf("init chat provider %s: %w", pc.Provider, err)
		}
		generators = append(generators, ai.GeneratorEntry{
			Name:      pc.Provider,
			Generator: ai.NewGenerator(provider, pc.Model, timeout),
		})
	}

	var embedders []ai.EmbedderEntry
	for _, pc := range cfg.AI.Embedding {
		provider, err := ai.NewProvider(pc.Provider, pc.Data)
		if err != nil {
			return nil, nil, fmt.Errorf("init embedding provider %s: %w", pc.Provider, err)
		}
		embedders = append(embedders, ai.EmbedderEntry{
			Name:     pc.Provider,
			Embedder: ai.NewEmbedder(provider, pc.Model, timeout),
		})
	}
	return ai.NewGroupGenerator(generators), ai.NewGroupEmbedder(embedders), nil
}

func runServer(cfg *config.Config) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("collection", cfg.Vector.Collection),
		zap.Int("top_k", cfg.Pipeline.TopK),
	)

	conn, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer conn.Close()

	contractRepo := repo.NewContractRepo(conn, time.Duration(cfg.Database.QueryTimeout)*time.Second)
	vectorRepo := repo.NewVectorRepo(conn, cfg.Vector.Collection)

	generator, embedder, err := buildAI(cfg)
	if err != nil {
		return err
	}

	pipeline := service.NewPipelineService(
		service.NewFilterExtractor(generator),
		contractRepo,
		service.NewQueryEmbedder(embedder),
		vectorRepo,
		service.NewAnswerGenerator(generator),
		cfg.Pipeline.TopK,
	)

	deps := handler.RouterDeps{
		Query:           handler.NewQueryHandler(pipeline),
		RateLimitWindow: time.Duration(cfg.RateLimitMs) * time.Millisecond,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.KeepaliveCron != "" {
		scheduler := schedule.NewCronScheduler()
		if err := scheduler.AddJob(job.NewDBKeepaliveJob(contractRepo), cfg.KeepaliveCron); err != nil {
			return fmt.Errorf("schedule keepalive: %w", err)
		}
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}

// runCheck exercises each external dependency once and reports the first
// failure. Meant for deploy-time smoke checks, not liveness probing.
func runCheck(cfg *config.Config) error {
	ctx := context.Background()
	log := logutil.GetLogger(ctx)

	conn, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer conn.Close()

	contractRepo := repo.NewContractRepo(conn, time.Duration(cfg.Database.QueryTimeout)*time.Second)
	if err := contractRepo.Ping(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	log.Info("db reachable")

	vectorRepo := repo.NewVectorRepo(conn, cfg.Vector.Collection)
	if err := vectorRepo.CollectionExists(ctx); err != nil {
		return fmt.Errorf("vector collection: %w", err)
	}
	log.Info("vector collection present", zap.String("collection", cfg.Vector.Collection))

	_, embedder, err := buildAI(cfg)
	if err != nil {
		return err
	}
	vec, err := service.NewQueryEmbedder(embedder).EmbedQuery(ctx, "connectivity check")
	if err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	log.Info("embedding provider reachable", zap.Int("dim", len(vec)))
	if cfg.Vector.Dim != 0 && len(vec) != cfg.Vector.Dim {
		log.Warn("embedding dim differs from configured collection dim",
			zap.Int("got", len(vec)),
			zap.Int("want", cfg.Vector.Dim),
		)
	}

	log.Info("all checks passed")
	return nil
}
