package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/chapterly/mentorhub/internal/api"
	"github.com/chapterly/mentorhub/internal/app"
	"github.com/chapterly/mentorhub/internal/config"
	"github.com/chapterly/mentorhub/internal/repository"
	"github.com/chapterly/mentorhub/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}
	version, err := migrator.Version(ctx)
	if err != nil {
		logger.Fatal("failed to read migration version", zap.Error(err))
	}
	logger.Info("database migrated", zap.Int64("version", version))
	_ = migrator.Close()

	termRepo := repository.NewTermRepository(pool)
	mentorRepo := repository.NewMentorRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	reasonRepo := repository.NewCancelReasonRepository(pool)

	svcs := api.Services{
		Terms:       service.NewTermService(termRepo, logger),
		Assignments: service.NewAssignmentService(assignmentRepo, mentorRepo, studentRepo, sessionRepo, logger),
		Sessions:    service.NewSessionService(sessionRepo, reasonRepo, logger),
		Reports:     service.NewReportService(sessionRepo, logger),
		Roster:      service.NewRosterService(mentorRepo, sessionRepo),
		Reasons:     reasonRepo,
	}

	server := api.NewServer(cfg.HTTPAddr, svcs, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	logger.Info("mentorhub portal started",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr),
	)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	logger.Info("mentorhub portal stopped")
}
