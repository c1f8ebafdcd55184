package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"quiz-craft/internal/adapter"
	"quiz-craft/internal/config"
	"quiz-craft/internal/database"
	"quiz-craft/internal/dto"
	"quiz-craft/internal/logger"
	"quiz-craft/internal/repository"
	"quiz-craft/internal/service"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

const defaultSeedFile = "config/seed/sample_quizzes.json"

func main() {
	seedFile := flag.StringP("file", "f", defaultSeedFile, "JSON array of quizzes to import")
	publish := flag.Bool("publish", false, "publish every imported quiz")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := database.RunMigrations(ctx, db.DB, cfg.DB.Driver); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	log.Info("Loading seed data from file", zap.String("path", *seedFile))
	byteValue, err := os.ReadFile(*seedFile)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *seedFile), zap.Error(err))
	}
	var quizzes []dto.QuizRequest
	if err := json.Unmarshal(byteValue, &quizzes); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}

	// Imports never call the model, so no generator is wired.
	quizService := service.NewQuizService(
		repository.NewQuizDatabaseAdapter(db),
		repository.NewTransactionManagerAdapter(db),
		nil,
		adapter.NoopCache{},
		cfg.Quiz,
	)

	imported := 0
	for i := range quizzes {
		if err := seedQuiz(ctx, quizService, &quizzes[i], *publish); err != nil {
			log.Error("Failed to import quiz", zap.Int("index", i), zap.String("title", quizzes[i].Title), zap.Error(err))
			continue
		}
		imported++
	}
	log.Info("Seeding completed", zap.Int("imported", imported), zap.Int("total", len(quizzes)))
}

func seedQuiz(ctx context.Context, svc service.QuizService, req *dto.QuizRequest, publish bool) error {
	saved, err := svc.SaveQuiz(ctx, req.ToDomain())
	if err != nil {
		return err
	}
	log := logger.Get().With(zap.String("quiz_id", saved.ID), zap.String("title", saved.Title))
	if !publish {
		log.Info("Imported quiz")
		return nil
	}
	published, err := svc.PublishQuiz(ctx, saved.ID)
	if err != nil {
		return err
	}
	log.Info("Imported and published quiz", zap.String("share_link", published.ShareLink))
	return nil
}
