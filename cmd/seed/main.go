// Command seed wipes and repopulates the database with demo accounts
// and sample tasks for local development.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/internal/config"
	pgInfra "github.com/taskdeck/backend/internal/infrastructure/postgres"
	"github.com/taskdeck/backend/pkg/logger"
	"github.com/taskdeck/backend/repository/postgres"
)

const demoPassword = "password123"

type seedUser struct {
	name  string
	email string
}

type seedTask struct {
	owner       int
	title       string
	description string
	priority    domain.Priority
	dueInDays   int
}

var seedUsers = []seedUser{
	{name: "John Doe", email: "john.doe@example.com"},
	{name: "Jane Smith", email: "jane.smith@example.com"},
	{name: "Mike Wilson", email: "mike.wilson@example.com"},
}

var seedTasks = []seedTask{
	{owner: 0, title: "Complete project documentation", description: "Write the API reference and onboarding notes", priority: domain.PriorityHigh, dueInDays: 7},
	{owner: 0, title: "Review pull requests", description: "Clear the review queue before the sprint ends", priority: domain.PriorityMedium, dueInDays: 2},
	{owner: 1, title: "Fix login bug", description: "Session cookie is dropped on Safari", priority: domain.PriorityHigh, dueInDays: 1},
	{owner: 1, title: "Update dependencies", description: "", priority: domain.PriorityLow, dueInDays: 14},
	{owner: 2, title: "Plan team offsite", description: "Collect venue options and a budget estimate", priority: domain.PriorityMedium, dueInDays: 30},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: "console",
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pool.Close()

	// Clear existing data; tasks cascade from users.
	if _, err := pool.Exec(ctx, `DELETE FROM users`); err != nil {
		zapLogger.Fatal("failed to clear data", zap.Error(err))
	}
	zapLogger.Info("cleared existing data")

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
	if err != nil {
		zapLogger.Fatal("failed to hash demo password", zap.Error(err))
	}

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)

	owners := make([]string, len(seedUsers))
	for i, su := range seedUsers {
		user, err := userRepo.Create(ctx, &domain.User{
			Name:     su.name,
			Email:    su.email,
			Password: string(hashed),
		})
		if err != nil {
			zapLogger.Fatal("failed to seed user", zap.String("email", su.email), zap.Error(err))
		}
		owners[i] = user.ID
	}
	zapLogger.Info("seeded users", zap.Int("count", len(owners)))

	for _, st := range seedTasks {
		if _, err := taskRepo.Create(ctx, &domain.Task{
			UserID:      owners[st.owner],
			Title:       st.title,
			Description: st.description,
			Priority:    st.priority,
			EndDate:     time.Now().AddDate(0, 0, st.dueInDays),
		}); err != nil {
			zapLogger.Fatal("failed to seed task", zap.String("title", st.title), zap.Error(err))
		}
	}
	zapLogger.Info("seeded tasks", zap.Int("count", len(seedTasks)))
}
