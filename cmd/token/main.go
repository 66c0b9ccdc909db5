// Command token provisions a user and prints a signed access token for
// local development and smoke tests.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/faturaflow/faturaflow-api/internal/config"
	"github.com/faturaflow/faturaflow-api/internal/database"
	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/faturaflow/faturaflow-api/internal/repository"
	"github.com/faturaflow/faturaflow-api/internal/services"
	"github.com/faturaflow/faturaflow-api/pkg/logger"
)

func main() {
	name := flag.String("name", "", "display name")
	email := flag.String("email", "", "user email (required)")
	role := flag.String("role", string(models.RoleMuhasebe), "MUHASEBE, OPERASYON, OP_LEADER or ADMIN")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Setup(cfg.Environment, "warn")

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	}

	repos := repository.NewRepositories(db)
	auth := services.NewAuthService(repos.User, cfg.JWTSecret, cfg.JWTExpirationHours)

	user, err := auth.Provision(context.Background(), *name, *email, models.Role(*role))
	if err != nil {
		fmt.Fprintf(os.Stderr, "provision: %v\n", err)
		os.Exit(1)
	}
	token, err := auth.IssueToken(user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "user %d (%s, %s), expires %s\n", user.ID, user.Email, user.Role, token.ExpiresAt.Format("2006-01-02 15:04"))
	fmt.Println(token.Token)
}
