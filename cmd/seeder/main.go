//cmd/seeder/main.go
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/reviewloop/reviewloop-backend/internal/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, relying on OS environment variables")
	}

	conn, err := db.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer conn.Close()

	seedFiles := []string{
		"schema.sql",
		"seed/users.sql",
		"seed/customers.sql",
		"seed/templates.sql",
		"seed/reviews.sql",
	}

	for _, file := range seedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatal().Err(err).Msgf("failed to read %s", file)
		}
		if _, err := conn.Exec(string(content)); err != nil {
			log.Fatal().Err(err).Msgf("failed to execute %s", file)
		}
		fmt.Printf("Seeded: %s\n", file)
	}

	fmt.Println("Database seeding completed successfully!")
}
