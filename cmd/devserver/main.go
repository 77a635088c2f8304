// Command devserver runs the bundled stand-in backend: the same HTTP
// surface as the production API, backed by a local sqlite file and
// seeded with a demo menu. Point the client at it with
// API_BASE_URL=http://localhost:8000 for a fully offline demo.
package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"smart-restaurant/config"
	"smart-restaurant/devserver"
)

func main() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg := config.Load()

	db, err := devserver.OpenDB(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	if err := devserver.Seed(db); err != nil {
		log.Fatal("Failed to seed demo data: ", err)
	}
	log.Printf("Database ready at %s", cfg.DBPath)

	srv := devserver.New(db, cfg.JWTSecret)
	log.Printf("Dev server listening on %s", cfg.Listen)
	if err := srv.Run(cfg.Listen); err != nil {
		log.Fatal("Server failed: ", err)
	}
}
