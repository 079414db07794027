// Command writedesk runs the blog/portfolio content server. All site
// configuration comes from environment variables, optionally loaded from a
// .env file.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/eringen/writedesk"
)

func main() {
	_ = godotenv.Load()

	app := writedesk.New(writedesk.SiteConfig{
		Name:          writedesk.EnvOr("SITE_NAME", "Writedesk"),
		URL:           writedesk.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:   writedesk.EnvOr("SITE_DESCRIPTION", ""),
		Addr:          ":" + writedesk.EnvOr("PORT", "3000"),
		DatabasePath:  writedesk.EnvOr("DATABASE_PATH", "data/writedesk.db"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  os.Getenv("COOKIE_SECURE") == "true",
	})

	go func() {
		if err := app.Start(); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Echo.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	app.Close()
}
