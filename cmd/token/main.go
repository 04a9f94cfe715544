// Command token prints a signed API token for an external user id.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/trackrec/records-backend-go/internal/config"
	"github.com/trackrec/records-backend-go/internal/logging"
	"github.com/trackrec/records-backend-go/internal/middleware"
)

func main() {
	user := flag.String("user", "", "external user id (token subject)")
	name := flag.String("name", "", "optional username claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	logger := logging.Component("token")
	if *user == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	token, err := middleware.IssueToken([]byte(cfg.JWTSecret), *user, *name, *ttl)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to issue token")
	}
	fmt.Println(token)
}
