package main

import (
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/chatpoll/internal/adapters/handler/http"
	"github.com/vncsmyrnk/chatpoll/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	var subject string
	var admin bool
	flag.StringVar(&subject, "subject", "", "Discord user id the token reads results for")
	flag.BoolVar(&admin, "admin", false, "Allow reading every creator's results")
	flag.DurationVar(&cfg.API.TokenTTL, "ttl", cfg.API.TokenTTL, "Token lifetime")
	flag.Parse()

	if subject == "" {
		logrus.Fatal("a subject is required.")
	}

	auth, err := http.NewTokenAuth(cfg.API.JWTSecret)
	if err != nil {
		logrus.Fatalf("API_JWT_SECRET: %v", err)
	}

	token, err := auth.Issue(subject, admin, cfg.API.TokenTTL)
	if err != nil {
		logrus.Fatal(err)
	}
	fmt.Println(token)
}
