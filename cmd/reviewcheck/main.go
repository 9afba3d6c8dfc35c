package main

import (
	"context"
	"log"

	"github.com/SversusN/reviewcheck/config"
	"github.com/SversusN/reviewcheck/internal/app"
)

func main() {
	cfg := config.NewConfig()
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalln("Failed to start application", err)
	}
	if err = a.Run(); err != nil {
		log.Fatalln("упали...", err)
	}
}
