package main

import (
	"context"
	"log"

	"github.com/villa-app/villa/internal/server"
	"github.com/villa-app/villa/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
