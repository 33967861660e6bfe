package main

import (
	"log"

	"linkdigest/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("startup error: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}
