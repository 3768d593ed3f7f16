// Package main implements the entry point for the lexigo API server,
// which schedules spaced-repetition vocabulary reviews, tracks learner
// progression, and integrates an LLM for reading-passage generation.
package main

import (
	"context"
	"log"
)

func main() {
	app, err := initializeApp(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
