package main

import (
	"log"

	"github.com/ssRohan-32/link-organizer/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ linkorg failed to start: %v", err)
	}
}
