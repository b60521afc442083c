package main

import (
	"log"

	"github.com/MrSnakeDoc/vrain/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatalf("❌ vrain: %v", err)
	}
}
