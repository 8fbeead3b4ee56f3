// Package main — точка входа game-service (HTTP + WebSocket).
package main

import (
	"log"

	"github.com/nulladdict/fiit-projects-OwnChGK/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
