package main

import (
	"embed"
	"log"

	"github.com/chapterhq/lodge/cmd"
)

//go:embed migrations
var embeddedMigrations embed.FS

func main() {
	cmd.EmbeddedMigrations = embeddedMigrations

	if err := cmd.RootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
