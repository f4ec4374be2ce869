package main

import (
	"log"

	_ "github.com/shareplaces/backend/docs"

	"github.com/shareplaces/backend/config"

	"github.com/shareplaces/backend/cmd"
)

func main() {
	log.Printf("share places backend %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
