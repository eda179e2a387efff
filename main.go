package main

import (
	"log"

	"github.com/anoixa/image-share/cmd"
	"github.com/anoixa/image-share/config"
)

func main() {
	log.Printf("image share %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
