package main

import (
	"os"

	compasscmder "github.com/deencompass/compass/cmd/compass"
)

func main() {
	cmd := compasscmder.NewCompassCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
