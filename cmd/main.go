package main

import (
	"physiocare/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	app, err := bootstrap.New()
	if err != nil {
		logrus.Fatalf("Failed to start PhysioCare: %v", err)
	}

	// Blocks until SIGINT/SIGTERM, then shuts down and closes connections
	app.Run()
}
