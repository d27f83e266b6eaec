package main

import (
	"github.com/scribe-research/backend/internal/server"
	"github.com/scribe-research/backend/internal/util"
	"github.com/scribe-research/backend/pkg/logger"
	"github.com/scribe-research/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
