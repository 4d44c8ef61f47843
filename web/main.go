package main

import (
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/df07/go-animated-raytracer/internal/logger"
	"github.com/df07/go-animated-raytracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory containing scene files")
	staticDir := flag.String("static", "static", "Directory of static files to serve")
	level := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	logFile := flag.String("log-file", "", "Also write logs to this rotating file")
	flag.Parse()

	if err := logger.Init(*level, *logFile); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	defer logger.Sync()

	webServer := server.NewServer(*port, *scenesDir, *staticDir, logger.Named("web"))

	logger.Info("Animated Raytracer Web Server", zap.Int("port", *port), zap.String("scenes", *scenesDir))
	if err := webServer.Start(); err != nil {
		logger.Error("Error starting server", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
