package server

import (
	"log/slog"
	"strings"

	"github.com/crazytosser25/goit-web-hw-04/internal/config"
	"github.com/crazytosser25/goit-web-hw-04/internal/metrics"
)

// Prometheus metrics register against the default registry, so the whole
// test binary shares one instance.
var testMetrics = metrics.NewMetrics()

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
}

func testUDPConfig() *config.UDPConfig {
	return &config.UDPConfig{
		BindAddress: "127.0.0.1",
		Port:        0, // ephemeral
		BufferSize:  65536,
		ReadTimeout: 1,
	}
}
