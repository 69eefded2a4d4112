// Package ledgertx defines the transaction lifecycle of a permissioned ledger:
// how a payload is built, signed, admitted as an entrypoint, and how its
// execution outcome is reported.
package ledgertx

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var logout = zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.RFC3339,
}

// Logger is a globally available logger instance.
var Logger = zerolog.New(logout).
	With().Timestamp().Logger().
	With().Caller().Logger().
	Level(zerolog.InfoLevel)

// PromCollectors exposes the Prometheus collectors created by the packages of
// the module. A metrics endpoint can register them at start-up.
var PromCollectors []prometheus.Collector
