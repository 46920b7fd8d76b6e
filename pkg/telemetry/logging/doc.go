// Package logging builds the process slog logger and keeps secrets out of it.
//
// Consumer identities can be API keys or bearer tokens, so the handler
// returned by New runs every attribute through a Redactor before it is
// written:
//
//	logger, err := logging.New(logging.Config{
//	    Level:           "info",
//	    Format:          "json",
//	    RedactConsumers: true,
//	})
//	slog.SetDefault(logger)
//
//	logger.Info("decision", "consumer", "sk-live-abc123") // consumer=sk-l***
//
// Request-scoped fields travel on the context. WithRequestID and
// WithConsumer store them; FromContext returns a logger carrying them.
package logging
