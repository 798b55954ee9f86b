package logging

import "go.uber.org/zap"

// L is the shared application logger. Init must run before any handler uses it.
var L *zap.Logger

// Init builds the production logger.
func Init() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	L = logger
	return nil
}

// Sync flushes buffered log entries. Safe to call on shutdown.
func Sync() {
	if L != nil {
		_ = L.Sync()
	}
}
