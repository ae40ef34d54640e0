package logging

import (
	"os"
	"sync"
)

var (
	instance *Logger
	mu       sync.RWMutex
)

// InitLogger builds the global logger. Binaries call it once at start-up,
// before anything asks for GetGlobalLogger.
func InitLogger(config *LogConfig) error {
	logger, err := NewLogger(config)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		_ = instance.Close()
	}
	instance = logger
	return nil
}

// GetGlobalLogger returns the global logger. Without InitLogger it returns a
// stdout logger at info level.
func GetGlobalLogger() *Logger {
	mu.RLock()
	logger := instance
	mu.RUnlock()
	if logger != nil {
		return logger
	}

	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = NewWriterLogger(os.Stdout, LevelInfo)
		instance.requests = false
	}
	return instance
}
