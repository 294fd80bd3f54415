// file: internal/logger/logger.go
// version: 1.0.0
// guid: 36f8e0a5-0d5b-4f55-9a57-2c0f6f0d8e1b

package logger

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int32

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var minLevel atomic.Int32

func init() {
	minLevel.Store(int32(InfoLevel))
}

// SetLevel sets the minimum level that is written.
func SetLevel(level LogLevel) {
	minLevel.Store(int32(level))
}

// SetVerbose switches debug output on or off.
func SetVerbose(verbose bool) {
	if verbose {
		SetLevel(DebugLevel)
		return
	}
	SetLevel(InfoLevel)
}

// Enabled reports whether messages at level are written.
func Enabled(level LogLevel) bool {
	return int32(level) >= minLevel.Load()
}

func logf(level LogLevel, tag string, format string, args ...any) {
	if !Enabled(level) {
		return
	}
	log.Printf("[%s] %s", tag, fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...any) { logf(DebugLevel, "DEBUG", format, args...) }
func Infof(format string, args ...any)  { logf(InfoLevel, "INFO", format, args...) }
func Warnf(format string, args ...any)  { logf(WarnLevel, "WARN", format, args...) }
func Errorf(format string, args ...any) { logf(ErrorLevel, "ERROR", format, args...) }

// StageLogger tracks the lifecycle of one pipeline stage within a run
type StageLogger struct {
	stage     string
	runID     string
	startTime time.Time
}

// NewStageLogger creates a stage logger and records its start time
func NewStageLogger(stage, runID string) *StageLogger {
	return &StageLogger{
		stage:     stage,
		runID:     runID,
		startTime: time.Now(),
	}
}

// LogStart logs the start of the stage
func (sl *StageLogger) LogStart() {
	Infof("[START] %s [run-id: %s]", sl.stage, sl.runID)
}

// LogSuccess logs the completion of the stage with the number of items handled
func (sl *StageLogger) LogSuccess(items int) {
	Infof("[SUCCESS] %s: %d items in %v [run-id: %s]",
		sl.stage, items, time.Since(sl.startTime).Round(time.Millisecond), sl.runID)
}

// LogError logs a failed stage
func (sl *StageLogger) LogError(err error) {
	Errorf("[FAILED] %s in %v: %v [run-id: %s]",
		sl.stage, time.Since(sl.startTime).Round(time.Millisecond), err, sl.runID)
}

// LogCacheHit logs a run cache hit
func LogCacheHit(component string, key string) {
	Debugf("[CACHE-HIT] %s: %s", component, key)
}

// LogCacheMiss logs a run cache miss
func LogCacheMiss(component string, key string) {
	Debugf("[CACHE-MISS] %s: %s", component, key)
}
