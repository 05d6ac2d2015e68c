package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/edmistond/podcastdl/internal/config"
)

var (
	debugMu   sync.Mutex
	debugDir  string
	debugFile *os.File
)

// ConfigureDebug sets the directory debug logs are written to. Any
// previously opened log file is closed; the next Debug call opens a
// fresh one under the new directory.
func ConfigureDebug(dir string) {
	debugMu.Lock()
	defer debugMu.Unlock()

	if debugFile != nil {
		debugFile.Close()
		debugFile = nil
	}
	debugDir = dir
}

// Debug appends a timestamped formatted message to the current debug
// log file. Logging is best-effort: failures to open or write the log
// are swallowed so they can never take down the UI.
func Debug(format string, args ...any) {
	debugMu.Lock()
	defer debugMu.Unlock()

	if debugFile == nil {
		dir := debugDir
		if dir == "" {
			dir = config.GetLogsDir()
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return
		}
		name := fmt.Sprintf("debug-%s.log", time.Now().Format("20060102-150405"))
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return
		}
		debugFile = f
	}

	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(debugFile, "[%s] %s\n", time.Now().Format("15:04:05.000"), msg)
}

// CleanupLogs removes old debug logs, keeping the newest keep files.
func CleanupLogs(keep int) {
	debugMu.Lock()
	dir := debugDir
	debugMu.Unlock()
	if dir == "" {
		dir = config.GetLogsDir()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var logs []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "debug-") && strings.HasSuffix(e.Name(), ".log") {
			logs = append(logs, e.Name())
		}
	}
	if len(logs) <= keep {
		return
	}

	// Timestamped names sort chronologically.
	sort.Strings(logs)
	for _, name := range logs[:len(logs)-keep] {
		os.Remove(filepath.Join(dir, name))
	}
}
