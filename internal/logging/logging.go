package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/mwiater/calview/internal/util"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init routes the standard logger to logPath (appending) and, when echo is
// set, to stdout as well. With neither, log output is discarded.
func Init(logPath string, echo bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	if echo {
		writers = append(writers, os.Stdout)
	}

	if logPath != "" {
		if err := util.EnsureParentDir(logPath); err != nil {
			return err
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	if len(writers) == 0 {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// LogStage records one step of the dashboard pipeline.
func LogStage(stage, metric string, payload any) {
	log.Println(buildStageMessage(stage, metric, payload))
}

func buildStageMessage(stage, metric string, payload any) string {
	name := strings.TrimSpace(stage)
	if name == "" {
		name = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", strings.ToUpper(name))}
	if metric = strings.TrimSpace(metric); metric != "" {
		parts = append(parts, fmt.Sprintf("metric=%q", metric))
	}
	parts = append(parts, fmt.Sprintf("payload=%s", formatPayload(payload)))
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
