package logx

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/gookit/color"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// colores por nivel
var levelColor = map[Level]color.Color{
	LevelDebug: color.FgCyan,
	LevelInfo:  color.FgBlue,
	LevelWarn:  color.FgYellow,
	LevelError: color.FgRed,
}

// colores por componente
var componentColor = map[string]color.Color{
	"Greeting":  color.FgMagenta,
	"LLM":       color.FgCyan,
	"HTTP":      color.FgBlue,
	"UI":        color.FgGreen,
	"Clipboard": color.FgYellow,
	"Config":    color.FgMagenta,
	"App":       color.FgGreen,
	"Mock":      color.FgCyan,
}

var minLevel atomic.Int32

func init() {
	minLevel.Store(int32(LevelInfo))
}

// SetLevel sets the minimum level using the LOG_LEVEL names (debug, info, warn, error).
// Unknown names fall back to info.
func SetLevel(name string) {
	minLevel.Store(int32(ParseLevel(name)))
}

func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func Enabled(l Level) bool {
	return int32(l) >= minLevel.Load()
}

// detecta color mode
func useColor() bool {
	return os.Getenv("APP_ENV") == "local" || os.Getenv("APP_ENV") == "dev"
}

// --- Public API ---

func Debug(component, msg string, args ...any) {
	logGeneric(LevelDebug, component, msg, args...)
}

func Info(component, msg string, args ...any) {
	logGeneric(LevelInfo, component, msg, args...)
}

func Warn(component, msg string, args ...any) {
	logGeneric(LevelWarn, component, msg, args...)
}

func Error(component, msg string, args ...any) {
	logGeneric(LevelError, component, msg, args...)
}

// --- Core ---

func logGeneric(level Level, component, msg string, args ...any) {
	if !Enabled(level) {
		return
	}
	log.Print(format(level, component, fmt.Sprintf(msg, args...), useColor()))
}

func format(level Level, component, full string, colored bool) string {
	name := levelNames[level]
	if !colored {
		return fmt.Sprintf("[%s] [%s] %s", name, component, full)
	}
	cc, ok := componentColor[component]
	if !ok {
		cc = color.FgDefault
	}
	return fmt.Sprintf("%s %s %s",
		levelColor[level].Render("["+name+"]"),
		cc.Render("["+component+"]"),
		full,
	)
}
