package utils

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
	"lukechampine.com/blake3"
)

// ANSI escape codes for text colors
const (
	RESET_COLOR      = "\033[0m"
	RED_COLOR        = "\033[31;1m"
	DEEP_GREEN_COLOR = "\u001b[38;5;23m"
	DEEP_GRAY        = "\u001b[38;5;240m"
	DEEP_YELLOW      = "\u001b[38;5;214m"
	GREEN_COLOR      = "\033[32;1m"
	YELLOW_COLOR     = "\033[33m"
	MAGENTA_COLOR    = "\033[38;5;99m"
	CYAN_COLOR       = "\033[36;1m"
	WHITE_COLOR      = "\033[37;1m"
)

var SHUTDOWN_ONCE sync.Once

var (
	LOG_OUTPUT_MUTEX sync.Mutex
	LOG_OUTPUT       io.Writer = os.Stdout
)

var (
	SHUTDOWN_HOOKS_MUTEX sync.Mutex
	SHUTDOWN_HOOKS       []func() error
)

// EnableFileLogging mirrors console output into a rotating file.
func EnableFileLogging(path string) {

	if path == "" {
		return
	}

	rotating := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	}

	LOG_OUTPUT_MUTEX.Lock()
	LOG_OUTPUT = io.MultiWriter(os.Stdout, rotating)
	LOG_OUTPUT_MUTEX.Unlock()

	OnShutdown(rotating.Close)

}

// OnShutdown registers a hook that GracefulShutdown runs in reverse registration order.
func OnShutdown(hook func() error) {

	SHUTDOWN_HOOKS_MUTEX.Lock()
	defer SHUTDOWN_HOOKS_MUTEX.Unlock()

	SHUTDOWN_HOOKS = append(SHUTDOWN_HOOKS, hook)

}

func runShutdownHooks() {

	SHUTDOWN_HOOKS_MUTEX.Lock()
	hooks := SHUTDOWN_HOOKS
	SHUTDOWN_HOOKS = nil
	SHUTDOWN_HOOKS_MUTEX.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](); err != nil {
			LogWithTime(fmt.Sprintf("shutdown hook failed: %v", err), RED_COLOR)
		}
	}

}

func GracefulShutdown() {

	SHUTDOWN_ONCE.Do(func() {

		LogWithTime("Stop signal has been initiated.Keep waiting...", CYAN_COLOR)

		LogWithTime("Closing server connections and the journal...", CYAN_COLOR)

		runShutdownHooks()

		LogWithTime("Gateway was gracefully stopped", GREEN_COLOR)

		os.Exit(0)

	})

}

func LogWithTime(msg, msgColor string) {

	formattedDate := time.Now().Format("02 January 2006 at 03:04:05 PM")

	LOG_OUTPUT_MUTEX.Lock()
	defer LOG_OUTPUT_MUTEX.Unlock()

	fmt.Fprintf(LOG_OUTPUT, DEEP_GREEN_COLOR+"[%s]"+MAGENTA_COLOR+"(pid:%d)"+msgColor+"  %s\n"+RESET_COLOR, formattedDate, os.Getpid(), msg)

}

func Blake3(data string) string {

	blake3Hash := blake3.Sum256([]byte(data))

	return hex.EncodeToString(blake3Hash[:])

}

func GetUTCTimestampInMilliSeconds() int64 {

	return time.Now().UTC().UnixMilli()

}
