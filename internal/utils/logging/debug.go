package logging

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"mediadl/internal/domain/consts"

	"github.com/rs/zerolog"
)

// E prints and logs an error, with caller information.
func E(format string, args ...any) string {
	mu.Lock()
	defer mu.Unlock()

	var b strings.Builder
	b.WriteString(consts.RedError)
	writeFormatted(&b, format, args...)
	writeCaller(&b, 2)

	msg := b.String()
	fmt.Fprint(console, msg)
	writeLog(msg, zerolog.ErrorLevel)
	return msg
}

// W prints and logs a warning.
func W(format string, args ...any) string {
	return emit(consts.YellowWarn, zerolog.WarnLevel, format, args...)
}

// S prints and logs a success message.
func S(format string, args ...any) string {
	return emit(consts.GreenSuccess, zerolog.InfoLevel, format, args...)
}

// I prints and logs an info message.
func I(format string, args ...any) string {
	return emit(consts.BlueInfo, zerolog.InfoLevel, format, args...)
}

// P prints and logs an untagged message.
func P(format string, args ...any) string {
	return emit("", zerolog.InfoLevel, format, args...)
}

// D prints and logs a debug message if l is within the active debug level.
func D(l int, format string, args ...any) string {
	mu.Lock()
	defer mu.Unlock()

	if l > Level {
		return ""
	}

	var b strings.Builder
	b.WriteString(consts.YellowDebug)
	writeFormatted(&b, format, args...)
	writeCaller(&b, 2)

	msg := b.String()
	fmt.Fprint(console, msg)
	writeLog(msg, zerolog.DebugLevel)
	return msg
}

// emit writes a tagged line to console and file.
func emit(tag string, lvl zerolog.Level, format string, args ...any) string {
	mu.Lock()
	defer mu.Unlock()

	var b strings.Builder
	b.Grow(len(tag) + len(format) + 1 + (len(args) * 32))
	b.WriteString(tag)
	writeFormatted(&b, format, args...)
	b.WriteByte('\n')

	msg := b.String()
	fmt.Fprint(console, msg)
	writeLog(msg, lvl)
	return msg
}

func writeFormatted(b *strings.Builder, format string, args ...any) {
	if len(args) != 0 {
		fmt.Fprintf(b, format, args...)
		return
	}
	b.WriteString(format)
}

// writeCaller appends " [Function: x - File: y : Line: z]".
func writeCaller(b *strings.Builder, skip int) {
	pc, file, line, _ := runtime.Caller(skip)
	funcName := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcName = filepath.Base(fn.Name())
	}

	b.WriteString(" [")
	b.WriteString(consts.ColorBlue)
	b.WriteString("Function: ")
	b.WriteString(consts.ColorReset)
	b.WriteString(funcName)
	b.WriteString(" - ")
	b.WriteString(consts.ColorBlue)
	b.WriteString("File: ")
	b.WriteString(consts.ColorReset)
	b.WriteString(filepath.Base(file))
	b.WriteString(" : ")
	b.WriteString(consts.ColorBlue)
	b.WriteString("Line: ")
	b.WriteString(consts.ColorReset)
	b.WriteString(strconv.Itoa(line))
	b.WriteString("]\n")
}
