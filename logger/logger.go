// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package logger

import (
	"fmt"
	"io"
	"time"
)

// Logger queues log lines for a consumer. The gui event loop drains Prints
// into the log page; headless modes call DrainTo instead.
type Logger struct {
	Prints chan string
}

var _ LoggerInterface = (*Logger)(nil)

func Init() *Logger {
	return &Logger{make(chan string, 100)}
}

func (l *Logger) Print(s string) {
	l.Prints <- s
}

func (l *Logger) Printf(s string, as ...interface{}) {
	l.Prints <- fmt.Sprintf(s, as...)
}

func (l *Logger) PrintError(source string, err error) {
	l.Printf("Error(%s) -> %s", source, err.Error())
}

// DrainTo copies queued lines to w until Prints is closed.
func (l *Logger) DrainTo(w io.Writer) {
	go func() {
		for line := range l.Prints {
			fmt.Fprintln(w, time.Now().Local().Format("(15:04:05) ")+line)
		}
	}()
}
