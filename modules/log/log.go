// log holds the loggers used by the fluentdb command and its query logger.
package log

import (
	"io"
	"log"
	"os"
)

var (
	i *log.Logger
	e *log.Logger
)

func init() {
	Init()
}

// Init creates the local loggers, writing to Stdout and Stderr.
func Init() {
	SetOutput(os.Stdout, os.Stderr)
}

// SetOutput points the info and error loggers at other writers.
func SetOutput(info, errs io.Writer) {
	i = log.New(info, "", log.Ldate|log.Ltime)
	e = log.New(errs, "ERROR: ", log.Ldate|log.Ltime)
}

// Info logs an informational message to Stdout.
func Info(s string, v ...interface{}) {
	i.Printf(s, v...)
}

// Error logs an error to Stderr.
func Error(s string, v ...interface{}) {
	e.Printf(s, v...)
}
