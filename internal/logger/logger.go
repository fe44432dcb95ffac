package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nimbusdb/nimbus-go-driver/bson"
)

const jobBufferSize = 100
const logLevelEnvVar = "NIMBUS_LOG_LEVEL"

// DefaultMaxDocumentLength is the default maximum length of a stringified
// BSON document logged alongside a command/reply message.
const DefaultMaxDocumentLength = 1000

// TruncationSuffix is appended to a truncated document string. It does not
// count toward MaxDocumentLength.
const TruncationSuffix = "..."

// LogSink is the subset of go-logr/logr's LogSink interface this package
// needs: a leveled, structured message with key/value pairs.
type LogSink interface {
	Info(level int, msg string, keysAndValues ...interface{})
}

// Message is anything a component can hand to a Logger: a severity-tagged,
// component-tagged, structured log line.
type Message interface {
	Component() Component
	Text() string
	Fields() []interface{}
}

type job struct {
	level Level
	msg   Message
}

// Logger fans log messages out to a LogSink on a dedicated goroutine so
// that logging a command never blocks the operation that triggered it.
type Logger struct {
	ComponentLevels   map[Component]Level
	Sink              LogSink
	MaxDocumentLength uint

	jobs chan job
}

// New constructs a Logger. A nil sink defaults to a logrus sink writing to
// stderr; componentLevels defaults to the NIMBUS_LOG_LEVEL environment
// variable applied uniformly across every Component.
func New(sink LogSink, maxDocumentLength uint, componentLevels map[Component]Level) *Logger {
	if maxDocumentLength == 0 {
		maxDocumentLength = DefaultMaxDocumentLength
	}
	if len(componentLevels) == 0 {
		componentLevels = envComponentLevels()
	}
	if sink == nil {
		sink = newLogrusSink(logrus.StandardLogger())
	}

	l := &Logger{
		ComponentLevels:   componentLevels,
		Sink:              sink,
		MaxDocumentLength: maxDocumentLength,
		jobs:              make(chan job, jobBufferSize),
	}
	go l.run()
	return l
}

// Close stops the printer goroutine. A Logger must not be used after Close.
func (l *Logger) Close() { close(l.jobs) }

// Is reports whether level is enabled for component.
func (l *Logger) Is(level Level, component Component) bool {
	return l.ComponentLevels[component] >= level
}

// Print enqueues msg for asynchronous delivery to the sink. Print never
// blocks the caller: if the job buffer is full, the message is dropped.
func (l *Logger) Print(level Level, msg Message) {
	if !l.Is(level, msg.Component()) {
		return
	}
	select {
	case l.jobs <- job{level, msg}:
	default:
	}
}

func (l *Logger) run() {
	for j := range l.jobs {
		fields := formatFields(j.msg.Fields(), l.MaxDocumentLength)
		l.Sink.Info(int(j.level)-1, j.msg.Text(), fields...)
	}
}

// truncate shortens str to width bytes without splitting a multi-byte UTF-8
// rune, appending TruncationSuffix when it does.
func truncate(str string, width uint) string {
	if len(str) <= int(width) {
		return str
	}
	cut := str[:width]
	for len(cut) > 0 && cut[len(cut)-1]&0xC0 == 0x80 {
		cut = cut[:len(cut)-1]
	}
	return cut + TruncationSuffix
}

// formatFields truncates any "command"/"reply" field (expected to be a
// *bson.Document) to commandWidth bytes of its debug string.
func formatFields(keysAndValues []interface{}, commandWidth uint) []interface{} {
	out := make([]interface{}, len(keysAndValues))
	copy(out, keysAndValues)
	for i := 0; i+1 < len(out); i += 2 {
		key, _ := out[i].(string)
		if key != "command" && key != "reply" {
			continue
		}
		doc, ok := out[i+1].(*bson.Document)
		if !ok {
			continue
		}
		out[i+1] = truncate(fmt.Sprintf("%v", doc), commandWidth)
	}
	return out
}

func envComponentLevels() map[Component]Level {
	level := ParseLevel(os.Getenv(logLevelEnvVar))
	return map[Component]Level{
		ComponentTopology:   level,
		ComponentCommand:    level,
		ComponentConnection: level,
	}
}

// logrusSink adapts a *logrus.Logger to LogSink.
type logrusSink struct{ l *logrus.Logger }

func newLogrusSink(l *logrus.Logger) LogSink { return &logrusSink{l: l} }

func (s *logrusSink) Info(level int, msg string, keysAndValues ...interface{}) {
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, _ := keysAndValues[i].(string)
		fields[key] = keysAndValues[i+1]
	}
	entry := s.l.WithFields(fields)
	if level >= int(LevelDebug)-1 {
		entry.Debug(strings.TrimSpace(msg))
		return
	}
	entry.Info(strings.TrimSpace(msg))
}
