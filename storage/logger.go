package storage

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// badgerLogger implements badger.Logger so BadgerDB writes through the same
// zerolog logger as the rest of the application.
type badgerLogger struct {
	l zerolog.Logger
}

func newBadgerLogger(l zerolog.Logger) *badgerLogger {
	return &badgerLogger{l: l.With().Str("component", "badger").Logger()}
}

func (b *badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error().Msg(trimMsg(format, args))
}

func (b *badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn().Msg(trimMsg(format, args))
}

// BadgerDB logs every compaction and replay step at INFO, which drowns out
// our own messages, so we demote it.
func (b *badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debug().Msg(trimMsg(format, args))
}

func (b *badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debug().Msg(trimMsg(format, args))
}

func trimMsg(format string, args []interface{}) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
