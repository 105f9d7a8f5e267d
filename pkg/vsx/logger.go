package vsx

import (
	"io"

	"github.com/charmbracelet/log"
)

func orDiscard(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.New(io.Discard)
}
