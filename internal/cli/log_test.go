package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	for _, level := range []log.Level{log.DebugLevel, log.InfoLevel, log.WarnLevel} {
		t.Run(level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, level)
			l.Debug("dbg")
			l.Info("inf")
			l.Warn("wrn")

			out := buf.String()
			for msg, lvl := range map[string]log.Level{"dbg": log.DebugLevel, "inf": log.InfoLevel, "wrn": log.WarnLevel} {
				if want := lvl >= level; strings.Contains(out, msg) != want {
					t.Errorf("%q logged = %v, want %v\n%s", msg, !want, want, out)
				}
			}
		})
	}
}

func TestStartTimer(t *testing.T) {
	var buf bytes.Buffer
	ctx := withLogger(context.Background(), newLogger(&buf, log.DebugLevel))

	stop := startTimer(ctx)
	stop("loaded topicmap 3")

	out := buf.String()
	if !strings.Contains(out, "loaded topicmap 3") || !strings.Contains(out, "took=") {
		t.Errorf("timer output = %q", out)
	}
}

func TestStartTimerQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	ctx := withLogger(context.Background(), newLogger(&buf, log.InfoLevel))

	startTimer(ctx)("rendered svg")
	if buf.Len() != 0 {
		t.Errorf("timer should log at debug only, got %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("bare context should yield log.Default()")
	}

	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}
