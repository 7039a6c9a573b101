package repomanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sanctionlog/internal/logging"
	"github.com/pressly/goose/v3"
)

func init() {
	goose.SetLogger(goose.NopLogger())
}

// migrationLogger forwards goose progress lines to a logging.Logger.
type migrationLogger struct {
	logger logging.Logger
}

func (m migrationLogger) Printf(format string, v ...any) {
	m.logger.Info(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs at error level and returns; goose reports migration failures
// through returned errors as well.
func (m migrationLogger) Fatalf(format string, v ...any) {
	m.logger.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// SetLogger sends migration progress to l. Without it goose output is
// discarded.
func SetLogger(l logging.Logger) {
	if l == nil {
		goose.SetLogger(goose.NopLogger())
		return
	}
	goose.SetLogger(migrationLogger{logger: l.With("module", "migrations")})
}
