package audit

import (
	"fmt"

	"github.com/magicbadger/dabmux/internal/obslog"
)

// gormLogAdapter adapts obslog.Logger to GORM's io.Writer-style logger
// interface, mirroring the teacher's database-package adapter.
type gormLogAdapter struct {
	log *obslog.Logger
}

func (l *gormLogAdapter) Printf(format string, args ...interface{}) {
	l.log.Info(fmt.Sprintf(format, args...))
}
