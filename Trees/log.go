package Trees

import (
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

var logok = int64(0)

// LogComponents enable logging. By default logging is disabled,
// call this function with "trees" or "all" to get diagnostics
// from tree construction, bulk loading and clearing.
func LogComponents(components ...string) {
	for _, comp := range components {
		switch comp {
		case "trees", "self", "all":
			atomic.StoreInt64(&logok, 1)
		}
	}
}

func debugf(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Debugf(format, v...)
	}
}

func infof(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Infof(format, v...)
	}
}

func errorf(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Errorf(format, v...)
	}
}
