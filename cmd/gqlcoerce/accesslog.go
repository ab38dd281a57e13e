package main

import (
	"context"
	"log"
	"sync"

	"github.com/hanpama/gqlcoerce/internal/eventbus"
	"github.com/hanpama/gqlcoerce/internal/events"
	"github.com/hanpama/gqlcoerce/internal/reqid"
)

// attachAccessLog prints one line per finished operation, including how
// many variables were rejected as fatal.
func attachAccessLog(bus *eventbus.Bus, logger *log.Logger) (detach func()) {
	var fatal sync.Map // rid -> int
	offCoerced := eventbus.On(bus, func(ctx context.Context, e events.VariablesCoerced) {
		rid, _ := reqid.FromContext(ctx)
		fatal.Store(rid, e.Fatal)
	})
	offFinish := eventbus.On(bus, func(ctx context.Context, e events.GraphQLFinish) {
		rid, _ := reqid.FromContext(ctx)
		n := 0
		if v, ok := fatal.LoadAndDelete(rid); ok {
			n = v.(int)
		}
		name := e.OperationName
		if name == "" {
			name = "-"
		}
		logger.Printf("rid=%s op=%s type=%s errors=%d fatal_variables=%d rejected=%t duration=%s",
			rid, name, e.OperationType, len(e.Errors), n, e.Rejected, e.Duration)
	})
	return func() {
		offCoerced()
		offFinish()
	}
}
