package httpapi

import "context"

// baseCtx is canceled by the serve command on shutdown so in-flight
// inference calls stop with it.
var baseCtx = context.Background()

// SetBaseContext sets the process-level context joined into every /ai call.
// nil restores context.Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		baseCtx = context.Background()
		return
	}
	baseCtx = ctx
}

// joinContexts returns a child of req that is also canceled when base is
// done. The returned cancel releases the callback registered on base.
func joinContexts(base, req context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(req)
	stop := context.AfterFunc(base, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
