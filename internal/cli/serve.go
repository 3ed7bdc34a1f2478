package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"autodevstack/internal/httpapi"
	"autodevstack/internal/ports"
)

type serveOptions struct {
	Host        string
	PortStart   int
	PortEnd     int
	CORSOrigins []string
	AITimeoutS  int
}

// shutdownTimeout bounds graceful shutdown after the context is canceled.
var shutdownTimeout = 5 * time.Second

func serve(ctx context.Context, g *Globals, opts serveOptions) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}
	host := firstNonEmpty(opts.Host, a.cfg.APIHost)
	start, end := opts.PortStart, opts.PortEnd
	if start == 0 {
		start = a.cfg.APIPortStart
	}
	if end == 0 {
		end = a.cfg.APIPortEnd
	}
	port, err := ports.FindFreePortOn(host, start, end)
	if ports.IsNoFreePort(err) {
		return a.fail(fmt.Errorf("api port: nothing free in [%d, %d] on %q", start, end, host))
	}
	if err != nil {
		return a.fail(fmt.Errorf("api port: %w", err))
	}
	if !a.hub.HasToken() {
		a.con.Warnf("HF_TOKEN not set; /ai will answer with degraded results")
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = a.cfg.CORSOrigins
	}
	httpapi.SetLogger(a.log.With().Str("component", "http").Logger())
	httpapi.Configure(httpapi.Options{
		MaxBodyBytes: a.cfg.MaxBodyBytes,
		AITimeout:    time.Duration(opts.AITimeoutS) * time.Second,
		CORSOrigins:  origins,
	})
	defer httpapi.ResetOptions()
	httpapi.SetBaseContext(ctx)
	defer httpapi.SetBaseContext(nil)

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewMux(a.ai),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	a.log.Info().Str("addr", addr).Msg("listening")
	a.con.Infof("Listening on http://%s", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return a.fail(err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Warn().Err(err).Msg("graceful shutdown")
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
