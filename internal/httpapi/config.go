package httpapi

import (
	"net/http"
	"time"
)

const defaultMaxBodyBytes = 1 << 20

// Options tunes the HTTP layer. Zero values select defaults.
type Options struct {
	// MaxBodyBytes caps JSON request bodies.
	MaxBodyBytes int64
	// AITimeout bounds one POST /ai call on top of the Hub client's own timeout.
	AITimeout time.Duration
	// CORSOrigins enables CORS when non-empty.
	CORSOrigins []string
	CORSMethods []string
	CORSHeaders []string
}

var settings = Options{MaxBodyBytes: defaultMaxBodyBytes}

// Configure replaces the HTTP options. Call it before NewMux.
func Configure(o Options) {
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = defaultMaxBodyBytes
	}
	if o.AITimeout < 0 {
		o.AITimeout = 0
	}
	o.CORSOrigins = append([]string(nil), o.CORSOrigins...)
	o.CORSMethods = append([]string(nil), o.CORSMethods...)
	o.CORSHeaders = append([]string(nil), o.CORSHeaders...)
	if len(o.CORSMethods) == 0 {
		o.CORSMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	if len(o.CORSHeaders) == 0 {
		o.CORSHeaders = []string{"Content-Type", "X-Log-Level", "X-Request-Id"}
	}
	settings = o
}

// ResetOptions restores the defaults.
func ResetOptions() { Configure(Options{}) }
