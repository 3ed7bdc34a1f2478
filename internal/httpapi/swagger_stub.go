//go:build !swagger

package httpapi

import "github.com/go-chi/chi/v5"

// MountSwagger leaves /swagger/ unrouted. Build with -tags=swagger to serve
// the OpenAPI UI registered by the docs package.
func MountSwagger(chi.Router) {}
