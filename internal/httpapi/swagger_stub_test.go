//go:build !swagger

package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSwaggerRouteAbsentWithoutTag(t *testing.T) {
	rr := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without the swagger tag, got %d", rr.Code)
	}
}
