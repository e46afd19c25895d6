package health

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProbeAnswersOnAnyPath(t *testing.T) {
	for _, path := range []string{"/", "/healthz", "/some/deep/path"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		handleProbe(rec, req)

		resp := rec.Result()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		if string(body) != probeBody {
			t.Fatalf("GET %s body = %q, want %q", path, body, probeBody)
		}
	}
}
