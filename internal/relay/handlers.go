package relay

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/nkoval/newsdeck/internal/debuglog"
)

// handleForward builds the proxy handler for one upstream endpoint.
// The upstream body is copied through untouched, success or not, so
// clients see exactly what the API said, 429s included.
func (s *Server) handleForward(endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		params := r.URL.Query()
		params.Set("apiKey", s.apiKey)

		upstreamURL := s.upstream + "/" + endpoint + "?" + params.Encode()

		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstreamURL, nil)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "building upstream request failed")
			return
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			debuglog.Errorf("relay: upstream %s: %v", endpoint, err)
			writeError(w, http.StatusInternalServerError, "upstream request failed")
			return
		}
		defer resp.Body.Close()

		if ct := resp.Header.Get("Content-Type"); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.WriteHeader(resp.StatusCode)

		if _, err := io.Copy(w, resp.Body); err != nil {
			// Headers are gone; nothing left to do but log.
			debuglog.Warnf("relay: copying %s body: %v", endpoint, err)
		}
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// withCORS allows browser clients on other origins to use the relay;
// that is the second half of its reason to exist.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
