package service

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"dskcredit/internal/config"
)

// fakeBank serves canned bodies per endpoint path. Unknown paths answer 500.
type fakeBank struct {
	mu      sync.Mutex
	bodies  map[string]string
	hits    map[string]int
	queries map[string]url.Values
	posted  []string
	srv     *httptest.Server
}

func newFakeBank(t *testing.T, bodies map[string]string) *fakeBank {
	t.Helper()
	fb := &fakeBank{bodies: bodies, hits: make(map[string]int), queries: make(map[string]url.Values)}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.hits[r.URL.Path]++
		fb.queries[r.URL.Path] = r.URL.Query()
		if r.Method == http.MethodPost {
			b, _ := io.ReadAll(r.Body)
			fb.posted = append(fb.posted, string(b))
		}
		body, ok := fb.bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBank) client() *BankClient {
	return NewBankClient(fb.srv.URL, "cid-42", BankClientOptions{})
}

func (fb *fakeBank) hitCount(path string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.hits[path]
}

func testConfig() *config.Config {
	return &config.Config{
		PluginEnabled:        true,
		GatewayEnabled:       true,
		AdvertisementEnabled: true,
		OpsEmail:             "ops@example.com",
	}
}

func (fb *fakeBank) query(path string) url.Values {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.queries[path]
}
