package modelscan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// confirmationServer fails the first failures requests, then answers
// 200 for good.
func confirmationServer(t *testing.T, failures int) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != generateEndpoint {
			http.NotFound(w, r)
			return
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Model == "" {
			t.Errorf("malformed confirmation request: %v", err)
		}

		if calls.Add(1) <= int64(failures) {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	return srv, &calls
}

type validateTester struct {
	failures  int
	validated bool
	calls     int64
}

func (tt *validateTester) runTest(test *testing.T, name string) {
	srv, calls := confirmationServer(test, tt.failures)
	defer srv.Close()

	v := newHTTPValidator(srv.Client(), testProberConfig())
	ok := v.Validate(context.Background(), serverKey(test, srv), "llama3")

	if ok != tt.validated {
		test.Errorf("[%s] expected validated=%v, got %v", name, tt.validated, ok)
	}
	if got := calls.Load(); got != tt.calls {
		test.Errorf("[%s] expected %d confirmation calls, got %d", name, tt.calls, got)
	}
}

// First success wins: which round succeeds only changes how many calls
// were made, never whether the capability is recorded.
var validateTests = map[string]*validateTester{
	"first-round":  {failures: 0, validated: true, calls: 1},
	"second-round": {failures: 1, validated: true, calls: 2},
	"third-round":  {failures: 2, validated: true, calls: 3},
	"all-fail":     {failures: 3, validated: false, calls: 3},
}

func TestValidateRounds(t *testing.T) {
	for tname, cfg := range validateTests {
		cfg.runTest(t, tname)
	}
}

func TestValidateUnreachableHost(t *testing.T) {
	srv, _ := confirmationServer(t, 0)
	key := serverKey(t, srv)
	srv.Close()

	v := newHTTPValidator(http.DefaultClient, testProberConfig())
	if v.Validate(context.Background(), key, "llama3") {
		t.Fatal("expected validation against a closed server to fail")
	}
}
