package telegram

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

type scriptedTripper struct {
	errs   []error
	calls  int
	bodies []string
}

func (s *scriptedTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	s.calls++
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		s.bodies = append(s.bodies, string(b))
	}
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("{}"))}, nil
}

func TestRetryTransportRetriesDialFailures(t *testing.T) {
	dial := &net.OpError{Op: "dial", Err: errors.New("refused")}
	base := &scriptedTripper{errs: []error{dial, dial}}
	rt := &retryTransport{base: base, maxRetries: 3}

	req, _ := http.NewRequest(http.MethodPost, "https://api.telegram.org/botX/sendMessage", strings.NewReader("text=hi"))
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	_ = resp.Body.Close()
	if base.calls != 3 {
		t.Fatalf("calls = %d, want 3", base.calls)
	}
	for i, b := range base.bodies {
		if b != "text=hi" {
			t.Fatalf("attempt %d body = %q", i+1, b)
		}
	}
}

func TestRetryTransportStopsOnPermanentError(t *testing.T) {
	base := &scriptedTripper{errs: []error{errors.New("malformed response")}}
	rt := &retryTransport{base: base, maxRetries: 3}
	req, _ := http.NewRequest(http.MethodGet, "https://api.telegram.org/botX/getMe", nil)
	if _, err := rt.RoundTrip(req); err == nil {
		t.Fatal("expected error")
	}
	if base.calls != 1 {
		t.Fatalf("calls = %d, want 1", base.calls)
	}
}

func TestBuildHTTPClientTimeout(t *testing.T) {
	if c := BuildHTTPClient(10 * time.Second); c.Timeout != 30*time.Second {
		t.Fatalf("timeout = %s", c.Timeout)
	}
	if c := BuildHTTPClient(60 * time.Second); c.Timeout != 70*time.Second {
		t.Fatalf("timeout = %s, want poll timeout plus margin", c.Timeout)
	}
}

func TestBuildPoller(t *testing.T) {
	lp, ok := BuildPoller(PollerOptions{}).(*tele.LongPoller)
	if !ok || lp.Timeout != 10*time.Second {
		t.Fatalf("default poller = %#v", lp)
	}
	wh, ok := BuildPoller(PollerOptions{
		RunMode: "WEBHOOK",
		Webhook: WebhookOptions{Listen: "0.0.0.0", Port: 8443, URL: "https://shop.example/hook"},
	}).(*tele.Webhook)
	if !ok {
		t.Fatal("expected webhook poller")
	}
	if wh.Listen != "0.0.0.0:8443" || wh.Endpoint.PublicURL != "https://shop.example/hook" {
		t.Fatalf("webhook = %+v", wh)
	}
}
