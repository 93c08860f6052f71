package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/awmpietro/golang-vcd-transaction-case/internal/transport/httptransport"
)

func newExtractServer(maxBytes int64) *httptest.Server {
	h := httptransport.NewHandler(newService(), maxBytes)

	mux := http.NewServeMux()
	mux.HandleFunc("/extract", h.Extract)
	return httptest.NewServer(mux)
}

func postExtract(t *testing.T, srv *httptest.Server, rawBody string) (int, map[string]any, string) {
	t.Helper()

	resp, err := http.Post(srv.URL+"/extract", "application/json", bytes.NewBufferString(rawBody))
	if err != nil {
		t.Fatalf("post /extract failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response failed: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return resp.StatusCode, nil, string(body)
	}
	return resp.StatusCode, out, string(body)
}

func postExtractJSON(t *testing.T, srv *httptest.Server, payload map[string]any) (int, map[string]any, string) {
	t.Helper()
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return postExtract(t, srv, string(b))
}

func handshakePayload(t *testing.T) map[string]any {
	return map[string]any{
		"config_yaml": string(readTestdata(t, "interfaces.yaml")),
		"trace":       string(readTestdata(t, "handshake.vcd")),
	}
}

func TestHTTPExtract_EndToEndSuccess(t *testing.T) {
	srv := newExtractServer(1 << 20)
	defer srv.Close()

	status, out, body := postExtractJSON(t, srv, handshakePayload(t))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	records, ok := out["records"].([]any)
	if !ok || len(records) != 5 {
		t.Fatalf("unexpected records: %#v", out["records"])
	}
	if records[1] != "@25 arb: id=0x3 " {
		t.Fatalf("unexpected second record: %#v", records[1])
	}

	ifaces, ok := out["interfaces"].([]any)
	if !ok || len(ifaces) != 3 {
		t.Fatalf("unexpected interfaces: %#v", out["interfaces"])
	}
	summary := out["summary"].(map[string]any)
	if summary["last_time"] != float64(60) {
		t.Fatalf("unexpected summary: %#v", summary)
	}
}

func TestHTTPExtract_UntilAndDebug(t *testing.T) {
	srv := newExtractServer(1 << 20)
	defer srv.Close()

	payload := handshakePayload(t)
	payload["until"] = 25
	payload["debug"] = true

	status, out, body := postExtractJSON(t, srv, payload)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if records := out["records"].([]any); len(records) != 2 {
		t.Fatalf("expected 2 records up to t=25, got %#v", records)
	}
	diags, _ := out["diagnostics"].([]any)
	if len(diags) == 0 || !strings.Contains(body, "@3 tb.a out of RESET") {
		t.Fatalf("expected gate diagnostics, got %#v", diags)
	}
}

func TestHTTPExtract_InputErrors(t *testing.T) {
	srv := newExtractServer(1 << 20)
	defer srv.Close()

	t.Run("invalid_json", func(t *testing.T) {
		status, _, _ := postExtract(t, srv, `{`)
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", status)
		}
	})

	t.Run("invalid_config", func(t *testing.T) {
		payload := handshakePayload(t)
		payload["config_yaml"] = "- name: x\n  hier: tb.a\n  payload: []\n"
		status, out, _ := postExtractJSON(t, srv, payload)
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", status)
		}
		details, _ := out["details"].(string)
		if !strings.Contains(details, `field "protocol"`) {
			t.Fatalf("expected protocol detail, got %q", details)
		}
	})

	t.Run("unresolved_signal", func(t *testing.T) {
		payload := handshakePayload(t)
		payload["config_yaml"] = "- name: x\n  hier: tb.a\n  protocol: [nope]\n  payload: []\n"
		status, out, _ := postExtractJSON(t, srv, payload)
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", status)
		}
		details, _ := out["details"].(string)
		if !strings.Contains(details, "tb.a.nope") {
			t.Fatalf("expected unresolved signal detail, got %q", details)
		}
	})

	t.Run("malformed_trace", func(t *testing.T) {
		payload := handshakePayload(t)
		payload["trace"] = "$scope module tb $end\n"
		status, out, _ := postExtractJSON(t, srv, payload)
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", status)
		}
		if out["details"] == nil {
			t.Fatalf("expected error details")
		}
	})
}

func TestHTTPExtract_RejectsOversizedBody(t *testing.T) {
	srv := newExtractServer(512)
	defer srv.Close()

	status, _, _ := postExtractJSON(t, srv, handshakePayload(t))
	if status != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", status)
	}
}

func TestHTTPExtract_ConcurrentRequests(t *testing.T) {
	srv := newExtractServer(1 << 20)
	defer srv.Close()

	b, err := json.Marshal(handshakePayload(t))
	if err != nil {
		t.Fatal(err)
	}

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, out, body := postNoFatal(srv, b)
			if status != http.StatusOK {
				errs <- &integrationErr{msg: "status not ok", body: body}
				return
			}
			if records, _ := out["records"].([]any); len(records) != 5 {
				errs <- &integrationErr{msg: "unexpected records", body: body}
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}
}

type integrationErr struct {
	msg  string
	body string
}

func (e *integrationErr) Error() string {
	return e.msg + ": " + e.body
}

func postNoFatal(srv *httptest.Server, b []byte) (int, map[string]any, string) {
	resp, err := http.Post(srv.URL+"/extract", "application/json", bytes.NewReader(b))
	if err != nil {
		return 0, nil, err.Error()
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var out map[string]any
	_ = json.Unmarshal(body, &out)
	return resp.StatusCode, out, string(body)
}
