package catalog_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"ProductPanel/internal/catalog"
)

func newCatalogTS(t *testing.T) *httptest.Server {
	t.Helper()

	s := &catalog.Server{Store: catalog.NewStore(), Log: zap.NewNop()}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "catalog",
	})

	return httptest.NewServer(h)
}

func doJSON(t *testing.T, method, url string, body any, want int) []byte {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d body=%s", method, url, resp.StatusCode, want, raw)
	}
	return raw
}

func TestCatalog_CRUD(t *testing.T) {
	ts := newCatalogTS(t)
	defer ts.Close()

	// empty list still carries the envelope
	raw := doJSON(t, http.MethodGet, ts.URL+"/products", nil, 200)
	var listResp struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &listResp); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if listResp.Data == nil || len(listResp.Data) != 0 {
		t.Fatalf("expected empty data array, got %s", raw)
	}

	raw = doJSON(t, http.MethodPost, ts.URL+"/products", map[string]any{
		"product_name": "Keyboard",
		"category":     "Peripherals",
		"price":        49.9,
	}, 201)

	var created map[string]any
	if err := json.Unmarshal(raw, &created); err != nil {
		t.Fatalf("unmarshal created: %v", err)
	}
	id, _ := created["id"].(string)
	if !strings.HasPrefix(id, "p_") {
		t.Fatalf("unexpected id %q", id)
	}
	if _, sent := created["discount"]; sent {
		t.Fatalf("absent discount should be omitted: %s", raw)
	}

	raw = doJSON(t, http.MethodGet, ts.URL+"/products", nil, 200)
	if err := json.Unmarshal(raw, &listResp); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(listResp.Data) != 1 || listResp.Data[0]["id"] != id {
		t.Fatalf("list after create wrong: %s", raw)
	}

	raw = doJSON(t, http.MethodPut, ts.URL+"/products/"+id, map[string]any{
		"product_name": "Mechanical Keyboard",
		"category":     "Peripherals",
		"price":        129.9,
		"discount":     15,
	}, 200)

	var updateResp struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &updateResp); err != nil {
		t.Fatalf("unmarshal update: %v", err)
	}
	if updateResp.Data["product_name"] != "Mechanical Keyboard" {
		t.Fatalf("update response wrong: %s", raw)
	}
	if updateResp.Data["discount"] != float64(15) {
		t.Fatalf("discount not kept: %s", raw)
	}

	doJSON(t, http.MethodDelete, ts.URL+"/products/"+id, nil, 204)

	raw = doJSON(t, http.MethodGet, ts.URL+"/products", nil, 200)
	if err := json.Unmarshal(raw, &listResp); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(listResp.Data) != 0 {
		t.Fatalf("list after delete should be empty: %s", raw)
	}
}

func TestCatalog_ListKeepsInsertionOrder(t *testing.T) {
	ts := newCatalogTS(t)
	defer ts.Close()

	names := []string{"Keyboard", "Mouse", "Monitor"}
	for _, n := range names {
		doJSON(t, http.MethodPost, ts.URL+"/products", map[string]any{
			"product_name": n,
			"category":     "Peripherals",
			"price":        10,
		}, 201)
	}

	raw := doJSON(t, http.MethodGet, ts.URL+"/products", nil, 200)
	var listResp struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &listResp); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(listResp.Data) != len(names) {
		t.Fatalf("len=%d want %d", len(listResp.Data), len(names))
	}
	for i, n := range names {
		if listResp.Data[i]["product_name"] != n {
			t.Fatalf("position %d: got %v want %s", i, listResp.Data[i]["product_name"], n)
		}
	}
}

func TestCatalog_Validation(t *testing.T) {
	ts := newCatalogTS(t)
	defer ts.Close()

	doJSON(t, http.MethodPost, ts.URL+"/products", map[string]any{
		"category": "Peripherals",
		"price":    10,
	}, 400)

	doJSON(t, http.MethodPost, ts.URL+"/products", map[string]any{
		"product_name": "Keyboard",
		"price":        10,
	}, 400)

	doJSON(t, http.MethodPost, ts.URL+"/products", map[string]any{
		"product_name": "Keyboard",
		"category":     "Peripherals",
	}, 400)

	// unknown fields are rejected
	doJSON(t, http.MethodPost, ts.URL+"/products", map[string]any{
		"product_name": "Keyboard",
		"category":     "Peripherals",
		"price":        10,
		"stock":        3,
	}, 400)

	// negative prices are accepted as sent
	doJSON(t, http.MethodPost, ts.URL+"/products", map[string]any{
		"product_name": "Refund",
		"category":     "Misc",
		"price":        -5,
	}, 201)
}

func TestCatalog_NotFound(t *testing.T) {
	ts := newCatalogTS(t)
	defer ts.Close()

	doJSON(t, http.MethodPut, ts.URL+"/products/p_missing", map[string]any{
		"product_name": "Ghost",
		"category":     "Misc",
		"price":        1,
	}, 404)

	doJSON(t, http.MethodDelete, ts.URL+"/products/p_missing", nil, 404)
}

func TestCatalog_Readyz(t *testing.T) {
	ts := newCatalogTS(t)
	defer ts.Close()

	doJSON(t, http.MethodGet, ts.URL+"/readyz", nil, 200)
	doJSON(t, http.MethodGet, ts.URL+"/healthz", nil, 200)
}
