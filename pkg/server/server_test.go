package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/gfabridge/pkg/errors"
)

const sample = "H\tVN:Z:1.0\n" +
	"S\tA\tACGT\n" +
	"S\tB\tGG\n" +
	"L\tA\t+\tB\t-\t2M\n" +
	"P\tP1\tA+,B-\t2M\n"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(Options{}))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func upload(t *testing.T, ts *httptest.Server) DocumentInfo {
	t.Helper()
	resp, body := do(t, http.MethodPost, ts.URL+"/documents", sample)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /documents = %d: %s", resp.StatusCode, body)
	}
	var info DocumentInfo
	if err := json.Unmarshal(body, &info); err != nil {
		t.Fatal(err)
	}
	return info
}

func TestCreateAndInfo(t *testing.T) {
	ts := newTestServer(t)
	info := upload(t, ts)

	if info.Handle == 0 {
		t.Error("handle 0 issued")
	}
	if info.Segments != 2 || info.Links != 1 || info.Paths != 1 {
		t.Errorf("counts = %+v, want 2/1/1", info)
	}

	resp, body := do(t, http.MethodGet, ts.URL+"/documents/"+itoa(info.Handle), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET info = %d: %s", resp.StatusCode, body)
	}
	var got DocumentInfo
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got != info {
		t.Errorf("info = %+v, want %+v", got, info)
	}
}

func TestRecord(t *testing.T) {
	ts := newTestServer(t)
	h := itoa(upload(t, ts).Handle)

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/segment/1", http.StatusOK, `{"Segment":{"name":"B","sequence":"GG"}}`},
		{"/links/0", http.StatusOK, `"overlap":"2M"`},
		{"/P/0", http.StatusOK, `"segment_names":[["A",true],["B",false]]`},
		{"/segment/2", http.StatusNotFound, `"code":"OUT_OF_RANGE"`},
		{"/segment/-1", http.StatusNotFound, `"status":1`},
		{"/widget/0", http.StatusBadRequest, `"code":"INVALID_KIND"`},
		{"/segment/x", http.StatusBadRequest, `"code":"INVALID_INPUT"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := do(t, http.MethodGet, ts.URL+"/documents/"+h+tt.path, "")
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
			if !strings.Contains(string(body), tt.want) {
				t.Errorf("body = %s, want substring %s", body, tt.want)
			}
		})
	}
}

func TestViews(t *testing.T) {
	ts := newTestServer(t)
	info := upload(t, ts)
	h := itoa(info.Handle)

	_, body := do(t, http.MethodGet, ts.URL+"/documents/"+h+"/segments", "")
	var coll CollectionInfo
	if err := json.Unmarshal(body, &coll); err != nil {
		t.Fatal(err)
	}
	if coll.Len != 2 || coll.Stride == 0 || coll.Epoch != info.Epoch {
		t.Errorf("collection = %+v", coll)
	}
	if strings.Contains(string(body), `"base"`) {
		t.Errorf("collection exposes an address: %s", body)
	}

	_, body = do(t, http.MethodGet, ts.URL+"/documents/"+h+"/segment/0/sequence", "")
	var str StringInfo
	if err := json.Unmarshal(body, &str); err != nil {
		t.Fatal(err)
	}
	if str.Value != "ACGT" || str.Len != 4 {
		t.Errorf("string view = %+v", str)
	}
	if strings.Contains(string(body), `"ptr"`) {
		t.Errorf("string view exposes an address: %s", body)
	}

	resp, body := do(t, http.MethodGet, ts.URL+"/documents/"+h+"/link/0/2", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"value":"2M"`) {
		t.Errorf("numeric field id: %d %s", resp.StatusCode, body)
	}

	for _, field := range []string{"colour", "-1", "7", "4294967296"} {
		resp, body = do(t, http.MethodGet, ts.URL+"/documents/"+h+"/segment/0/"+field, "")
		if resp.StatusCode != http.StatusBadRequest || !strings.Contains(string(body), "INVALID_FIELD") {
			t.Errorf("field %s: %d %s", field, resp.StatusCode, body)
		}
	}
}

func TestExportAndFree(t *testing.T) {
	ts := newTestServer(t)
	h := itoa(upload(t, ts).Handle)

	resp, body := do(t, http.MethodGet, ts.URL+"/documents/"+h+"/export", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export = %d", resp.StatusCode)
	}
	for _, key := range []string{`"segments"`, `"links"`, `"paths"`} {
		if !strings.Contains(string(body), key) {
			t.Errorf("export missing %s: %s", key, body)
		}
	}

	if resp, _ := do(t, http.MethodDelete, ts.URL+"/documents/"+h, ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE = %d, want 204", resp.StatusCode)
	}
	resp, body = do(t, http.MethodGet, ts.URL+"/documents/"+h, "")
	if resp.StatusCode != http.StatusNotFound || !strings.Contains(string(body), "UNKNOWN_HANDLE") {
		t.Errorf("after free: %d %s", resp.StatusCode, body)
	}
	if resp, _ := do(t, http.MethodDelete, ts.URL+"/documents/"+h, ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("double free = %d, want 404", resp.StatusCode)
	}
}

func TestRenderDOT(t *testing.T) {
	ts := newTestServer(t)
	h := itoa(upload(t, ts).Handle)

	resp, body := do(t, http.MethodGet, ts.URL+"/documents/"+h+"/render?format=dot&paths=true", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("render = %d: %s", resp.StatusCode, body)
	}
	if !strings.HasPrefix(string(body), "digraph G {") || !strings.Contains(string(body), `"A" -> "B"`) {
		t.Errorf("dot = %s", body)
	}

	resp, _ = do(t, http.MethodGet, ts.URL+"/documents/"+h+"/render?format=gif", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unsupported format = %d, want 400", resp.StatusCode)
	}
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t)
	resp, body := do(t, http.MethodGet, ts.URL+"/layout/link", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("layout = %d", resp.StatusCode)
	}
	for _, field := range []string{"from_segment", "from_orient", "to_segment", "to_orient", "overlap"} {
		if !strings.Contains(string(body), field) {
			t.Errorf("layout missing %s", field)
		}
	}
}

func TestParseLine(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		line string
		want string
	}{
		{"S\tA\tACGT", `{"Segment":{"name":"A","sequence":"ACGT"}}`},
		{"H\tVN:Z:1.0", "null"},
		{"garbage", "null"},
	}
	for _, tt := range tests {
		_, body := do(t, http.MethodPost, ts.URL+"/parse-line", tt.line)
		if string(body) != tt.want {
			t.Errorf("parse-line(%q) = %s, want %s", tt.line, body, tt.want)
		}
	}
}

func TestUnknownHandle(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/documents/99", "/documents/abc/segments"} {
		resp, body := do(t, http.MethodGet, ts.URL+path, "")
		if resp.StatusCode != http.StatusNotFound || !strings.Contains(string(body), `"status":4`) {
			t.Errorf("GET %s = %d %s", path, resp.StatusCode, body)
		}
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeOutOfRange, http.StatusNotFound},
		{errors.ErrCodeInvalidKind, http.StatusBadRequest},
		{errors.ErrCodeCrossOrigin, http.StatusForbidden},
		{errors.ErrCodeTransport, http.StatusBadGateway},
		{errors.ErrCodeStaleView, http.StatusConflict},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(errors.New(tt.code, "x")); got != tt.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func itoa[T ~int64](v T) string { return strconv.FormatInt(int64(v), 10) }
