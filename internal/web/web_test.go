package web

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"missviz/internal/config"
)

func newTestServer(t *testing.T, csv string) *httptest.Server {
	t.Helper()
	return newTestServerWith(t, csv, func(*config.Config) {})
}

func newTestServerWith(t *testing.T, csv string, adjust func(*config.Config)) *httptest.Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.PlotFolder = t.TempDir()
	cfg.PlotWidth = 600
	cfg.PlotHeight = 300
	adjust(&cfg)
	if err := os.WriteFile(cfg.FlagsPath(), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(NewServer(cfg, zaptest.NewLogger(t)).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, body
}

const validCSV = "Link,Title_dataset1.csv,Title_fusioned,Website_active\n" +
	"a.com,True,False,yes\n" +
	"b.com,False,1,no\n"

func TestFigure(t *testing.T) {
	ts := newTestServer(t, validCSV)

	resp, body := get(t, ts.URL+"/figure")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	img, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 600 || b.Dy() != 300 {
		t.Errorf("size = %v", b)
	}
}

func TestFigureFollowsPlotFormat(t *testing.T) {
	ts := newTestServerWith(t, validCSV, func(cfg *config.Config) {
		cfg.PlotFilename = "matrix.SVG"
	})

	resp, body := get(t, ts.URL+"/figure")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q, want image/svg+xml", ct)
	}
	if !bytes.Contains(body, []byte("<svg")) {
		t.Error("body is not an SVG document")
	}
}

func TestStaticRoot(t *testing.T) {
	if _, err := fs.Stat(staticRoot(), "index.html"); err != nil {
		t.Fatalf("index.html not embedded: %v", err)
	}
}

func TestSummary(t *testing.T) {
	ts := newTestServer(t, validCSV)

	resp, body := get(t, ts.URL+"/api/summary")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var got struct {
		Summary struct {
			Records int `json:"records"`
			Active  int `json:"active"`
			Columns []struct {
				Name    string `json:"name"`
				Missing int    `json:"missing"`
			} `json:"columns"`
		} `json:"summary"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if got.Summary.Records != 2 || got.Summary.Active != 1 {
		t.Errorf("records/active = %d/%d", got.Summary.Records, got.Summary.Active)
	}
	if len(got.Summary.Columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(got.Summary.Columns))
	}
	for _, c := range got.Summary.Columns {
		if c.Missing != 1 {
			t.Errorf("%s missing = %d, want 1", c.Name, c.Missing)
		}
	}
	if got.Version == "" {
		t.Error("version missing")
	}
}

func TestDataContractIs422(t *testing.T) {
	ts := newTestServer(t, "Link,Title_dataset1.csv,Website_active\na.com,maybe,yes\n")

	resp, body := get(t, ts.URL+"/figure")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if !strings.Contains(string(body), "maybe") {
		t.Errorf("body does not name the value: %s", body)
	}

	_, metrics := get(t, ts.URL+"/metrics")
	if !strings.Contains(string(metrics), `missviz_render_failures_total{kind="data_contract"} 1`) {
		t.Errorf("failure not counted:\n%s", metrics)
	}
}

func TestMetricsCountRenders(t *testing.T) {
	ts := newTestServer(t, validCSV)

	get(t, ts.URL+"/figure")
	get(t, ts.URL+"/figure")

	resp, body := get(t, ts.URL+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	text := string(body)
	if !strings.Contains(text, "missviz_renders_total 2") {
		t.Errorf("renders not counted:\n%s", text)
	}
	if !strings.Contains(text, "missviz_render_duration_seconds_count 2") {
		t.Errorf("duration not observed:\n%s", text)
	}
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t, validCSV)

	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "/figure") {
		t.Error("index does not reference the figure")
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(io.EOF); got != http.StatusInternalServerError {
		t.Errorf("plain error status = %d", got)
	}
}
