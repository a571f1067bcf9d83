package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

var verbose bool
var baseURL *url.URL

// scenario 封装一次端到端巡检过程中共享的资源。
type scenario struct {
	client *http.Client
	font   string
	axes   map[string]float64
}

func banner(title string) {
	log.Printf("\n=== %s ===", title)
}

func step(format string, args ...interface{}) {
	log.Printf(" • "+format, args...)
}

func main() {
	var (
		base    string
		font    string
		axes    string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://127.0.0.1:8000", "Base URL of the font server")
	flag.StringVar(&font, "font", "Roboto-Flex-Variable.ttf", "Font file name available on the server")
	flag.StringVar(&axes, "axes", `{"wght":700,"wdth":100}`, "Axis values (JSON object) for the instance")
	flag.DurationVar(&timeout, "timeout", 90*time.Second, "HTTP timeout for requests")
	flag.BoolVar(&verbose, "v", true, "Verbose logging")
	flag.Parse()

	var err error
	baseURL, err = url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		log.Fatalf("parse base url: %v", err)
	}
	var axisMap map[string]float64
	if err := json.Unmarshal([]byte(axes), &axisMap); err != nil {
		log.Fatalf("parse -axes: %v", err)
	}

	sc := &scenario{client: &http.Client{Timeout: timeout}, font: font, axes: axisMap}
	sc.run()
}

func (s *scenario) run() {
	must := func(err error, msg string) {
		if err != nil {
			log.Fatalf("%s: %v", msg, err)
		}
	}

	log.Printf("E2E start -> %s", baseURL)

	banner("Health & Static")
	step("Check /health")
	must(expectHealth(s.client), "health")
	step("Check /metrics")
	must(expectStatusOK(s.client, resolve("/metrics")), "metrics")
	step("Render index page")
	must(expectIndex(s.client), "index")
	step("List fonts (expect %s)", s.font)
	must(expectFontListed(s.client, s.font), "fonts")

	banner("Instancing")
	step("POST /generate-font with empty axes")
	must(s.expectFont("/generate-font", map[string]float64{}, "font/ttf", ".ttf", isSFNT), "ttf empty axes")
	step("POST /generate-font with %v", s.axes)
	must(s.expectFont("/generate-font", s.axes, "font/ttf", ".ttf", isSFNT), "ttf axes")
	step("POST /generate-font-woff2 with %v", s.axes)
	must(s.expectFont("/generate-font-woff2", s.axes, "font/woff2", ".woff2", isWOFF2), "woff2 axes")

	banner("Errors")
	step("Missing font name -> 400")
	must(expectError(s.client, "/generate-font", map[string]any{"axes": s.axes}, http.StatusBadRequest), "missing font")
	step("Traversal name is reduced to its basename -> 404")
	must(expectError(s.client, "/generate-font", map[string]any{"font": "../etc/passwd"}, http.StatusNotFound), "traversal")
	step("Unknown font -> 404")
	must(expectError(s.client, "/generate-font-woff2", map[string]any{"font": fmt.Sprintf("missing-%d.ttf", time.Now().UnixNano())}, http.StatusNotFound), "unknown font")

	log.Printf("\nE2E OK — 全链路检查通过 (%s)\n", s.font)
}

func resolve(p string) string {
	u, err := url.Parse(p)
	if err != nil {
		log.Fatalf("bad path %q: %v", p, err)
	}
	return baseURL.ResolveReference(u).String()
}

func expectStatusOK(c *http.Client, u string) error {
	resp, err := c.Get(u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", u, resp.StatusCode)
	}
	return nil
}

func expectHealth(c *http.Client) error {
	resp, err := c.Get(resolve("/health"))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		return fmt.Errorf("unexpected health: %d %v", resp.StatusCode, body)
	}
	return nil
}

// expectIndex 解析入口页 HTML，要求存在 <title>。
func expectIndex(c *http.Client) error {
	resp, err := c.Get(resolve("/"))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("index status %d", resp.StatusCode)
	}
	doc, err := html.Parse(bytes.NewReader(b))
	if err != nil {
		return err
	}
	var title string
	var walker func(*html.Node)
	walker = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "title") && n.FirstChild != nil {
			title = n.FirstChild.Data
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walker(ch)
		}
	}
	walker(doc)
	if title == "" {
		return fmt.Errorf("index page has no title")
	}
	if verbose {
		step("index title: %s", title)
	}
	return nil
}

func expectFontListed(c *http.Client, font string) error {
	resp, err := c.Get(resolve("/fonts"))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	var body struct {
		Fonts []struct {
			Name string `json:"name"`
		} `json:"fonts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}
	for _, f := range body.Fonts {
		if f.Name == font {
			return nil
		}
	}
	return fmt.Errorf("font %s not listed", font)
}

func postJSON(c *http.Client, path string, payload any) (*http.Response, []byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	resp, err := c.Post(resolve(path), "application/json", bytes.NewReader(b))
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp, body, err
}

func (s *scenario) expectFont(path string, axes map[string]float64, mimeType, ext string, magic func([]byte) bool) error {
	start := time.Now()
	resp, body, err := postJSON(s.client, path, map[string]any{"font": s.font, "axes": axes})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if ct := resp.Header.Get("Content-Type"); ct != mimeType {
		return fmt.Errorf("content-type %q, want %q", ct, mimeType)
	}
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err != nil {
		return fmt.Errorf("content-disposition: %w", err)
	}
	if name := params["filename"]; !strings.HasSuffix(name, "-Custom"+ext) {
		return fmt.Errorf("download name %q", name)
	}
	if !magic(body) {
		return fmt.Errorf("response is not a %s font (%d bytes)", ext, len(body))
	}
	if verbose {
		step("%s -> %s, %d bytes in %s", path, params["filename"], len(body), time.Since(start).Round(time.Millisecond))
	}
	return nil
}

func expectError(c *http.Client, path string, payload any, status int) error {
	resp, body, err := postJSON(c, path, payload)
	if err != nil {
		return err
	}
	if resp.StatusCode != status {
		return fmt.Errorf("status %d, want %d: %s", resp.StatusCode, status, body)
	}
	var e map[string]string
	if err := json.Unmarshal(body, &e); err != nil || e["error"] == "" {
		return fmt.Errorf("missing error body: %s", body)
	}
	if verbose {
		step("error: %s", e["error"])
	}
	return nil
}

func isSFNT(b []byte) bool {
	if len(b) < 4 {
		return false
	}
	switch string(b[:4]) {
	case "\x00\x01\x00\x00", "true", "OTTO":
		return true
	}
	return false
}

func isWOFF2(b []byte) bool { return len(b) >= 4 && string(b[:4]) == "wOF2" }
