package output

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type sample struct {
	Name  string `yaml:"name" json:"name"`
	Count int    `yaml:"count" json:"count"`
}

// capture redirects stdout around fn and returns what was written.
func capture(t *testing.T, fn func() error) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	runErr := fn()
	w.Close()
	os.Stdout = old
	if runErr != nil {
		t.Fatalf("print failed: %v", runErr)
	}
	var b strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		b.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return b.String()
}

func TestPrintYAML(t *testing.T) {
	defer func() { OutputFormat = FormatYAML }()
	OutputFormat = FormatYAML

	out := capture(t, func() error { return Print(sample{Name: "ok", Count: 2}) })
	var got sample
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if got.Name != "ok" || got.Count != 2 {
		t.Fatalf("round trip: %+v", got)
	}
}

func TestPrintJSON(t *testing.T) {
	defer func() { OutputFormat = FormatYAML }()
	OutputFormat = FormatJSON

	out := capture(t, func() error { return Print(sample{Name: "ok", Count: 2}) })
	if strings.Count(strings.TrimSpace(out), "\n") != 0 {
		t.Fatalf("compact JSON should be one line:\n%s", out)
	}
	var got sample
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Name != "ok" {
		t.Fatalf("round trip: %+v", got)
	}
}

func TestPrintPrettyJSON(t *testing.T) {
	defer func() { OutputFormat = FormatYAML; PrettyOutput = false }()
	OutputFormat = FormatJSON
	PrettyOutput = true

	out := capture(t, func() error { return Print(sample{Name: "ok", Count: 2}) })
	if !strings.Contains(out, "\n  ") {
		t.Fatalf("pretty JSON should be indented:\n%s", out)
	}
}

func TestPrintUnsupportedFormat(t *testing.T) {
	defer func() { OutputFormat = FormatYAML }()
	OutputFormat = Format("xml")

	if err := Print(sample{}); err == nil {
		t.Fatalf("unsupported format should fail")
	}
}

func TestPrintJSONKeepsHTML(t *testing.T) {
	out := capture(t, func() error { return PrintJSON(sample{Name: "<OK>"}) })
	if !strings.Contains(out, "<OK>") {
		t.Fatalf("HTML escaping should be disabled:\n%s", out)
	}
}
