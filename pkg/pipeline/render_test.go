package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	errs "github.com/matzehuels/steamvent/pkg/errors"
)

func TestRender(t *testing.T) {
	n := exampleNetwork(t)
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), n, Options{Budget: 30, TopK: 1})
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(n, res, RenderOptions{Formats: []string{FormatDOT, FormatJSON}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	dot := string(artifacts[FormatDOT])
	if !strings.HasPrefix(dot, "graph G {") {
		t.Errorf("dot artifact = %.40q", dot)
	}
	// The best plan opens DD first; the walk AA -> DD is highlighted.
	if !strings.Contains(dot, `"AA" -- "DD" [`) {
		t.Errorf("route tunnel AA -- DD not highlighted:\n%s", dot)
	}

	var decoded struct {
		Pressure int `json:"pressure"`
		Plans    []struct {
			Pressure int `json:"pressure"`
		} `json:"plans"`
	}
	if err := json.Unmarshal(artifacts[FormatJSON], &decoded); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if decoded.Pressure != 1651 || len(decoded.Plans) != 1 {
		t.Errorf("json artifact = %+v", decoded)
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	n := exampleNetwork(t)
	_, err := Render(n, &Result{Origin: "AA"}, RenderOptions{Formats: []string{"pdf"}})
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("Render(pdf) error = %v, want %s", err, errs.ErrCodeInvalidFormat)
	}
}
