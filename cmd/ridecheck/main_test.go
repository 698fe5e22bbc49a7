package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestSplitNames(t *testing.T) {
	got := splitNames(" hover, ,hop.yaml,")
	if len(got) != 2 || got[0] != "hover" || got[1] != "hop.yaml" {
		t.Fatalf("splitNames = %q", got)
	}
}

func TestRunReportsEachScene(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"hover"}, options{ticks: 240, maxError: 0.05}, &out); err != nil {
		t.Fatalf("run hover: %v\n%s", err, out.String())
	}
	if err := run(context.Background(), []string{"hop"}, options{ticks: 240}, &out); err != nil {
		t.Fatalf("run hop: %v\n%s", err, out.String())
	}
	for _, want := range []string{"hover (240 ticks)", "hop (240 ticks)", "jumps"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("report missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunErrors(t *testing.T) {
	cases := []struct {
		name   string
		scenes []string
	}{
		{"no scenes", nil},
		{"missing scene", []string{"nope"}},
		{"scene without script", []string{"sandbox"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := run(context.Background(), tc.scenes, options{}, &bytes.Buffer{}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx, []string{"hover"}, options{}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected cancellation error")
	}
}
