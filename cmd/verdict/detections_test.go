package main

import (
	"bytes"
	"strings"
	"testing"

	verdict "github.com/verdictai/verdict-go"
)

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q, want %q", got, "short")
	}
	if got := truncate("exactly10!", 10); got != "exactly10!" {
		t.Errorf("truncate exact = %q, want %q", got, "exactly10!")
	}
	if got := truncate("this is longer than ten", 10); got != "this is lo..." {
		t.Errorf("truncate long = %q, want %q", got, "this is lo...")
	}
}

func TestCompactResults(t *testing.T) {
	a := &verdict.DetectionResult{}
	b := &verdict.DetectionResult{}
	got := compactResults([]*verdict.DetectionResult{a, nil, b, nil})
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("compactResults = %v, want nils dropped in order", got)
	}
}

func TestPrintResultBadges(t *testing.T) {
	clean := &verdict.DetectionResult{
		Log: verdict.LogEntry{
			LogRecord: verdict.LogRecord{ID: "log-1"},
			Status:    verdict.StatusDetectionCompleted,
		},
	}
	var buf bytes.Buffer
	printResult(&buf, clean)
	if !strings.Contains(buf.String(), "[ok]") || !strings.Contains(buf.String(), "log-1") {
		t.Errorf("clean output = %q", buf.String())
	}

	flagged := &verdict.DetectionResult{
		Log: verdict.LogEntry{
			LogRecord: verdict.LogRecord{ID: "log-2"},
			Status:    verdict.StatusDetectionCompleted,
		},
		IsHallucinated: true,
		DocEvaluations: []verdict.Evaluation{
			{Index: 0, Score: verdict.ScoreFail, Reasoning: "claim not in document"},
		},
	}
	buf.Reset()
	printResult(&buf, flagged)
	out := buf.String()
	if !strings.Contains(out, "[hallucinated]") {
		t.Errorf("flagged output missing badge: %q", out)
	}
	if !strings.Contains(out, "FAIL") || !strings.Contains(out, "claim not in document") {
		t.Errorf("flagged output missing evaluation: %q", out)
	}
	if !strings.Contains(out, colorBoldRed) {
		t.Errorf("FAIL scores should be red: %q", out)
	}
}
