package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelRouter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(newLevelRouter(&stdout, &stderr, slog.LevelInfo)).With("component", "test")

	logger.Debug("hidden")
	logger.Info("item added")
	logger.Warn("login failed")
	logger.Error("storage failure")

	out, errOut := stdout.String(), stderr.String()
	if strings.Contains(out+errOut, "hidden") {
		t.Error("debug record should be filtered")
	}
	if !strings.Contains(out, "item added") || !strings.Contains(out, "login failed") {
		t.Errorf("expected info and warn on stdout, got %q", out)
	}
	if strings.Contains(out, "storage failure") {
		t.Error("error record should not reach stdout")
	}
	if !strings.Contains(errOut, "storage failure") || !strings.Contains(errOut, "component=test") {
		t.Errorf("expected error with attrs on stderr, got %q", errOut)
	}
}

func TestLevelRouterDebug(t *testing.T) {
	var stdout, stderr bytes.Buffer
	slog.New(newLevelRouter(&stdout, &stderr, slog.LevelDebug)).Debug("details")
	if !strings.Contains(stdout.String(), "details") {
		t.Errorf("expected debug record on stdout, got %q", stdout.String())
	}
}
