package logger

import (
	"io"
	"log/slog"
	"testing"
)

func TestBufferRing(t *testing.T) {
	buf := NewBuffer(3)
	for _, msg := range []string{"a", "b", "c", "d"} {
		buf.Add(Entry{Level: "info", Message: msg})
	}

	entries := buf.Entries(nil)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Message != "b" || entries[2].Message != "d" {
		t.Errorf("expected oldest entry dropped, got %+v", entries)
	}

	buf.Clear()
	if n := len(buf.Entries(nil)); n != 0 {
		t.Errorf("expected empty buffer after Clear, got %d", n)
	}
}

func TestBufferFilter(t *testing.T) {
	buf := NewBuffer(10)
	buf.Add(Entry{Level: "info", Message: "started"})
	buf.Add(Entry{Level: "warn", Message: "slow"})
	buf.Add(Entry{Level: "error", Message: "failed"})

	got := buf.Entries([]string{"WARN", "error"})
	if len(got) != 2 || got[0].Message != "slow" || got[1].Message != "failed" {
		t.Errorf("unexpected filtered entries %+v", got)
	}
}

func TestCaptureHandler(t *testing.T) {
	buf := NewBuffer(10)
	log := New(Config{Level: slog.LevelInfo, Output: io.Discard, Capture: buf}).WithComponent("controller")

	log.Info("generation started", "request", 1)
	log.Debug("not captured")
	log.Error("generation request failed")

	entries := buf.Entries(nil)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", entries)
	}
	if entries[0].Component != "controller" || entries[0].Level != "info" {
		t.Errorf("unexpected entry %+v", entries[0])
	}
	if entries[0].Message != "generation started request=1" {
		t.Errorf("unexpected message %q", entries[0].Message)
	}
	if entries[1].Level != "error" {
		t.Errorf("expected error level, got %q", entries[1].Level)
	}
}
