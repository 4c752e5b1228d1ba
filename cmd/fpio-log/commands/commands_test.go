package commands

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/floppyio/floppyio-go/pkg/layout"
	"github.com/floppyio/floppyio-go/pkg/log"
	"github.com/floppyio/floppyio-go/pkg/wire"
)

var base = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)

// sampleEvents is a short host/peer exchange ending in a timeout.
func sampleEvents() []log.Event {
	waited := 40 * time.Millisecond
	code := -2
	return []log.Event{
		{
			Timestamp: base, ChannelID: "hostchan-1111", LocalRole: layout.RoleHost,
			Layer: log.LayerChannel, Category: log.CategoryState, RegionPath: "/tmp/floppy.img",
			StateChange: &log.StateChangeEvent{NewState: "READY", Reason: "opened"},
		},
		{
			Timestamp: base.Add(time.Millisecond), ChannelID: "hostchan-1111", LocalRole: layout.RoleHost,
			Direction: log.DirectionOut, Layer: log.LayerWire, Category: log.CategoryMessage,
			Frame: log.NewFrameEvent(14335, []byte("hello"), wire.FlagDataPresent|wire.FlagEndOfData, wire.ModeText),
		},
		{
			Timestamp: base.Add(2 * time.Millisecond), ChannelID: "hostchan-1111", LocalRole: layout.RoleHost,
			Direction: log.DirectionOut, Layer: log.LayerRegion, Category: log.CategoryControl,
			Control: &log.ControlEvent{Action: log.ControlMark, Offset: 28670, New: wire.FlagDataPresent | wire.FlagEndOfData},
		},
		{
			Timestamp: base.Add(40 * time.Millisecond), ChannelID: "peerchan-2222", LocalRole: layout.RolePeer,
			Direction: log.DirectionIn, Layer: log.LayerRegion, Category: log.CategoryControl,
			Control: &log.ControlEvent{Action: log.ControlWait, Offset: 28670, New: wire.FlagDataPresent, Waited: &waited},
		},
		{
			Timestamp: base.Add(41 * time.Millisecond), ChannelID: "peerchan-2222", LocalRole: layout.RolePeer,
			Direction: log.DirectionIn, Layer: log.LayerWire, Category: log.CategoryMessage,
			Frame: log.NewFrameEvent(14335, []byte("hello"), wire.FlagDataPresent|wire.FlagEndOfData, wire.ModeText),
		},
		{
			Timestamp: base.Add(5 * time.Second), ChannelID: "hostchan-1111", LocalRole: layout.RoleHost,
			Layer: log.LayerChannel, Category: log.CategoryError,
			Error: &log.ErrorEventData{Layer: log.LayerChannel, Message: "timed out waiting for acknowledgement", Code: &code, Context: "send"},
		},
	}
}

func writeCapture(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.flog")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFormatFrameEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[1])
	output := buf.String()

	for _, want := range []string{
		"2026-01-28T10:15:32.124456Z",
		"[chan:hostchan HOST]",
		"OUT",
		"WIRE Frame",
		"Payload: 5 of 14335 bytes (text)",
		"Control: PRESENT|EOD",
		"Data: 68656c6c6f",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestFormatControlEvents(t *testing.T) {
	events := sampleEvents()

	var buf bytes.Buffer
	formatEvent(&buf, events[2])
	if out := buf.String(); !strings.Contains(out, "REGION MARK") || !strings.Contains(out, "EMPTY -> PRESENT|EOD") {
		t.Errorf("unexpected mark output:\n%s", out)
	}

	buf.Reset()
	formatEvent(&buf, events[3])
	if out := buf.String(); !strings.Contains(out, "WAIT") || !strings.Contains(out, "Waited: 40.000ms") {
		t.Errorf("unexpected wait output:\n%s", out)
	}
}

func TestFormatStateAndError(t *testing.T) {
	events := sampleEvents()

	var buf bytes.Buffer
	formatEvent(&buf, events[0])
	out := buf.String()
	if !strings.Contains(out, "-> READY") || !strings.Contains(out, "Reason: opened") || !strings.Contains(out, "Region: /tmp/floppy.img") {
		t.Errorf("unexpected state output:\n%s", out)
	}

	buf.Reset()
	formatEvent(&buf, events[5])
	out = buf.String()
	if !strings.Contains(out, "Code: -2") || !strings.Contains(out, "Context: send") {
		t.Errorf("unexpected error output:\n%s", out)
	}
}

func TestRunViewFilters(t *testing.T) {
	path := writeCapture(t, sampleEvents())

	layer := log.LayerWire
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Layer: &layer}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	if n := strings.Count(buf.String(), " Frame\n"); n != 2 {
		t.Errorf("got %d frames, want 2:\n%s", n, buf.String())
	}
	if strings.Contains(buf.String(), "Error") {
		t.Error("error event should be filtered out")
	}
}

func TestRunViewMissingFile(t *testing.T) {
	if err := RunView(filepath.Join(t.TempDir(), "nope.flog"), ViewFilter{}, &bytes.Buffer{}); err == nil {
		t.Error("expected error")
	}
}

func TestExportJSONL(t *testing.T) {
	path := writeCapture(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var m map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
			t.Fatalf("line %d is not JSON: %v", lines+1, err)
		}
		lines++
	}
	if lines != len(sampleEvents()) {
		t.Errorf("got %d lines, want %d", lines, len(sampleEvents()))
	}
}

func TestExportCSV(t *testing.T) {
	path := writeCapture(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != len(sampleEvents())+1 {
		t.Fatalf("got %d records, want %d", len(records), len(sampleEvents())+1)
	}
	if records[0][1] != "channel_id" {
		t.Errorf("header = %v", records[0])
	}
	frame := records[2]
	if frame[6] != "frame" || frame[7] != "PRESENT|EOD" || frame[8] != "5" {
		t.Errorf("frame row = %v", frame)
	}
	if records[4][6] != "control_WAIT" || records[4][2] != "PEER" {
		t.Errorf("wait row = %v", records[4])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := writeCapture(t, sampleEvents())
	if err := RunExport(path, "xml", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunFilter(t *testing.T) {
	path := writeCapture(t, sampleEvents())

	tests := []struct {
		name string
		opts FilterOptions
		want int
	}{
		{"channel", FilterOptions{ChannelID: "peerchan-2222"}, 2},
		{"role", FilterOptions{Role: "host"}, 4},
		{"layer", FilterOptions{Layer: "region"}, 2},
		{"direction", FilterOptions{Direction: "in"}, 4},
		{"category", FilterOptions{Category: "error"}, 1},
		{"time", FilterOptions{TimeStart: "2026-01-28T10:15:33Z"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Output = filepath.Join(t.TempDir(), "filtered.flog")
			n, err := RunFilter(path, tt.opts)
			if err != nil {
				t.Fatalf("RunFilter failed: %v", err)
			}
			if n != tt.want {
				t.Errorf("filtered %d events, want %d", n, tt.want)
			}
			events, err := log.ReadAll(tt.opts.Output, log.Filter{})
			if err != nil {
				t.Fatal(err)
			}
			if len(events) != tt.want {
				t.Errorf("output holds %d events, want %d", len(events), tt.want)
			}
		})
	}
}

func TestFilterOptionsInvalid(t *testing.T) {
	tests := []FilterOptions{
		{Role: "observer"},
		{Layer: "transport"},
		{Direction: "sideways"},
		{Category: "snapshot"},
		{TimeStart: "yesterday"},
		{TimeEnd: "tomorrow"},
	}
	for _, opts := range tests {
		if _, err := opts.Filter(); err == nil {
			t.Errorf("Filter(%+v) succeeded, want error", opts)
		}
	}
}

func TestCollectStats(t *testing.T) {
	path := writeCapture(t, sampleEvents())

	stats, err := Collect(path)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if stats.TotalEvents != 6 {
		t.Errorf("TotalEvents = %d, want 6", stats.TotalEvents)
	}
	if len(stats.Channels) != 2 {
		t.Fatalf("Channels = %d, want 2", len(stats.Channels))
	}

	host := stats.Channels["hostchan-1111"]
	if host.FramesOut != 1 || host.BytesOut != 5 || host.Role != "HOST" || host.Region != "/tmp/floppy.img" {
		t.Errorf("host stats = %+v", host)
	}
	peer := stats.Channels["peerchan-2222"]
	if peer.FramesIn != 1 || peer.Waits != 1 || peer.WaitMax != 40*time.Millisecond {
		t.Errorf("peer stats = %+v", peer)
	}
	if stats.Errors != 1 || stats.ErrorsByCode[-2] != 1 {
		t.Errorf("errors = %d %v", stats.Errors, stats.ErrorsByCode)
	}
}

func TestRunStatsOutput(t *testing.T) {
	path := writeCapture(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Total Events: 6",
		"Channels: 2",
		"[hostchan] HOST",
		"Sent: 1 frames, 5 bytes",
		"Waits: 1, avg 40.000ms, max 40.000ms",
		"Errors: 1",
		"code -2: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLayerFlag("WIRE"); err != nil || l != log.LayerWire {
		t.Errorf("ParseLayerFlag(WIRE) = %v, %v", l, err)
	}
	if d, err := ParseDirectionFlag("Out"); err != nil || d != log.DirectionOut {
		t.Errorf("ParseDirectionFlag(Out) = %v, %v", d, err)
	}
	if c, err := ParseCategoryFlag("control"); err != nil || c != log.CategoryControl {
		t.Errorf("ParseCategoryFlag(control) = %v, %v", c, err)
	}
	if r, err := ParseRoleFlag("guest"); err != nil || r != layout.RolePeer {
		t.Errorf("ParseRoleFlag(guest) = %v, %v", r, err)
	}
}
