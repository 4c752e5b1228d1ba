package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/floppyio/floppyio-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Channels          map[string]*ChannelStats
	ErrorsByCode      map[int]int
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ChannelStats holds statistics for a single channel instance.
type ChannelStats struct {
	Role      string
	Region    string
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int

	FramesOut int
	FramesIn  int
	BytesOut  int64
	BytesIn   int64
	Aborts    int

	Waits     int
	WaitTotal time.Duration
	WaitMax   time.Duration
}

// Collect reads the log file and computes its statistics.
func Collect(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Channels:          make(map[string]*ChannelStats),
		ErrorsByCode:      make(map[int]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}
	return stats, nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	ch, ok := s.Channels[event.ChannelID]
	if !ok {
		ch = &ChannelStats{
			Role:      event.LocalRole.String(),
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
		}
		s.Channels[event.ChannelID] = ch
	}
	ch.Events++
	if event.Timestamp.After(ch.LastSeen) {
		ch.LastSeen = event.Timestamp
	}
	if event.RegionPath != "" && ch.Region == "" {
		ch.Region = event.RegionPath
	}

	switch {
	case event.Frame != nil:
		if event.Direction == log.DirectionOut {
			ch.FramesOut++
			ch.BytesOut += int64(event.Frame.PayloadSize)
		} else {
			ch.FramesIn++
			ch.BytesIn += int64(event.Frame.PayloadSize)
		}
		if event.Frame.Control.Aborted() {
			ch.Aborts++
		}
	case event.Control != nil && event.Control.Waited != nil:
		w := *event.Control.Waited
		ch.Waits++
		ch.WaitTotal += w
		if w > ch.WaitMax {
			ch.WaitMax = w
		}
	case event.Error != nil:
		s.Errors++
		if event.Error.Code != nil {
			s.ErrorsByCode[*event.Error.Code]++
		}
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := Collect(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== FloppyIO Protocol Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerRegion, log.LayerWire, log.LayerChannel} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryMessage, log.CategoryControl, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Channels: %d\n", len(stats.Channels))
	if len(stats.Channels) > 0 {
		type chanInfo struct {
			id    string
			stats *ChannelStats
		}
		chans := make([]chanInfo, 0, len(stats.Channels))
		for id, cs := range stats.Channels {
			chans = append(chans, chanInfo{id, cs})
		}
		sort.Slice(chans, func(i, j int) bool {
			return chans[i].stats.FirstSeen.Before(chans[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, c := range chans {
			cs := c.stats
			duration := cs.LastSeen.Sub(cs.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %s, %d events, duration %s\n", shortenID(c.id), cs.Role, cs.Events, duration)
			if cs.Region != "" {
				fmt.Fprintf(w, "           Region: %s\n", cs.Region)
			}
			fmt.Fprintf(w, "           Sent: %d frames, %d bytes\n", cs.FramesOut, cs.BytesOut)
			fmt.Fprintf(w, "           Received: %d frames, %d bytes\n", cs.FramesIn, cs.BytesIn)
			if cs.Aborts > 0 {
				fmt.Fprintf(w, "           Aborted transfers: %d\n", cs.Aborts)
			}
			if cs.Waits > 0 {
				avg := cs.WaitTotal / time.Duration(cs.Waits)
				fmt.Fprintf(w, "           Waits: %d, avg %s, max %s\n", cs.Waits, formatDuration(avg), formatDuration(cs.WaitMax))
			}
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	if len(stats.ErrorsByCode) > 0 {
		codes := make([]int, 0, len(stats.ErrorsByCode))
		for code := range stats.ErrorsByCode {
			codes = append(codes, code)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(codes)))
		for _, code := range codes {
			fmt.Fprintf(w, "  code %d: %d\n", code, stats.ErrorsByCode[code])
		}
	}
}
