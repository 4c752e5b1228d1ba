// Package log provides structured protocol capture for channels.
//
// This package defines the Logger interface and Event types describing what
// a channel does to its region: frames written and read, control byte
// transitions, state changes and reported errors. It is separate from
// operational logging (slog); protocol capture is a complete
// machine-readable trace for debugging a host/peer exchange after the fact.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to a capture file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/fpio/host.flog")
//
//	// Both
//	cfg.ProtocolLogger = log.NewMultiLogger(console, file)
//
// # Event Types
//
// Events are captured at three layers:
//   - Region: raw region operations (reset, control byte writes)
//   - Wire: encoded and decoded frames (FrameEvent)
//   - Channel: state changes and errors
//
// # File Format
//
// Capture files are a stream of CBOR-encoded events with the .flog
// extension. The fpio-log command views, filters, exports and summarizes them.
package log
