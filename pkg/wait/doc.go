// Package wait blocks until a control byte in a region reaches an expected
// state.
//
// Waiting is the only suspension point of a channel. The Waiter interface
// hides how the change is detected: Poller re-reads the byte at a fixed
// interval, Notifier additionally wakes up on file-system change
// notifications for file-backed regions.
//
// A zero timeout waits forever. Callers that need responsiveness must pass a
// finite timeout or a cancellable context.
package wait
