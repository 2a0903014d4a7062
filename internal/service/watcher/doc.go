// Package watcher runs the surveillance process: it reads frames from the
// camera at a fixed cadence, evaluates them for significant motion, sends
// debounced photo notifications and keeps the newest frame available for
// the daily heartbeat photo. Notification delivery happens off the capture
// goroutine so network latency never delays the next frame.
package watcher
