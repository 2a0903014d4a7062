// Package schedule computes daily fire instants for a fixed wall-clock time
// and runs the heartbeat photo scheduler built on top of them.
package schedule
