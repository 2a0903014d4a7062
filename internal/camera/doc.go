// Package camera abstracts the video source behind a small interface so the
// capture loop can run against a real device in production and a stub in
// tests.
package camera
