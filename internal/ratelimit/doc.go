// Package ratelimit implements the notification cooldown gate that keeps
// bursts of motion from flooding the notification channel.
package ratelimit
