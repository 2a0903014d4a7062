// Package notify defines the outbound notification request type, the sink
// contract for delivering it, and the Telegram Bot API implementation used
// in production.
package notify
