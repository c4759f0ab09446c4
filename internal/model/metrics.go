// Package models defines the data structures shared by the ingest backend
// and the read API.
package models

// GaugePoint is the latest reported value of one metric name.
type GaugePoint struct {
	// Name is the sanitized metric name as received on the wire
	Name string `json:"name"`

	// Value is the formatted value string exactly as reported
	Value string `json:"value"`

	// Timestamp is the report time in unix seconds
	Timestamp int64 `json:"timestamp"`
}

// NoticeEvent is an out-of-band annotation received from a client.
type NoticeEvent struct {
	// Timestamp is the notice time in unix seconds
	Timestamp int64 `json:"timestamp"`

	// Duration is the covered span in whole seconds, zero for instantaneous
	// notices
	Duration int64 `json:"duration"`

	// Description is the free-form annotation text
	Description string `json:"description"`
}
