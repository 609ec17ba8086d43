package influxdb

import (
	"context"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nickustinov/homebar/internal/action"
)

// MeasurementCommands holds one point per executed command.
const MeasurementCommands = "homebar_commands"

// RecordCommand writes one command outcome. It implements action.Recorder.
//
// The write is non-blocking; points are batched and flushed in the
// background, and failures surface through the SetOnError callback.
func (c *Client) RecordCommand(_ context.Context, rec action.Record) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(commandPoint(rec))
}

// commandPoint maps a Record onto the commands measurement. Low-cardinality
// values are tags; the free-text target is a field.
func commandPoint(rec action.Record) *write.Point {
	tags := map[string]string{
		"command": string(rec.Command),
		"verdict": rec.Verdict.String(),
		"status":  string(rec.Status),
	}
	if rec.ErrorKind != "" {
		tags["error_kind"] = string(rec.ErrorKind)
	}

	ts := rec.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	return write.NewPoint(
		MeasurementCommands,
		tags,
		map[string]interface{}{
			"target":      rec.Target,
			"succeeded":   rec.Succeeded,
			"failed":      rec.Failed,
			"duration_ms": float64(rec.Duration) / float64(time.Millisecond),
		},
		ts,
	)
}
