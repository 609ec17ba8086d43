package influxdb

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nickustinov/homebar/internal/action"
	"github.com/nickustinov/homebar/internal/infrastructure/config"
	"github.com/nickustinov/homebar/internal/resolver"
)

func TestCommandPoint(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := action.Record{
		Command:   action.CommandOn,
		Target:    "group.Downstairs",
		Verdict:   resolver.Services,
		Status:    action.StatusPartial,
		Succeeded: 2,
		Failed:    1,
		Duration:  1500 * time.Microsecond,
		Time:      at,
	}

	line := write.PointToLineProtocol(commandPoint(rec), time.Nanosecond)

	for _, want := range []string{
		MeasurementCommands + ",",
		"command=on",
		"status=partial",
		"verdict=services",
		`target="group.Downstairs"`,
		"succeeded=2i",
		"failed=1i",
		"duration_ms=1.5",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("line protocol %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "error_kind") {
		t.Errorf("error_kind tag written for a non-error record: %q", line)
	}
	if !strings.HasSuffix(strings.TrimSpace(line), "1772366400000000000") {
		t.Errorf("timestamp not taken from record: %q", line)
	}
}

func TestCommandPoint_ErrorKind(t *testing.T) {
	rec := action.Record{
		Command:   action.CommandToggle,
		Target:    "Garage",
		Verdict:   resolver.NotFound,
		Status:    action.StatusError,
		ErrorKind: action.KindTargetNotFound,
	}

	line := write.PointToLineProtocol(commandPoint(rec), time.Nanosecond)
	if !strings.Contains(line, "error_kind=target_not_found") {
		t.Errorf("line protocol %q missing error_kind tag", line)
	}
	if !strings.Contains(line, "verdict=not_found") {
		t.Errorf("line protocol %q missing verdict tag", line)
	}
}

func TestBatchSettings(t *testing.T) {
	tests := []struct {
		batch, flush         int
		wantBatch, wantFlush int
	}{
		{0, 0, defaultBatchSize, defaultFlushInterval},
		{-5, -1, defaultBatchSize, defaultFlushInterval},
		{500, 2, 500, 2},
	}
	for _, tt := range tests {
		batch, flush := batchSettings(config.InfluxDBConfig{BatchSize: tt.batch, FlushInterval: tt.flush})
		if batch != tt.wantBatch || flush != tt.wantFlush {
			t.Errorf("batchSettings(%d, %d) = %d, %d, want %d, %d",
				tt.batch, tt.flush, batch, flush, tt.wantBatch, tt.wantFlush)
		}
	}
}

func TestRecordCommand_NotConnected(t *testing.T) {
	c := &Client{}
	// Must not touch the nil write API.
	c.RecordCommand(context.Background(), action.Record{Command: action.CommandOn})
	c.Flush()
}
