package influxdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/nickustinov/homebar/internal/infrastructure/config"
)

const (
	connectTimeout = 5 * time.Second
	healthTimeout  = 5 * time.Second

	// HTTP timeout for each batch write, in seconds.
	requestTimeoutSeconds = 10

	defaultBatchSize     = 100
	defaultFlushInterval = 10 // seconds
)

// Client is a command history sink backed by the InfluxDB v2 write API.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
//   - RecordCommand never blocks; points are batched and written in the
//     background.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI

	mu      sync.RWMutex
	open    bool
	onError func(err error)
}

// Connect opens a client for cfg and checks the server reports itself
// healthy before returning.
//
// Returns:
//   - *Client: Client ready to record commands
//   - error: ErrDisabled when cfg.Enabled is false, ErrConnectionFailed when
//     the health check fails
func Connect(cfg config.InfluxDBConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	batchSize, flushInterval := batchSettings(cfg)
	opts := influxdb2.DefaultOptions().
		SetBatchSize(uint(batchSize)).                // #nosec G115 -- batchSettings returns positive values
		SetFlushInterval(uint(flushInterval) * 1000). // #nosec G115 -- milliseconds
		SetHTTPRequestTimeout(requestTimeoutSeconds)
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := checkHealth(ctx, client); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	c := &Client{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
		open:     true,
	}
	go c.forwardWriteErrors()

	return c, nil
}

// batchSettings returns the configured batch size and flush interval
// (seconds), substituting defaults for non-positive values.
func batchSettings(cfg config.InfluxDBConfig) (batchSize, flushInterval int) {
	batchSize, flushInterval = cfg.BatchSize, cfg.FlushInterval
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}
	return batchSize, flushInterval
}

// checkHealth asks the server for its health status; anything but "pass"
// is an error carrying the server's message.
func checkHealth(ctx context.Context, client influxdb2.Client) error {
	health, err := client.Health(ctx)
	if err != nil {
		return err
	}
	if health.Status != "pass" {
		message := "unknown error"
		if health.Message != nil {
			message = *health.Message
		}
		return fmt.Errorf("server status %s: %s", health.Status, message)
	}
	return nil
}

// forwardWriteErrors hands async write failures to the SetOnError callback
// until the write API is closed.
func (c *Client) forwardWriteErrors() {
	for err := range c.writeAPI.Errors() {
		c.mu.RLock()
		callback := c.onError
		c.mu.RUnlock()

		if callback != nil {
			callback(err)
		}
	}
}

// Close flushes pending points and closes the client. Closing a zero or
// already closed Client is a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	wasOpen := c.open
	c.open = false
	c.mu.Unlock()

	if !wasOpen || c.client == nil {
		return nil
	}

	c.writeAPI.Flush()
	c.client.Close()
	return nil
}

// HealthCheck reports ErrNotConnected after Close, and otherwise queries
// the server's health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	checkCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if err := checkHealth(checkCtx, c.client); err != nil {
		return fmt.Errorf("influxdb health check failed: %w", err)
	}
	return nil
}

// IsConnected reports whether the client is open. It does not contact the
// server; use HealthCheck for that.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.open
}

// SetOnError sets the callback for async write failures.
func (c *Client) SetOnError(callback func(err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = callback
}

// Flush blocks until buffered points are written. It is a no-op after Close.
func (c *Client) Flush() {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.Flush()
}
