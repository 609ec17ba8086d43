// Package webhook provides the local HTTP listener that turns a GET request
// into a home command:
//
//	GET /toggle/Office/Desk%20Lamp
//	GET /brightness/40/group.Downstairs
//	GET /scene/Goodnight
//
// Responses are JSON with a status of "success", "partial" or "error":
//
//	200 {"status":"success"}
//	200 {"status":"partial","message":"2 succeeded, 1 failed"}
//	404 {"status":"error","message":"Target not found: Garage"}
//	400 {"status":"error","message":"Ambiguous target, options: Bedroom/Spotlights, Office/Spotlights"}
//
// Requests are checked in a fixed order: no engine (500), no Pro licence
// (403), empty path (400), unparseable path (400), then execution.
//
// The server follows the same lifecycle pattern as other components:
//
//	server, err := webhook.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package webhook
