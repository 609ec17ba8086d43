// Package influxdb records homebar command history in InfluxDB.
//
// Every command the action Engine handles becomes one point in the
// homebar_commands measurement, tagged with the command, the resolver
// verdict, the outcome status and (on failure) the error kind:
//
//	homebar_commands,command=toggle,status=success,verdict=services
//	    target="Office/Lamp",succeeded=1i,failed=0i,duration_ms=4.2
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//	engine.SetRecorder(client)
//
// Writes are non-blocking and batched per batch_size and flush_interval;
// async write failures are delivered to the SetOnError callback.
package influxdb
