// Package status delivers job progress and completion signals to external
// observers without ever blocking the pipeline.
//
// A Reporter queues events on a bounded channel drained by one goroutine that
// hands each event to every Sink. When the queue is full the event is dropped.
package status
