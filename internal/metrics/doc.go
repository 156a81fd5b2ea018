// Package metrics provides observability hooks for the map embed pipeline.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so the pipeline never needs nil checks:
//
//	transformer := leaflet.NewTransformer(leaflet.Options{
//	    Recorder: metrics.NewPrometheusRecorder(registry),
//	})
//
// The Prometheus implementation is exposed over HTTP by the watch command.
package metrics
