package directory

import (
    "github.com/prometheus/client_golang/prometheus"
)

var prometheusTrackedObjects = prometheus.NewGauge(prometheus.GaugeOpts{
    Namespace: "objectmesh",
    Subsystem: "directory",
    Name: "tracked_objects",
    Help: "Number of objects currently tracked by the object directory",
})

var prometheusLocationUpdates = prometheus.NewCounter(prometheus.CounterOpts{
    Namespace: "objectmesh",
    Subsystem: "directory",
    Name: "location_updates_total",
    Help: "Number of location update batches processed",
})

var prometheusLocationEvents = prometheus.NewCounter(prometheus.CounterOpts{
    Namespace: "objectmesh",
    Subsystem: "directory",
    Name: "location_events_total",
    Help: "Number of location change events processed",
})

var prometheusCallbackInvocations = prometheus.NewCounter(prometheus.CounterOpts{
    Namespace: "objectmesh",
    Subsystem: "directory",
    Name: "callback_invocations_total",
    Help: "Number of subscriber callback invocations",
})

func init() {
    prometheus.MustRegister(prometheusTrackedObjects)
    prometheus.MustRegister(prometheusLocationUpdates)
    prometheus.MustRegister(prometheusLocationEvents)
    prometheus.MustRegister(prometheusCallbackInvocations)
}

func prometheusSetTrackedObjects(count int) {
    prometheusTrackedObjects.Set(float64(count))
}

func prometheusRecordLocationUpdate(eventCount int) {
    prometheusLocationUpdates.Inc()
    prometheusLocationEvents.Add(float64(eventCount))
}

func prometheusRecordCallbackInvocation() {
    prometheusCallbackInvocations.Inc()
}
