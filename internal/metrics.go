package internal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "redsys",
	Name:      "payment_requests_total",
	Help:      "Payment requests built, by result.",
}, []string{"scope", "result"})

var unknownCountryCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "redsys",
	Name:      "unknown_country_total",
	Help:      "EMV3DS country fields omitted because the country code is not known.",
}, []string{"country"})

var sweepCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "redsys",
	Name:      "sweep_orders_total",
	Help:      "Orders seen by the pending-order sweep, by result.",
}, []string{"scope", "result"})

var sweepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "redsys",
	Name:      "sweep_duration_seconds",
	Help:      "Duration of pending-order sweeps.",
	Buckets:   prometheus.DefBuckets,
}, []string{"scope"})

func observeRequest(scope, result string) {
	if scope == "" {
		scope = "default"
	}
	requestCounter.With(prometheus.Labels{"scope": scope, "result": result}).Inc()
}

func observeUnknownCountry(country string) {
	if len(country) == 0 {
		country = "empty"
	}
	unknownCountryCounter.With(prometheus.Labels{"country": country}).Inc()
}

func observeSweep(scope, result string, count int) {
	if count == 0 {
		return
	}
	sweepCounter.With(prometheus.Labels{"scope": scope, "result": result}).Add(float64(count))
}

func observeSweepDuration(scope string, seconds float64) {
	sweepDuration.With(prometheus.Labels{"scope": scope}).Observe(seconds)
}
