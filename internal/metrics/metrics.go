// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	widgetValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "profilegen",
		Name:      "widget_validations_total",
		Help:      "Widget data validations by widget type and outcome.",
	}, []string{"type", "outcome"})
	pageRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "profilegen",
		Name:      "page_renders_total",
		Help:      "Rendered pages by kind.",
	}, []string{"page"})
)

// Observer records orchestrator events on the package collectors.
type Observer struct{}

// ObserveValidation counts one validation.
func (Observer) ObserveValidation(widgetType, outcome string) {
	widgetValidations.WithLabelValues(widgetType, outcome).Inc()
}

// ObserveRender counts one page render.
func (Observer) ObserveRender(page string) {
	pageRenders.WithLabelValues(page).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
