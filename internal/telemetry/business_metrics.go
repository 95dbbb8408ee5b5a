package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability.
type BusinessMetrics struct {
	// Cart
	CartItemsAdded *prometheus.CounterVec
	CartValue      prometheus.Histogram

	// Checkout funnel
	CheckoutStarted   prometheus.Counter
	CheckoutSubmitted *prometheus.CounterVec

	// Payments
	PaymentLinksCreated prometheus.Counter
	PaymentOutcomes     *prometheus.CounterVec

	// Orders
	OrdersCreated *prometheus.CounterVec
	OrderValue    prometheus.Histogram
}

// NewBusinessMetrics creates and registers all business metrics
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "lenshaus"
	}

	subsystem := "business"

	// Order values in VND; the storefront sells frames from a few hundred
	// thousand up to multi-million lens packages
	moneyBuckets := []float64{100000, 250000, 500000, 1000000, 2000000, 5000000, 10000000}

	return &BusinessMetrics{
		CartItemsAdded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_items_added_total",
				Help:      "Total add to cart actions",
			},
			[]string{"item_type"}, // item_type: frame, lens
		),
		CartValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_value_vnd",
				Help:      "Cart grand total at checkout start",
				Buckets:   moneyBuckets,
			},
		),
		CheckoutStarted: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_started_total",
				Help:      "Total checkout sessions opened",
			},
		),
		CheckoutSubmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_submitted_total",
				Help:      "Total checkout submissions",
			},
			[]string{"payment_method"}, // payment_method: COD, GATEWAY
		),
		PaymentLinksCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_links_created_total",
				Help:      "Total hosted payment links created",
			},
		),
		PaymentOutcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_outcomes_total",
				Help:      "Total gateway return redirects by verdict",
			},
			[]string{"verdict"}, // verdict: PAID, PENDING, CANCELLED, FAILED
		),
		OrdersCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_created_total",
				Help:      "Total orders created",
			},
			[]string{"payment_method"},
		),
		OrderValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_vnd",
				Help:      "Order totals in VND",
				Buckets:   moneyBuckets,
			},
		),
	}
}
