package telemetry

// Span names shared by the HTTP layer, the use cases and the adapters.
const (
	SpanNearby       = "activities.nearby"
	SpanRecommend    = "recommendations.generate"
	SpanCheckout     = "orders.checkout"
	SpanFulfillOrder = "orders.fulfill"
	SpanPublishEvent = "events.publish"
)
