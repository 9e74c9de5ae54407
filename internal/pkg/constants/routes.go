package constants

// Static route constants
const (
	StripeWebhookRoute = "/webhook/stripe"
	HealthRoute        = "/up"
	StatsRoute         = "/stats"
	MetricsRoute       = "/metrics"
)
