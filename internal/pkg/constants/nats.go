package constants

// NATS Subjects
const (
	// Payment status fan-out, suffixed with the order or tenant id
	SubjectPaymentStatusOrder  = "payments.status.order.%s"  // Format: payments.status.order.{order_id}
	SubjectPaymentStatusTenant = "payments.status.tenant.%s" // Format: payments.status.tenant.{tenant_id}

	// Order service events
	SubjectOrderCancelled = "orders.cancelled"

	// Queue group shared by payment service replicas
	QueuePaymentsService = "payments-service"
)
