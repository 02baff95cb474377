package port

//go:generate mockgen -source=notifier.go -destination=mock/notifier.go -package=mock

type NotificationEvent string

const (
	NotificationOrderCreated     NotificationEvent = "order_created"
	NotificationOrderConfirmed   NotificationEvent = "order_confirmed"
	NotificationOrderRejected    NotificationEvent = "order_rejected"
	NotificationOrderCancelled   NotificationEvent = "order_cancelled"
	NotificationOrderShipped     NotificationEvent = "order_shipped"
	NotificationOrderDelivered   NotificationEvent = "order_delivered"
	NotificationPaymentCompleted NotificationEvent = "payment_completed"
	NotificationPaymentRefunded  NotificationEvent = "payment_refunded"
)

// NotificationSender is fire-and-forget: implementations queue and
// return immediately, and a failed delivery is logged, never surfaced
// to the business operation that emitted it.
type NotificationSender interface {
	Notify(event NotificationEvent, payload map[string]any)
}
