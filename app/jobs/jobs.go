// Package jobs holds the background work queued by the services: the
// email no checkout response should wait on.
package jobs

import "github.com/nikhilverma/shopline/pkg/queue"

// RegisterAll makes every job type known to the queue so workers can
// deserialize payloads. Call once at boot, before StartWorkers.
func RegisterAll() {
	queue.Register("jobs.OrderConfirmationJob", func() queue.Job { return &OrderConfirmationJob{} })
	queue.Register("jobs.PaymentReceiptJob", func() queue.Job { return &PaymentReceiptJob{} })
	queue.Register("jobs.ReviewNotificationJob", func() queue.Job { return &ReviewNotificationJob{} })
}
