// Package listeners wires event handlers: the admin order feed and the
// low-stock ops alert.
package listeners

import (
	"fmt"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/event"
	"github.com/nikhilverma/shopline/pkg/notification"
	"github.com/nikhilverma/shopline/pkg/ws"
)

// OrderFeed is the WebSocket hub behind /api/admin/orders/feed. Every
// order lifecycle event is broadcast to connected admin consoles.
var OrderFeed = ws.NewHub()

// RegisterAll subscribes all listeners and starts the order feed hub.
// Call once at boot.
func RegisterAll() {
	go OrderFeed.Run()

	event.Listen(event.OrderPlaced, func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		OrderFeed.BroadcastJSON(map[string]interface{}{
			"event":    "order.placed",
			"order_id": order.ID,
			"user_id":  order.UserID,
			"total":    order.Total,
			"status":   order.Status,
		})
	})

	event.Listen(event.OrderStatusChanged, func(payload interface{}) {
		change, ok := payload.(map[string]interface{})
		if !ok {
			return
		}
		out := map[string]interface{}{"event": "order.status_changed"}
		for k, v := range change {
			out[k] = v
		}
		OrderFeed.BroadcastJSON(out)
	})

	event.Listen(event.PaymentSucceeded, func(payload interface{}) {
		change, ok := payload.(map[string]interface{})
		if !ok {
			return
		}
		OrderFeed.BroadcastJSON(map[string]interface{}{
			"event":    "payment.succeeded",
			"order_id": change["order_id"],
		})
	})

	event.Listen(event.ProductLowStock, func(payload interface{}) {
		product, ok := payload.(models.Product)
		if !ok {
			return
		}
		notification.SendAsync("", &lowStockAlert{Product: product})
	})
}

type lowStockAlert struct {
	Product models.Product
}

func (a *lowStockAlert) Via() []string { return []string{"slack"} }

func (a *lowStockAlert) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf("Low stock: %s (%s) has %d units left",
			a.Product.Name, a.Product.SKU, a.Product.Stock),
		Attachments: []notification.SlackAttachment{
			{Color: "warning", Footer: "shopline inventory"},
		},
	}
}
