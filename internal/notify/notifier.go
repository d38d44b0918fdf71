package notify

import (
	"context"
	"log"

	"github.com/studiofoundry/storefront-service/internal/models"
)

// OrderConfirmation is the payload handed to the notification collaborator
// after a successful checkout.
type OrderConfirmation struct {
	OrderNumber string            `json:"orderNumber"`
	Email       string            `json:"email"`
	Total       float64           `json:"total"`
	Items       []models.CartItem `json:"items"`
}

// Notifier delivers order confirmations. Delivery is best-effort: the caller
// logs failures but never fails the checkout over them.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, conf OrderConfirmation) error
}

// LogNotifier writes the confirmation to the service log instead of sending
// it anywhere. Used in dev setups without a broker.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendOrderConfirmation(_ context.Context, conf OrderConfirmation) error {
	n.logger.Printf("order confirmation: to=%s order=%s total=%.2f items=%d",
		conf.Email, conf.OrderNumber, conf.Total, len(conf.Items))
	return nil
}
