package app

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trongdh/rentora/internal/domains/payments/repository"
	"github.com/trongdh/rentora/internal/events"
	"github.com/trongdh/rentora/pkg/helper"
	"github.com/trongdh/rentora/pkg/logger"
	"github.com/trongdh/rentora/pkg/rabbitmq"
)

// StartConsumers declares this service's exchanges and subscribes to the
// events it mirrors locally. Currently that is only invoice.created from the
// invoicing service.
func StartConsumers(rmq *rabbitmq.Client, repo repository.Querier, l logger.Interface) error {
	for _, exchange := range []string{events.ExchangePayment, events.ExchangeNotification} {
		if err := rmq.DeclareExchange(exchange); err != nil {
			return err
		}
	}

	return rmq.Subscribe(events.QueueInvoiceCreated, events.ExchangeNotification, events.RoutingKeyInvoiceCreated,
		invoiceCreatedHandler(repo, l))
}

func invoiceCreatedHandler(repo repository.Querier, l logger.Interface) rabbitmq.Handler {
	return func(ctx context.Context, body []byte) error {
		var event events.InvoiceEvent

		if err := json.Unmarshal(body, &event); err != nil {
			l.Error("consumer - invoice.created - malformed payload: %v", err)

			// Malformed messages never become parseable; drop them.
			return nil
		}

		var id primitive.ObjectID

		if event.InvoiceID != "" {
			parsed, err := primitive.ObjectIDFromHex(event.InvoiceID)
			if err != nil {
				l.Error("consumer - invoice.created - invalid invoice id %s: %v", event.InvoiceID, err)

				return nil
			}

			id = parsed
		}

		now := helper.NowInAppTimezone()

		invoice := repository.Invoice{
			ID:            id,
			InvoiceNumber: event.InvoiceNumber,
			Amount:        event.Amount,
			Description:   event.Description,
			Status:        event.Status,
			DueDate:       event.DueDate,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		upsertCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if err := repo.UpsertInvoice(upsertCtx, invoice); err != nil {
			l.Error("consumer - invoice.created - failed to upsert invoice %s: %v", event.InvoiceNumber, err)

			return err
		}

		return nil
	}
}
