package events

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// Event subjects
const (
	SubjectProductCreated  = "catalog.product.created"
	SubjectImportCompleted = "catalog.import.completed"
)

// CatalogEvent is the envelope published for catalog changes
type CatalogEvent struct {
	EventID   string                 `json:"eventId"`
	EventType string                 `json:"eventType"`
	Timestamp time.Time              `json:"timestamp"`
	TenantIDs []string               `json:"tenantIds,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// Publisher publishes catalog events to NATS. Publishing is best-effort:
// failures are logged and never fail the request that triggered them.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS and returns a catalog events publisher
func NewPublisher(logger *logrus.Logger) (*Publisher, error) {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}

	conn, err := nats.Connect(natsURL,
		nats.Name("catalog-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Publisher{
		conn:   conn,
		logger: logger.WithField("component", "catalog-events"),
	}, nil
}

// Close drains and closes the NATS connection
func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Drain()
	}
}

// PublishProductCreated publishes a catalog.product.created event
func (p *Publisher) PublishProductCreated(product *models.Product, tenantIDs []string) {
	p.publish(SubjectProductCreated, tenantIDs, map[string]interface{}{
		"productId":  product.ID.String(),
		"name":       product.Name,
		"categoryId": product.CategoryID.String(),
		"active":     product.Active,
	})
}

// PublishImportCompleted publishes a catalog.import.completed event with the
// batch totals
func (p *Publisher) PublishImportCompleted(tenantIDs []string, created, existing, errors int) {
	p.publish(SubjectImportCompleted, tenantIDs, map[string]interface{}{
		"createdCount":  created,
		"existingCount": existing,
		"errorCount":    errors,
	})
}

func (p *Publisher) publish(subject string, tenantIDs []string, payload map[string]interface{}) {
	if p == nil || p.conn == nil {
		return
	}

	event := CatalogEvent{
		EventID:   uuid.New().String(),
		EventType: subject,
		Timestamp: time.Now().UTC(),
		TenantIDs: tenantIDs,
		Payload:   payload,
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).WithField("subject", subject).Error("Failed to marshal event")
		return
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.WithError(err).WithField("subject", subject).Error("Failed to publish event")
		return
	}

	p.logger.WithFields(logrus.Fields{
		"subject": subject,
		"eventId": event.EventID,
	}).Debug("Event published")
}
