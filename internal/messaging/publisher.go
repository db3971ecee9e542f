package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/sandysh3090/AI-VoiceEntry/internal/logging"
	"github.com/sandysh3090/AI-VoiceEntry/internal/records"
)

// RecordPublisher publishes ingested records to NATS so other systems (a
// dashboard, an exporter) can react without polling the history endpoint.
type RecordPublisher struct {
	conn          *nats.Conn
	url           string
	subject       string
	maxReconnect  int
	reconnectWait time.Duration
}

// RecordIngestedEvent is the payload published for every persisted record
type RecordIngestedEvent struct {
	RecordID  string          `json:"record_id"`
	Type      string          `json:"type"`
	CreatedAt string          `json:"created_at"`
	Record    *records.Record `json:"record"`
	Timestamp int64           `json:"timestamp"`
}

// NewRecordPublisher creates an unconnected publisher
func NewRecordPublisher(url, subject string, maxReconnect int, reconnectWait time.Duration) *RecordPublisher {
	return &RecordPublisher{
		url:           url,
		subject:       subject,
		maxReconnect:  maxReconnect,
		reconnectWait: reconnectWait,
	}
}

// Connect establishes the connection to the NATS server
func (p *RecordPublisher) Connect() error {
	opts := []nats.Option{
		nats.Name("voiceentry"),
		nats.ReconnectWait(p.reconnectWait),
		nats.MaxReconnects(p.maxReconnect),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if logging.Sugar != nil {
				logging.Sugar.Warnw("⚠️  NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			if logging.Sugar != nil {
				logging.Sugar.Infow("🔄 NATS reconnected", "url", nc.ConnectedUrl())
			}
		}),
	}

	conn, err := nats.Connect(p.url, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	p.conn = conn
	if logging.Sugar != nil {
		logging.Sugar.Infow("✅ Connected to NATS server", "url", conn.ConnectedUrl())
	}
	return nil
}

// PublishRecordIngested publishes one persisted record
func (p *RecordPublisher) PublishRecordIngested(rec *records.Record) error {
	if p.conn == nil {
		return fmt.Errorf("NATS connection not established")
	}

	event := RecordIngestedEvent{
		RecordID:  rec.ID,
		Type:      string(rec.Type),
		CreatedAt: rec.CreatedAt,
		Record:    rec,
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal record event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.subject, err)
	}

	return nil
}

// IsConnected returns true if connected to NATS
func (p *RecordPublisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

// Close closes the NATS connection
func (p *RecordPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
