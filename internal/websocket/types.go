package websocket

import "time"

// Channel is a named broadcast group a connection can subscribe to.
type Channel string

const (
	ChannelEvents Channel = "events"
	ChannelAlerts Channel = "alerts"
)

// MessageType identifies the kind of outbound message.
type MessageType string

const (
	MessageTypeEventDetected         MessageType = "event_detected"
	MessageTypeHighSeverityAlert     MessageType = "high_severity_alert"
	MessageTypeSubscriptionConfirmed MessageType = "subscription_confirmed"
	MessageTypeError                 MessageType = "error"
)

// Envelope is the outbound message wrapper sent to subscribers.
type Envelope struct {
	Type      MessageType `json:"type"`
	Data      any         `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Command is the inbound subscription command a client sends over the
// connection.
type Command struct {
	Action string `json:"action"`
}

// Recognized command actions.
const (
	ActionSubscribeEvents = "subscribe_events"
	ActionSubscribeAlerts = "subscribe_alerts"
)

// EventDetectedData is the payload of an event_detected notification.
type EventDetectedData struct {
	ID         string    `json:"id"`
	Magnitude  float64   `json:"magnitude"`
	AlertLevel string    `json:"alert_level"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	DepthKm    float64   `json:"depth"`
	OccurredAt time.Time `json:"occurred_at"`
	Source     string    `json:"source"`
	Title      string    `json:"title,omitempty"`
}

// HighSeverityAlertData is the payload of a high_severity_alert
// notification.
type HighSeverityAlertData struct {
	EarthquakeID              string    `json:"earthquake_id"`
	Magnitude                 float64   `json:"magnitude"`
	AlertLevel                string    `json:"alert_level"`
	Latitude                  float64   `json:"latitude"`
	Longitude                 float64   `json:"longitude"`
	DepthKm                   float64   `json:"depth"`
	AffectedRadiusKm          float64   `json:"affected_radius_km"`
	RequiresImmediateResponse bool      `json:"requires_immediate_response"`
	OccurredAt                time.Time `json:"occurred_at"`
	Source                    string    `json:"source"`
}

// SubscriptionData is the payload of a subscription_confirmed ack.
type SubscriptionData struct {
	Subscription Channel `json:"subscription"`
}

// HubStats is a snapshot of registry and delivery counters.
type HubStats struct {
	ActiveConnections int   `json:"active_connections"`
	EventSubscribers  int   `json:"event_subscribers"`
	AlertSubscribers  int   `json:"alert_subscribers"`
	MessagesSent      int64 `json:"messages_sent"`
	MessagesFiltered  int64 `json:"messages_filtered"`
	MessagesFailed    int64 `json:"messages_failed"`
}
