package radio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/deeja/bthome/pkg/bthome"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pion/logging"
)

// MQTT defaults.
const (
	DefaultMQTTClientID       = "bthome-beacon"
	DefaultMQTTPublishTimeout = 5 * time.Second
)

// MQTTConfig configures an MQTT relay.
type MQTTConfig struct {
	// Broker is the broker URL, for example "tcp://localhost:1883".
	Broker string

	// ClientID identifies the session.
	// Default: "bthome-beacon"
	ClientID string

	// Topic receives one message per advertisement, payload the raw frame.
	// Use Topic to build the conventional bthome/<id>/advertisement name.
	Topic string

	// PublishTimeout bounds each publish.
	// Default: 5s
	PublishTimeout time.Duration

	// LoggerFactory is the factory for creating loggers.
	// If nil, logging is disabled.
	LoggerFactory logging.LoggerFactory
}

// Topic returns the relay topic for a device id.
func Topic(id string) string {
	return fmt.Sprintf("bthome/%s/advertisement", id)
}

// publisher is the part of mqtt.Client used here.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTT publishes advertisements to a broker for gateways that own the
// radio. Messages use QoS 1 and are not retained.
type MQTT struct {
	client  publisher
	topic   string
	timeout time.Duration
	log     logging.LeveledLogger

	closeOnce sync.Once
}

// NewMQTT connects to the broker. It returns once the first connection
// succeeds or ctx is done; later connection losses are retried in the
// background.
func NewMQTT(ctx context.Context, config MQTTConfig) (*MQTT, error) {
	if config.ClientID == "" {
		config.ClientID = DefaultMQTTClientID
	}

	var log logging.LeveledLogger
	if config.LoggerFactory != nil {
		log = config.LoggerFactory.NewLogger("radio")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(time.Minute)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		if log != nil {
			log.Infof("mqtt connected to %s", config.Broker)
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		if log != nil {
			log.Warnf("mqtt connection lost: %v", err)
		}
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return nil, fmt.Errorf("mqtt connect: %w", err)
		}
	case <-ctx.Done():
		client.Disconnect(0)
		return nil, ctx.Err()
	}

	return newMQTT(client, config), nil
}

func newMQTT(client publisher, config MQTTConfig) *MQTT {
	m := &MQTT{
		client:  client,
		topic:   config.Topic,
		timeout: config.PublishTimeout,
	}
	if m.topic == "" {
		m.topic = Topic(config.ClientID)
	}
	if m.timeout == 0 {
		m.timeout = DefaultMQTTPublishTimeout
	}
	if config.LoggerFactory != nil {
		m.log = config.LoggerFactory.NewLogger("radio")
	}
	return m
}

// Transmit publishes the raw frame.
func (m *MQTT) Transmit(ctx context.Context, adv bthome.Advertisement) error {
	token := m.client.Publish(m.topic, 1, false, adv.Data)

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("publish to %s: %w", m.topic, ctx.Err())
	}
	if err := token.Error(); err != nil {
		if m.log != nil {
			m.log.Errorf("publish to %s failed: %v", m.topic, err)
		}
		return fmt.Errorf("publish to %s: %w", m.topic, err)
	}
	if m.log != nil {
		m.log.Tracef("published %d bytes to %s", len(adv.Data), m.topic)
	}
	return nil
}

// Close disconnects from the broker.
func (m *MQTT) Close() error {
	m.closeOnce.Do(func() {
		m.client.Disconnect(250)
	})
	return nil
}
