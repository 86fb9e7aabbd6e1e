package ingest

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"maintenance-backend/config"
)

// MessageHandler processes one message received on a topic.
type MessageHandler func(topic string, payload []byte)

// Subscriber is the broker connection the service reads from.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler MessageHandler) error
	Disconnect()
}

// MQTTClient is a Subscriber backed by a paho client.
type MQTTClient struct {
	client mqtt.Client
}

// Dial connects to the broker named in cfg.
func Dial(cfg *config.IngestConfig) (*MQTTClient, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.Broker, token.Error())
	}
	return &MQTTClient{client: client}, nil
}

func (c *MQTTClient) Subscribe(topic string, qos byte, handler MessageHandler) error {
	token := c.client.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, token.Error())
	}
	return nil
}

// Disconnect closes the connection, waiting up to 250ms for in-flight work.
func (c *MQTTClient) Disconnect() {
	c.client.Disconnect(250)
}
