package mqtt

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Client wraps the broker connection used to push refresh hints to
// display players. A push only tells a display to re-pull ahead of its
// next poll tick; correctness never depends on a publish arriving.
type Client struct {
	conn mqtt.Client
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Error().Err(err).Msg("MQTT connection lost")
}

func New(brokerURL, clientID string) (*Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	conn := mqtt.NewClient(opts)
	if token := conn.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &Client{conn: conn}, nil
}

func refreshTopic(screenID int) string {
	return fmt.Sprintf("screens/%d/refresh", screenID)
}

// PublishScreenRefresh tells any player showing the screen to re-read
// its feed now instead of waiting for the next schedule poll.
func (c *Client) PublishScreenRefresh(screenID int) error {
	token := c.conn.Publish(refreshTopic(screenID), 1, false, []byte("refresh"))
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish refresh for screen %d: %w", screenID, token.Error())
	}
	return nil
}

// SubscribeScreenRefresh invokes fn whenever a refresh is published for
// the screen.
func (c *Client) SubscribeScreenRefresh(screenID int, fn func()) error {
	handler := func(client mqtt.Client, msg mqtt.Message) {
		fn()
	}
	token := c.conn.Subscribe(refreshTopic(screenID), 1, handler)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to subscribe to refresh for screen %d: %w", screenID, token.Error())
	}
	return nil
}

// Close disconnects from the broker, allowing a short drain window.
func (c *Client) Close() {
	c.conn.Disconnect(250)
}
