package broker

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Ayavuzer/manushotspot/core/utils"
)

const SubjectFirewallCommands = "firewall.commands"

// FirewallCommand is published for the connector fleet to pick up. The API
// never talks to devices directly; it only queues work.
type FirewallCommand struct {
	Action           string `json:"action"`
	FirewallConfigID int64  `json:"firewall_config_id"`
	FirewallTypeID   int64  `json:"firewall_type_id"`
	OrganizationID   int64  `json:"organization_id"`
}

type Publisher interface {
	PublishFirewallCommand(cmd FirewallCommand) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *utils.Logger
}

func NewPublisher(url string, logger *utils.Logger) (Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if logger != nil && err != nil {
				logger.Errorf("nats disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			if logger != nil {
				logger.Printf("nats reconnected to %s", c.ConnectedUrl())
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	return &natsPublisher{conn: conn, logger: logger}, nil
}

func (p *natsPublisher) PublishFirewallCommand(cmd FirewallCommand) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	return p.conn.Publish(SubjectFirewallCommands, payload)
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		p.conn.Drain()
	}
}

// NopPublisher drops commands. Used when no broker is configured and in
// handler tests that only assert the publish happened.
type NopPublisher struct {
	Published []FirewallCommand
}

func (p *NopPublisher) PublishFirewallCommand(cmd FirewallCommand) error {
	p.Published = append(p.Published, cmd)
	return nil
}

func (p *NopPublisher) Close() {}
