package main

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	client "github.com/caarlos0/isecmobile"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// publisher mirrors panel state changes onto retained MQTT topics, one topic
// per fact, e.g. amt/zone/3/open or amt/partition/B/armed.
type publisher struct {
	cli  mqtt.Client
	root string
}

func newPublisher(url, root string) (*publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(url).
		SetClientID("amtctl").
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)
	cli := mqtt.NewClient(opts)
	if tok := cli.Connect(); tok.Wait() && tok.Error() != nil {
		return nil, fmt.Errorf("could not connect to mqtt broker: %w", tok.Error())
	}
	log.Info("connected to mqtt broker", "url", url, "root", root)
	return &publisher{cli: cli, root: root}, nil
}

func (p *publisher) change(c client.Change) {
	topic := p.topicFor(c)
	tok := p.cli.Publish(topic, 0, true, fmt.Sprintf("%v", c.After))
	if tok.Wait() && tok.Error() != nil {
		log.Error("could not publish", "topic", topic, "err", tok.Error())
	}
}

func (p *publisher) topicFor(c client.Change) string {
	field := c.Field
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch {
	case c.Zone > 0:
		return path.Join(p.root, "zone", strconv.Itoa(c.Zone), field)
	case c.Partition != "":
		return path.Join(p.root, "partition", c.Partition, field)
	case c.PGM > 0:
		return path.Join(p.root, "pgm", strconv.Itoa(c.PGM), field)
	default:
		return path.Join(p.root, field)
	}
}

func (p *publisher) close() {
	p.cli.Disconnect(250)
}
