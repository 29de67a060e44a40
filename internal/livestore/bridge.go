package livestore

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// BridgeConfig describes the MQTT connection for cross-process fan-out.
type BridgeConfig struct {
	BrokerURL string
	Realm     string // topic prefix, e.g. "annapurna"
	Username  string
	Password  string
}

// Bridge mirrors a Store over an MQTT broker so several processes share one
// live feed. Every local upsert is published retained to
// <realm>/<collection>/<id>; inbound messages from other clients are merged
// back into the local store. The bridge is best-effort throughout: broker
// trouble is logged and the local store keeps working.
type Bridge struct {
	store    *Store
	client   mqtt.Client
	realm    string
	clientID string
}

type bridgeEnvelope struct {
	Src    string         `json:"src"`
	Fields map[string]any `json:"fields"`
}

// NewBridge builds a bridge for the store. Start must be called before any
// traffic flows.
func NewBridge(store *Store, cfg BridgeConfig) (*Bridge, error) {
	if strings.TrimSpace(cfg.BrokerURL) == "" {
		return nil, fmt.Errorf("broker url is empty")
	}
	realm := strings.Trim(strings.TrimSpace(cfg.Realm), "/")
	if realm == "" {
		realm = "annapurna"
	}

	clientID := "ladle-" + uuid.NewString()[:8]
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	opts.SetClientID(clientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(5 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Printf("livestore: broker connection lost: %v", err)
	})

	return &Bridge{
		store:    store,
		client:   mqtt.NewClient(opts),
		realm:    realm,
		clientID: clientID,
	}, nil
}

// Start connects to the broker, subscribes to the realm, and begins
// republishing local upserts.
func (b *Bridge) Start() error {
	token := b.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect broker: %w", err)
	}

	topic := b.realm + "/+/+"
	token = b.client.Subscribe(topic, 1, b.handleInbound)
	token.Wait()
	if err := token.Error(); err != nil {
		b.client.Disconnect(250)
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}

	b.store.setPublishHook(b.publishUpsert)
	return nil
}

// Close detaches from the store and disconnects from the broker. Safe to
// call more than once.
func (b *Bridge) Close() {
	b.store.setPublishHook(nil)
	if b.client.IsConnected() {
		b.client.Disconnect(250)
	}
}

func (b *Bridge) publishUpsert(collection, id string, fields map[string]any) {
	if strings.Contains(collection, "/") || strings.Contains(id, "/") {
		log.Printf("livestore: not bridging %s/%s: slash in name", collection, id)
		return
	}
	payload, err := json.Marshal(bridgeEnvelope{Src: b.clientID, Fields: fields})
	if err != nil {
		log.Printf("livestore: encode %s/%s: %v", collection, id, err)
		return
	}
	topic := b.realm + "/" + collection + "/" + id
	token := b.client.Publish(topic, 1, true, payload)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.Printf("livestore: publish %s: %v", topic, err)
		}
	}()
}

func (b *Bridge) handleInbound(_ mqtt.Client, msg mqtt.Message) {
	parts := strings.Split(msg.Topic(), "/")
	if len(parts) != 3 {
		return
	}
	collection, id := parts[1], parts[2]

	var env bridgeEnvelope
	if err := json.Unmarshal(msg.Payload(), &env); err != nil {
		log.Printf("livestore: decode %s: %v", msg.Topic(), err)
		return
	}
	if env.Src == b.clientID {
		// Our own retained echo.
		return
	}
	b.store.applyWrite(collection, id, env.Fields, false)
}
