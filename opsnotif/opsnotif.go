// Package opsnotif sends fire-and-forget operator notifications about
// failed relay deliveries. Message authors are never told about a failed
// relay; operators are.
package opsnotif

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

var (
	instance *OpsNotifier
	once     sync.Once
)

type OpsNotifier struct {
	webhookURL  string
	environment string
	appName     string
	mu          sync.RWMutex
}

// Init initializes the global ops notifier instance
func Init(webhookURL, environment string) {
	once.Do(func() {
		instance = &OpsNotifier{
			webhookURL:  webhookURL,
			environment: environment,
			appName:     "relaybot",
		}
	})
}

// DeliveryFailed reports one failed delivery attempt to the operators
func DeliveryFailed(ownerUserID, targetChannelID string, reason error) {
	if instance == nil {
		log.Printf("⚠️ Ops notifier not initialized, skipping delivery failure notification for channel %s",
			targetChannelID)
		return
	}

	instance.send(fmt.Sprintf("Relay delivery failed for owner `%s` into channel `%s`: %v",
		ownerUserID, targetChannelID, reason))
}

func (n *OpsNotifier) send(message string) {
	if n.webhookURL == "" {
		return // Ops notifications disabled
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	// Send notification asynchronously to avoid blocking dispatch
	go n.sendWebhookNotification(message)
}

func (n *OpsNotifier) sendWebhookNotification(message string) {
	payload := map[string]any{
		"blocks": []map[string]any{
			{
				"type": "section",
				"fields": []map[string]any{
					{"type": "mrkdwn", "text": fmt.Sprintf("*Service:* %s", n.appName)},
					{"type": "mrkdwn", "text": fmt.Sprintf("*Environment:* %s", n.environment)},
					{"type": "mrkdwn", "text": fmt.Sprintf("*Timestamp:* %s", time.Now().Format("2006-01-02 15:04:05 UTC"))},
				},
			},
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": fmt.Sprintf("🚨 *Delivery failure:*\n%s", message),
				},
			},
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("❌ Failed to marshal ops notification payload: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", n.webhookURL, strings.NewReader(string(payloadBytes)))
	if err != nil {
		log.Printf("❌ Failed to create ops notification request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("❌ Failed to send ops notification: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ Ops notification failed with status: %d", resp.StatusCode)
		return
	}

	log.Printf("🚨 Ops notification sent: %s", message)
}
