package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
)

// WebhookService applies identity-provider sync events: user creation,
// profile updates, and org membership grants/role changes. The provider is
// the source of truth for identity; the engine only mirrors it.
type WebhookService struct {
	secret   string
	identity *IdentityService
}

func NewWebhookService(secret string, identity *IdentityService) *WebhookService {
	return &WebhookService{
		secret:   secret,
		identity: identity,
	}
}

type membershipEvent struct {
	ExternalToken string `json:"token_identifier"`
	OrgID         string `json:"org_id"`
	Role          string `json:"role"`
}

type userEvent struct {
	ExternalToken string `json:"token_identifier"`
	Name          string `json:"name"`
	Image         string `json:"image"`
}

// HandleWebhook verifies the standard-webhooks signature and dispatches the
// event. Unknown event types are logged and acknowledged so the provider
// does not retry them forever.
func (s *WebhookService) HandleWebhook(payload []byte, webhookID, timestamp, signature string) error {
	if s.secret == "" {
		slog.Warn("identity webhook no secret configured, skipping signature verification")
	} else {
		wh, err := standardwebhooks.NewWebhookRaw([]byte(s.secret))
		if err != nil {
			return fmt.Errorf("failed to create webhook verifier: %w", err)
		}

		headers := http.Header{}
		headers.Set("webhook-id", webhookID)
		headers.Set("webhook-timestamp", timestamp)
		headers.Set("webhook-signature", signature)

		err = wh.Verify(payload, headers)
		if err != nil {
			return fmt.Errorf("invalid webhook signature: %w", err)
		}
	}

	var event struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}

	err := json.Unmarshal(payload, &event)
	if err != nil {
		return fmt.Errorf("failed to parse webhook: %w", err)
	}

	slog.Info("identity webhook received", "event_type", event.Type)

	switch event.Type {
	case "user.created":
		var e userEvent
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("failed to parse user event: %w", err)
		}
		_, err := s.identity.CreateUser(e.ExternalToken, e.Name, e.Image)
		return err
	case "user.updated":
		var e userEvent
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("failed to parse user event: %w", err)
		}
		return s.identity.UpdateUser(e.ExternalToken, e.Name, e.Image)
	case "organizationMembership.created":
		var e membershipEvent
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("failed to parse membership event: %w", err)
		}
		return s.identity.AddOrgMembership(e.ExternalToken, e.OrgID, e.Role)
	case "organizationMembership.updated":
		var e membershipEvent
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("failed to parse membership event: %w", err)
		}
		return s.identity.SetOrgRole(e.ExternalToken, e.OrgID, e.Role)
	default:
		slog.Warn("identity webhook unknown event type", "event_type", event.Type)
		return nil
	}
}
