package webhooks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"relaybot/models"
)

type MockWebhooksService struct {
	mock.Mock
}

func (m *MockWebhooksService) Resolve(
	ctx context.Context,
	ownerUserID, targetChannelID string,
) (*models.Webhook, error) {
	args := m.Called(ctx, ownerUserID, targetChannelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Webhook), args.Error(1)
}
