package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"aide-sociale/internal/domain"
	"aide-sociale/internal/service/channel"
)

type Provider struct {
	mock.Mock
}

func (m *Provider) Send(ctx context.Context, to domain.Contact, msg channel.Message) error {
	args := m.Called(ctx, to, msg)
	return args.Error(0)
}

type Dispatcher struct {
	mock.Mock
}

func (m *Dispatcher) Deliver(ctx context.Context, n *domain.Notification) bool {
	args := m.Called(ctx, n)
	return args.Bool(0)
}
