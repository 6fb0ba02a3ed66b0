package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contactfaris48-art/fms-backend/internal/domain"
	"github.com/contactfaris48-art/fms-backend/internal/kafka"
)

// Kafka topic constants for user domain events.
const (
	TopicUserRegistered  = "fms.user.registered"
	TopicUserProvisioned = "fms.user.provisioned"
	TopicUserLoggedIn    = "fms.user.logged_in"
)

// Aggregate type constant.
const AggregateTypeUser = "user"

// Source identifier for events originating from this service.
const SourceAuthService = "fms-backend"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserProvisionedData is the payload for a user.provisioned event, emitted
// when an account is auto-created during passwordless or federated login.
type UserProvisionedData struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Origin string `json:"origin"`
}

// UserLoggedInData is the payload for a user.logged_in event.
type UserLoggedInData struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Method string `json:"method"`
}

// Publisher is the transport the producer publishes through.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Producer publishes user domain events to Kafka.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}

	event, err := kafka.NewEvent(TopicUserRegistered, user.ID, AggregateTypeUser, SourceAuthService, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.publisher.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	return nil
}

// PublishUserProvisioned publishes a user.provisioned event. origin names the
// flow that created the account, e.g. "passwordless" or "oidc".
func (p *Producer) PublishUserProvisioned(ctx context.Context, user *domain.User, origin string) error {
	data := UserProvisionedData{
		ID:     user.ID,
		Email:  user.Email,
		Origin: origin,
	}

	event, err := kafka.NewEvent(TopicUserProvisioned, user.ID, AggregateTypeUser, SourceAuthService, data)
	if err != nil {
		return fmt.Errorf("create user.provisioned event: %w", err)
	}

	if err := p.publisher.Publish(ctx, TopicUserProvisioned, event); err != nil {
		return fmt.Errorf("publish user.provisioned event: %w", err)
	}

	return nil
}

// PublishUserLoggedIn publishes a user.logged_in event. method names the
// credential used, e.g. "otp", "magic_link", "password" or "oidc".
func (p *Producer) PublishUserLoggedIn(ctx context.Context, user *domain.User, method string) error {
	data := UserLoggedInData{
		ID:     user.ID,
		Email:  user.Email,
		Method: method,
	}

	event, err := kafka.NewEvent(TopicUserLoggedIn, user.ID, AggregateTypeUser, SourceAuthService, data)
	if err != nil {
		return fmt.Errorf("create user.logged_in event: %w", err)
	}

	if err := p.publisher.Publish(ctx, TopicUserLoggedIn, event); err != nil {
		return fmt.Errorf("publish user.logged_in event: %w", err)
	}

	return nil
}
