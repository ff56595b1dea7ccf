package service

import (
	"context"
	"errors"

	"github.com/user/vidtube/internal/apperr"
	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/repository"
)

type SubscriptionService struct {
	subscriptions SubscriptionStore
	users         UserStore
	owners        *OwnerDirectory
}

func NewSubscriptionService(subscriptions SubscriptionStore, users UserStore, owners *OwnerDirectory) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, users: users, owners: owners}
}

// Toggle subscribes subscriberID to channelID, or unsubscribes if already
// subscribed. It reports the resulting state. Subscribing to yourself is
// always rejected.
func (s *SubscriptionService) Toggle(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	if subscriberID == channelID {
		return false, apperr.BadRequest("You cannot subscribe to your own channel")
	}
	if err := s.requireChannel(ctx, channelID); err != nil {
		return false, err
	}

	existing, err := s.subscriptions.Find(ctx, subscriberID, channelID)
	switch {
	case err == nil:
		if err := s.subscriptions.Delete(ctx, existing.ID); err != nil {
			return false, apperr.Internal(err)
		}
		return false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return false, apperr.Internal(err)
	}

	sub := &model.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	if err := model.Validate(sub); err != nil {
		return false, apperr.BadRequest("Invalid subscription").Wrap(err)
	}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return true, nil
		}
		return false, apperr.Internal(err)
	}
	return true, nil
}

// Subscribers lists the users subscribed to channelID.
func (s *SubscriptionService) Subscribers(ctx context.Context, channelID uint) ([]*model.OwnerSummary, error) {
	if err := s.requireChannel(ctx, channelID); err != nil {
		return nil, err
	}
	ids, err := s.subscriptions.SubscriberIDs(ctx, channelID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out, err := s.owners.summaries(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// SubscribedChannels lists the channels subscriberID follows.
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID uint) ([]*model.OwnerSummary, error) {
	if err := s.requireChannel(ctx, subscriberID); err != nil {
		return nil, err
	}
	ids, err := s.subscriptions.ChannelIDs(ctx, subscriberID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out, err := s.owners.summaries(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *SubscriptionService) requireChannel(ctx context.Context, id uint) error {
	_, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Channel not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}
