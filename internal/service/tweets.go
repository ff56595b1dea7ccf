package service

import (
	"context"
	"errors"
	"strings"

	"github.com/user/vidtube/internal/apperr"
	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/repository"
)

// TweetQuery filters the tweet feed.
type TweetQuery struct {
	Page     int
	Limit    int
	Query    string
	SortType string
	UserID   uint
}

type TweetService struct {
	tweets TweetStore
	users  UserStore
	owners *OwnerDirectory
}

func NewTweetService(tweets TweetStore, users UserStore, owners *OwnerDirectory) *TweetService {
	return &TweetService{tweets: tweets, users: users, owners: owners}
}

// Create posts a tweet.
func (s *TweetService) Create(ctx context.Context, ownerID uint, content string) (*model.Tweet, error) {
	t := &model.Tweet{OwnerID: ownerID, Content: strings.TrimSpace(content)}
	if t.Content == "" {
		return nil, apperr.BadRequest("Content is required")
	}
	if err := model.Validate(t); err != nil {
		return nil, apperr.BadRequest("Invalid tweet").Wrap(err)
	}
	if err := s.tweets.Create(ctx, t); err != nil {
		return nil, apperr.Internal(err)
	}
	return t, nil
}

// Update rewrites an owned tweet.
func (s *TweetService) Update(ctx context.Context, ownerID, id uint, content string) (*model.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.BadRequest("Content is required")
	}
	t, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	t.Content = content
	if err := model.Validate(t); err != nil {
		return nil, apperr.BadRequest("Invalid tweet").Wrap(err)
	}
	if err := s.tweets.UpdateContent(ctx, t); err != nil {
		return nil, apperr.Internal(err)
	}
	return t, nil
}

// Delete removes an owned tweet.
func (s *TweetService) Delete(ctx context.Context, ownerID, id uint) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.tweets.Delete(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// ListByUser returns a page of one user's tweets, newest first.
func (s *TweetService) ListByUser(ctx context.Context, userID uint, page Pagination) ([]*model.Tweet, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal(err)
	}
	return s.list(ctx, repository.TweetFilter{OwnerID: userID, Page: page.repo()})
}

// List returns a page of the tweet feed.
func (s *TweetService) List(ctx context.Context, q TweetQuery) ([]*model.Tweet, error) {
	page := NewPagination(q.Page, q.Limit)
	return s.list(ctx, repository.TweetFilter{
		Query:   strings.TrimSpace(q.Query),
		OwnerID: q.UserID,
		Asc:     strings.EqualFold(q.SortType, "asc"),
		Page:    page.repo(),
	})
}

func (s *TweetService) list(ctx context.Context, f repository.TweetFilter) ([]*model.Tweet, error) {
	tweets, _, err := s.tweets.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.owners.attachTweets(ctx, tweets); err != nil {
		return nil, apperr.Internal(err)
	}
	return nonNil(tweets), nil
}

func (s *TweetService) owned(ctx context.Context, ownerID, id uint) (*model.Tweet, error) {
	t, err := s.tweets.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && t.OwnerID != ownerID) {
		return nil, apperr.NotFound("Tweet not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return t, nil
}
