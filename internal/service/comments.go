package service

import (
	"context"
	"errors"
	"strings"

	"github.com/user/vidtube/internal/apperr"
	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/repository"
)

type CommentService struct {
	comments CommentStore
	videos   VideoStore
	owners   *OwnerDirectory
}

func NewCommentService(comments CommentStore, videos VideoStore, owners *OwnerDirectory) *CommentService {
	return &CommentService{comments: comments, videos: videos, owners: owners}
}

// ListByVideo returns a page of a video's comments, newest first.
func (s *CommentService) ListByVideo(ctx context.Context, videoID, viewerID uint, page Pagination) ([]*model.Comment, error) {
	if err := s.requireVideo(ctx, videoID, viewerID); err != nil {
		return nil, err
	}
	comments, _, err := s.comments.ListByVideo(ctx, videoID, page.repo())
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.owners.attachComments(ctx, comments); err != nil {
		return nil, apperr.Internal(err)
	}
	return nonNil(comments), nil
}

// Add posts a comment on a video.
func (s *CommentService) Add(ctx context.Context, ownerID, videoID uint, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.BadRequest("Content is required")
	}
	if err := s.requireVideo(ctx, videoID, ownerID); err != nil {
		return nil, err
	}

	c := &model.Comment{VideoID: videoID, OwnerID: ownerID, Content: content}
	if err := model.Validate(c); err != nil {
		return nil, apperr.BadRequest("Invalid comment").Wrap(err)
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, apperr.Internal(err)
	}
	return c, nil
}

// Update rewrites an owned comment.
func (s *CommentService) Update(ctx context.Context, ownerID, id uint, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.BadRequest("Content is required")
	}
	c, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	c.Content = content
	if err := model.Validate(c); err != nil {
		return nil, apperr.BadRequest("Invalid comment").Wrap(err)
	}
	if err := s.comments.UpdateContent(ctx, c); err != nil {
		return nil, apperr.Internal(err)
	}
	return c, nil
}

// Delete removes an owned comment.
func (s *CommentService) Delete(ctx context.Context, ownerID, id uint) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *CommentService) owned(ctx context.Context, ownerID, id uint) (*model.Comment, error) {
	c, err := s.comments.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && c.OwnerID != ownerID) {
		return nil, apperr.NotFound("Comment not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return c, nil
}

func (s *CommentService) requireVideo(ctx context.Context, videoID, viewerID uint) error {
	v, err := s.videos.FindByID(ctx, videoID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !v.VisibleTo(viewerID)) {
		return apperr.NotFound("Video not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}
