package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/user/vidtube/internal/apperr"
	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/repository"
	"github.com/user/vidtube/internal/storage"
)

var videoSortKeys = map[string]bool{"createdAt": true, "views": true, "duration": true, "title": true}

// VideoQuery filters and orders the public video list.
type VideoQuery struct {
	Page     int
	Limit    int
	Query    string
	SortBy   string
	SortType string
	UserID   uint
}

// PublishInput is the text part of an upload form.
type PublishInput struct {
	Title       string
	Description string
}

// VideoUpdate holds optional detail changes.
type VideoUpdate struct {
	Title       *string
	Description *string
}

type VideoService struct {
	videos       VideoStore
	history      HistoryStore
	media        *MediaService
	owners       *OwnerDirectory
	historyLimit int
	now          func() time.Time
}

func NewVideoService(videos VideoStore, history HistoryStore, media *MediaService, owners *OwnerDirectory, historyLimit int) *VideoService {
	if historyLimit <= 0 {
		historyLimit = 100
	}
	return &VideoService{videos: videos, history: history, media: media, owners: owners, historyLimit: historyLimit, now: time.Now}
}

// List returns one page of videos visible to viewerID.
func (s *VideoService) List(ctx context.Context, q VideoQuery, viewerID uint) ([]*model.Video, error) {
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	if !videoSortKeys[sortBy] {
		return nil, apperr.BadRequest("Invalid sortBy %q", sortBy)
	}
	page := NewPagination(q.Page, q.Limit)

	videos, _, err := s.videos.List(ctx, repository.VideoFilter{
		Query:    strings.TrimSpace(q.Query),
		OwnerID:  q.UserID,
		ViewerID: viewerID,
		SortBy:   sortBy,
		Desc:     !strings.EqualFold(q.SortType, "asc"),
		Page:     page.repo(),
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.owners.attachVideos(ctx, videos); err != nil {
		return nil, apperr.Internal(err)
	}
	return nonNil(videos), nil
}

// Get returns one video. Unpublished videos are only visible to their owner.
func (s *VideoService) Get(ctx context.Context, id, viewerID uint) (*model.Video, error) {
	v, err := s.visible(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if err := s.owners.attachVideos(ctx, []*model.Video{v}); err != nil {
		return nil, apperr.Internal(err)
	}
	return v, nil
}

// Publish stores a new video. Staged files are always removed and uploaded
// assets are deleted again if the record cannot be created.
func (s *VideoService) Publish(ctx context.Context, ownerID uint, in PublishInput, videoPath, thumbPath string) (*model.Video, error) {
	defer s.media.Remove(videoPath)
	defer s.media.Remove(thumbPath)

	v := &model.Video{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		IsPublished: true,
	}
	if v.Title == "" || v.Description == "" {
		return nil, apperr.BadRequest("Title and description are required")
	}
	if videoPath == "" {
		return nil, apperr.BadRequest("Video file is required")
	}
	if thumbPath == "" {
		return nil, apperr.BadRequest("Thumbnail is required")
	}

	duration, err := s.media.Probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	v.Duration = duration

	if v.VideoFile, err = s.media.Ingest(ctx, videoPath, storage.RoleVideo); err != nil {
		return nil, err
	}
	if v.Thumbnail, err = s.media.Ingest(ctx, thumbPath, storage.RoleThumbnail); err != nil {
		s.media.Discard(ctx, v.VideoFile)
		return nil, err
	}

	if err := model.Validate(v); err != nil {
		s.media.Discard(ctx, v.VideoFile, v.Thumbnail)
		return nil, apperr.BadRequest("Invalid video details").Wrap(err)
	}
	if err := s.videos.Create(ctx, v); err != nil {
		s.media.Discard(ctx, v.VideoFile, v.Thumbnail)
		return nil, apperr.Internal(err)
	}
	return v, nil
}

// Update changes title, description and optionally the thumbnail.
func (s *VideoService) Update(ctx context.Context, ownerID, id uint, in VideoUpdate, thumbPath string) (*model.Video, error) {
	defer s.media.Remove(thumbPath)

	v, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		v.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		v.Description = strings.TrimSpace(*in.Description)
	}
	if in.Title == nil && in.Description == nil && thumbPath == "" {
		return nil, apperr.BadRequest("Nothing to update")
	}
	if err := model.Validate(v); err != nil {
		return nil, apperr.BadRequest("Title and description are required").Wrap(err)
	}

	oldThumb := ""
	if thumbPath != "" {
		url, err := s.media.Ingest(ctx, thumbPath, storage.RoleThumbnail)
		if err != nil {
			return nil, err
		}
		oldThumb, v.Thumbnail = v.Thumbnail, url
	}

	if err := s.videos.UpdateDetails(ctx, v); err != nil {
		if oldThumb != "" {
			s.media.Discard(ctx, v.Thumbnail)
		}
		return nil, apperr.Internal(err)
	}
	s.media.Discard(ctx, oldThumb)
	return v, nil
}

// Delete removes an owned video, everything that references it, and its assets.
func (s *VideoService) Delete(ctx context.Context, ownerID, id uint) error {
	v, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.videos.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Video not found")
		}
		return apperr.Internal(err)
	}
	s.media.Discard(ctx, v.VideoFile, v.Thumbnail)
	return nil
}

// TogglePublish flips the publish flag of an owned video.
func (s *VideoService) TogglePublish(ctx context.Context, ownerID, id uint) (*model.Video, error) {
	v, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	v.IsPublished = !v.IsPublished
	if err := s.videos.UpdateDetails(ctx, v); err != nil {
		return nil, apperr.Internal(err)
	}
	return v, nil
}

// RecordView counts a view and, for signed-in viewers, moves the video to
// the head of their watch history.
func (s *VideoService) RecordView(ctx context.Context, viewerID, id uint) (*model.Video, error) {
	v, err := s.visible(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if err := s.videos.IncrementViews(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Video not found")
		}
		return nil, apperr.Internal(err)
	}
	v.Views++

	if viewerID != 0 {
		if err := s.history.Upsert(ctx, viewerID, id, s.now()); err != nil {
			return nil, apperr.Internal(err)
		}
		if err := s.history.Trim(ctx, viewerID, s.historyLimit); err != nil {
			return nil, apperr.Internal(err)
		}
	}
	return v, nil
}

func (s *VideoService) visible(ctx context.Context, id, viewerID uint) (*model.Video, error) {
	v, err := s.videos.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Video not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !v.VisibleTo(viewerID) {
		return nil, apperr.NotFound("Video not found")
	}
	return v, nil
}

// owned loads a video owned by ownerID. Foreign videos look absent.
func (s *VideoService) owned(ctx context.Context, ownerID, id uint) (*model.Video, error) {
	v, err := s.videos.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Video not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if v.OwnerID != ownerID {
		return nil, apperr.NotFound("Video not found")
	}
	return v, nil
}

// nonNil turns a nil slice into an empty one so it encodes as [].
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
