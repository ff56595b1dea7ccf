package service

import (
	"context"
	"errors"
	"strings"

	"github.com/user/vidtube/internal/apperr"
	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/repository"
)

// PlaylistInput carries playlist details.
type PlaylistInput struct {
	Name        string
	Description string
}

type PlaylistService struct {
	playlists PlaylistStore
	videos    VideoStore
	owners    *OwnerDirectory
}

func NewPlaylistService(playlists PlaylistStore, videos VideoStore, owners *OwnerDirectory) *PlaylistService {
	return &PlaylistService{playlists: playlists, videos: videos, owners: owners}
}

// Create makes an empty playlist. Names are unique per owner.
func (s *PlaylistService) Create(ctx context.Context, ownerID uint, in PlaylistInput) (*model.Playlist, error) {
	p := &model.Playlist{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		VideoIDs:    []int64{},
	}
	if p.Name == "" || p.Description == "" {
		return nil, apperr.BadRequest("Name and description are required")
	}
	if err := model.Validate(p); err != nil {
		return nil, apperr.BadRequest("Invalid playlist").Wrap(err)
	}

	taken, err := s.playlists.NameTaken(ctx, ownerID, p.Name, 0)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.Conflict("Playlist with this name already exists")
	}

	if err := s.playlists.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperr.Conflict("Playlist with this name already exists")
		}
		return nil, apperr.Internal(err)
	}
	return p, nil
}

// ListByUser returns a user's playlists without their videos.
func (s *PlaylistService) ListByUser(ctx context.Context, userID uint) ([]*model.Playlist, error) {
	playlists, err := s.playlists.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return nonNil(playlists), nil
}

// Get returns a playlist with its visible videos in stored order.
func (s *PlaylistService) Get(ctx context.Context, id, viewerID uint) (*model.Playlist, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(p.VideoIDs))
	for i, v := range p.VideoIDs {
		ids[i] = uint(v)
	}
	videos, err := s.videos.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	byID := make(map[uint]*model.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	p.Videos = make([]*model.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok && v.VisibleTo(viewerID) {
			p.Videos = append(p.Videos, v)
		}
	}
	if err := s.owners.attachVideos(ctx, p.Videos); err != nil {
		return nil, apperr.Internal(err)
	}

	owners, err := s.owners.Resolve(ctx, p.OwnerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	p.Owner = owners[p.OwnerID]
	return p, nil
}

// Update renames or redescribes an owned playlist.
func (s *PlaylistService) Update(ctx context.Context, ownerID, id uint, in PlaylistInput) (*model.Playlist, error) {
	p, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		p.Name = name
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		p.Description = desc
	}
	if err := model.Validate(p); err != nil {
		return nil, apperr.BadRequest("Invalid playlist").Wrap(err)
	}

	taken, err := s.playlists.NameTaken(ctx, ownerID, p.Name, p.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.Conflict("Playlist with this name already exists")
	}
	if err := s.playlists.UpdateDetails(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperr.Conflict("Playlist with this name already exists")
		}
		return nil, apperr.Internal(err)
	}
	return p, nil
}

// Delete removes an owned playlist.
func (s *PlaylistService) Delete(ctx context.Context, ownerID, id uint) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.playlists.Delete(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// AddVideo appends a video. Adding a video already present changes nothing;
// the second result reports whether the playlist changed.
func (s *PlaylistService) AddVideo(ctx context.Context, ownerID, id, videoID uint) (*model.Playlist, bool, error) {
	p, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, false, err
	}
	ok, err := s.videos.Exists(ctx, videoID)
	if err != nil {
		return nil, false, apperr.Internal(err)
	}
	if !ok {
		return nil, false, apperr.NotFound("Video not found")
	}
	if p.Contains(videoID) {
		return p, false, nil
	}

	changed, err := s.playlists.AddVideo(ctx, id, videoID)
	if err != nil {
		return nil, false, apperr.Internal(err)
	}
	if changed {
		p.VideoIDs = append(p.VideoIDs, int64(videoID))
	}
	return p, changed, nil
}

// RemoveVideo drops a video. Removing an absent video changes nothing.
func (s *PlaylistService) RemoveVideo(ctx context.Context, ownerID, id, videoID uint) (*model.Playlist, bool, error) {
	p, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, false, err
	}
	if !p.Contains(videoID) {
		return p, false, nil
	}

	changed, err := s.playlists.RemoveVideo(ctx, id, videoID)
	if err != nil {
		return nil, false, apperr.Internal(err)
	}
	if changed {
		kept := p.VideoIDs[:0]
		for _, v := range p.VideoIDs {
			if v != int64(videoID) {
				kept = append(kept, v)
			}
		}
		p.VideoIDs = kept
	}
	return p, changed, nil
}

func (s *PlaylistService) find(ctx context.Context, id uint) (*model.Playlist, error) {
	p, err := s.playlists.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Playlist not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return p, nil
}

func (s *PlaylistService) owned(ctx context.Context, ownerID, id uint) (*model.Playlist, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, apperr.NotFound("Playlist not found")
	}
	return p, nil
}
