package service

import (
	"context"
	"errors"

	"github.com/user/vidtube/internal/apperr"
	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/repository"
)

// LikeStatus is what a viewer sees next to a like button.
type LikeStatus struct {
	IsLiked   bool  `json:"isLiked"`
	LikeCount int64 `json:"likeCount"`
}

type LikeService struct {
	likes    LikeStore
	videos   VideoStore
	comments CommentStore
	tweets   TweetStore
	owners   *OwnerDirectory
}

func NewLikeService(likes LikeStore, videos VideoStore, comments CommentStore, tweets TweetStore, owners *OwnerDirectory) *LikeService {
	return &LikeService{likes: likes, videos: videos, comments: comments, tweets: tweets, owners: owners}
}

// Toggle likes the target if the user has not, and unlikes it otherwise.
// It reports the resulting state.
func (s *LikeService) Toggle(ctx context.Context, userID uint, tt model.TargetType, targetID uint) (bool, error) {
	if err := s.requireTarget(ctx, userID, tt, targetID); err != nil {
		return false, err
	}

	existing, err := s.likes.Find(ctx, userID, tt, targetID)
	switch {
	case err == nil:
		if err := s.likes.Delete(ctx, existing.ID); err != nil {
			return false, apperr.Internal(err)
		}
		return false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return false, apperr.Internal(err)
	}

	like := &model.Like{LikedBy: userID, TargetType: tt, TargetID: targetID}
	if err := model.Validate(like); err != nil {
		return false, apperr.BadRequest("Invalid like target").Wrap(err)
	}
	if err := s.likes.Create(ctx, like); err != nil {
		// A concurrent toggle already created it.
		if errors.Is(err, repository.ErrConflict) {
			return true, nil
		}
		return false, apperr.Internal(err)
	}
	return true, nil
}

// Status reports whether viewerID likes the target and its total likes.
func (s *LikeService) Status(ctx context.Context, viewerID uint, tt model.TargetType, targetID uint) (*LikeStatus, error) {
	if err := s.requireTarget(ctx, viewerID, tt, targetID); err != nil {
		return nil, err
	}

	count, err := s.likes.CountForTarget(ctx, tt, targetID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	status := &LikeStatus{LikeCount: count}
	if viewerID == 0 {
		return status, nil
	}

	_, err = s.likes.Find(ctx, viewerID, tt, targetID)
	switch {
	case err == nil:
		status.IsLiked = true
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperr.Internal(err)
	}
	return status, nil
}

// LikedVideos lists the videos userID likes, most recent like first.
func (s *LikeService) LikedVideos(ctx context.Context, userID uint) ([]*model.Video, error) {
	ids, err := s.likes.LikedVideoIDs(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	videos, err := s.videos.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	byID := make(map[uint]*model.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	ordered := make([]*model.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok && v.VisibleTo(userID) {
			ordered = append(ordered, v)
		}
	}
	if err := s.owners.attachVideos(ctx, ordered); err != nil {
		return nil, apperr.Internal(err)
	}
	return ordered, nil
}

func (s *LikeService) requireTarget(ctx context.Context, viewerID uint, tt model.TargetType, targetID uint) error {
	var err error
	switch tt {
	case model.TargetVideo:
		var v *model.Video
		v, err = s.videos.FindByID(ctx, targetID)
		if err == nil && !v.VisibleTo(viewerID) {
			err = repository.ErrNotFound
		}
	case model.TargetComment:
		_, err = s.comments.FindByID(ctx, targetID)
	case model.TargetTweet:
		_, err = s.tweets.FindByID(ctx, targetID)
	default:
		return apperr.BadRequest("Invalid content type")
	}

	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("%s not found", targetLabel(tt))
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func targetLabel(tt model.TargetType) string {
	switch tt {
	case model.TargetComment:
		return "Comment"
	case model.TargetTweet:
		return "Tweet"
	default:
		return "Video"
	}
}
