// Package servicetest provides in-memory stores for exercising services and
// handlers without a database.
package servicetest

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/repository"
	"github.com/user/vidtube/internal/service"
)

// DB is a shared in-memory dataset behind every store.
type DB struct {
	mu     sync.Mutex
	nextID uint
	clock  time.Time

	Users         map[uint]*model.User
	Videos        map[uint]*model.Video
	Subscriptions map[uint]*model.Subscription
	Likes         map[uint]*model.Like
	Comments      map[uint]*model.Comment
	Tweets        map[uint]*model.Tweet
	Playlists     map[uint]*model.Playlist
	History       map[uint]*model.WatchEntry
}

func NewDB() *DB {
	return &DB{
		clock:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Users:         map[uint]*model.User{},
		Videos:        map[uint]*model.Video{},
		Subscriptions: map[uint]*model.Subscription{},
		Likes:         map[uint]*model.Like{},
		Comments:      map[uint]*model.Comment{},
		Tweets:        map[uint]*model.Tweet{},
		Playlists:     map[uint]*model.Playlist{},
		History:       map[uint]*model.WatchEntry{},
	}
}

// Stores exposes the dataset through the service store interfaces.
func (db *DB) Stores() service.Stores {
	return service.Stores{
		Users:         userStore{db},
		Videos:        videoStore{db},
		Subscriptions: subscriptionStore{db},
		Likes:         likeStore{db},
		Comments:      commentStore{db},
		Tweets:        tweetStore{db},
		Playlists:     playlistStore{db},
		History:       historyStore{db},
	}
}

// tick returns a strictly increasing timestamp so ordering is deterministic.
func (db *DB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *DB) id() uint {
	db.nextID++
	return db.nextID
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

func page[T any](items []T, p repository.Page) []T {
	if p.Offset >= len(items) {
		return []T{}
	}
	items = items[p.Offset:]
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}

type userStore struct{ db *DB }

func (s userStore) Create(_ context.Context, u *model.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, other := range s.db.Users {
		if other.Username == u.Username || other.Email == u.Email {
			return repository.ErrConflict
		}
	}
	u.ID = s.db.id()
	u.CreatedAt = s.db.tick()
	u.UpdatedAt = u.CreatedAt
	s.db.Users[u.ID] = clone(u)
	return nil
}

func (s userStore) FindByID(_ context.Context, id uint) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if u, ok := s.db.Users[id]; ok {
		return clone(u), nil
	}
	return nil, repository.ErrNotFound
}

func (s userStore) FindByUsername(_ context.Context, username string) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.Users {
		if u.Username == username {
			return clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s userStore) FindByLogin(_ context.Context, email, username string) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if email != "" {
		for _, u := range s.db.Users {
			if u.Email == email {
				return clone(u), nil
			}
		}
	}
	if username != "" {
		for _, u := range s.db.Users {
			if u.Username == username {
				return clone(u), nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (s userStore) FindByIDs(_ context.Context, ids []uint) ([]*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*model.User
	for _, id := range ids {
		if u, ok := s.db.Users[id]; ok {
			out = append(out, clone(u))
		}
	}
	return out, nil
}

func (s userStore) Taken(_ context.Context, username, email string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.Users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s userStore) EmailTakenByOther(_ context.Context, id uint, email string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.Users {
		if u.ID != id && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s userStore) update(id uint, fn func(*model.User)) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.Users[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(u)
	return nil
}

func (s userStore) SetRefreshToken(_ context.Context, id uint, token string) error {
	return s.update(id, func(u *model.User) { u.RefreshToken = token })
}

func (s userStore) UpdatePassword(_ context.Context, id uint, hash string) error {
	return s.update(id, func(u *model.User) { u.PasswordHash = hash })
}

func (s userStore) UpdateAvatar(_ context.Context, id uint, url string) error {
	return s.update(id, func(u *model.User) { u.Avatar = url })
}

func (s userStore) UpdateCoverImage(_ context.Context, id uint, url string) error {
	return s.update(id, func(u *model.User) { u.CoverImage = url })
}

func (s userStore) UpdateAccount(_ context.Context, id uint, fullName, email string) error {
	return s.update(id, func(u *model.User) { u.FullName, u.Email = fullName, email })
}

type videoStore struct{ db *DB }

func (s videoStore) Create(_ context.Context, v *model.Video) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	v.ID = s.db.id()
	v.CreatedAt = s.db.tick()
	v.UpdatedAt = v.CreatedAt
	s.db.Videos[v.ID] = clone(v)
	return nil
}

func (s videoStore) FindByID(_ context.Context, id uint) (*model.Video, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if v, ok := s.db.Videos[id]; ok {
		return clone(v), nil
	}
	return nil, repository.ErrNotFound
}

func (s videoStore) FindByIDs(_ context.Context, ids []uint) ([]*model.Video, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*model.Video
	for _, id := range ids {
		if v, ok := s.db.Videos[id]; ok {
			out = append(out, clone(v))
		}
	}
	return out, nil
}

func (s videoStore) Exists(_ context.Context, id uint) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	_, ok := s.db.Videos[id]
	return ok, nil
}

func (s videoStore) UpdateDetails(_ context.Context, v *model.Video) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	stored, ok := s.db.Videos[v.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title, stored.Description, stored.Thumbnail, stored.IsPublished = v.Title, v.Description, v.Thumbnail, v.IsPublished
	return nil
}

func (s videoStore) IncrementViews(_ context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	v, ok := s.db.Videos[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.Views++
	return nil
}

func (s videoStore) List(_ context.Context, f repository.VideoFilter) ([]*model.Video, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*model.Video
	for _, v := range s.db.Videos {
		if !v.VisibleTo(f.ViewerID) {
			continue
		}
		if f.OwnerID != 0 && v.OwnerID != f.OwnerID {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(v.Title), strings.ToLower(f.Query)) {
			continue
		}
		out = append(out, clone(v))
	}
	slices.SortFunc(out, func(a, b *model.Video) int {
		var c int
		switch f.SortBy {
		case "views":
			c = cmp.Compare(a.Views, b.Views)
		case "duration":
			c = cmp.Compare(a.Duration, b.Duration)
		case "title":
			c = cmp.Compare(a.Title, b.Title)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if f.Desc {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(b.ID, a.ID)
		}
		return c
	})
	return page(out, f.Page), int64(len(out)), nil
}

func (s videoStore) ListByOwner(_ context.Context, ownerID uint) ([]*model.Video, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*model.Video
	for _, v := range s.db.Videos {
		if v.OwnerID == ownerID {
			out = append(out, clone(v))
		}
	}
	slices.SortFunc(out, func(a, b *model.Video) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (s videoStore) CountByOwner(_ context.Context, ownerID uint) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for _, v := range s.db.Videos {
		if v.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (s videoStore) SumViewsByOwner(_ context.Context, ownerID uint) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for _, v := range s.db.Videos {
		if v.OwnerID == ownerID {
			n += v.Views
		}
	}
	return n, nil
}

func (s videoStore) Delete(_ context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.Videos[id]; !ok {
		return repository.ErrNotFound
	}
	for cid, c := range s.db.Comments {
		if c.VideoID == id {
			s.db.deleteLikesLocked(model.TargetComment, cid)
			delete(s.db.Comments, cid)
		}
	}
	s.db.deleteLikesLocked(model.TargetVideo, id)
	for hid, h := range s.db.History {
		if h.VideoID == id {
			delete(s.db.History, hid)
		}
	}
	for _, p := range s.db.Playlists {
		p.VideoIDs = slices.DeleteFunc(p.VideoIDs, func(v int64) bool { return v == int64(id) })
	}
	delete(s.db.Videos, id)
	return nil
}

func (db *DB) deleteLikesLocked(tt model.TargetType, id uint) {
	for lid, l := range db.Likes {
		if l.TargetType == tt && l.TargetID == id {
			delete(db.Likes, lid)
		}
	}
}

type subscriptionStore struct{ db *DB }

func (s subscriptionStore) Find(_ context.Context, subscriberID, channelID uint) (*model.Subscription, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, sub := range s.db.Subscriptions {
		if sub.SubscriberID == subscriberID && sub.ChannelID == channelID {
			return clone(sub), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s subscriptionStore) Create(_ context.Context, sub *model.Subscription) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, other := range s.db.Subscriptions {
		if other.SubscriberID == sub.SubscriberID && other.ChannelID == sub.ChannelID {
			return repository.ErrConflict
		}
	}
	sub.ID = s.db.id()
	sub.CreatedAt = s.db.tick()
	s.db.Subscriptions[sub.ID] = clone(sub)
	return nil
}

func (s subscriptionStore) Delete(_ context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	delete(s.db.Subscriptions, id)
	return nil
}

func (s subscriptionStore) CountSubscribers(_ context.Context, channelID uint) (int64, error) {
	ids, _ := s.SubscriberIDs(context.Background(), channelID)
	return int64(len(ids)), nil
}

func (s subscriptionStore) CountSubscribedTo(_ context.Context, subscriberID uint) (int64, error) {
	ids, _ := s.ChannelIDs(context.Background(), subscriberID)
	return int64(len(ids)), nil
}

func (s subscriptionStore) SubscriberIDs(_ context.Context, channelID uint) ([]uint, error) {
	return s.collect(func(sub *model.Subscription) (uint, bool) { return sub.SubscriberID, sub.ChannelID == channelID }), nil
}

func (s subscriptionStore) ChannelIDs(_ context.Context, subscriberID uint) ([]uint, error) {
	return s.collect(func(sub *model.Subscription) (uint, bool) { return sub.ChannelID, sub.SubscriberID == subscriberID }), nil
}

func (s subscriptionStore) collect(pick func(*model.Subscription) (uint, bool)) []uint {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var subs []*model.Subscription
	for _, sub := range s.db.Subscriptions {
		subs = append(subs, sub)
	}
	slices.SortFunc(subs, func(a, b *model.Subscription) int { return b.CreatedAt.Compare(a.CreatedAt) })
	ids := []uint{}
	for _, sub := range subs {
		if id, ok := pick(sub); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

type likeStore struct{ db *DB }

func (s likeStore) Find(_ context.Context, userID uint, tt model.TargetType, targetID uint) (*model.Like, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, l := range s.db.Likes {
		if l.LikedBy == userID && l.TargetType == tt && l.TargetID == targetID {
			return clone(l), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s likeStore) Create(_ context.Context, l *model.Like) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, other := range s.db.Likes {
		if other.LikedBy == l.LikedBy && other.TargetType == l.TargetType && other.TargetID == l.TargetID {
			return repository.ErrConflict
		}
	}
	l.ID = s.db.id()
	l.CreatedAt = s.db.tick()
	s.db.Likes[l.ID] = clone(l)
	return nil
}

func (s likeStore) Delete(_ context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	delete(s.db.Likes, id)
	return nil
}

func (s likeStore) CountForTarget(_ context.Context, tt model.TargetType, targetID uint) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for _, l := range s.db.Likes {
		if l.TargetType == tt && l.TargetID == targetID {
			n++
		}
	}
	return n, nil
}

func (s likeStore) CountOnOwnerVideos(_ context.Context, ownerID uint) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for _, l := range s.db.Likes {
		if l.TargetType != model.TargetVideo {
			continue
		}
		if v, ok := s.db.Videos[l.TargetID]; ok && v.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (s likeStore) LikedVideoIDs(_ context.Context, userID uint) ([]uint, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var likes []*model.Like
	for _, l := range s.db.Likes {
		if l.LikedBy == userID && l.TargetType == model.TargetVideo {
			likes = append(likes, l)
		}
	}
	slices.SortFunc(likes, func(a, b *model.Like) int { return b.CreatedAt.Compare(a.CreatedAt) })
	ids := make([]uint, len(likes))
	for i, l := range likes {
		ids[i] = l.TargetID
	}
	return ids, nil
}

type commentStore struct{ db *DB }

func (s commentStore) Create(_ context.Context, c *model.Comment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c.ID = s.db.id()
	c.CreatedAt = s.db.tick()
	c.UpdatedAt = c.CreatedAt
	s.db.Comments[c.ID] = clone(c)
	return nil
}

func (s commentStore) FindByID(_ context.Context, id uint) (*model.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if c, ok := s.db.Comments[id]; ok {
		return clone(c), nil
	}
	return nil, repository.ErrNotFound
}

func (s commentStore) UpdateContent(_ context.Context, c *model.Comment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	stored, ok := s.db.Comments[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Content = c.Content
	return nil
}

func (s commentStore) Delete(_ context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.deleteLikesLocked(model.TargetComment, id)
	delete(s.db.Comments, id)
	return nil
}

func (s commentStore) ListByVideo(_ context.Context, videoID uint, p repository.Page) ([]*model.Comment, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*model.Comment
	for _, c := range s.db.Comments {
		if c.VideoID == videoID {
			out = append(out, clone(c))
		}
	}
	slices.SortFunc(out, func(a, b *model.Comment) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return page(out, p), int64(len(out)), nil
}

type tweetStore struct{ db *DB }

func (s tweetStore) Create(_ context.Context, t *model.Tweet) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	t.ID = s.db.id()
	t.CreatedAt = s.db.tick()
	t.UpdatedAt = t.CreatedAt
	s.db.Tweets[t.ID] = clone(t)
	return nil
}

func (s tweetStore) FindByID(_ context.Context, id uint) (*model.Tweet, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if t, ok := s.db.Tweets[id]; ok {
		return clone(t), nil
	}
	return nil, repository.ErrNotFound
}

func (s tweetStore) UpdateContent(_ context.Context, t *model.Tweet) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	stored, ok := s.db.Tweets[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Content = t.Content
	return nil
}

func (s tweetStore) Delete(_ context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.deleteLikesLocked(model.TargetTweet, id)
	delete(s.db.Tweets, id)
	return nil
}

func (s tweetStore) List(_ context.Context, f repository.TweetFilter) ([]*model.Tweet, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*model.Tweet
	for _, t := range s.db.Tweets {
		if f.OwnerID != 0 && t.OwnerID != f.OwnerID {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(t.Content), strings.ToLower(f.Query)) {
			continue
		}
		out = append(out, clone(t))
	}
	slices.SortFunc(out, func(a, b *model.Tweet) int {
		if f.Asc {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return page(out, f.Page), int64(len(out)), nil
}

type playlistStore struct{ db *DB }

func (s playlistStore) Create(_ context.Context, p *model.Playlist) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, other := range s.db.Playlists {
		if other.OwnerID == p.OwnerID && other.Name == p.Name {
			return repository.ErrConflict
		}
	}
	p.ID = s.db.id()
	p.CreatedAt = s.db.tick()
	p.UpdatedAt = p.CreatedAt
	stored := clone(p)
	stored.VideoIDs = slices.Clone(p.VideoIDs)
	s.db.Playlists[p.ID] = stored
	return nil
}

func (s playlistStore) FindByID(_ context.Context, id uint) (*model.Playlist, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if p, ok := s.db.Playlists[id]; ok {
		c := clone(p)
		c.VideoIDs = slices.Clone(p.VideoIDs)
		return c, nil
	}
	return nil, repository.ErrNotFound
}

func (s playlistStore) NameTaken(_ context.Context, ownerID uint, name string, exceptID uint) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, p := range s.db.Playlists {
		if p.OwnerID == ownerID && p.Name == name && p.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (s playlistStore) UpdateDetails(_ context.Context, p *model.Playlist) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	stored, ok := s.db.Playlists[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name, stored.Description = p.Name, p.Description
	return nil
}

func (s playlistStore) Delete(_ context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	delete(s.db.Playlists, id)
	return nil
}

func (s playlistStore) ListByOwner(_ context.Context, ownerID uint) ([]*model.Playlist, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*model.Playlist
	for _, p := range s.db.Playlists {
		if p.OwnerID == ownerID {
			out = append(out, clone(p))
		}
	}
	slices.SortFunc(out, func(a, b *model.Playlist) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (s playlistStore) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	list, _ := s.ListByOwner(ctx, ownerID)
	return int64(len(list)), nil
}

func (s playlistStore) AddVideo(_ context.Context, id, videoID uint) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.Playlists[id]
	if !ok || p.Contains(videoID) {
		return false, nil
	}
	p.VideoIDs = append(p.VideoIDs, int64(videoID))
	return true, nil
}

func (s playlistStore) RemoveVideo(_ context.Context, id, videoID uint) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.Playlists[id]
	if !ok || !p.Contains(videoID) {
		return false, nil
	}
	p.VideoIDs = slices.DeleteFunc(p.VideoIDs, func(v int64) bool { return v == int64(videoID) })
	return true, nil
}

type historyStore struct{ db *DB }

func (s historyStore) Upsert(_ context.Context, userID, videoID uint, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	// Monotonic stamps keep ordering stable when callers pass equal times.
	at = s.db.tick()
	for _, h := range s.db.History {
		if h.UserID == userID && h.VideoID == videoID {
			h.WatchedAt = at
			return nil
		}
	}
	e := &model.WatchEntry{ID: s.db.id(), UserID: userID, VideoID: videoID, WatchedAt: at}
	s.db.History[e.ID] = e
	return nil
}

func (s historyStore) entriesLocked(userID uint) []*model.WatchEntry {
	var out []*model.WatchEntry
	for _, h := range s.db.History {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	slices.SortFunc(out, func(a, b *model.WatchEntry) int { return b.WatchedAt.Compare(a.WatchedAt) })
	return out
}

func (s historyStore) Trim(_ context.Context, userID uint, keep int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	entries := s.entriesLocked(userID)
	if len(entries) <= keep {
		return nil
	}
	for _, e := range entries[keep:] {
		delete(s.db.History, e.ID)
	}
	return nil
}

func (s historyStore) ListByUser(_ context.Context, userID uint, limit int) ([]*model.WatchEntry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	entries := s.entriesLocked(userID)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]*model.WatchEntry, len(entries))
	for i, e := range entries {
		out[i] = clone(e)
	}
	return out, nil
}

func (s historyStore) Delete(_ context.Context, userID, videoID uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for id, h := range s.db.History {
		if h.UserID == userID && h.VideoID == videoID {
			delete(s.db.History, id)
			return nil
		}
	}
	return repository.ErrNotFound
}
