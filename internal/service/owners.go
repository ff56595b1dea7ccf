package service

import (
	"context"
	"time"

	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/utils"
)

// OwnerDirectory resolves user ids to public summaries, caching recent ones.
type OwnerDirectory struct {
	users UserStore
	cache *utils.TTLCache[uint, *model.OwnerSummary]
}

func NewOwnerDirectory(users UserStore, size int, ttl time.Duration) *OwnerDirectory {
	return &OwnerDirectory{users: users, cache: utils.NewTTLCache[uint, *model.OwnerSummary](size, ttl)}
}

// Resolve returns summaries for ids. Unknown ids are absent from the map.
func (d *OwnerDirectory) Resolve(ctx context.Context, ids ...uint) (map[uint]*model.OwnerSummary, error) {
	out := make(map[uint]*model.OwnerSummary, len(ids))
	var missing []uint
	for _, id := range ids {
		if _, seen := out[id]; seen {
			continue
		}
		if s, ok := d.cache.Get(id); ok {
			out[id] = s
			continue
		}
		out[id] = nil
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		users, err := d.users.FindByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			s := u.Summary()
			d.cache.Set(u.ID, s)
			out[u.ID] = s
		}
	}

	for id, s := range out {
		if s == nil {
			delete(out, id)
		}
	}
	return out, nil
}

// Invalidate drops a cached summary after a profile change.
func (d *OwnerDirectory) Invalidate(id uint) {
	d.cache.Delete(id)
}

func (d *OwnerDirectory) attachVideos(ctx context.Context, videos []*model.Video) error {
	ids := make([]uint, len(videos))
	for i, v := range videos {
		ids[i] = v.OwnerID
	}
	owners, err := d.Resolve(ctx, ids...)
	if err != nil {
		return err
	}
	for _, v := range videos {
		v.Owner = owners[v.OwnerID]
	}
	return nil
}

func (d *OwnerDirectory) attachComments(ctx context.Context, comments []*model.Comment) error {
	ids := make([]uint, len(comments))
	for i, c := range comments {
		ids[i] = c.OwnerID
	}
	owners, err := d.Resolve(ctx, ids...)
	if err != nil {
		return err
	}
	for _, c := range comments {
		c.Owner = owners[c.OwnerID]
	}
	return nil
}

func (d *OwnerDirectory) attachTweets(ctx context.Context, tweets []*model.Tweet) error {
	ids := make([]uint, len(tweets))
	for i, t := range tweets {
		ids[i] = t.OwnerID
	}
	owners, err := d.Resolve(ctx, ids...)
	if err != nil {
		return err
	}
	for _, t := range tweets {
		t.Owner = owners[t.OwnerID]
	}
	return nil
}

// summaries resolves ids in order, skipping unknown users.
func (d *OwnerDirectory) summaries(ctx context.Context, ids []uint) ([]*model.OwnerSummary, error) {
	owners, err := d.Resolve(ctx, ids...)
	if err != nil {
		return nil, err
	}
	out := make([]*model.OwnerSummary, 0, len(ids))
	for _, id := range ids {
		if s, ok := owners[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}
