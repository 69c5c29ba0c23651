// File: /feed/engine.go
// Package feed decides what a viewer is allowed to see and how posts
// are denormalized into viewer-specific response shapes. It is pure
// over the two stores it is given: visibility filtering, feed
// assembly, repost unwrapping and the reaction upsert decision all
// live here, while every row lives behind the store interfaces.
package feed

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"testbook-api/models"
)

// Mode selects the candidate set for a composed feed.
type Mode string

const (
	ModeAll       Mode = "all"
	ModeFollowing Mode = "following"
)

const (
	// DefaultLimit applies when the caller passes limit 0.
	DefaultLimit = 50
	// MaxLimit caps the page size regardless of what was requested.
	MaxLimit = 100
)

type Engine struct {
	relationships RelationshipStore
	posts         PostStore
}

func NewEngine(relationships RelationshipStore, posts PostStore) *Engine {
	return &Engine{
		relationships: relationships,
		posts:         posts,
	}
}

// BlockedSet returns the union of who the viewer blocks and who blocks
// the viewer. Visibility treats blocking as symmetric: either
// direction hides both parties from each other.
func (e *Engine) BlockedSet(viewerID string) (map[string]struct{}, error) {
	blocking, err := e.relationships.Blocking(viewerID)
	if err != nil {
		return nil, upstream("load blocking", err)
	}
	blockedBy, err := e.relationships.BlockedBy(viewerID)
	if err != nil {
		return nil, upstream("load blocked-by", err)
	}

	blocked := make(map[string]struct{}, len(blocking)+len(blockedBy))
	for _, id := range blocking {
		blocked[id] = struct{}{}
	}
	for _, id := range blockedBy {
		blocked[id] = struct{}{}
	}
	return blocked, nil
}

// BlockedBetween reports whether a block exists in either direction
// between the two users.
func (e *Engine) BlockedBetween(viewerID, otherID string) (bool, error) {
	blocked, err := e.BlockedSet(viewerID)
	if err != nil {
		return false, err
	}
	_, ok := blocked[otherID]
	return ok, nil
}

// FilterVisible removes posts authored by anyone in the blocked set.
// Order is preserved.
func FilterVisible(posts []models.Post, blocked map[string]struct{}) []models.Post {
	visible := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		if _, ok := blocked[post.AuthorID]; ok {
			continue
		}
		visible = append(visible, post)
	}
	return visible
}

// ComposeFeed produces the ordered, access-filtered, denormalized feed
// for the viewer. Steps: restrict candidates to the mode, drop blocked
// authors, stable-sort newest first, apply the [skip, skip+limit)
// window, then build a view per surviving post.
func (e *Engine) ComposeFeed(viewerID string, mode Mode, skip, limit int) ([]models.PostView, error) {
	if skip < 0 || limit < 0 {
		return nil, ErrInvalidArgument
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var authorIDs []string
	switch mode {
	case ModeAll:
		// nil means every author
	case ModeFollowing:
		following, err := e.relationships.Following(viewerID)
		if err != nil {
			return nil, upstream("load following", err)
		}
		if len(following) == 0 {
			return []models.PostView{}, nil
		}
		authorIDs = following
	default:
		return nil, ErrInvalidArgument
	}

	blocked, err := e.BlockedSet(viewerID)
	if err != nil {
		return nil, err
	}

	posts, err := e.posts.ListPosts(authorIDs)
	if err != nil {
		return nil, upstream("list posts", err)
	}

	posts = FilterVisible(posts, blocked)
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	if skip >= len(posts) {
		return []models.PostView{}, nil
	}
	end := skip + limit
	if end > len(posts) {
		end = len(posts)
	}
	posts = posts[skip:end]

	views := make([]models.PostView, 0, len(posts))
	for _, post := range posts {
		view, err := e.buildView(post, viewerID, blocked)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// BuildPostView denormalizes a single post for the viewer.
func (e *Engine) BuildPostView(post models.Post, viewerID string) (models.PostView, error) {
	blocked, err := e.BlockedSet(viewerID)
	if err != nil {
		return models.PostView{}, err
	}
	return e.buildView(post, viewerID, blocked)
}

// Views filters the given posts against the viewer's blocked set and
// maps the survivors through BuildPostView, preserving order. Used by
// surfaces that already picked their own candidate set, like a user's
// post listing.
func (e *Engine) Views(posts []models.Post, viewerID string) ([]models.PostView, error) {
	blocked, err := e.BlockedSet(viewerID)
	if err != nil {
		return nil, err
	}
	views := make([]models.PostView, 0, len(posts))
	for _, post := range FilterVisible(posts, blocked) {
		view, err := e.buildView(post, viewerID, blocked)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (e *Engine) buildView(post models.Post, viewerID string, blocked map[string]struct{}) (models.PostView, error) {
	view, err := e.baseView(post, viewerID)
	if err != nil {
		return models.PostView{}, err
	}

	if post.IsRepost && post.OriginalPostID != nil {
		original, err := e.posts.GetPost(*post.OriginalPostID)
		if err != nil {
			return models.PostView{}, upstream("load original post", err)
		}
		// A missing or blocked original degrades to null; the repost
		// row itself still renders.
		if original != nil {
			if _, hidden := blocked[original.AuthorID]; !hidden {
				nested, err := e.baseView(*original, viewerID)
				if err != nil {
					return models.PostView{}, err
				}
				// Nesting bottoms out at one level, even if the
				// original is itself a repost.
				nested.IsRepost = false
				nested.OriginalPostID = nil
				nested.OriginalPost = nil
				view.OriginalPost = &nested
			}
		}
	}

	return view, nil
}

// baseView computes the flat view of a post: counts, the viewer's own
// reaction and repost state, no original-post resolution.
func (e *Engine) baseView(post models.Post, viewerID string) (models.PostView, error) {
	commentsCount, err := e.posts.CountComments(post.ID)
	if err != nil {
		return models.PostView{}, upstream("count comments", err)
	}
	reactionsCount, err := e.posts.CountReactions(post.ID)
	if err != nil {
		return models.PostView{}, upstream("count reactions", err)
	}
	repostsCount, err := e.posts.CountReposts(post.ID)
	if err != nil {
		return models.PostView{}, upstream("count reposts", err)
	}

	var userReaction *string
	reaction, err := e.posts.FindReaction(post.ID, viewerID)
	if err != nil {
		return models.PostView{}, upstream("find reaction", err)
	}
	if reaction != nil {
		userReaction = &reaction.ReactionType
	}

	repost, err := e.posts.FindRepostBy(viewerID, post.ID)
	if err != nil {
		return models.PostView{}, upstream("find repost", err)
	}

	return models.PostView{
		ID:                   post.ID,
		Content:              post.Content,
		ImageURL:             post.ImageURL,
		VideoURL:             post.VideoURL,
		IsRepost:             post.IsRepost,
		OriginalPostID:       post.OriginalPostID,
		AuthorID:             post.AuthorID,
		AuthorUsername:       post.Author.Username,
		AuthorDisplayName:    post.Author.DisplayName,
		AuthorProfilePicture: post.Author.ProfilePicture,
		CreatedAt:            post.CreatedAt,
		CommentsCount:        commentsCount,
		ReactionsCount:       reactionsCount,
		RepostsCount:         repostsCount,
		UserReaction:         userReaction,
		HasReposted:          repost != nil,
	}, nil
}

// ToggleReaction records the viewer's reaction on a post. A second
// reaction from the same viewer overwrites the type of the existing
// row; removal is a separate operation. Returns the freshly recomputed
// view.
func (e *Engine) ToggleReaction(postID, viewerID, reactionType string) (models.PostView, error) {
	if !models.ValidReactionType(reactionType) {
		return models.PostView{}, ErrInvalidArgument
	}

	post, err := e.posts.GetPost(postID)
	if err != nil {
		return models.PostView{}, upstream("load post", err)
	}
	if post == nil {
		return models.PostView{}, ErrNotFound
	}

	if err := e.posts.UpsertReaction(postID, viewerID, reactionType); err != nil {
		return models.PostView{}, upstream("upsert reaction", err)
	}

	return e.BuildPostView(*post, viewerID)
}

// RemoveReaction deletes the viewer's reaction row entirely.
func (e *Engine) RemoveReaction(postID, viewerID string) (models.PostView, error) {
	post, err := e.posts.GetPost(postID)
	if err != nil {
		return models.PostView{}, upstream("load post", err)
	}
	if post == nil {
		return models.PostView{}, ErrNotFound
	}

	reaction, err := e.posts.FindReaction(postID, viewerID)
	if err != nil {
		return models.PostView{}, upstream("find reaction", err)
	}
	if reaction == nil {
		return models.PostView{}, ErrNotFound
	}

	if err := e.posts.DeleteReaction(postID, viewerID); err != nil {
		return models.PostView{}, upstream("delete reaction", err)
	}

	return e.BuildPostView(*post, viewerID)
}

// CreateRepost wraps an existing post by reference. One repost per
// (viewer, original); the check here is the friendly path, the store's
// unique index is the real guarantee, so a constraint violation from
// the insert is reported the same way as the check.
func (e *Engine) CreateRepost(originalID, viewerID, content string) (models.PostView, error) {
	original, err := e.posts.GetPost(originalID)
	if err != nil {
		return models.PostView{}, upstream("load original post", err)
	}
	if original == nil {
		return models.PostView{}, ErrNotFound
	}

	existing, err := e.posts.FindRepostBy(viewerID, originalID)
	if err != nil {
		return models.PostView{}, upstream("find repost", err)
	}
	if existing != nil {
		return models.PostView{}, ErrAlreadyExists
	}

	repost := models.Post{
		ID:             uuid.New().String(),
		AuthorID:       viewerID,
		Content:        content,
		IsRepost:       true,
		OriginalPostID: &originalID,
	}
	if err := e.posts.InsertPost(&repost); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return models.PostView{}, ErrAlreadyExists
		}
		return models.PostView{}, upstream("insert repost", err)
	}

	created, err := e.posts.GetPost(repost.ID)
	if err != nil {
		return models.PostView{}, upstream("load repost", err)
	}
	if created == nil {
		return models.PostView{}, ErrNotFound
	}
	return e.BuildPostView(*created, viewerID)
}

// RemoveRepost deletes the viewer's repost of the given original post.
func (e *Engine) RemoveRepost(originalID, viewerID string) error {
	repost, err := e.posts.FindRepostBy(viewerID, originalID)
	if err != nil {
		return upstream("find repost", err)
	}
	if repost == nil {
		return ErrNotFound
	}
	if err := e.posts.DeletePost(repost.ID); err != nil {
		return upstream("delete repost", err)
	}
	return nil
}
