package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"testbook-api/database"
	"testbook-api/feed"
	"testbook-api/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := database.Initialize(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		ID:             uuid.New().String(),
		Email:          username + "@testbook.com",
		Username:       username,
		DisplayName:    username,
		HashedPassword: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createPost(t *testing.T, db *gorm.DB, author models.User, content string, createdAt time.Time) models.Post {
	t.Helper()

	post := models.Post{
		ID:        uuid.New().String(),
		AuthorID:  author.ID,
		Content:   content,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func TestUpsertReactionKeepsOneRow(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	author := createUser(t, db, "author")
	viewer := createUser(t, db, "viewer")
	post := createPost(t, db, author, "hello", time.Now())

	require.NoError(t, repo.UpsertReaction(post.ID, viewer.ID, models.ReactionLove))
	require.NoError(t, repo.UpsertReaction(post.ID, viewer.ID, models.ReactionWow))

	var count int64
	require.NoError(t, db.Model(&models.Reaction{}).
		Where("post_id = ? AND user_id = ?", post.ID, viewer.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	reaction, err := repo.FindReaction(post.ID, viewer.ID)
	require.NoError(t, err)
	require.NotNil(t, reaction)
	assert.Equal(t, models.ReactionWow, reaction.ReactionType)
}

func TestInsertPostDuplicateRepostHitsConstraint(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	author := createUser(t, db, "author")
	reposter := createUser(t, db, "reposter")
	original := createPost(t, db, author, "original", time.Now())

	first := models.Post{
		ID:             uuid.New().String(),
		AuthorID:       reposter.ID,
		IsRepost:       true,
		OriginalPostID: &original.ID,
	}
	require.NoError(t, repo.InsertPost(&first))

	// Same (author, original) pair again, straight past any
	// application-level check: the unique index must reject it.
	second := models.Post{
		ID:             uuid.New().String(),
		AuthorID:       reposter.ID,
		IsRepost:       true,
		OriginalPostID: &original.ID,
	}
	err := repo.InsertPost(&second)
	assert.ErrorIs(t, err, feed.ErrAlreadyExists)

	count, err := repo.CountReposts(original.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNonRepostPostsDoNotCollide(t *testing.T) {
	db := setupDB(t)
	author := createUser(t, db, "author")

	// Several plain posts by one author all have a null original; the
	// repost uniqueness index must not reject them.
	createPost(t, db, author, "one", time.Now())
	createPost(t, db, author, "two", time.Now())
	createPost(t, db, author, "three", time.Now())

	var count int64
	require.NoError(t, db.Model(&models.Post{}).
		Where("author_id = ?", author.ID).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestGetPostMissingReturnsNil(t *testing.T) {
	repo := NewPostRepository(setupDB(t))

	post, err := repo.GetPost("does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestFindRepostBy(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	author := createUser(t, db, "author")
	reposter := createUser(t, db, "reposter")
	original := createPost(t, db, author, "original", time.Now())

	missing, err := repo.FindRepostBy(reposter.ID, original.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	repost := models.Post{
		ID:             uuid.New().String(),
		AuthorID:       reposter.ID,
		IsRepost:       true,
		OriginalPostID: &original.ID,
	}
	require.NoError(t, repo.InsertPost(&repost))

	found, err := repo.FindRepostBy(reposter.ID, original.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, repost.ID, found.ID)
}

func TestDeletePostRemovesCommentsAndReactions(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	author := createUser(t, db, "author")
	commenter := createUser(t, db, "commenter")
	post := createPost(t, db, author, "doomed", time.Now())

	comment := models.Comment{
		ID:       uuid.New().String(),
		PostID:   post.ID,
		AuthorID: commenter.ID,
		Content:  "nice",
	}
	require.NoError(t, db.Create(&comment).Error)
	require.NoError(t, repo.UpsertReaction(post.ID, commenter.ID, models.ReactionLike))

	require.NoError(t, repo.DeletePost(post.ID))

	gone, err := repo.GetPost(post.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	comments, err := repo.CountComments(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), comments)

	reactions, err := repo.CountReactions(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), reactions)
}

func TestListPostsAuthorFilter(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	createPost(t, db, alice, "from alice", time.Now().Add(-time.Hour))
	createPost(t, db, bob, "from bob", time.Now())

	all, err := repo.ListPosts(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// Authors come preloaded.
	assert.Equal(t, "bob", all[0].Author.Username)

	onlyAlice, err := repo.ListPosts([]string{alice.ID})
	require.NoError(t, err)
	require.Len(t, onlyAlice, 1)
	assert.Equal(t, "from alice", onlyAlice[0].Content)

	none, err := repo.ListPosts([]string{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRelationshipRepositoryEdges(t *testing.T) {
	db := setupDB(t)
	repo := NewRelationshipRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	require.NoError(t, db.Create(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: carol.ID, FollowingID: bob.ID}).Error)
	require.NoError(t, db.Create(&models.Block{BlockerID: alice.ID, BlockedID: carol.ID}).Error)

	following, err := repo.Following(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, following)

	followers, err := repo.Followers(bob.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{alice.ID, carol.ID}, followers)

	blocking, err := repo.Blocking(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{carol.ID}, blocking)

	blockedBy, err := repo.BlockedBy(carol.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, blockedBy)

	// The two directions are independent queries; nothing is derived.
	empty, err := repo.Blocking(carol.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
