package services

import (
	"sort"
	"testing"
	"time"

	"github.com/JeBooking/UCBE/internal/models"
	"github.com/JeBooking/UCBE/pkg/urlnorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeStore backs all three repository interfaces with in-memory maps so
// the service can be exercised without a database.
type fakeStore struct {
	comments map[string]models.Comment
	likes    map[string]models.Like // keyed by commentID|deviceID
	users    map[string]models.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		comments: map[string]models.Comment{},
		likes:    map[string]models.Like{},
		users:    map[string]models.User{},
	}
}

func likeKey(commentID, deviceID string) string { return commentID + "|" + deviceID }

func (f *fakeStore) CreateComment(c *models.Comment) error {
	f.comments[c.ID] = *c
	return nil
}

func (f *fakeStore) GetCommentByID(id string) (*models.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (f *fakeStore) GetMainCommentsByURL(url string) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range f.comments {
		if c.URL == url && c.ParentID == nil {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) GetRepliesByURL(url string) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range f.comments {
		if c.URL == url && c.ParentID != nil {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) GetReplyIDs(parentID string) ([]string, error) {
	var ids []string
	for _, c := range f.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (f *fakeStore) DeleteComment(id string) error {
	delete(f.comments, id)
	return nil
}

func (f *fakeStore) DeleteReplies(parentID string) error {
	for id, c := range f.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			delete(f.comments, id)
		}
	}
	return nil
}

func (f *fakeStore) CreateLike(l *models.Like) error {
	f.likes[likeKey(l.CommentID, l.DeviceID)] = *l
	return nil
}

func (f *fakeStore) DeleteLike(commentID, deviceID string) error {
	delete(f.likes, likeKey(commentID, deviceID))
	return nil
}

func (f *fakeStore) HasDeviceLikedComment(commentID, deviceID string) (bool, error) {
	_, ok := f.likes[likeKey(commentID, deviceID)]
	return ok, nil
}

func (f *fakeStore) CountLikesByCommentIDs(commentIDs []string) (map[string]int64, error) {
	counts := map[string]int64{}
	wanted := map[string]bool{}
	for _, id := range commentIDs {
		wanted[id] = true
	}
	for _, l := range f.likes {
		if wanted[l.CommentID] {
			counts[l.CommentID]++
		}
	}
	return counts, nil
}

func (f *fakeStore) LikedCommentIDs(deviceID string, commentIDs []string) ([]string, error) {
	var ids []string
	for _, id := range commentIDs {
		if _, ok := f.likes[likeKey(id, deviceID)]; ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeStore) DeleteLikesByCommentIDs(commentIDs []string) error {
	for _, id := range commentIDs {
		for key, l := range f.likes {
			if l.CommentID == id {
				delete(f.likes, key)
			}
		}
	}
	return nil
}

func (f *fakeStore) CreateUser(u *models.User) error {
	f.users[u.DeviceID] = *u
	return nil
}

func (f *fakeStore) GetUserByDeviceID(deviceID string) (*models.User, error) {
	u, ok := f.users[deviceID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (f *fakeStore) UpdateUsername(deviceID, username string) error {
	u := f.users[deviceID]
	u.CurrentUsername = username
	f.users[deviceID] = u
	return nil
}

func newServiceWithStore(t *testing.T) (CommentService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return NewCommentService(store, store, store), store
}

const pageURL = "https://example.com/articles/42"

func createComment(t *testing.T, s CommentService, content, name, device string, parentID *string) *models.CommentView {
	t.Helper()
	view, err := s.CreateComment(&models.CreateCommentRequest{
		URL:         pageURL,
		Content:     content,
		DisplayName: name,
		DeviceID:    device,
		ParentID:    parentID,
	})
	require.NoError(t, err)
	// Keep created_at strictly increasing so ordering assertions are
	// deterministic even when the test runs within one nanosecond tick.
	time.Sleep(time.Millisecond)
	return view
}

func TestCreateComment_RoundTrip(t *testing.T) {
	s, store := newServiceWithStore(t)

	created := createComment(t, s, "hello world", "alice", "device-x", nil)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, pageURL, created.URL)
	assert.EqualValues(t, 0, created.LikesCount)
	assert.False(t, created.IsLiked)

	listed, err := s.ListThreaded(pageURL, "device-x")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.EqualValues(t, 0, listed[0].LikesCount)
	assert.False(t, listed[0].IsLiked)

	// First write created the user row.
	assert.Equal(t, "alice", store.users["device-x"].CurrentUsername)
}

func TestCreateComment_UpdatesUsername(t *testing.T) {
	s, store := newServiceWithStore(t)

	createComment(t, s, "first", "alice", "device-x", nil)
	createComment(t, s, "second", "alicia", "device-x", nil)

	assert.Equal(t, "alicia", store.users["device-x"].CurrentUsername)
	assert.Len(t, store.users, 1)
}

func TestCreateComment_NormalizesURL(t *testing.T) {
	s, _ := newServiceWithStore(t)

	view, err := s.CreateComment(&models.CreateCommentRequest{
		URL:         pageURL + "?utm_source=mail#top",
		Content:     "hi",
		DisplayName: "alice",
		DeviceID:    "device-x",
	})
	require.NoError(t, err)
	assert.Equal(t, pageURL, view.URL)

	// A read under a differently-decorated URL still finds it.
	listed, err := s.ListThreaded(pageURL+"#comments", "device-x")
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestCreateComment_ParentUnderDifferentURL(t *testing.T) {
	s, _ := newServiceWithStore(t)

	parent := createComment(t, s, "on another page", "bob", "device-y", nil)

	_, err := s.CreateComment(&models.CreateCommentRequest{
		URL:         "https://example.com/other-page",
		Content:     "reply",
		DisplayName: "alice",
		DeviceID:    "device-x",
		ParentID:    &parent.ID,
	})
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestCreateComment_ParentMissing(t *testing.T) {
	s, _ := newServiceWithStore(t)

	missing := "b2c6cb42-5f9f-4c2a-8f60-1f9a9e4f0f11"
	_, err := s.CreateComment(&models.CreateCommentRequest{
		URL:         pageURL,
		Content:     "reply",
		DisplayName: "alice",
		DeviceID:    "device-x",
		ParentID:    &missing,
	})
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestListThreaded_Ordering(t *testing.T) {
	s, _ := newServiceWithStore(t)

	first := createComment(t, s, "oldest thread", "alice", "device-x", nil)
	second := createComment(t, s, "middle thread", "alice", "device-x", nil)
	third := createComment(t, s, "newest thread", "alice", "device-x", nil)

	replyA := createComment(t, s, "first reply", "bob", "device-y", &first.ID)
	replyB := createComment(t, s, "second reply", "carol", "device-z", &first.ID)

	listed, err := s.ListThreaded(pageURL, "device-x")
	require.NoError(t, err)
	require.Len(t, listed, 3)

	// Top-level threads newest first.
	assert.Equal(t, third.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)
	assert.Equal(t, first.ID, listed[2].ID)

	// Replies within a thread oldest first.
	require.Len(t, listed[2].Replies, 2)
	assert.Equal(t, replyA.ID, listed[2].Replies[0].ID)
	assert.Equal(t, replyB.ID, listed[2].Replies[1].ID)
}

func TestListThreaded_LikeScenario(t *testing.T) {
	s, _ := newServiceWithStore(t)

	a := createComment(t, s, "hello", "userX", "device-x", nil)
	b := createComment(t, s, "hi", "userY", "device-y", &a.ID)

	liked, err := s.ToggleLike(b.ID, "device-x")
	require.NoError(t, err)
	assert.True(t, liked)

	// Viewer X sees their own like on B.
	fromX, err := s.ListThreaded(pageURL, "device-x")
	require.NoError(t, err)
	require.Len(t, fromX, 1)
	require.Len(t, fromX[0].Replies, 1)
	assert.Equal(t, b.ID, fromX[0].Replies[0].ID)
	assert.EqualValues(t, 1, fromX[0].Replies[0].LikesCount)
	assert.True(t, fromX[0].Replies[0].IsLiked)

	// An unrelated viewer sees the count but not the like state.
	fromZ, err := s.ListThreaded(pageURL, "device-z")
	require.NoError(t, err)
	assert.EqualValues(t, 1, fromZ[0].Replies[0].LikesCount)
	assert.False(t, fromZ[0].Replies[0].IsLiked)
}

func TestListThreaded_FlattensNestedReplies(t *testing.T) {
	s, _ := newServiceWithStore(t)

	top := createComment(t, s, "top", "alice", "device-x", nil)
	reply := createComment(t, s, "reply", "bob", "device-y", &top.ID)
	nested := createComment(t, s, "reply to reply", "carol", "device-z", &reply.ID)

	listed, err := s.ListThreaded(pageURL, "device-x")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Len(t, listed[0].Replies, 2)
	assert.Equal(t, reply.ID, listed[0].Replies[0].ID)
	assert.Equal(t, nested.ID, listed[0].Replies[1].ID)
	// The nested reply keeps its real parent even though it renders at
	// depth two.
	assert.Equal(t, reply.ID, *listed[0].Replies[1].ParentID)
}

func TestListThreaded_EmptyPage(t *testing.T) {
	s, _ := newServiceWithStore(t)

	listed, err := s.ListThreaded("https://example.com/untouched", "device-x")
	require.NoError(t, err)
	assert.Empty(t, listed)
	assert.NotNil(t, listed)
}

func TestListThreaded_InvalidURL(t *testing.T) {
	s, _ := newServiceWithStore(t)

	_, err := s.ListThreaded("not a url", "device-x")
	assert.ErrorIs(t, err, urlnorm.ErrInvalidURL)
}

func TestToggleLike_Idempotence(t *testing.T) {
	s, _ := newServiceWithStore(t)

	c := createComment(t, s, "toggle me", "alice", "device-x", nil)

	liked, err := s.ToggleLike(c.ID, "device-y")
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = s.ToggleLike(c.ID, "device-y")
	require.NoError(t, err)
	assert.False(t, liked)

	liked, err = s.ToggleLike(c.ID, "device-y")
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestToggleLike_CommentMissing(t *testing.T) {
	s, _ := newServiceWithStore(t)

	_, err := s.ToggleLike("b2c6cb42-5f9f-4c2a-8f60-1f9a9e4f0f11", "device-x")
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestDeleteComment_Ownership(t *testing.T) {
	s, store := newServiceWithStore(t)

	c := createComment(t, s, "mine", "alice", "device-x", nil)
	reply := createComment(t, s, "a reply", "bob", "device-y", &c.ID)
	_, err := s.ToggleLike(c.ID, "device-y")
	require.NoError(t, err)
	_, err = s.ToggleLike(reply.ID, "device-x")
	require.NoError(t, err)

	// A different device cannot delete it.
	err = s.DeleteComment(c.ID, "device-y")
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)

	// The owner can; the comment, its likes and its direct replies go.
	err = s.DeleteComment(c.ID, "device-x")
	require.NoError(t, err)
	assert.Empty(t, store.comments)
	assert.Empty(t, store.likes)
}

func TestDeleteComment_Missing(t *testing.T) {
	s, _ := newServiceWithStore(t)

	err := s.DeleteComment("b2c6cb42-5f9f-4c2a-8f60-1f9a9e4f0f11", "device-x")
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
}
