package services_test

import (
	"errors"
	"mime/multipart"
	"testing"

	"suurdle/internal/models"
	"suurdle/internal/services"
	"suurdle/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeStore records deletions instead of talking to the object store.
type fakeStore struct {
	deleted []string
}

func (s *fakeStore) Upload(header *multipart.FileHeader) (*services.UploadResult, error) {
	return &services.UploadResult{URL: "http://img.test/" + header.Filename, ObjectID: "obj-" + header.Filename, Name: header.Filename}, nil
}

func (s *fakeStore) Delete(objectID string) error {
	s.deleted = append(s.deleted, objectID)
	return nil
}

func useFakeStore(t *testing.T) *fakeStore {
	t.Helper()
	fake := &fakeStore{}
	prev := services.Store
	services.Store = fake
	t.Cleanup(func() { services.Store = prev })
	return fake
}

func count(t *testing.T, gdb *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}

func TestDeleteCommentTakesRepliesAndVotes(t *testing.T) {
	gdb := testutil.OpenDB(t)
	assignment := seedAssignment(t, gdb)

	comment := models.Comment{Text: "top", Author: "alice", TargetID: assignment.ID, TargetKind: models.TargetAssignment}
	require.NoError(t, gdb.Create(&comment).Error)
	reply := models.Comment{Text: "reply", Author: "bob", TargetID: comment.ID, TargetKind: models.TargetComment}
	require.NoError(t, gdb.Create(&reply).Error)

	_, err := services.ApplyVote(gdb, "carol", models.TargetComment, comment.ID, true)
	require.NoError(t, err)
	_, err = services.ApplyVote(gdb, "carol", models.TargetComment, reply.ID, false)
	require.NoError(t, err)

	res := services.DeleteComment(gdb, comment.ID)
	assert.True(t, res.OK())
	assert.Equal(t, 2, res.Deleted["Comment"])
	assert.Equal(t, 2, res.Deleted["Vote"])
	assert.Zero(t, count(t, gdb, &models.Comment{}))
	assert.Zero(t, count(t, gdb, &models.Vote{}))
}

func TestDeleteAssignmentTakesEverything(t *testing.T) {
	gdb := testutil.OpenDB(t)
	fake := useFakeStore(t)
	assignment := seedAssignment(t, gdb)

	require.NoError(t, gdb.Create(&models.Attachment{AssignmentID: assignment.ID, URL: "http://img.test/a", ObjectID: "obj-a", Name: "a.png"}).Error)
	require.NoError(t, gdb.Create(&models.Tag{AssignmentID: assignment.ID, Name: "homework"}).Error)

	comment := models.Comment{Text: "hi", Author: "bob", TargetID: assignment.ID, TargetKind: models.TargetAssignment}
	require.NoError(t, gdb.Create(&comment).Error)

	_, err := services.ApplyVote(gdb, "bob", models.TargetAssignment, assignment.ID, true)
	require.NoError(t, err)

	require.NoError(t, gdb.Create(&models.Notification{Sender: "alice", Receiver: "bob", AssignmentID: assignment.ID}).Error)

	res := services.DeleteAssignment(gdb, assignment.ID)
	assert.True(t, res.OK())
	assert.Equal(t, []string{"obj-a"}, fake.deleted)

	assert.Zero(t, count(t, gdb, &models.Assignment{}))
	assert.Zero(t, count(t, gdb, &models.Attachment{}))
	assert.Zero(t, count(t, gdb, &models.Tag{}))
	assert.Zero(t, count(t, gdb, &models.Comment{}))
	assert.Zero(t, count(t, gdb, &models.Vote{}))
	assert.Zero(t, count(t, gdb, &models.Notification{}))
}

// brokenStore refuses every deletion.
type brokenStore struct{}

func (brokenStore) Upload(header *multipart.FileHeader) (*services.UploadResult, error) {
	return nil, errors.New("store is down")
}

func (brokenStore) Delete(objectID string) error {
	return errors.New("store is down")
}

func TestDeleteAssignmentRecordsStoreFailureAndContinues(t *testing.T) {
	gdb := testutil.OpenDB(t)
	prev := services.Store
	services.Store = brokenStore{}
	t.Cleanup(func() { services.Store = prev })

	assignment := seedAssignment(t, gdb)
	require.NoError(t, gdb.Create(&models.Attachment{AssignmentID: assignment.ID, URL: "http://img.test/a", ObjectID: "obj-a", Name: "a.png"}).Error)
	comment := models.Comment{Text: "hi", Author: "bob", TargetID: assignment.ID, TargetKind: models.TargetAssignment}
	require.NoError(t, gdb.Create(&comment).Error)

	res := services.DeleteAssignment(gdb, assignment.ID)

	// The failed object deletion is recorded, not fatal: every database
	// row is gone regardless.
	assert.False(t, res.OK())
	require.NotEmpty(t, res.Failed)
	assert.Contains(t, res.Failed[0], "delete attachment object")
	assert.Zero(t, count(t, gdb, &models.Assignment{}))
	assert.Zero(t, count(t, gdb, &models.Attachment{}))
	assert.Zero(t, count(t, gdb, &models.Comment{}))
	assert.Equal(t, 1, res.Deleted["Assignment"])
	assert.Equal(t, 1, res.Deleted["Comment"])
}

func TestDeleteDomainLeavesNothingBehind(t *testing.T) {
	gdb := testutil.OpenDB(t)
	useFakeStore(t)

	domain := models.Domain{Name: "Math", Slug: "math-1000"}
	require.NoError(t, gdb.Create(&domain).Error)

	// 2 subjects x 2 assignments, each with a comment carrying a reply
	for s := 0; s < 2; s++ {
		subject := models.Subject{Name: "Sub", Slug: "sub-" + string(rune('a'+s)), DomainID: domain.ID}
		require.NoError(t, gdb.Create(&subject).Error)
		for a := 0; a < 2; a++ {
			assignment := models.Assignment{Title: "HW", Description: "d", Author: "alice", SubjectID: subject.ID, Slug: "hw-" + string(rune('a'+s)) + string(rune('a'+a))}
			require.NoError(t, gdb.Create(&assignment).Error)
			comment := models.Comment{Text: "c", Author: "bob", TargetID: assignment.ID, TargetKind: models.TargetAssignment}
			require.NoError(t, gdb.Create(&comment).Error)
			require.NoError(t, gdb.Create(&models.Comment{Text: "r", Author: "carol", TargetID: comment.ID, TargetKind: models.TargetComment}).Error)
			_, err := services.ApplyVote(gdb, "bob", models.TargetAssignment, assignment.ID, true)
			require.NoError(t, err)
		}
	}

	res := services.DeleteDomain(gdb, domain.ID)
	assert.True(t, res.OK())
	assert.Equal(t, 1, res.Deleted["Domain"])
	assert.Equal(t, 2, res.Deleted["Subject"])
	assert.Equal(t, 4, res.Deleted["Assignment"])
	assert.Equal(t, 8, res.Deleted["Comment"])

	assert.Zero(t, count(t, gdb, &models.Domain{}))
	assert.Zero(t, count(t, gdb, &models.Subject{}))
	assert.Zero(t, count(t, gdb, &models.Assignment{}))
	assert.Zero(t, count(t, gdb, &models.Comment{}))
	assert.Zero(t, count(t, gdb, &models.Vote{}))
}

func TestDeleteUserTakesBothFollowDirections(t *testing.T) {
	gdb := testutil.OpenDB(t)
	fake := useFakeStore(t)

	user := models.User{Username: "alice", Email: "alice@example.com", Password: "x", AvatarID: "obj-avatar"}
	require.NoError(t, gdb.Create(&user).Error)

	require.NoError(t, gdb.Create(&models.Follow{Follower: "alice", Followed: "bob"}).Error)
	require.NoError(t, gdb.Create(&models.Follow{Follower: "carol", Followed: "alice"}).Error)
	require.NoError(t, gdb.Create(&models.Follow{Follower: "carol", Followed: "bob"}).Error)

	assignment := seedAssignment(t, gdb) // authored by alice
	comment := models.Comment{Text: "mine", Author: "alice", TargetID: assignment.ID, TargetKind: models.TargetAssignment}
	require.NoError(t, gdb.Create(&comment).Error)
	require.NoError(t, gdb.Create(&models.Notification{Sender: "bob", Receiver: "alice", AssignmentID: 99}).Error)

	res := services.DeleteUser(gdb, &user)
	assert.True(t, res.OK())
	assert.Contains(t, fake.deleted, "obj-avatar")

	assert.Zero(t, count(t, gdb, &models.User{}))
	assert.Zero(t, count(t, gdb, &models.Assignment{}))
	assert.Zero(t, count(t, gdb, &models.Comment{}))

	// Only the edge between two other users survives
	var follows []models.Follow
	require.NoError(t, gdb.Find(&follows).Error)
	require.Len(t, follows, 1)
	assert.Equal(t, "carol", follows[0].Follower)
	assert.Equal(t, "bob", follows[0].Followed)

	var notifications []models.Notification
	require.NoError(t, gdb.Find(&notifications).Error)
	assert.Empty(t, notifications)
}
