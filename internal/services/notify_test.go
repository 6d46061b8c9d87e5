package services_test

import (
	"testing"

	"suurdle/internal/models"
	"suurdle/internal/services"
	"suurdle/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOutCreatesOnePerFollower(t *testing.T) {
	gdb := testutil.OpenDB(t)
	assignment := seedAssignment(t, gdb)

	for _, follower := range []string{"bob", "carol", "dave"} {
		require.NoError(t, gdb.Create(&models.Follow{Follower: follower, Followed: "alice"}).Error)
	}
	// Following someone else must not produce a notification
	require.NoError(t, gdb.Create(&models.Follow{Follower: "eve", Followed: "bob"}).Error)

	created, err := services.FanOutAssignment(gdb, "alice", assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	var notifications []models.Notification
	require.NoError(t, gdb.Order("receiver").Find(&notifications).Error)
	require.Len(t, notifications, 3)
	for i, receiver := range []string{"bob", "carol", "dave"} {
		assert.Equal(t, receiver, notifications[i].Receiver)
		assert.Equal(t, "alice", notifications[i].Sender)
		assert.Equal(t, assignment.ID, notifications[i].AssignmentID)
		assert.False(t, notifications[i].IsRead)
	}

	assert.Equal(t, int64(1), services.UnreadCount(gdb, "bob"))
	assert.Equal(t, int64(0), services.UnreadCount(gdb, "eve"))
}

func TestFanOutInsertFailureLeavesEarlierRows(t *testing.T) {
	gdb := testutil.OpenDB(t)
	assignment := seedAssignment(t, gdb)

	for _, follower := range []string{"bob", "carol", "dave"} {
		require.NoError(t, gdb.Create(&models.Follow{Follower: follower, Followed: "alice"}).Error)
	}

	// Make carol's insert fail at the database level
	require.NoError(t, gdb.Exec(`
		CREATE TRIGGER reject_carol BEFORE INSERT ON notifications
		WHEN NEW.receiver = 'carol'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`).Error)

	created, err := services.FanOutAssignment(gdb, "alice", assignment.ID)

	// The failure is reported but the loop keeps going: bob and dave
	// still get their rows.
	assert.Error(t, err)
	assert.Equal(t, 2, created)

	var receivers []string
	require.NoError(t, gdb.Model(&models.Notification{}).Order("receiver").
		Pluck("receiver", &receivers).Error)
	assert.Equal(t, []string{"bob", "dave"}, receivers)
}

func TestFanOutWithoutFollowers(t *testing.T) {
	gdb := testutil.OpenDB(t)
	assignment := seedAssignment(t, gdb)

	created, err := services.FanOutAssignment(gdb, "alice", assignment.ID)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Zero(t, count(t, gdb, &models.Notification{}))
}

func TestUnreadCountIgnoresRead(t *testing.T) {
	gdb := testutil.OpenDB(t)

	require.NoError(t, gdb.Create(&models.Notification{Sender: "alice", Receiver: "bob", AssignmentID: 1}).Error)
	require.NoError(t, gdb.Create(&models.Notification{Sender: "alice", Receiver: "bob", AssignmentID: 2, IsRead: true}).Error)

	assert.Equal(t, int64(1), services.UnreadCount(gdb, "bob"))
}

// End-to-end walk of the core flow: alice posts in math/algebra, bob
// follows her, gets notified and votes.
func TestAssignmentLifecycleScenario(t *testing.T) {
	gdb := testutil.OpenDB(t)
	assignment := seedAssignment(t, gdb) // "Homework 1" by alice

	require.NoError(t, gdb.Create(&models.Follow{Follower: "bob", Followed: "alice"}).Error)

	created, err := services.FanOutAssignment(gdb, "alice", assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, int64(1), services.UnreadCount(gdb, "bob"))

	score, err := services.ApplyVote(gdb, "bob", models.TargetAssignment, assignment.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	score, err = services.ApplyVote(gdb, "bob", models.TargetAssignment, assignment.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 0, score)
	assert.Zero(t, voteCount(t, gdb, models.TargetAssignment, assignment.ID))

	score, err = services.ApplyVote(gdb, "bob", models.TargetAssignment, assignment.ID, false)
	require.NoError(t, err)
	assert.Equal(t, -1, score)
}
