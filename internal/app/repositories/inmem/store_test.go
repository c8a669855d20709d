package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/repositories"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
)

type fixture struct {
	repos   *repositories.Repositories
	creator *models.User
	student *models.User
	circle  *models.Circle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := NewRepositories(NewStore())

	creator := &models.User{Username: "ada", Email: "ada@example.com", Password: "x", Role: models.RoleCreator}
	require.NoError(t, repos.UserRepository.Create(ctx, creator))
	student := &models.User{Username: "grace", Email: "grace@example.com", Password: "x", Role: models.RoleStudent}
	require.NoError(t, repos.UserRepository.Create(ctx, student))

	circle := &models.Circle{Title: "Algebra", Description: "Groups and rings", CreatorID: creator.ID, Privacy: models.PrivacyPublic}
	require.NoError(t, repos.CircleRepository.Create(ctx, circle))

	return &fixture{repos: repos, creator: creator, student: student, circle: circle}
}

func TestUserRepository_UniqueKeys(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.repos.UserRepository.Create(ctx, &models.User{Username: "ada", Email: "other@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrUsernameAlreadyExists)

	err = f.repos.UserRepository.Create(ctx, &models.User{Username: "other", Email: "ada@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	assert.Equal(t, models.MinReputationLevel, f.creator.ReputationLevel)
	_, err = f.repos.UserRepository.GetByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestCircleRepository_ForeignKeyAndDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.repos.CircleRepository.Create(ctx, &models.Circle{Title: "x", CreatorID: 404, Privacy: models.PrivacyPublic})
	assert.ErrorIs(t, err, apperrors.ErrInvalidReference)

	_, err = f.repos.MembershipRepository.Join(ctx, f.student.ID, f.circle.ID)
	require.NoError(t, err)
	require.NoError(t, f.repos.MembershipRepository.Follow(ctx, f.creator.ID, f.circle.ID))

	got, err := f.repos.CircleRepository.GetByID(ctx, f.circle.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", got.CreatorUsername)
	assert.Equal(t, 2, got.MemberCount, "follower-only rows count as members")
}

func TestCircleRepository_ListPublicSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hidden := &models.Circle{Title: "Secret Topology", Description: "d", CreatorID: f.creator.ID, Privacy: models.PrivacyPrivate}
	require.NoError(t, f.repos.CircleRepository.Create(ctx, hidden))
	tagged := &models.Circle{Title: "Physics", Description: "d", Tags: "100%_fun", CreatorID: f.creator.ID, Privacy: models.PrivacyPublic}
	require.NoError(t, f.repos.CircleRepository.Create(ctx, tagged))

	all, err := f.repos.CircleRepository.ListPublic(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, f.circle.ID, all[0].ID)
	assert.Equal(t, tagged.ID, all[1].ID)

	none, err := f.repos.CircleRepository.ListPublic(ctx, "topology")
	require.NoError(t, err)
	assert.Empty(t, none)

	byDescription, err := f.repos.CircleRepository.ListPublic(ctx, "RINGS")
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
	assert.Equal(t, f.circle.ID, byDescription[0].ID)

	literal, err := f.repos.CircleRepository.ListPublic(ctx, "%_")
	require.NoError(t, err)
	require.Len(t, literal, 1)
	assert.Equal(t, tagged.ID, literal[0].ID)
}

func TestMembershipRepository_Transitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	members := f.repos.MembershipRepository

	require.NoError(t, members.Follow(ctx, f.student.ID, f.circle.ID))
	m, err := members.Get(ctx, f.student.ID, f.circle.ID)
	require.NoError(t, err)
	assert.True(t, m.IsFollowing)
	assert.False(t, m.IsMember)

	changed, err := members.Join(ctx, f.student.ID, f.circle.ID)
	require.NoError(t, err)
	assert.True(t, changed, "follower-only row is promoted")

	changed, err = members.Join(ctx, f.student.ID, f.circle.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, members.Unfollow(ctx, f.student.ID, f.circle.ID))
	m, err = members.Get(ctx, f.student.ID, f.circle.ID)
	require.NoError(t, err)
	assert.True(t, m.IsMember)
	assert.False(t, m.IsFollowing)

	_, err = members.Join(ctx, 404, f.circle.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidReference)
}

func TestMembershipRepository_UnfollowRemovesEmptyRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	members := f.repos.MembershipRepository

	require.NoError(t, members.Follow(ctx, f.student.ID, f.circle.ID))
	require.NoError(t, members.Unfollow(ctx, f.student.ID, f.circle.ID))

	_, err := members.Get(ctx, f.student.ID, f.circle.ID)
	assert.ErrorIs(t, err, apperrors.ErrMembershipMissing)

	assert.NoError(t, members.Unfollow(ctx, f.student.ID, f.circle.ID), "missing row is fine")
}

func TestTaskRepository_CompletionUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tasks := f.repos.TaskRepository

	task := &models.Task{Title: "PS1", Description: "d", DueDate: time.Now(), CircleID: f.circle.ID}
	require.NoError(t, tasks.Create(ctx, task))

	require.NoError(t, tasks.CreateCompletion(ctx, &models.TaskCompletion{TaskID: task.ID, UserID: f.student.ID}))
	err := tasks.CreateCompletion(ctx, &models.TaskCompletion{TaskID: task.ID, UserID: f.student.ID})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyCompleted)

	got, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CompletionCount)

	n, err := tasks.CountCompletionsByUser(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPointsRepository_AwardAndLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	points := f.repos.PointsRepository

	applied, err := points.Award(ctx, f.creator.ID, 60, "first")
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = points.Award(ctx, 404, 10, "nobody")
	require.NoError(t, err)
	assert.False(t, applied)

	u, err := f.repos.UserRepository.GetByID(ctx, f.creator.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, u.Points)
	assert.Equal(t, 2, u.ReputationLevel)

	_, err = points.Award(ctx, f.creator.ID, 5, "second")
	require.NoError(t, err)

	ledger, err := points.ListByUser(ctx, f.creator.ID)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	assert.Equal(t, "second", ledger[0].Reason)
	assert.Equal(t, "first", ledger[1].Reason)
}

func TestCircleDelete_Cascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.repos

	res := &models.Resource{Title: "slides", CircleID: f.circle.ID, CreatorID: f.creator.ID, ResourceType: models.ResourceTypeLink}
	require.NoError(t, r.ResourceRepository.Create(ctx, res))
	require.NoError(t, r.CommentRepository.Create(ctx, &models.Comment{Text: "nice", UserID: f.student.ID, ResourceID: res.ID}))
	task := &models.Task{Title: "PS1", Description: "d", DueDate: time.Now(), CircleID: f.circle.ID}
	require.NoError(t, r.TaskRepository.Create(ctx, task))
	require.NoError(t, r.TaskRepository.CreateCompletion(ctx, &models.TaskCompletion{TaskID: task.ID, UserID: f.student.ID}))
	require.NoError(t, r.MessageRepository.Create(ctx, &models.Message{Text: "hi", UserID: f.student.ID, CircleID: f.circle.ID}))
	_, err := r.MembershipRepository.Join(ctx, f.student.ID, f.circle.ID)
	require.NoError(t, err)

	require.NoError(t, r.CircleRepository.Delete(ctx, f.circle.ID))
	assert.ErrorIs(t, r.CircleRepository.Delete(ctx, f.circle.ID), apperrors.ErrCircleNotFound)

	_, err = r.ResourceRepository.GetByID(ctx, res.ID)
	assert.ErrorIs(t, err, apperrors.ErrLearningResourceNotFound)
	comments, err := r.CommentRepository.ListByResource(ctx, res.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	_, err = r.TaskRepository.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	n, err := r.TaskRepository.CountCompletionsByUser(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	msgs, err := r.MessageRepository.ListByCircle(ctx, f.circle.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	_, err = r.MembershipRepository.Get(ctx, f.student.ID, f.circle.ID)
	assert.ErrorIs(t, err, apperrors.ErrMembershipMissing)
}

func TestOrdering_CommentsNewestFirstMessagesOldestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s := NewStore()
	s.SetClock(func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Minute) })
	r := NewRepositories(s)

	u := &models.User{Username: "u", Email: "u@example.com"}
	require.NoError(t, r.UserRepository.Create(ctx, u))
	c := &models.Circle{Title: "c", CreatorID: u.ID, Privacy: models.PrivacyPublic}
	require.NoError(t, r.CircleRepository.Create(ctx, c))
	res := &models.Resource{Title: "r", CircleID: c.ID, CreatorID: u.ID, ResourceType: models.ResourceTypeLink}
	require.NoError(t, r.ResourceRepository.Create(ctx, res))

	for _, text := range []string{"one", "two", "three"} {
		require.NoError(t, r.CommentRepository.Create(ctx, &models.Comment{Text: text, UserID: u.ID, ResourceID: res.ID}))
		require.NoError(t, r.MessageRepository.Create(ctx, &models.Message{Text: text, UserID: u.ID, CircleID: c.ID}))
	}

	comments, err := r.CommentRepository.ListByResource(ctx, res.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, []string{"three", "two", "one"}, []string{comments[0].Text, comments[1].Text, comments[2].Text})
	assert.Equal(t, "u", comments[0].Username)

	msgs, err := r.MessageRepository.ListByCircle(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, []string{"one", "two", "three"}, []string{msgs[0].Text, msgs[1].Text, msgs[2].Text})
}
