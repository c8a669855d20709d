package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/models/dto"
	"github.com/yigit/learncircle/internal/app/repositories"
	"github.com/yigit/learncircle/internal/app/repositories/inmem"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
	"github.com/yigit/learncircle/internal/pkg/auth"
	"github.com/yigit/learncircle/internal/pkg/filestorage"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []interface{}
}

func (p *recordingPublisher) Publish(_ int64, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, payload)
	return nil
}

type testEnv struct {
	repos     *repositories.Repositories
	svc       *Services
	storage   *filestorage.LocalStorage
	publisher *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	storage, err := filestorage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	repos := inmem.NewRepositories(inmem.NewStore())
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "learncircle-test",
	})
	pub := &recordingPublisher{}

	return &testEnv{
		repos:     repos,
		svc:       NewServices(repos, storage, jwtService, pub, zerolog.Nop()),
		storage:   storage,
		publisher: pub,
	}
}

func (e *testEnv) register(t *testing.T, username string, role models.Role) int64 {
	t.Helper()
	resp, err := e.svc.AuthService.Register(context.Background(), &dto.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret1",
		Role:     role,
	})
	require.NoError(t, err)
	return resp.ID
}

func (e *testEnv) circle(t *testing.T, creatorID int64, title string, privacy models.Privacy) int64 {
	t.Helper()
	resp, err := e.svc.CircleService.CreateCircle(context.Background(), &dto.CreateCircleRequest{
		Title:       title,
		Description: "about " + title,
		CreatorID:   creatorID,
		Privacy:     privacy,
	})
	require.NoError(t, err)
	return resp.ID
}

func (e *testEnv) user(t *testing.T, id int64) *models.User {
	t.Helper()
	u, err := e.repos.UserRepository.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	files := req.MultipartForm.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "ada", models.RoleStudent)

	_, err := env.svc.AuthService.Register(ctx, &dto.RegisterRequest{
		Username: "ada", Email: "other@example.com", Password: "secret1", Role: models.RoleStudent,
	})
	assert.ErrorIs(t, err, apperrors.ErrUsernameAlreadyExists)

	_, err = env.svc.AuthService.Register(ctx, &dto.RegisterRequest{
		Username: "grace", Email: "ada@example.com", Password: "secret1", Role: models.RoleStudent,
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.register(t, "ada", models.RoleCreator)

	resp, err := env.svc.AuthService.Login(ctx, &dto.LoginRequest{Username: "ada", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, models.MinReputationLevel, resp.ReputationLevel)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int(time.Hour.Seconds()), resp.ExpiresIn)

	_, err = env.svc.AuthService.Login(ctx, &dto.LoginRequest{Username: "ada", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = env.svc.AuthService.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAwardPointsRaisesLevelAndNeverLowersIt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.register(t, "ada", models.RoleStudent)

	require.NoError(t, env.svc.PointsService.AwardPoints(ctx, id, 60, "bonus"))
	u := env.user(t, id)
	assert.Equal(t, 60, u.Points)
	assert.Equal(t, 2, u.ReputationLevel)

	require.NoError(t, env.svc.PointsService.AwardPoints(ctx, id, 150, "bonus"))
	u = env.user(t, id)
	assert.Equal(t, 210, u.Points)
	assert.Equal(t, 3, u.ReputationLevel)

	require.NoError(t, env.svc.PointsService.AwardPoints(ctx, id, -20, "penalty"))
	u = env.user(t, id)
	assert.Equal(t, 190, u.Points)
	assert.Equal(t, 3, u.ReputationLevel)

	history, err := env.svc.PointsService.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "penalty", history[0].Reason)
}

func TestAwardPointsToMissingUserIsSilentNoOpQuirk(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.PointsService.AwardPoints(context.Background(), 999, 10, "ghost")
	assert.NoError(t, err)

	_, err = env.svc.PointsService.History(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestJoinTwice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.register(t, "teach", models.RoleCreator)
	student := env.register(t, "learn", models.RoleStudent)
	circleID := env.circle(t, creator, "Algebra", models.PrivacyPublic)

	joined, err := env.svc.CircleService.Join(ctx, circleID, student)
	require.NoError(t, err)
	assert.True(t, joined)

	joined, err = env.svc.CircleService.Join(ctx, circleID, student)
	require.NoError(t, err)
	assert.False(t, joined)

	circle, err := env.svc.CircleService.GetCircle(ctx, circleID)
	require.NoError(t, err)
	assert.Equal(t, 1, circle.MemberCount)
	assert.Equal(t, models.PointsCircleJoined, env.user(t, creator).Points)
}

func TestJoinPromotesFollower(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.register(t, "teach", models.RoleCreator)
	student := env.register(t, "learn", models.RoleStudent)
	circleID := env.circle(t, creator, "Algebra", models.PrivacyPublic)

	require.NoError(t, env.svc.CircleService.Follow(ctx, circleID, student))
	joined, err := env.svc.CircleService.Join(ctx, circleID, student)
	require.NoError(t, err)
	assert.True(t, joined)

	m, err := env.svc.CircleService.Membership(ctx, circleID, student)
	require.NoError(t, err)
	assert.True(t, m.IsMember)
	assert.True(t, m.IsFollowing)
	assert.Equal(t, models.PointsCircleFollowed+models.PointsCircleJoined, env.user(t, creator).Points)
}

func TestFollowThenUnfollowLeavesNoRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.register(t, "teach", models.RoleCreator)
	student := env.register(t, "learn", models.RoleStudent)
	circleID := env.circle(t, creator, "Algebra", models.PrivacyPublic)

	require.NoError(t, env.svc.CircleService.Follow(ctx, circleID, student))
	require.NoError(t, env.svc.CircleService.Unfollow(ctx, circleID, student))

	m, err := env.svc.CircleService.Membership(ctx, circleID, student)
	require.NoError(t, err)
	assert.False(t, m.IsMember)
	assert.False(t, m.IsFollowing)

	_, err = env.repos.MembershipRepository.Get(ctx, student, circleID)
	assert.ErrorIs(t, err, apperrors.ErrMembershipMissing)

	// Unfollow without a row is still fine
	assert.NoError(t, env.svc.CircleService.Unfollow(ctx, circleID, student))
}

func TestRefollowAwardsEveryTime(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.register(t, "teach", models.RoleCreator)
	student := env.register(t, "learn", models.RoleStudent)
	circleID := env.circle(t, creator, "Algebra", models.PrivacyPublic)

	for i := 0; i < 3; i++ {
		require.NoError(t, env.svc.CircleService.Follow(ctx, circleID, student))
	}
	assert.Equal(t, 3*models.PointsCircleFollowed, env.user(t, creator).Points)
}

func TestMembershipOnUnknownCircle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.register(t, "learn", models.RoleStudent)

	_, err := env.svc.CircleService.Membership(ctx, 42, student)
	assert.ErrorIs(t, err, apperrors.ErrCircleNotFound)
	_, err = env.svc.CircleService.Join(ctx, 42, student)
	assert.ErrorIs(t, err, apperrors.ErrCircleNotFound)
	assert.ErrorIs(t, env.svc.CircleService.Follow(ctx, 42, student), apperrors.ErrCircleNotFound)
	assert.ErrorIs(t, env.svc.CircleService.Unfollow(ctx, 42, student), apperrors.ErrCircleNotFound)
}

func TestJoinWithUnknownUserIsInvalidReference(t *testing.T) {
	env := newTestEnv(t)
	creator := env.register(t, "teach", models.RoleCreator)
	circleID := env.circle(t, creator, "Algebra", models.PrivacyPublic)

	_, err := env.svc.CircleService.Join(context.Background(), circleID, 999)
	assert.ErrorIs(t, err, apperrors.ErrInvalidReference)
	assert.Equal(t, 0, env.user(t, creator).Points)
}

func TestCreateCircleDefaultsAndUnknownCreator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.register(t, "teach", models.RoleCreator)

	resp, err := env.svc.CircleService.CreateCircle(ctx, &dto.CreateCircleRequest{
		Title: "Algebra", Description: "d", CreatorID: creator,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PrivacyPublic, resp.Privacy)

	_, err = env.svc.CircleService.CreateCircle(ctx, &dto.CreateCircleRequest{
		Title: "Ghost", Description: "d", CreatorID: 999,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidReference)
	assert.Equal(t, "creator_id 999 does not exist", apperrors.ClientMessage(err, ""))
}

func TestSearchNeverReturnsPrivateCircles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.register(t, "teach", models.RoleCreator)
	env.circle(t, creator, "Secret Topology", models.PrivacyPrivate)
	env.circle(t, creator, "Open Algebra", models.PrivacyPublic)

	found, err := env.svc.CircleService.ListPublic(ctx, "topology")
	require.NoError(t, err)
	assert.Empty(t, found)

	all, err := env.svc.CircleService.ListPublic(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Open Algebra", all[0].Title)
	assert.Equal(t, "teach", all[0].CreatorUsername)
}

func TestDeleteCircleRequiresCreator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.register(t, "teach", models.RoleCreator)
	other := env.register(t, "learn", models.RoleStudent)
	circleID := env.circle(t, creator, "Algebra", models.PrivacyPublic)

	err := env.svc.CircleService.DeleteCircle(ctx, circleID, other)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, env.svc.CircleService.DeleteCircle(ctx, circleID, creator))
	_, err = env.svc.CircleService.GetCircle(ctx, circleID)
	assert.ErrorIs(t, err, apperrors.ErrCircleNotFound)

	assert.ErrorIs(t, env.svc.CircleService.DeleteCircle(ctx, circleID, creator), apperrors.ErrCircleNotFound)
}

func TestViewMilestoneAwardsOncePerTenViews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.register(t, "teach", models.RoleCreator)
	circleID := env.circle(t, creator, "Algebra", models.PrivacyPublic)

	res, err := env.svc.ResourceService.CreateResource(ctx, &dto.CreateResourceRequest{
		Title: "Slides", CircleID: circleID, CreatorID: creator,
		ResourceType: models.ResourceTypeLink, Content: "https://example.com",
	})
	require.NoError(t, err)

	for i := 1; i <= 9; i++ {
		count, err := env.svc.ResourceService.RecordView(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}
	assert.Equal(t, 0, env.user(t, creator).Points)

	count, err := env.svc.ResourceService.RecordView(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
	assert.Equal(t, models.PointsViewMilestone, env.user(t, creator).Points)

	_, err = env.svc.ResourceService.RecordView(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrLearningResourceNotFound)
}

func TestUploadSanitizesAndOverwrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.register(t, "teach", models.RoleCreator)
	circleID := env.circle(t, creator, "Algebra", models.PrivacyPublic)
	in := UploadResourceInput{Title: "Notes", CircleID: circleID, CreatorID: creator}

	first, err := env.svc.ResourceService.UploadResource(ctx, in, fileHeader(t, "../../etc/My Notes.PDF", []byte("v1")))
	require.NoError(t, err)
	assert.Equal(t, models.ResourceTypePDF, first.ResourceType)

	second, err := env.svc.ResourceService.UploadResource(ctx, in, fileHeader(t, "../../etc/My Notes.PDF", []byte("v2")))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	data, err := os.ReadFile(filepath.Join(env.storage.BasePath(), "my-notes.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	list, err := env.svc.ResourceService.ListByCircle(ctx, circleID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "my-notes.pdf", list[0].Content)
	assert.Equal(t, "my-notes.pdf", list[1].Content)
}

func TestUploadRejectsMissingOrUnusableFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	in := UploadResourceInput{Title: "Notes", CircleID: 1, CreatorID: 1}

	_, err := env.svc.ResourceService.UploadResource(ctx, in, nil)
	assert.ErrorIs(t, err, apperrors.ErrFileMissing)

	_, err = env.svc.ResourceService.UploadResource(ctx, in, fileHeader(t, "???.pdf", []byte("x")))
	assert.ErrorIs(t, err, filestorage.ErrUnsafeFilename)
}

func TestUploadRollbackOnlyRemovesNewFiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.register(t, "teach", models.RoleCreator)
	circleID := env.circle(t, creator, "Algebra", models.PrivacyPublic)

	_, err := env.svc.ResourceService.UploadResource(ctx,
		UploadResourceInput{Title: "Kept", CircleID: circleID, CreatorID: creator},
		fileHeader(t, "kept.pdf", []byte("original")))
	require.NoError(t, err)

	bad := UploadResourceInput{Title: "Bad", CircleID: 999, CreatorID: creator}

	_, err = env.svc.ResourceService.UploadResource(ctx, bad, fileHeader(t, "fresh.pdf", []byte("x")))
	assert.ErrorIs(t, err, apperrors.ErrInvalidReference)
	assert.False(t, env.storage.Exists("fresh.pdf"))

	_, err = env.svc.ResourceService.UploadResource(ctx, bad, fileHeader(t, "kept.pdf", []byte("replacement")))
	assert.ErrorIs(t, err, apperrors.ErrInvalidReference)
	assert.True(t, env.storage.Exists("kept.pdf"))
}

func TestCompleteTaskTwice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.register(t, "teach", models.RoleCreator)
	student := env.register(t, "learn", models.RoleStudent)
	circleID := env.circle(t, creator, "Algebra", models.PrivacyPublic)

	task, err := env.svc.TaskService.CreateTask(ctx, &dto.CreateTaskRequest{
		Title: "Set 1", Description: "d", DueDate: "2025-05-01 18:00:00", CircleID: circleID,
	})
	require.NoError(t, err)

	done, err := env.svc.TaskService.CompleteTask(ctx, task.ID, student)
	require.NoError(t, err)
	assert.True(t, done)

	done, err = env.svc.TaskService.CompleteTask(ctx, task.ID, student)
	require.NoError(t, err)
	assert.False(t, done)

	tasks, err := env.svc.TaskService.ListByCircle(ctx, circleID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 1, tasks[0].CompletionCount)
	assert.Equal(t, models.PointsTaskCompleted, env.user(t, creator).Points)

	_, err = env.svc.TaskService.CompleteTask(ctx, 999, student)
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
}

func TestCreateTaskRejectsBadDueDate(t *testing.T) {
	env := newTestEnv(t)
	creator := env.register(t, "teach", models.RoleCreator)
	circleID := env.circle(t, creator, "Algebra", models.PrivacyPublic)

	_, err := env.svc.TaskService.CreateTask(context.Background(), &dto.CreateTaskRequest{
		Title: "Set 1", Description: "d", DueDate: "next friday", CircleID: circleID,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidDueDate)
}

func TestCommentsAndUnknownResource(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.register(t, "teach", models.RoleCreator)
	circleID := env.circle(t, creator, "Algebra", models.PrivacyPublic)
	res, err := env.svc.ResourceService.CreateResource(ctx, &dto.CreateResourceRequest{
		Title: "Slides", CircleID: circleID, CreatorID: creator, ResourceType: models.ResourceTypeVideo,
	})
	require.NoError(t, err)

	posted, err := env.svc.CommentService.CreateComment(ctx, &dto.CreateCommentRequest{
		Text: "nice", UserID: creator, ResourceID: res.ID,
	})
	require.NoError(t, err)

	comments, err := env.svc.CommentService.ListByResource(ctx, res.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, posted.ID, comments[0].ID)
	assert.Equal(t, "teach", comments[0].Username)

	_, err = env.svc.CommentService.ListByResource(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrLearningResourceNotFound)
}

func TestPostMessagePublishesEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.register(t, "teach", models.RoleCreator)
	circleID := env.circle(t, creator, "Algebra", models.PrivacyPublic)

	posted, err := env.svc.MessageService.PostMessage(ctx, circleID, &dto.CreateMessageRequest{Text: "hi", UserID: creator})
	require.NoError(t, err)

	require.Len(t, env.publisher.events, 1)
	event, ok := env.publisher.events[0].(dto.CircleMessageEvent)
	require.True(t, ok)
	assert.Equal(t, circleID, event.CircleID)
	assert.Equal(t, posted.ID, event.Message.ID)
	assert.Equal(t, "teach", event.Message.Username)

	_, err = env.svc.MessageService.PostMessage(ctx, 999, &dto.CreateMessageRequest{Text: "hi", UserID: creator})
	assert.ErrorIs(t, err, apperrors.ErrCircleNotFound)
	assert.Len(t, env.publisher.events, 1)
}

func TestProfileAggregates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.register(t, "teach", models.RoleCreator)
	student := env.register(t, "learn", models.RoleStudent)
	circleID := env.circle(t, creator, "Algebra", models.PrivacyPublic)

	require.NoError(t, env.svc.CircleService.Follow(ctx, circleID, student))
	task, err := env.svc.TaskService.CreateTask(ctx, &dto.CreateTaskRequest{
		Title: "Set 1", Description: "d", DueDate: "2025-05-01T18:00:00Z", CircleID: circleID,
	})
	require.NoError(t, err)
	_, err = env.svc.TaskService.CompleteTask(ctx, task.ID, student)
	require.NoError(t, err)

	p, err := env.svc.UserService.GetProfile(ctx, student)
	require.NoError(t, err)
	require.Len(t, p.FollowedCircles, 1)
	assert.Equal(t, "Algebra", p.FollowedCircles[0].Title)
	assert.Empty(t, p.CreatedCircles)
	assert.Equal(t, 1, p.CompletedTasksCount)

	p, err = env.svc.UserService.GetProfile(ctx, creator)
	require.NoError(t, err)
	require.Len(t, p.CreatedCircles, 1)
	assert.Equal(t, 1, p.CreatedCircles[0].MemberCount)
	assert.Equal(t, models.PointsCircleFollowed+models.PointsTaskCompleted, p.Points)

	history, err := env.svc.UserService.GetPointsHistory(ctx, creator)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = env.svc.UserService.GetProfile(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
