package projects

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/taskflow/internal/database/models"
	"github.com/hugh/taskflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(db, logger), db
}

func TestCanAccess(t *testing.T) {
	owner := uuid.New()
	member := uuid.New()
	outsider := uuid.New()

	project := &models.Project{
		OwnerID: owner,
		Members: []models.User{
			{Base: models.Base{ID: member}},
		},
	}

	assert.True(t, CanAccess(owner, project))
	assert.True(t, CanAccess(member, project))
	assert.False(t, CanAccess(outsider, project))

	assert.True(t, IsOwner(owner, project))
	assert.False(t, IsOwner(member, project))
}

func TestService_Create_Defaults(t *testing.T) {
	svc, db := newTestService(t)
	ctx := testutil.TestContext(t)
	owner := testutil.CreateTestUser(t, db, "Alice")

	project, err := svc.Create(ctx, owner.ID, CreateInput{
		Name:        "Launch",
		Description: "Launch the product",
	})
	require.NoError(t, err)

	assert.Equal(t, owner.ID, project.OwnerID)
	assert.Equal(t, models.ProjectStatusPlanning, project.Status)
	assert.Equal(t, models.PriorityMedium, project.Priority)
	assert.Equal(t, "#6366f1", project.Color)
	assert.False(t, project.StartDate.IsZero())
	assert.Empty(t, project.Members)
	require.NotNil(t, project.Owner)
	assert.Equal(t, "Alice", project.Owner.Name)
}

func TestService_Create_Validation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := testutil.TestContext(t)
	owner := testutil.CreateTestUser(t, db, "Alice")

	tests := []struct {
		name  string
		input CreateInput
	}{
		{"missing name", CreateInput{Description: "d"}},
		{"missing description", CreateInput{Name: "n"}},
		{"bad status", CreateInput{Name: "n", Description: "d", Status: "launching"}},
		{"bad priority", CreateInput{Name: "n", Description: "d", Priority: "asap"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, owner.ID, tt.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestService_Create_UnknownMemberRejected(t *testing.T) {
	svc, db := newTestService(t)
	ctx := testutil.TestContext(t)
	owner := testutil.CreateTestUser(t, db, "Alice")

	_, err := svc.Create(ctx, owner.ID, CreateInput{
		Name:        "Launch",
		Description: "d",
		MemberIDs:   []uuid.UUID{uuid.New()},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_List_OwnedAndMemberOf(t *testing.T) {
	svc, db := newTestService(t)
	ctx := testutil.TestContext(t)
	alice := testutil.CreateTestUser(t, db, "Alice")
	bob := testutil.CreateTestUser(t, db, "Bob")

	owned := testutil.CreateTestProject(t, db, alice)
	shared := testutil.CreateTestProject(t, db, bob, alice)
	testutil.CreateTestProject(t, db, bob) // bob-only, invisible to alice

	list, err := svc.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	ids := []uuid.UUID{list[0].ID, list[1].ID}
	assert.Contains(t, ids, owned.ID)
	assert.Contains(t, ids, shared.ID)
}

func TestService_Get_Authorization(t *testing.T) {
	svc, db := newTestService(t)
	ctx := testutil.TestContext(t)
	alice := testutil.CreateTestUser(t, db, "Alice")
	bob := testutil.CreateTestUser(t, db, "Bob")
	carol := testutil.CreateTestUser(t, db, "Carol")

	project := testutil.CreateTestProject(t, db, alice, bob)

	t.Run("owner", func(t *testing.T) {
		got, err := svc.Get(ctx, alice.ID, project.ID)
		require.NoError(t, err)
		assert.Equal(t, project.ID, got.ID)
	})

	t.Run("member", func(t *testing.T) {
		_, err := svc.Get(ctx, bob.ID, project.ID)
		assert.NoError(t, err)
	})

	t.Run("outsider", func(t *testing.T) {
		_, err := svc.Get(ctx, carol.ID, project.ID)
		assert.ErrorIs(t, err, ErrNoAccess)
	})

	t.Run("missing id wins over access", func(t *testing.T) {
		_, err := svc.Get(ctx, carol.ID, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_Update_MergePolicy(t *testing.T) {
	svc, db := newTestService(t)
	ctx := testutil.TestContext(t)
	alice := testutil.CreateTestUser(t, db, "Alice")
	project := testutil.CreateTestProject(t, db, alice)

	name := "Renamed"
	status := "active"
	empty := ""
	updated, err := svc.Update(ctx, alice.ID, project.ID, UpdateInput{
		Name:        &name,
		Status:      &status,
		Description: &empty, // empty keeps the stored value
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, models.ProjectStatusActive, updated.Status)
	assert.Equal(t, "Test project description", updated.Description)
	assert.Equal(t, models.PriorityMedium, updated.Priority)
}

func TestService_Update_InvalidStatus(t *testing.T) {
	svc, db := newTestService(t)
	ctx := testutil.TestContext(t)
	alice := testutil.CreateTestUser(t, db, "Alice")
	project := testutil.CreateTestProject(t, db, alice)

	bad := "shipped"
	_, err := svc.Update(ctx, alice.ID, project.ID, UpdateInput{Status: &bad})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Update_Members(t *testing.T) {
	svc, db := newTestService(t)
	ctx := testutil.TestContext(t)
	alice := testutil.CreateTestUser(t, db, "Alice")
	bob := testutil.CreateTestUser(t, db, "Bob")
	carol := testutil.CreateTestUser(t, db, "Carol")
	project := testutil.CreateTestProject(t, db, alice, bob)

	t.Run("nil keeps members", func(t *testing.T) {
		name := "Renamed"
		updated, err := svc.Update(ctx, alice.ID, project.ID, UpdateInput{Name: &name})
		require.NoError(t, err)
		require.Len(t, updated.Members, 1)
		assert.Equal(t, bob.ID, updated.Members[0].ID)
	})

	t.Run("replace", func(t *testing.T) {
		ids := []uuid.UUID{carol.ID}
		updated, err := svc.Update(ctx, alice.ID, project.ID, UpdateInput{MemberIDs: &ids})
		require.NoError(t, err)
		require.Len(t, updated.Members, 1)
		assert.Equal(t, carol.ID, updated.Members[0].ID)
	})

	t.Run("empty list clears", func(t *testing.T) {
		ids := []uuid.UUID{}
		updated, err := svc.Update(ctx, alice.ID, project.ID, UpdateInput{MemberIDs: &ids})
		require.NoError(t, err)
		assert.Empty(t, updated.Members)

		// carol lost access along with her membership
		_, err = svc.Get(ctx, carol.ID, project.ID)
		assert.ErrorIs(t, err, ErrNoAccess)
	})
}

func TestService_Update_UnknownMemberRejectsWholeRequest(t *testing.T) {
	svc, db := newTestService(t)
	ctx := testutil.TestContext(t)
	alice := testutil.CreateTestUser(t, db, "Alice")
	project := testutil.CreateTestProject(t, db, alice)

	name := "Renamed"
	ids := []uuid.UUID{uuid.New()}
	_, err := svc.Update(ctx, alice.ID, project.ID, UpdateInput{
		Name:      &name,
		MemberIDs: &ids,
	})
	require.ErrorIs(t, err, ErrValidation)

	// the rename must not survive the failed request
	current, err := svc.Get(ctx, alice.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Project", current.Name)
}

func TestService_DuplicateMemberIDsCollapse(t *testing.T) {
	svc, db := newTestService(t)
	ctx := testutil.TestContext(t)
	alice := testutil.CreateTestUser(t, db, "Alice")
	bob := testutil.CreateTestUser(t, db, "Bob")

	project, err := svc.Create(ctx, alice.ID, CreateInput{
		Name:        "Launch",
		Description: "d",
		MemberIDs:   []uuid.UUID{bob.ID, bob.ID},
	})
	require.NoError(t, err)
	require.Len(t, project.Members, 1)
	assert.Equal(t, bob.ID, project.Members[0].ID)

	ids := []uuid.UUID{bob.ID, bob.ID, bob.ID}
	updated, err := svc.Update(ctx, alice.ID, project.ID, UpdateInput{MemberIDs: &ids})
	require.NoError(t, err)
	assert.Len(t, updated.Members, 1)
}

func TestService_Update_OwnerOnly(t *testing.T) {
	svc, db := newTestService(t)
	ctx := testutil.TestContext(t)
	alice := testutil.CreateTestUser(t, db, "Alice")
	bob := testutil.CreateTestUser(t, db, "Bob")
	project := testutil.CreateTestProject(t, db, alice, bob)

	name := "Taken over"
	_, err := svc.Update(ctx, bob.ID, project.ID, UpdateInput{Name: &name})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestService_Delete_Cascades(t *testing.T) {
	svc, db := newTestService(t)
	ctx := testutil.TestContext(t)
	alice := testutil.CreateTestUser(t, db, "Alice")
	bob := testutil.CreateTestUser(t, db, "Bob")
	project := testutil.CreateTestProject(t, db, alice, bob)
	task := testutil.CreateTestTask(t, db, project, alice)

	comment := models.Comment{TaskID: task.ID, AuthorID: alice.ID, Text: "hello"}
	require.NoError(t, db.Create(&comment).Error)
	attachment := models.Attachment{TaskID: task.ID, Name: "spec.pdf", URL: "https://example.com/spec.pdf", UploadedAt: time.Now()}
	require.NoError(t, db.Create(&attachment).Error)

	require.NoError(t, svc.Delete(ctx, alice.ID, project.ID))

	_, err := svc.Get(ctx, alice.ID, project.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Comment{}).Where("task_id = ?", task.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Attachment{}).Where("task_id = ?", task.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.ProjectMember{}).Where("project_id = ?", project.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestService_Delete_OwnerOnly(t *testing.T) {
	svc, db := newTestService(t)
	ctx := testutil.TestContext(t)
	alice := testutil.CreateTestUser(t, db, "Alice")
	bob := testutil.CreateTestUser(t, db, "Bob")
	project := testutil.CreateTestProject(t, db, alice, bob)

	err := svc.Delete(ctx, bob.ID, project.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	// still there
	_, err = svc.Get(ctx, alice.ID, project.ID)
	assert.NoError(t, err)
}

func TestService_Stats(t *testing.T) {
	svc, db := newTestService(t)
	ctx := testutil.TestContext(t)
	alice := testutil.CreateTestUser(t, db, "Alice")
	project := testutil.CreateTestProject(t, db, alice)

	past := time.Now().Add(-24 * time.Hour)
	seed := []models.Task{
		{Title: "a", Description: "d", ProjectID: project.ID, CreatedByID: alice.ID, Status: models.TaskStatusTodo, Priority: models.PriorityMedium, DueDate: &past},
		{Title: "b", Description: "d", ProjectID: project.ID, CreatedByID: alice.ID, Status: models.TaskStatusInProgress, Priority: models.PriorityMedium},
		{Title: "c", Description: "d", ProjectID: project.ID, CreatedByID: alice.ID, Status: models.TaskStatusDone, Priority: models.PriorityMedium, DueDate: &past},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	stats, err := svc.Stats(ctx, alice.ID, project.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Todo)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 0, stats.Review)
	assert.Equal(t, 1, stats.Done)
	// done tasks never count as overdue
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, stats.Total, stats.Todo+stats.InProgress+stats.Review+stats.Done)
}
