package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workstreamhq/workstream/internal/entity"
	"github.com/workstreamhq/workstream/internal/store"
	"github.com/workstreamhq/workstream/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *testutil.FixedClock) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "service_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	clock := testutil.NewFixedClock(1_700_000_000_000)
	svc, err := New(st,
		WithIDGenerator(testutil.NewSeqIDGenerator("doc")),
		WithClock(clock),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	return svc, clock
}

func asUser(id entity.ID) context.Context {
	return WithPrincipal(context.Background(), id)
}

func TestMutationsRequirePrincipal(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateTask(context.Background(), TaskInput{ProjectID: "p1", Name: "nope"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = svc.RemoveWorkspace(context.Background(), "w1")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.GetTaskDetail(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreateWorkspaceBootstrapsProjectAndTasks(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := asUser("u1")

	result, err := svc.CreateWorkspace(ctx, WorkspaceInput{Name: "Acme Rockets"})
	require.NoError(t, err)
	require.False(t, result.WorkspaceID.IsZero())
	require.False(t, result.ProjectID.IsZero())

	overview, err := svc.GetWorkspaceOverview(ctx, result.WorkspaceID)
	require.NoError(t, err)
	require.Len(t, overview.Projects, 1)
	assert.Equal(t, "Acme Rockets", overview.Projects[0].Name)
	assert.Equal(t, "AR", overview.Projects[0].Alias)

	// The creator's member row lists the seeded project explicitly.
	require.Len(t, overview.Members, 1)
	assert.Equal(t, entity.RoleAdmin, overview.Members[0].Role)
	assert.Equal(t, []entity.ID{result.ProjectID}, overview.Members[0].Projects)

	project, err := svc.GetProjectOverview(ctx, result.ProjectID)
	require.NoError(t, err)
	require.Len(t, project.Tasks, 3)
	names := []string{project.Tasks[0].Name, project.Tasks[1].Name, project.Tasks[2].Name}
	assert.Equal(t, []string{"Welcome", "Organize your project", "Invite team members"}, names)

	// Each onboarding task has exactly one created activity.
	for _, task := range project.Tasks {
		detail, err := svc.GetTaskDetail(ctx, task.ID)
		require.NoError(t, err)
		require.Len(t, detail.Activities, 1, "task %s", task.Name)
		assert.Equal(t, "created", detail.Activities[0].Action)
	}
}

func TestCreateTaskMintsAliasFromProjectCounter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := asUser("u1")

	projectID, err := svc.CreateProject(ctx, ProjectInput{
		WorkspaceID: "w1", Name: "Mobile App", Alias: "MOB",
	})
	require.NoError(t, err)

	// Onboarding already minted MOB-1..MOB-3.
	taskID, err := svc.CreateTask(ctx, TaskInput{ProjectID: projectID, Name: "fourth"})
	require.NoError(t, err)

	detail, err := svc.GetTaskDetail(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, "MOB-4", detail.Task.AliasID)

	overview, err := svc.GetProjectOverview(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, 4, overview.Project.AliasCount)
}

func TestConcurrentTaskCreatesGetDistinctAliases(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := asUser("u1")

	// Seed the project directly so the counter starts at zero.
	require.NoError(t, svc.store.WithTx(context.Background(), func(tx *store.Tx) error {
		return tx.InsertProject(&entity.Project{ID: "p1", WorkspaceID: "w1", Name: "Racing", Alias: "RC"})
	}))

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateTask(ctx, TaskInput{
				ProjectID: "p1",
				Name:      fmt.Sprintf("task %d", i),
			})
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		require.NoError(t, err, "create %d", i)
	}

	overview, err := svc.GetProjectOverview(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, n, overview.Project.AliasCount)
	require.Len(t, overview.Tasks, n)

	suffixes := make(map[int]bool, n)
	for _, task := range overview.Tasks {
		num, err := strconv.Atoi(strings.TrimPrefix(task.AliasID, "RC-"))
		require.NoError(t, err, "alias %q", task.AliasID)
		require.False(t, suffixes[num], "duplicate alias %q", task.AliasID)
		require.True(t, num >= 1 && num <= n)
		suffixes[num] = true
	}
}

func TestUpdateTaskRederivesMentions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := asUser("u1")

	projectID, err := svc.CreateProject(ctx, ProjectInput{WorkspaceID: "w1", Name: "Notes"})
	require.NoError(t, err)
	taskID, err := svc.CreateTask(ctx, TaskInput{ProjectID: projectID, Name: "draft"})
	require.NoError(t, err)

	desc := `hello <span data-user="u7">@seven</span> and <span data-user="u9">@nine</span> and <span data-user="u7">@seven</span>`
	require.NoError(t, svc.UpdateTask(ctx, taskID, TaskPatch{Description: &desc}))

	detail, err := svc.GetTaskDetail(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, []entity.ID{"u7", "u9"}, detail.Task.Mentions)

	// The description change is logged redacted.
	last := detail.Activities[len(detail.Activities)-1]
	assert.Equal(t, "description", last.Payload.Prop)
	assert.Equal(t, "added", last.Payload.Type)
	assert.Nil(t, last.Payload.Value)
}

func TestCreateTaskRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := asUser("u1")

	_, err := svc.CreateTask(ctx, TaskInput{ProjectID: "p1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#TaskInput")

	_, err = svc.CreateTask(ctx, TaskInput{ProjectID: "p1", Name: "x", Priority: "sometime"})
	require.Error(t, err)
}

func TestCreateTaskUnknownProjectFails(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := asUser("u1")

	_, err := svc.CreateTask(ctx, TaskInput{ProjectID: "ghost", Name: "lost"})
	assert.True(t, IsNotFound(err))
}

func TestUnsetProjectFeatureClearsTaskReferences(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := asUser("u1")

	projectID, err := svc.CreateProject(ctx, ProjectInput{WorkspaceID: "w1", Name: "Catalog"})
	require.NoError(t, err)

	overview, err := svc.GetProjectOverview(ctx, projectID)
	require.NoError(t, err)
	todo := overview.Project.Status[1]
	require.Equal(t, "Todo", todo.Name)

	require.NoError(t, svc.UnsetProjectFeature(ctx, projectID, "status", todo.ID))

	after, err := svc.GetProjectOverview(ctx, projectID)
	require.NoError(t, err)
	assert.True(t, after.Project.Status[1].Deleted)
	for _, task := range after.Tasks {
		assert.NotEqual(t, todo.ID, task.Status, "task %s still references the removed status", task.Name)
	}

	require.Error(t, svc.UnsetProjectFeature(ctx, projectID, "status", "missing"))
	assert.True(t, IsInvariant(svc.UnsetProjectFeature(ctx, projectID, "flavor", todo.ID)))
}

func TestParseMentions(t *testing.T) {
	assert.Nil(t, ParseMentions("plain text"))
	assert.Equal(t, []entity.ID{"a", "b"},
		ParseMentions(`<span data-user="a">@a</span><span data-user="b">@b</span><span data-user="a">@a</span>`))
}

func TestDeriveAlias(t *testing.T) {
	assert.Equal(t, "AR", DeriveAlias("Acme Rockets"))
	assert.Equal(t, "MOB", DeriveAlias("mobile"))
	assert.Equal(t, "DV", DeriveAlias("Déjà Vu"))
	assert.Equal(t, "KEY", DeriveAlias("!!!"))
	assert.Equal(t, "KEY", DeriveAlias(""))
}

func TestCreateTaskDefaultsPriorityToNone(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := asUser("u1")

	ws, err := svc.CreateWorkspace(ctx, WorkspaceInput{Name: "Acme"})
	require.NoError(t, err)

	id, err := svc.CreateTask(ctx, TaskInput{ProjectID: ws.ProjectID, Name: "no priority given"})
	require.NoError(t, err)

	detail, err := svc.GetTaskDetail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.PriorityNone, detail.Task.Priority)

	// An explicit priority is kept.
	id, err = svc.CreateTask(ctx, TaskInput{ProjectID: ws.ProjectID, Name: "on fire", Priority: entity.PriorityUrgent})
	require.NoError(t, err)
	detail, err = svc.GetTaskDetail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.PriorityUrgent, detail.Task.Priority)
}
