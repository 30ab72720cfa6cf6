package services

import (
	"context"
	"os"
	"testing"
	"time"

	"taskmanager/backend/app/db"
	jwtutil "taskmanager/backend/app/jwt"
	"taskmanager/backend/app/models"
	"taskmanager/backend/app/password"
	"taskmanager/backend/app/repo"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	password.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type fixture struct {
	store     *repo.Store
	users     *UserService
	tasks     *TaskService
	auth      *AuthService
	dashboard *DashboardService
	policy    *AccessPolicy
	signer    *jwtutil.Signer
	clock     *fakeClock
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Task{}))
	store := repo.NewGormStore(gdb)
	t.Cleanup(func() { _ = store.Close() })

	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	signer := &jwtutil.Signer{Secret: []byte("test-secret"), Issuer: "taskmanager"}
	users := NewUserService(store.Users)
	users.Now = clock.Now
	tasks := NewTaskService(store.Tasks, store.Users)
	tasks.Now = clock.Now
	return &fixture{
		store:     store,
		users:     users,
		tasks:     tasks,
		auth:      NewAuthService(users, signer),
		dashboard: NewDashboardService(store.Tasks, store.Users),
		policy:    NewAccessPolicy(signer, store.Users),
		signer:    signer,
		clock:     clock,
	}
}

func (f *fixture) mkUser(t *testing.T, username, role string) *models.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), CreateUserInput{
		Username: username,
		Email:    username + "@example.com",
		FullName: username + " full",
		Password: username + "-pw",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) mkTask(t *testing.T, admin, assignee *models.User, title string) *TaskView {
	t.Helper()
	v, err := f.tasks.Create(context.Background(), CreateTaskInput{
		Title:       title,
		Description: title + " description",
		AssignedTo:  assignee.ID,
		Deadline:    f.clock.Now().Add(7 * 24 * time.Hour),
	}, admin)
	require.NoError(t, err)
	return v
}

func ptr[T any](v T) *T { return &v }
