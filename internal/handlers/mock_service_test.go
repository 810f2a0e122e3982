package handlers

import (
	"context"
	"net/http"
	"time"

	"blog_api/internal/models"
	"blog_api/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID     int
	signUpErr    error
	signInToken  string
	signInExp    time.Time
	signInErr    error
	signOutErr   error
	authUser     *models.User
	authErr      error
	signOutCalls []int

	lastSignUp        service.SignUpInput
	lastSignInUser    string
	lastSignInPass    string
	lastAuthenticated string
}

func (m *mockAuth) SignUp(ctx context.Context, in service.SignUpInput) (int, error) {
	m.lastSignUp = in
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) SignIn(ctx context.Context, username, password string) (string, time.Time, error) {
	m.lastSignInUser = username
	m.lastSignInPass = password
	return m.signInToken, m.signInExp, m.signInErr
}

func (m *mockAuth) SignOut(ctx context.Context, userID int) error {
	m.signOutCalls = append(m.signOutCalls, userID)
	return m.signOutErr
}

func (m *mockAuth) Authenticate(ctx context.Context, token string) (*models.User, error) {
	m.lastAuthenticated = token
	if m.authErr != nil {
		return nil, m.authErr
	}
	return m.authUser, nil
}

type mockUsers struct {
	users     map[int]*models.User
	getErr    error
	deleteErr error
	deleted   []int
}

func (m *mockUsers) GetUser(ctx context.Context, id int) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUsers) DeleteUser(ctx context.Context, id int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockPosts struct {
	created     *models.Post
	createErr   error
	lastCreate  service.PostInput
	lastAuthor  int
	post        *models.Post
	getErr      error
	list        []models.Post
	listErr     error
	lastLimit   int
	lastOffset  int
	byUser      []models.Post
	sinceFn     func(afterID int) ([]models.Post, error)
	updated     *models.Post
	updateErr   error
	lastUpdate  service.PostInput
	deleteErr   error
	lastActorID int
	lastPostID  int
}

func (m *mockPosts) CreatePost(ctx context.Context, authorID int, in service.PostInput) (*models.Post, error) {
	m.lastAuthor = authorID
	m.lastCreate = in
	return m.created, m.createErr
}

func (m *mockPosts) GetPost(ctx context.Context, id int) (*models.Post, error) {
	m.lastPostID = id
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.post, nil
}

func (m *mockPosts) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, error) {
	m.lastLimit = limit
	m.lastOffset = offset
	return m.list, m.listErr
}

func (m *mockPosts) ListUserPosts(ctx context.Context, userID int) ([]models.Post, error) {
	return m.byUser, nil
}

func (m *mockPosts) ListPostsSince(ctx context.Context, afterID, limit int) ([]models.Post, error) {
	if m.sinceFn == nil {
		return nil, nil
	}
	return m.sinceFn(afterID)
}

func (m *mockPosts) UpdatePost(ctx context.Context, actorID, id int, in service.PostInput) (*models.Post, error) {
	m.lastActorID = actorID
	m.lastPostID = id
	m.lastUpdate = in
	return m.updated, m.updateErr
}

func (m *mockPosts) DeletePost(ctx context.Context, actorID, id int) error {
	m.lastActorID = actorID
	m.lastPostID = id
	return m.deleteErr
}

// ---- Shared Test Helpers ----

var testAda = &models.User{ID: 7, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Username: "ada"}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withAuth(req *http.Request, token string) *http.Request {
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
