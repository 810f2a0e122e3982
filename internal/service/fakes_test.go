package service

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"time"

	"blog_api/internal/models"
	"blog_api/internal/repository"
)

// fakeUsers is an in-memory repository.Users.
type fakeUsers struct {
	byID   map[int]*models.User
	nextID int

	saveTokenCalls int
	saveTokenErr   error
	getErr         error
	createErr      error
	deleted        []int
}

var _ repository.Users = (*fakeUsers)(nil)

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: map[int]*models.User{}, nextID: 1}
	for _, u := range users {
		cp := *u
		f.byID[u.ID] = &cp
		if u.ID >= f.nextID {
			f.nextID = u.ID + 1
		}
	}
	return f
}

func (f *fakeUsers) Create(ctx context.Context, u *models.User) (int, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Username == u.Username || existing.Email == u.Email {
			return 0, repository.ErrDuplicate
		}
	}
	u.ID = f.nextID
	f.nextID++
	cp := *u
	f.byID[u.ID] = &cp
	return u.ID, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id int) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByToken(ctx context.Context, token string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if token != "" && u.Token == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) SaveToken(ctx context.Context, userID int, token string, expiresAt time.Time) error {
	f.saveTokenCalls++
	if f.saveTokenErr != nil {
		return f.saveTokenErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Token = token
	u.TokenExpiration = expiresAt
	return nil
}

func (f *fakeUsers) Delete(ctx context.Context, id int) (bool, error) {
	if _, ok := f.byID[id]; !ok {
		return false, nil
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return true, nil
}

// fakePosts is an in-memory repository.Posts that resolves authors from users.
type fakePosts struct {
	users  *fakeUsers
	byID   map[int]*models.Post
	nextID int

	updateErr error
}

var _ repository.Posts = (*fakePosts)(nil)

func newFakePosts(users *fakeUsers) *fakePosts {
	return &fakePosts{users: users, byID: map[int]*models.Post{}, nextID: 1}
}

func (f *fakePosts) withAuthor(p models.Post) models.Post {
	if u, ok := f.users.byID[p.UserID]; ok {
		p.Author = *u
	}
	return p
}

func (f *fakePosts) Create(ctx context.Context, p *models.Post) (int, error) {
	if _, ok := f.users.byID[p.UserID]; !ok {
		return 0, errors.New("FOREIGN KEY constraint failed")
	}
	p.ID = f.nextID
	f.nextID++
	if p.DateCreated.IsZero() {
		p.DateCreated = time.Now().UTC()
	}
	cp := *p
	f.byID[p.ID] = &cp
	return p.ID, nil
}

func (f *fakePosts) GetByID(ctx context.Context, id int) (*models.Post, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := f.withAuthor(*p)
	return &cp, nil
}

func (f *fakePosts) sorted(keep func(*models.Post) bool) []models.Post {
	out := make([]models.Post, 0)
	for _, p := range f.byID {
		if keep(p) {
			out = append(out, f.withAuthor(*p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakePosts) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	all := f.sorted(func(*models.Post) bool { return true })
	if offset >= len(all) {
		return []models.Post{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakePosts) ListByUser(ctx context.Context, userID int) ([]models.Post, error) {
	return f.sorted(func(p *models.Post) bool { return p.UserID == userID }), nil
}

func (f *fakePosts) ListSince(ctx context.Context, afterID, limit int) ([]models.Post, error) {
	out := f.sorted(func(p *models.Post) bool { return p.ID > afterID })
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePosts) Update(ctx context.Context, p *models.Post) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakePosts) Delete(ctx context.Context, id int) (bool, error) {
	if _, ok := f.byID[id]; !ok {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

// fixedClock returns a settable now func.
type fixedClock struct{ t time.Time }

func (c *fixedClock) now() time.Time { return c.t }

// cheapHasher keeps bcrypt but at the minimum cost so tests stay fast.
var cheapHasher = BcryptHasher{Cost: 4}

func newTestTokenManager(store repository.TokenStore, clock *fixedClock) *TokenManager {
	m := NewTokenManager(store)
	m.now = clock.now
	return m
}

// constReader yields the same byte forever.
func constReader(b byte) *bytes.Reader {
	return bytes.NewReader(bytes.Repeat([]byte{b}, 1024))
}
