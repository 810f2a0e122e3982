package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUser_ToDictHidesSecrets(t *testing.T) {
	u := &User{
		ID:              3,
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Username:        "ada",
		PasswordHash:    "$2a$10$hash",
		Token:           "tok",
		TokenExpiration: time.Now().Add(time.Hour),
	}

	b, err := json.Marshal(u.ToDict())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(b)
	want := `{"id":3,"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","username":"ada"}`
	if got != want {
		t.Fatalf("dict mismatch:\n got %s\nwant %s", got, want)
	}

	// the raw struct must not leak either
	b, _ = json.Marshal(u)
	if strings.Contains(string(b), "hash") || strings.Contains(string(b), "tok") {
		t.Fatalf("user JSON leaks secrets: %s", b)
	}
}

func TestPost_ToDictIncludesAuthor(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &Post{
		ID:          9,
		Title:       "Hello",
		Body:        "World",
		ImageURL:    "https://picsum.photos/500?random=4",
		DateCreated: created,
		UserID:      3,
		Author:      User{ID: 3, Username: "ada"},
	}

	d := p.ToDict()
	if d.Author.ID != 3 || d.Author.Username != "ada" {
		t.Fatalf("unexpected author: %+v", d.Author)
	}

	var m map[string]any
	b, _ := json.Marshal(d)
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"id", "title", "body", "imageUrl", "dateCreated", "userId", "author"} {
		if _, ok := m[k]; !ok {
			t.Errorf("missing key %q in %s", k, b)
		}
	}
}

func TestPostDicts_EmptyIsNotNil(t *testing.T) {
	if got := PostDicts(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestUser_Identity(t *testing.T) {
	var nilUser *User
	if nilUser.IsAuthenticated() {
		t.Fatal("nil user must not be authenticated")
	}
	if (&User{}).IsAuthenticated() {
		t.Fatal("unsaved user must not be authenticated")
	}
	u := &User{ID: 5, Username: "bob"}
	if !u.IsAuthenticated() || u.GetID() != 5 {
		t.Fatalf("unexpected identity: %v %d", u.IsAuthenticated(), u.GetID())
	}
	if u.String() != "<User 5|bob>" {
		t.Fatalf("unexpected String(): %q", u.String())
	}
}

func TestUser_HasValidToken(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		u    User
		want bool
	}{
		{"no token", User{}, false},
		{"valid", User{Token: "t", TokenExpiration: now.Add(time.Minute)}, true},
		{"expired", User{Token: "t", TokenExpiration: now.Add(-time.Second)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.u.HasValidToken(now); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
