package models

import (
	"strconv"
	"time"
)

type Post struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	ImageURL    string    `json:"imageUrl"`
	DateCreated time.Time `json:"dateCreated"`
	UserID      int       `json:"userId"`
	Author      User      `json:"-"` // filled by repository joins
}

func (p *Post) String() string {
	return "<Post " + strconv.Itoa(p.ID) + "|" + p.Title + ">"
}

// PostDict is the public JSON shape of a post, author included.
type PostDict struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	ImageURL    string    `json:"imageUrl"`
	DateCreated time.Time `json:"dateCreated"`
	UserID      int       `json:"userId"`
	Author      UserDict  `json:"author"`
}

func (p *Post) ToDict() PostDict {
	return PostDict{
		ID:          p.ID,
		Title:       p.Title,
		Body:        p.Body,
		ImageURL:    p.ImageURL,
		DateCreated: p.DateCreated,
		UserID:      p.UserID,
		Author:      p.Author.ToDict(),
	}
}

// PostDicts converts a slice of posts, never returning nil.
func PostDicts(posts []Post) []PostDict {
	out := make([]PostDict, 0, len(posts))
	for i := range posts {
		out = append(out, posts[i].ToDict())
	}
	return out
}
