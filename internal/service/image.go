package service

import (
	"fmt"
	"math/rand"
)

// ImageURLFunc supplies the image URL of a post created without one.
type ImageURLFunc func() string

const (
	placeholderImageURL = "https://picsum.photos/500?random=%d"
	placeholderImages   = 100
)

// RandomPhoto returns a picsum placeholder with a random seed in [1, 100].
func RandomPhoto() string {
	return fmt.Sprintf(placeholderImageURL, rand.Intn(placeholderImages)+1)
}
