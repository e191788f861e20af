package store

import (
	"context"
	"errors"

	"github.com/stanblog/stanblog/internal/model"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("duplicate username")
)

type Store interface {
	UserStore
	PostStore
	GetSiteStats(ctx context.Context) (model.SiteStats, error)
	Close() error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) (int64, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByName(ctx context.Context, username string) (model.User, error)
}

type PostStore interface {
	CreatePost(ctx context.Context, post *model.Post) (int64, error)
	GetPost(ctx context.Context, id int64) (model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	ListRecentPosts(ctx context.Context, limit int) ([]model.Post, error)
}
