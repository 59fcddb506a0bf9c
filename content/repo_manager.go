package content

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes the content repositories
type RepositoryManager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Pages() *PagesRepository
	Posts() *PostsRepository
	Tags() *TagsRepository
}

type mngr struct {
	db    *bun.DB
	pages *PagesRepository
	posts *PostsRepository
	tags  *TagsRepository
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:    db,
		pages: NewPagesRepository(db),
		posts: NewPostsRepository(db),
		tags:  NewTagsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.pages == nil {
		return errors.New("repository pages should be initialized")
	}
	if m.posts == nil {
		return errors.New("repository posts should be initialized")
	}
	if m.tags == nil {
		return errors.New("repository tags should be initialized")
	}
	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Pages() *PagesRepository {
	return m.pages
}

func (m mngr) Posts() *PostsRepository {
	return m.posts
}

func (m mngr) Tags() *TagsRepository {
	return m.tags
}
