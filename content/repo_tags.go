package content

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
)

type TagsRepository struct {
	db *bun.DB
}

func NewTagsRepository(db *bun.DB) *TagsRepository {
	return &TagsRepository{db: db}
}

func (r *TagsRepository) Create(ctx context.Context, tag *Tag) (*Tag, error) {
	if _, err := r.db.NewInsert().Model(tag).Exec(ctx); err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *TagsRepository) GetByID(ctx context.Context, id int64) (*Tag, error) {
	tag := &Tag{}
	err := r.db.NewSelect().
		Model(tag).
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

// GetByIDs resolves a set of tag ids, used when attaching tags to a
// page. Missing ids surface as not-found so a typo cannot silently
// shrink the set.
func (r *TagsRepository) GetByIDs(ctx context.Context, ids []int64) ([]*Tag, error) {
	tags := []*Tag{}
	if len(ids) == 0 {
		return tags, nil
	}

	err := r.db.NewSelect().
		Model(&tags).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	if len(tags) != len(ids) {
		return nil, ErrTagNotFound
	}

	return tags, nil
}

func (r *TagsRepository) List(ctx context.Context) ([]*Tag, error) {
	var tags []*Tag
	err := r.db.NewSelect().
		Model(&tags).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *TagsRepository) Update(ctx context.Context, tag *Tag) (*Tag, error) {
	_, err := r.db.NewUpdate().
		Model(tag).
		Column("name").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *TagsRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*PageTag)(nil)).
			Where("tag_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}

		res, err := tx.NewDelete().
			Model((*Tag)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}

		if rows, err := res.RowsAffected(); err == nil && rows == 0 {
			return ErrTagNotFound
		}
		return nil
	})
}
