// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"yatube/internal/observability"
	"yatube/internal/pagination"

	"gorm.io/gorm"
)

type scope = func(*gorm.DB) *gorm.DB

// paginate counts the rows matched by filter, resolves the requested page and
// loads it with the listing scopes applied.
func paginate[T any](ctx context.Context, db *gorm.DB, model interface{}, table string, p pagination.Params, filter scope, listing ...scope) (page *pagination.Page[T], err error) {
	ctx, span := observability.StartQuerySpan(ctx, table, "paginate")
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("paginate", table)()

	var total int64
	if err := db.WithContext(ctx).Model(model).Scopes(filter).Count(&total).Error; err != nil {
		return nil, err
	}

	req := pagination.Resolve(p.Raw, total, p.PerPage)

	items := make([]T, 0, req.PerPage)
	if total > 0 {
		err := db.WithContext(ctx).
			Scopes(filter).
			Scopes(listing...).
			Limit(req.PerPage).
			Offset(req.Offset).
			Find(&items).Error
		if err != nil {
			return nil, err
		}
	}

	return pagination.NewPage(req, items, total), nil
}

func noFilter(db *gorm.DB) *gorm.DB {
	return db
}
