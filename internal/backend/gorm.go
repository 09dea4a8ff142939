package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/justsurfingit/job-portal/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCollection serves the same collection surface from a Postgres database, for
// deployments that host their own data instead of using the hosted backend.
type GormCollection[T any] struct {
	db      *gorm.DB
	name    string
	columns map[string]string // wire field name -> column
}

func NewGormCollection[T any](db *gorm.DB, name string) (*GormCollection[T], error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err != nil {
		return nil, fmt.Errorf("parse %s schema: %w", name, err)
	}
	columns := make(map[string]string, len(stmt.Schema.Fields))
	for _, f := range stmt.Schema.Fields {
		if f.DBName == "" {
			continue
		}
		wire := strings.Split(f.Tag.Get("json"), ",")[0]
		if wire == "" || wire == "-" {
			wire = f.DBName
		}
		columns[wire] = f.DBName
	}
	return &GormCollection[T]{db: db, name: name, columns: columns}, nil
}

// NewGormEntities wires all three collections to one database.
func NewGormEntities(db *gorm.DB) (Entities, error) {
	jobs, err := NewGormCollection[models.Job](db, CollectionJobs)
	if err != nil {
		return Entities{}, err
	}
	companies, err := NewGormCollection[models.Company](db, CollectionCompanies)
	if err != nil {
		return Entities{}, err
	}
	applications, err := NewGormCollection[models.JobApplication](db, CollectionApplications)
	if err != nil {
		return Entities{}, err
	}
	return Entities{Jobs: jobs, Companies: companies, Applications: applications}, nil
}

func (g *GormCollection[T]) column(op, field string) (string, error) {
	col, ok := g.columns[field]
	if !ok {
		return "", &RequestError{Op: op, Collection: g.name, StatusCode: 400, Message: "unknown field " + field}
	}
	return col, nil
}

func (g *GormCollection[T]) wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &RequestError{Op: op, Collection: g.name, StatusCode: 404, Message: "not found", Err: err}
	}
	return &RequestError{Op: op, Collection: g.name, Err: err}
}

func (g *GormCollection[T]) List(ctx context.Context, q Query) ([]T, error) {
	tx := g.db.WithContext(ctx).Model(new(T))
	for _, field := range sortedKeys(q.Filter) {
		col, err := g.column("list", field)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: col}, Value: q.Filter[field]})
	}
	for _, field := range sortedKeys(q.Sort) {
		col, err := g.column("list", field)
		if err != nil {
			return nil, err
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: q.Sort[field] < 0})
	}

	items := []T{}
	if err := tx.Find(&items).Error; err != nil {
		return nil, g.wrap("list", err)
	}
	return items, nil
}

func (g *GormCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		var zero T
		return zero, g.wrap("get", err)
	}
	return out, nil
}

func (g *GormCollection[T]) Create(ctx context.Context, entity T) (T, error) {
	if err := g.db.WithContext(ctx).Create(&entity).Error; err != nil {
		var zero T
		return zero, g.wrap("create", err)
	}
	return entity, nil
}

func (g *GormCollection[T]) Update(ctx context.Context, id string, patch Patch) (T, error) {
	updates := make(map[string]any, len(patch))
	for field, value := range patch {
		col, err := g.column("update", field)
		if err != nil {
			var zero T
			return zero, err
		}
		updates[col] = value
	}

	res := g.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		var zero T
		return zero, g.wrap("update", res.Error)
	}
	if res.RowsAffected == 0 {
		var zero T
		return zero, g.wrap("update", gorm.ErrRecordNotFound)
	}
	return g.Get(ctx, id)
}
