// Package option provides composable gorm query options shared by repositories.
package option

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type Operator string

const (
	EQ  Operator = "="
	GT  Operator = ">"
	GTE Operator = ">="
	LT  Operator = "<"
	LTE Operator = "<="
)

// Condition is a single field comparison appended to the WHERE clause.
type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

type conditionOption struct {
	cond Condition
}

func (o conditionOption) Apply(stmt *gorm.DB) *gorm.DB {
	if o.cond.Field == "" {
		return stmt
	}
	op := o.cond.Operator
	if op == "" {
		op = EQ
	}
	return stmt.Where(fmt.Sprintf("%s %s ?", o.cond.Field, op), o.cond.Value)
}

func ApplyOperator(cond Condition) QueryOption {
	return conditionOption{cond: cond}
}

// QuerySortBy describes a caller-supplied ordering restricted to an allow list.
type QuerySortBy struct {
	SortBy  string
	OrderBy string
	Allow   map[string]bool
}

type sortOption struct {
	sort QuerySortBy
}

func (o sortOption) Apply(stmt *gorm.DB) *gorm.DB {
	column := strings.TrimSpace(o.sort.SortBy)
	if column == "" || !o.sort.Allow[column] {
		column = "created_at"
	}

	direction := strings.ToUpper(strings.TrimSpace(o.sort.OrderBy))
	if direction != "ASC" && direction != "DESC" {
		direction = "DESC"
	}

	return stmt.Order(fmt.Sprintf("%s %s", column, direction))
}

func WithSortBy(sort QuerySortBy) QueryOption {
	return sortOption{sort: sort}
}

type limitOption struct {
	limit int
}

func (o limitOption) Apply(stmt *gorm.DB) *gorm.DB {
	if o.limit <= 0 {
		return stmt
	}
	return stmt.Limit(o.limit)
}

func WithLimit(limit int) QueryOption {
	return limitOption{limit: limit}
}
