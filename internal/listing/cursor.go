package listing

import (
	appErr "github.com/linkstash/server/internal/pkg/errors"
)

type Order string

const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

const (
	DefaultTake = 10
	MaxTake     = 100
)

// ParseOrder accepts ASC/DESC, defaulting to DESC for an empty value.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "":
		return OrderDesc, nil
	case OrderAsc, OrderDesc:
		return Order(s), nil
	default:
		return "", appErr.ErrInvalid
	}
}

// Cursor drives id-keyed pagination. Only forward traversal is supported:
// there is no prevCursor, which is a product limitation rather than an
// oversight. Under concurrent inserts a page fetched against a moving cursor
// will not see rows whose ids sort before the current position; with
// monotonically assigned ids that is the accepted consistency boundary.
type Cursor struct {
	ID    *int64
	Order Order
	Take  int
}

func NewCursor(id *int64, order Order, take int) (Cursor, error) {
	if take == 0 {
		take = DefaultTake
	}
	if take < 0 {
		return Cursor{}, appErr.ErrInvalid
	}
	if take > MaxTake {
		take = MaxTake
	}
	if order == "" {
		order = OrderDesc
	}
	if order != OrderAsc && order != OrderDesc {
		return Cursor{}, appErr.ErrInvalid
	}
	return Cursor{ID: id, Order: order, Take: take}, nil
}

// Bound yields the keyset predicate for the cursor position, or a zero
// predicate when starting from the top.
func (c Cursor) Bound(alias string) (Predicate, bool) {
	if c.ID == nil {
		return Predicate{}, false
	}
	op := "<"
	if c.Order == OrderAsc {
		op = ">"
	}
	return Predicate{Expr: alias + ".id " + op + " ?", Args: []interface{}{*c.ID}}, true
}

// OrderBy renders the id ordering clause. id is always the final sort key so
// the total order is deterministic even when combined with other orderings.
func (c Cursor) OrderBy(alias string) string {
	return alias + ".id " + string(c.Order)
}

// FetchLimit is the row count to request: one extra row detects the next page.
func (c Cursor) FetchLimit() int {
	return c.Take + 1
}

type Meta struct {
	HasNextPage   bool   `json:"hasNextPage"`
	NextCursor    *int64 `json:"nextCursor"`
	Order         Order  `json:"order"`
	Take          int    `json:"take"`
	CurrentCursor *int64 `json:"currentCursor"`
}

// TrimPage drops the extra detection row and derives the page meta. id
// projects a row to its pagination key.
func TrimPage[T any](rows []T, c Cursor, id func(T) int64) ([]T, Meta) {
	meta := Meta{
		Order:         c.Order,
		Take:          c.Take,
		CurrentCursor: c.ID,
	}
	if len(rows) > c.Take {
		rows = rows[:c.Take]
		meta.HasNextPage = true
		last := id(rows[len(rows)-1])
		meta.NextCursor = &last
	}
	return rows, meta
}
