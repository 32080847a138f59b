// Package sqlxrepos implements the domain repositories on PostgreSQL
// using sqlx for scanning and squirrel for query building.
package sqlxrepos

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/elimu-app/elimu/core"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func applyOrdering(b sq.SelectBuilder, ordering []core.DBOrdering, deflt string) sq.SelectBuilder {
	if len(ordering) == 0 {
		return b.OrderBy(deflt)
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		orderList = append(orderList, ord.String())
	}
	return b.OrderBy(orderList...)
}
