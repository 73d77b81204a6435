package mysql

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

// whereBuilder собирает условие WHERE с плейсхолдерами "?".
type whereBuilder struct {
	conds []string
	args  []any
}

func (b *whereBuilder) add(cond string, args ...any) {
	b.conds = append(b.conds, cond)
	b.args = append(b.args, args...)
}

// build дописывает WHERE/ORDER/LIMIT к base и раскрывает IN (?) через sqlx.In.
func (b *whereBuilder) build(base, orderBy string, skip, take int) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString(base)
	if len(b.conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.conds, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy)

	args := append([]any(nil), b.args...)
	switch {
	case take > 0:
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, take, skip)
	case skip > 0:
		// MySQL не допускает OFFSET без LIMIT.
		sb.WriteString(" LIMIT 18446744073709551615 OFFSET ?")
		args = append(args, skip)
	}

	return sqlx.In(sb.String(), args...)
}
