package postgres

import (
	"fmt"
	"strings"
)

// whereBuilder собирает условие WHERE с позиционными параметрами $n.
type whereBuilder struct {
	conds []string
	args  []any
}

func (b *whereBuilder) add(format string, arg any) {
	b.args = append(b.args, arg)
	b.conds = append(b.conds, fmt.Sprintf(format, len(b.args)))
}

func (b *whereBuilder) addRaw(cond string) {
	b.conds = append(b.conds, cond)
}

// build возвращает " WHERE ... ORDER BY ... LIMIT ... OFFSET ..." и аргументы.
func (b *whereBuilder) build(orderBy string, skip, take int) (string, []any) {
	var sb strings.Builder
	if len(b.conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.conds, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy)

	args := b.args
	if take > 0 {
		args = append(args, take)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if skip > 0 {
		args = append(args, skip)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}
	return sb.String(), args
}
