package render

import (
	"strings"

	"github.com/zoobzio/predql/internal/types"
)

// Grouping renders an AND/OR combination. A single rendered item is
// returned as-is; two or more are joined and wrapped in one pair of
// parentheses, so wrapping an item in a grouping never changes its shape.
func (c *Context) Grouping(g types.Grouping) (string, error) {
	if g.Logic != types.AND && g.Logic != types.OR {
		return "", types.Configf("unknown grouping type %q", g.Logic)
	}

	parts := make([]string, 0, len(g.Items))
	for _, item := range g.Items {
		var (
			s   string
			err error
		)
		switch x := item.(type) {
		case nil:
			err = types.MissingValue("grouping item is undefined")
		case types.Mapping:
			s, err = c.Grouping(types.MappingToGrouping(x))
		default:
			// Conditions, groupings, raw fragments and subqueries recurse;
			// anything else binds as a bare value.
			s, err = c.Expression(x)
		}
		if err != nil {
			return "", err
		}
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}

	switch len(parts) {
	case 0:
		if c.opts.Strict {
			return "", types.Configf("empty %s grouping", g.Logic)
		}
		return "", nil
	case 1:
		return parts[0], nil
	default:
		return "(" + strings.Join(parts, " "+string(g.Logic)+" ") + ")", nil
	}
}
