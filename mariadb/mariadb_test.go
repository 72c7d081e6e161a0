package mariadb_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/zoobzio/predql"
	"github.com/zoobzio/predql/mariadb"
)

func testSchema() *predql.Schema {
	return predql.MustSchema(
		predql.NewModel("user", "users").InSchema("app").Columns("id", "name", "age", "order"),
	)
}

func TestQuoteIdentifier(t *testing.T) {
	d := mariadb.New()
	tests := map[string]string{
		"users":  "`users`",
		"order":  "`order`",
		"we`ird": "`we``ird`",
	}
	for in, want := range tests {
		if got := d.QuoteIdentifier(in); got != want {
			t.Errorf("QuoteIdentifier(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRender_Select(t *testing.T) {
	s := testSchema()
	result, err := predql.Select(s.T("user", "u")).
		Fields(predql.ColOf("u", "name"), predql.ColOf("u", "order")).
		Where(predql.In(predql.ColOf("u", "id"), []int{1, 2}), predql.NotNull(predql.ColOf("u", "age"))).
		OrderBy(predql.ColOf("u", "order"), predql.ASC).
		Render(s, mariadb.New())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := "SELECT `u`.`name`, `u`.`order` FROM `app`.`users` AS `u` WHERE (`u`.`id` IN (?, ?) AND `u`.`age` IS NOT NULL) ORDER BY `u`.`order` ASC"
	if result.SQL != want {
		t.Errorf("SQL = %q\nwant  %q", result.SQL, want)
	}
	if !reflect.DeepEqual(result.Values, []any{1, 2}) {
		t.Errorf("Values = %v", result.Values)
	}
}

func TestPaginate(t *testing.T) {
	d := mariadb.New()
	limit, offset := 10, 5

	tests := []struct {
		name   string
		limit  *int
		offset *int
		want   string
	}{
		{"none", nil, nil, ""},
		{"limit", &limit, nil, " LIMIT 10"},
		{"offset without limit", nil, &offset, " LIMIT 18446744073709551615 OFFSET 5"},
		{"both", &limit, &offset, " LIMIT 10 OFFSET 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Paginate(tt.limit, tt.offset, false)
			if err != nil {
				t.Fatalf("Paginate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Paginate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_Locking(t *testing.T) {
	s := testSchema()

	result, err := predql.Select(s.T("user")).ForUpdate().SkipLocked().Render(s, mariadb.New())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := "SELECT * FROM `app`.`users` FOR UPDATE SKIP LOCKED"; result.SQL != want {
		t.Errorf("SQL = %q, want %q", result.SQL, want)
	}

	result, err = predql.Select(s.T("user")).ForShare().NoWait().Render(s, mariadb.New())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := "SELECT * FROM `app`.`users` FOR SHARE NOWAIT"; result.SQL != want {
		t.Errorf("SQL = %q, want %q", result.SQL, want)
	}
}

func TestRender_Unsupported(t *testing.T) {
	s := testSchema()
	tests := []struct {
		name    string
		builder *predql.Builder
	}{
		{"for no key update", predql.Select(s.T("user")).ForNoKeyUpdate()},
		{"for key share", predql.Select(s.T("user")).ForKeyShare()},
		{"returning", predql.Insert(s.T("user")).Value(s.F("user", "name"), "x").Returning(s.F("user", "id"))},
		{"nulls first", predql.Select(s.T("user")).OrderByNulls(predql.Col("age"), predql.ASC, predql.NullsFirst)},
		{"ilike", predql.Select(s.T("user")).Where(predql.ILike(predql.Col("name"), "x"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Render(s, mariadb.New())
			var unsupported predql.UnsupportedFeatureError
			if !errors.As(err, &unsupported) {
				t.Fatalf("expected UnsupportedFeatureError, got %v", err)
			}
		})
	}
}

func TestRender_InsertUpdate(t *testing.T) {
	s := testSchema()

	result, err := predql.Insert(s.T("user")).
		Row(map[string]any{"name": "a", "age": 1}).
		Row(map[string]any{"age": 2, "name": "b"}).
		Render(s, mariadb.New())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := "INSERT INTO `app`.`users` (`age`, `name`) VALUES (?, ?), (?, ?)"; result.SQL != want {
		t.Errorf("SQL = %q, want %q", result.SQL, want)
	}
	if !reflect.DeepEqual(result.Values, []any{1, "a", 2, "b"}) {
		t.Errorf("Values = %v", result.Values)
	}

	result, err = predql.Update(s.T("user")).
		Set(s.F("user", "order"), 3).
		Where(predql.Eq(predql.Col("id"), 9)).
		Render(s, mariadb.New())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := "UPDATE `app`.`users` SET `order` = ? WHERE `app`.`users`.`id` = ?"; result.SQL != want {
		t.Errorf("SQL = %q, want %q", result.SQL, want)
	}
}
