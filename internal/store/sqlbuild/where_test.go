package sqlbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWhereBuilder(t *testing.T) {
	wb := NewWhereBuilder(Postgres)

	require.NotNil(t, wb)

	clause, args := wb.Build()
	assert.Empty(t, clause)
	assert.Nil(t, args)
}

func TestWhereBuilder_Add(t *testing.T) {
	wb := NewWhereBuilder(Postgres)
	wb.Add("is_active", true)
	wb.Add("name", "")

	clause, args := wb.Build()
	assert.Equal(t, ` WHERE "is_active" = $1`, clause)
	assert.Equal(t, []any{true}, args)
}

func TestWhereBuilder_AddSearch(t *testing.T) {
	tests := []struct {
		name       string
		dialect    Dialect
		text       string
		columns    []string
		wantClause string
		wantArgs   []any
	}{
		{
			name:       "empty text skipped",
			dialect:    Postgres,
			text:       "",
			columns:    []string{"code"},
			wantClause: "",
		},
		{
			name:       "no columns skipped",
			dialect:    Postgres,
			text:       "srvo",
			wantClause: "",
		},
		{
			name:       "postgres uses ILIKE and numbered placeholders",
			dialect:    Postgres,
			text:       "srvo",
			columns:    []string{"code", "title"},
			wantClause: ` WHERE ("code" ILIKE $1 ESCAPE '\' OR "title" ILIKE $2 ESCAPE '\')`,
			wantArgs:   []any{"%srvo%", "%srvo%"},
		},
		{
			name:       "sqlite folds both sides and uses question marks",
			dialect:    SQLite,
			text:       "moteur",
			columns:    []string{"cause_en", "cause_fr"},
			wantClause: ` WHERE (casefold("cause_en") LIKE casefold(?) ESCAPE '\' OR casefold("cause_fr") LIKE casefold(?) ESCAPE '\')`,
			wantArgs:   []any{"%moteur%", "%moteur%"},
		},
		{
			name:       "wildcards are escaped",
			dialect:    SQLite,
			text:       "50%_x",
			columns:    []string{"title"},
			wantClause: ` WHERE (casefold("title") LIKE casefold(?) ESCAPE '\')`,
			wantArgs:   []any{`%50\%\_x%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := NewWhereBuilder(tt.dialect)
			wb.AddSearch(tt.text, tt.columns)

			clause, args := wb.Build()
			assert.Equal(t, tt.wantClause, clause)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestWhereBuilder_Combined(t *testing.T) {
	wb := NewWhereBuilder(Postgres)
	wb.AddSearch("x", []string{"code"})
	wb.AddCompare("created_at", ">=", int64(5))

	clause, args := wb.Build()
	assert.Equal(t, ` WHERE ("code" ILIKE $1 ESCAPE '\') AND "created_at" >= $2`, clause)
	assert.Equal(t, []any{"%x%", int64(5)}, args)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\\b`, EscapeLike(`a\b`))
	assert.Equal(t, `100\%`, EscapeLike(`100%`))
	assert.Equal(t, `SRVO\_001`, EscapeLike(`SRVO_001`))
	assert.Equal(t, "plain", EscapeLike("plain"))
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"code"`, QuoteIdentifier("code"))
	assert.Equal(t, `"a""b"`, QuoteIdentifier(`a"b`))
}

func TestLimit(t *testing.T) {
	assert.Equal(t, "", Limit(0))
	assert.Equal(t, " LIMIT 10", Limit(10))
}
