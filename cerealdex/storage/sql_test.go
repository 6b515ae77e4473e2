package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cerealdex/cerealdex/cerealdex/storage/sqlbuilder"
)

func TestBuildInsert(t *testing.T) {
	b := sqlbuilder.New(sqlbuilder.PlaceholderDollar)
	got := BuildInsert(b, "cereal", []string{"name", "calories"}, []any{"Cheerios", int64(110)})
	assert.Equal(t, "INSERT INTO cereal(name, calories) VALUES($1, $2) RETURNING id", got)
	assert.Equal(t, []any{"Cheerios", int64(110)}, b.Args())
}

func TestBuildUpdate(t *testing.T) {
	b := sqlbuilder.New(sqlbuilder.PlaceholderQuestion)
	got := BuildUpdate(b, "cereal", []string{"fat", "mfr"}, []any{int64(1), "K"}, 7)
	assert.Equal(t, "UPDATE cereal SET fat = ?, mfr = ? WHERE id = ?", got)
	assert.Equal(t, []any{int64(1), "K", int64(7)}, b.Args())
}
