package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"outflow/internal/core/entity"
	"outflow/internal/core/id"
)

type mockCatalog struct {
	entity.Catalog
	Extra string `db:"extra" json:"extra"`
	Skip  string `db:"-"`
}

func TestExtractDBColumns_IncludesEmbedded(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	for _, expected := range []string{"id", "deletion_mark", "version", "code", "name", "active", "extra"} {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
}

func TestStructToMap_EmbeddedAndTagged(t *testing.T) {
	cat := mockCatalog{Extra: "x", Skip: "hidden"}
	cat.ID = id.New()
	cat.Code = "WH-001"
	cat.Name = "Main warehouse"
	cat.Active = true
	cat.Version = 3

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, "WH-001", m["code"])
	assert.Equal(t, "Main warehouse", m["name"])
	assert.Equal(t, true, m["active"])
	assert.Equal(t, 3, m["version"])
	assert.Equal(t, "x", m["extra"])
	_, hasSkip := m["Skip"]
	assert.False(t, hasSkip)
}
