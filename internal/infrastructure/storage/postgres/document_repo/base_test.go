package document_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo() *BaseDocumentRepo[*struct{}] {
	return NewBaseDocumentRepo(nil, "doc_test", []string{"id", "number", "date", "receiver"}, func() *struct{} {
		return &struct{}{}
	})
}

func TestParseOrderBy(t *testing.T) {
	repo := testRepo()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "empty defaults to newest first", input: "", want: "date DESC"},
		{name: "bare field ascends", input: "number", want: "number ASC"},
		{name: "plus prefix ascends", input: "+number", want: "number ASC"},
		{name: "minus prefix descends", input: "-date", want: "date DESC"},
		{name: "extra column from select list", input: "receiver", want: "receiver ASC"},
		{name: "unknown column", input: "evil; DROP TABLE users", wantErr: true},
		{name: "bare minus", input: "-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
