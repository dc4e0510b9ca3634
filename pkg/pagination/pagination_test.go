package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
)

func TestValidateParams(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"zero values use defaults", Params{}, false},
		{"valid", Params{Page: 3, PageSize: 50}, false},
		{"max page size", Params{Page: 1, PageSize: MaxPageSize}, false},
		{"negative page", Params{Page: -1, PageSize: 10}, true},
		{"negative page size", Params{Page: 1, PageSize: -10}, true},
		{"page size above max", Params{Page: 1, PageSize: MaxPageSize + 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParams(tt.params)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, hubErrors.IsKind(err, hubErrors.KindInvalidArgument))
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	p := ApplyDefaults(Params{})
	assert.Equal(t, FirstPage, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)

	p = ApplyDefaults(Params{Page: 4, PageSize: 10})
	assert.Equal(t, Params{Page: 4, PageSize: 10}, p)
}

func TestNormalize(t *testing.T) {
	p, err := Normalize(Params{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, Params{Page: 2, PageSize: DefaultPageSize}, p)

	_, err = Normalize(Params{PageSize: 500})
	assert.Error(t, err)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, PageSize: 25}.Offset())
	assert.Equal(t, 50, Params{Page: 3, PageSize: 25}.Offset())
}

func TestClip(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	for pageSize := 1; pageSize <= 7; pageSize++ {
		assert.LessOrEqual(t, len(Clip(items, pageSize)), pageSize)
	}
	assert.Equal(t, []int{1, 2}, Clip(items, 2))
	assert.Len(t, Clip(items, 10), 5)
}

func TestReconcileTotal(t *testing.T) {
	p := Params{Page: 3, PageSize: 10}

	assert.Equal(t, 500, ReconcileTotal(p, 500, 10), "upstream count is kept when consistent")
	assert.Equal(t, 25, ReconcileTotal(p, 5, 5), "under-reported count is raised to offset+returned")
	assert.Equal(t, 0, ReconcileTotal(p, -3, 0))

	total := ReconcileTotal(p, 0, 1)
	assert.Less(t, p.Offset(), total)
}

func TestHasNextPage(t *testing.T) {
	assert.True(t, HasNextPage(Params{Page: 1, PageSize: 2}, 500))
	assert.False(t, HasNextPage(Params{Page: 250, PageSize: 2}, 500))
	assert.False(t, HasNextPage(Params{Page: 1, PageSize: 25}, 0))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 250, TotalPages(Params{Page: 1, PageSize: 2}, 500))
	assert.Equal(t, 3, TotalPages(Params{Page: 1, PageSize: 10}, 21))
	assert.Equal(t, 0, TotalPages(Params{Page: 1, PageSize: 10}, 0))
}
