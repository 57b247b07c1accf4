package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveClampsPage(t *testing.T) {
	cases := []struct {
		name string
		in   Pagination
		want PageInfo
	}{
		{
			name: "first page",
			in:   Pagination{Page: 1, PageSize: 20},
			want: PageInfo{Page: 1, PageSize: 20, PageCount: 3, Total: 45, HasNext: true},
		},
		{
			name: "page zero clamps to first",
			in:   Pagination{Page: 0, PageSize: 20},
			want: PageInfo{Page: 1, PageSize: 20, PageCount: 3, Total: 45, HasNext: true},
		},
		{
			name: "page past the end clamps to last",
			in:   Pagination{Page: 4, PageSize: 20},
			want: PageInfo{Page: 3, PageSize: 20, PageCount: 3, Total: 45, HasPrev: true},
		},
		{
			name: "unknown page size falls back to default",
			in:   Pagination{Page: 1, PageSize: 7},
			want: PageInfo{Page: 1, PageSize: 20, PageCount: 3, Total: 45, HasNext: true},
		},
		{
			name: "single page",
			in:   Pagination{Page: 2, PageSize: 50},
			want: PageInfo{Page: 1, PageSize: 50, PageCount: 1, Total: 45},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Resolve(tc.in, 45))
		})
	}
}

func TestResolveEmpty(t *testing.T) {
	info := Resolve(Pagination{Page: 3, PageSize: 100}, 0)
	require.Equal(t, PageInfo{Page: 1, PageSize: 100}, info)
	require.Empty(t, Slice([]int{}, info))
}

func TestSlice(t *testing.T) {
	items := make([]int, 45)
	for i := range items {
		items[i] = i + 1
	}

	first := Slice(items, Resolve(Pagination{Page: 1, PageSize: 20}, len(items)))
	require.Len(t, first, 20)
	require.Equal(t, 1, first[0])
	require.Equal(t, 20, first[19])

	last := Slice(items, Resolve(Pagination{Page: 3, PageSize: 20}, len(items)))
	require.Equal(t, []int{41, 42, 43, 44, 45}, last)
}

func TestPageCount(t *testing.T) {
	require.Equal(t, 3, PageCount(45, 20))
	require.Equal(t, 1, PageCount(20, 20))
	require.Equal(t, 0, PageCount(0, 20))
}
