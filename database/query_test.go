package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/student-records/database"
)

func TestQuery_FetchPage(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 8; i++ {
		_, err := st.Insert(ctx, record(i))
		require.NoError(t, err)
	}

	first, err := st.FetchPage(ctx, 1, 5)
	require.NoError(t, err)
	second, err := st.FetchPage(ctx, 2, 5)
	require.NoError(t, err)

	require.Len(t, first, 5)
	require.Len(t, second, 3)

	seen := map[int64]bool{}
	for i, u := range append(first, second...) {
		assert.Equal(t, record(i+1).Roll, u.Roll)
		assert.False(t, seen[u.ID], "record %d returned twice", u.ID)
		seen[u.ID] = true
	}

	pages, err := st.TotalPages(ctx, 5, "")
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
}

func TestQuery_FetchPage_ClampsPage(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := st.Insert(ctx, record(i))
		require.NoError(t, err)
	}

	for _, page := range []int{0, -4} {
		got, err := st.FetchPage(ctx, page, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, record(1).Roll, got[0].Roll)
	}

	got, err := st.FetchPage(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestQuery_SearchPage(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	names := []string{"Ali Khan", "Bob", "Salim", "Carol"}
	for i, name := range names {
		u := record(i)
		u.Name = name
		_, err := st.Insert(ctx, u)
		require.NoError(t, err)
	}

	got, err := st.SearchPage(ctx, "ali", 1, 5)
	require.NoError(t, err)

	var matched []string
	for _, u := range got {
		matched = append(matched, u.Name)
	}
	assert.ElementsMatch(t, []string{"Ali Khan", "Salim"}, matched)
	assert.NotContains(t, matched, "Bob")

	pages, err := st.TotalPages(ctx, 5, "ali")
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestQuery_SearchPage_LiteralWildcards(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i, name := range []string{"100% Sure", "Plain", "snake_case"} {
		u := record(i)
		u.Name = name
		_, err := st.Insert(ctx, u)
		require.NoError(t, err)
	}

	got, err := st.SearchPage(ctx, "%", 1, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100% Sure", got[0].Name)

	got, err = st.SearchPage(ctx, "_", 1, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "snake_case", got[0].Name)
}

func TestQuery_TotalPages_Empty(t *testing.T) {
	st := newTestStore(t)

	pages, err := st.TotalPages(context.Background(), 5, "")
	require.NoError(t, err)
	assert.Equal(t, 0, pages)

	got, err := st.FetchPage(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPageCount(t *testing.T) {
	cases := []struct {
		count int64
		size  int
		want  int
	}{
		{0, 5, 0},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{8, 5, 2},
		{11, 0, 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, database.PageCount(tc.count, tc.size), "count=%d size=%d", tc.count, tc.size)
	}
}
