package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maabuz/ishbot/internal/model"
)

func makeJobs(n int) []model.JobPosting {
	jobs := make([]model.JobPosting, n)
	for i := range jobs {
		jobs[i] = model.JobPosting{ID: int64(i + 1)}
	}
	return jobs
}

func TestVisibleFiltersDisliked(t *testing.T) {
	jobs := makeJobs(5)
	out := Visible(jobs, []int64{2, 4})
	require.Len(t, out, 3)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, int64(3), out[1].ID)
	assert.Equal(t, int64(5), out[2].ID)
}

func TestVisibleNoDislikesReturnsInput(t *testing.T) {
	jobs := makeJobs(3)
	assert.Len(t, Visible(jobs, nil), 3)
}

func TestSliceWindows(t *testing.T) {
	jobs := makeJobs(25)

	start, end, items := Slice(jobs, 0, 10)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)
	require.Len(t, items, 10)
	assert.Equal(t, int64(1), items[0].ID)

	start, end, items = Slice(jobs, 2, 10)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)
	require.Len(t, items, 5)
	assert.Equal(t, int64(21), items[0].ID)
}

func TestSliceBeyondEndIsEmpty(t *testing.T) {
	_, _, items := Slice(makeJobs(10), 5, 10)
	assert.Empty(t, items)
}

func TestHeaderNumbersAreOneBased(t *testing.T) {
	hdr := HeaderFor(25, 1, 10)
	assert.Equal(t, 25, hdr.Total)
	assert.Equal(t, 2, hdr.PageNumber)
	assert.Equal(t, 3, hdr.PageCount)
	assert.Equal(t, 11, hdr.DisplayStart)
	assert.Equal(t, 20, hdr.DisplayEnd)
}

func TestHeaderEmptyList(t *testing.T) {
	hdr := HeaderFor(0, 0, 10)
	assert.Equal(t, 1, hdr.PageCount)
	assert.Zero(t, hdr.DisplayStart)
	assert.Zero(t, hdr.DisplayEnd)
}

func TestNavigationFlags(t *testing.T) {
	assert.False(t, HasPrev(0))
	assert.True(t, HasPrev(1))
	assert.True(t, HasNext(10, 25))
	assert.False(t, HasNext(25, 25))
}

func TestClampPageStepsBackWhenPageEmpties(t *testing.T) {
	// 11 visible items on pages 0-1; after one dislike page 1 is empty.
	assert.Equal(t, 1, ClampPage(1, 11, 10))
	assert.Equal(t, 0, ClampPage(1, 10, 10))
	assert.Equal(t, 0, ClampPage(0, 0, 10))
	assert.Equal(t, 0, ClampPage(-3, 10, 10))
}
