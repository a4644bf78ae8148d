package query

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func testContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestParseDefaults(t *testing.T) {
	c := testContext(t, "")
	p := Parse(c, "createdAt", true, "name", "createdAt")

	assert.Equal(t, int64(1), p.Page)
	assert.Equal(t, int64(DefaultLimit), p.Limit)
	assert.Equal(t, "createdAt", p.Sort)
	assert.True(t, p.Desc)
}

func TestParseValues(t *testing.T) {
	c := testContext(t, "page=3&limit=25&sort=name&order=asc")
	p := Parse(c, "createdAt", true, "name", "createdAt")

	assert.Equal(t, int64(3), p.Page)
	assert.Equal(t, int64(25), p.Limit)
	assert.Equal(t, "name", p.Sort)
	assert.False(t, p.Desc)
}

func TestParseClampsLimit(t *testing.T) {
	c := testContext(t, "limit=100000")
	p := Parse(c, "createdAt", true)
	assert.Equal(t, int64(MaxLimit), p.Limit)
}

func TestParseIgnoresGarbage(t *testing.T) {
	c := testContext(t, "page=-4&limit=abc&order=sideways")
	p := Parse(c, "createdAt", false)

	assert.Equal(t, int64(1), p.Page)
	assert.Equal(t, int64(DefaultLimit), p.Limit)
	assert.False(t, p.Desc)
}

func TestParseUnknownSortFallsBack(t *testing.T) {
	c := testContext(t, "sort=password")
	p := Parse(c, "createdAt", true, "name", "createdAt")
	assert.Equal(t, "createdAt", p.Sort)
}

func TestFindOptions(t *testing.T) {
	p := Params{Page: 3, Limit: 10, Sort: "date", Desc: true}
	opts := p.FindOptions()

	require.NotNil(t, opts.Skip)
	assert.Equal(t, int64(20), *opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(10), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "date", Value: -1}}, opts.Sort)
}

func TestPages(t *testing.T) {
	assert.Equal(t, int64(0), Pages(0, 10))
	assert.Equal(t, int64(1), Pages(1, 10))
	assert.Equal(t, int64(1), Pages(10, 10))
	assert.Equal(t, int64(2), Pages(11, 10))
	assert.Equal(t, int64(5), Pages(41, 10))
	assert.Equal(t, int64(0), Pages(5, 0))
}

func TestPagination(t *testing.T) {
	p := Params{Page: 2, Limit: 10}
	pg := p.Pagination(35)

	assert.Equal(t, int64(2), pg.Page)
	assert.Equal(t, int64(10), pg.Limit)
	assert.Equal(t, int64(35), pg.Total)
	assert.Equal(t, int64(4), pg.Pages)
}

func TestSearchRegexEscapes(t *testing.T) {
	r := SearchRegex("a.b(c")
	assert.Equal(t, `a\.b\(c`, r.Pattern)
	assert.Equal(t, "i", r.Options)
}

func TestDayRange(t *testing.T) {
	start, end, ok := DayRange("2025-06-15")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), end)

	_, _, ok = DayRange("15/06/2025")
	assert.False(t, ok)
}
