package query

import (
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mediqore/hospital-api/internal/response"
)

const (
	DefaultLimit = 10
	// MaxLimit caps page size so a single request cannot drain a collection.
	MaxLimit = 100
)

// Params is one parsed page window plus sort order.
type Params struct {
	Page  int64
	Limit int64
	Sort  string
	Desc  bool
}

// Parse reads page/limit/sort/order from the request. Sort fields outside
// the endpoint's whitelist fall back to defaultSort; order falls back to the
// endpoint default when absent or unrecognized.
func Parse(c *gin.Context, defaultSort string, defaultDesc bool, sortable ...string) Params {
	p := Params{Page: 1, Limit: DefaultLimit, Sort: defaultSort, Desc: defaultDesc}

	if n, err := strconv.ParseInt(c.Query("page"), 10, 64); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if sort := c.Query("sort"); sort != "" {
		for _, field := range sortable {
			if sort == field {
				p.Sort = sort
				break
			}
		}
	}
	switch c.Query("order") {
	case "asc":
		p.Desc = false
	case "desc":
		p.Desc = true
	}
	return p
}

// FindOptions translates the params into the driver's skip/limit/sort.
func (p Params) FindOptions() *options.FindOptions {
	dir := 1
	if p.Desc {
		dir = -1
	}
	return options.Find().
		SetSkip((p.Page - 1) * p.Limit).
		SetLimit(p.Limit).
		SetSort(bson.D{{Key: p.Sort, Value: dir}})
}

// Pagination builds the response summary for a total computed by a separate
// count query.
func (p Params) Pagination(total int64) *response.Pagination {
	return &response.Pagination{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: Pages(total, p.Limit),
	}
}

// Pages is ceil(total/limit); zero rows means zero pages.
func Pages(total, limit int64) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// SearchRegex builds a case-insensitive substring matcher with the term
// escaped, so user input never becomes a live pattern.
func SearchRegex(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

// DayRange expands a date-only value (2006-01-02) to [00:00, next midnight)
// in UTC so equality filters match the whole calendar day.
func DayRange(value string) (time.Time, time.Time, bool) {
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return day, day.Add(24 * time.Hour), true
}
