package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFilterSkipsReservedKeys(t *testing.T) {
	b := New(nil, map[string]string{
		"searchTerm": "beach",
		"sort":       "-costFrom",
		"fields":     "title",
		"page":       "2",
		"limit":      "5",
		"location":   "Sylhet",
		"status":     "PENDING",
	}).Filter()

	assert.Equal(t, bson.M{"location": "Sylhet", "status": "PENDING"}, b.filter)
}

func TestFilterIsIdempotent(t *testing.T) {
	b := New(nil, map[string]string{"location": "Sylhet"}).Filter().Filter()
	assert.Equal(t, bson.M{"location": "Sylhet"}, b.filter)
}

func TestSearchBuildsRegexOr(t *testing.T) {
	b := New(nil, map[string]string{"searchTerm": "beach"}).
		Search([]string{"title", "description"})

	require.NotNil(t, b.search)
	or, ok := b.search["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 2)
	assert.Equal(t, bson.M{"title": bson.M{"$regex": "beach", "$options": "i"}}, or[0])
	assert.Equal(t, bson.M{"description": bson.M{"$regex": "beach", "$options": "i"}}, or[1])
}

func TestSearchMatchesReferencesByIdentifier(t *testing.T) {
	id := "507f1f77bcf86cd799439011"
	b := New(nil, map[string]string{"searchTerm": id}).
		Search([]string{"user", "status"})

	or := b.search["$or"].([]bson.M)
	require.Len(t, or, 2)
	// valid ObjectID against a reference field is exact equality
	assert.Equal(t, bson.M{"user": id}, or[0])
	// non-reference fields stay regex even for identifier-shaped terms
	assert.Equal(t, bson.M{"status": bson.M{"$regex": id, "$options": "i"}}, or[1])
}

func TestSearchInvalidIdentifierFallsBackToRegex(t *testing.T) {
	b := New(nil, map[string]string{"searchTerm": "not-an-oid"}).
		Search([]string{"user"})

	or := b.search["$or"].([]bson.M)
	require.Len(t, or, 1)
	assert.Equal(t, bson.M{"user": bson.M{"$regex": "not-an-oid", "$options": "i"}}, or[0])
}

func TestSearchEmptyTermIsNoOp(t *testing.T) {
	b := New(nil, map[string]string{}).Search([]string{"title"})
	assert.Nil(t, b.search)
}

func TestWithReferencePathsOverridesDefaults(t *testing.T) {
	id := "507f1f77bcf86cd799439011"
	b := New(nil, map[string]string{"searchTerm": id}).
		WithReferencePaths("owner").
		Search([]string{"owner", "user"})

	or := b.search["$or"].([]bson.M)
	assert.Equal(t, bson.M{"owner": id}, or[0])
	// "user" is no longer a reference after the override
	assert.Equal(t, bson.M{"user": bson.M{"$regex": id, "$options": "i"}}, or[1])
}

func TestSortDefaultsToNewestFirst(t *testing.T) {
	b := New(nil, map[string]string{}).Sort()
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, b.sort)
}

func TestSortParsesDirections(t *testing.T) {
	b := New(nil, map[string]string{"sort": "-costFrom, title"}).Sort()
	assert.Equal(t, bson.D{
		{Key: "costFrom", Value: -1},
		{Key: "title", Value: 1},
	}, b.sort)
}

func TestFieldsBuildsProjection(t *testing.T) {
	b := New(nil, map[string]string{"fields": "title, costFrom"}).Fields()
	assert.Equal(t, bson.D{
		{Key: "title", Value: 1},
		{Key: "costFrom", Value: 1},
	}, b.projection)
}

func TestFieldsAbsentMeansAll(t *testing.T) {
	b := New(nil, map[string]string{}).Fields()
	assert.Empty(t, b.projection)
}

func TestPaginateDefaults(t *testing.T) {
	b := New(nil, map[string]string{}).Paginate()
	assert.Equal(t, int64(0), b.skip)
	assert.Equal(t, int64(10), b.limit)
}

func TestPaginateComputesSkip(t *testing.T) {
	b := New(nil, map[string]string{"page": "3", "limit": "20"}).Paginate()
	assert.Equal(t, int64(40), b.skip)
	assert.Equal(t, int64(20), b.limit)
}

func TestPaginateCoercesMalformedValues(t *testing.T) {
	for _, raw := range []map[string]string{
		{"page": "0", "limit": "-5"},
		{"page": "abc", "limit": "xyz"},
		{"page": "", "limit": ""},
	} {
		b := New(nil, raw).Paginate()
		assert.Equal(t, int64(0), b.skip, "raw=%v", raw)
		assert.Equal(t, int64(10), b.limit, "raw=%v", raw)
	}
}

func TestConditionCombinesFilterAndSearch(t *testing.T) {
	b := New(nil, map[string]string{
		"searchTerm": "beach",
		"location":   "Sylhet",
	}).Search([]string{"title"}).Filter()

	cond := b.condition()
	and, ok := cond["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, and, 2)
	assert.Equal(t, bson.M{"location": "Sylhet"}, and[0])
	assert.Contains(t, and[1], "$or")
}

func TestConditionEmptyMatchesAll(t *testing.T) {
	b := New(nil, map[string]string{}).Filter().Search(nil)
	assert.Equal(t, bson.M{}, b.condition())
}

func TestConditionFilterOnly(t *testing.T) {
	b := New(nil, map[string]string{"status": "PENDING"}).Filter()
	assert.Equal(t, bson.M{"status": "PENDING"}, b.condition())
}

func TestParsePositive(t *testing.T) {
	assert.Equal(t, 7, parsePositive("7", 1))
	assert.Equal(t, 1, parsePositive("0", 1))
	assert.Equal(t, 1, parsePositive("-2", 1))
	assert.Equal(t, 10, parsePositive("nope", 10))
	assert.Equal(t, 10, parsePositive("", 10))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, totalPages(25, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 0, totalPages(0, 10))
	assert.Equal(t, 5, totalPages(5, 1))
}

func TestReferenceHex(t *testing.T) {
	hex, ok := referenceHex("507f1f77bcf86cd799439011")
	assert.True(t, ok)
	assert.Equal(t, "507f1f77bcf86cd799439011", hex)

	_, ok = referenceHex("")
	assert.False(t, ok)

	_, ok = referenceHex(nil)
	assert.False(t, ok)

	_, ok = referenceHex(42)
	assert.False(t, ok)
}
