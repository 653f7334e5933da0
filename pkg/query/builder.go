// Package query turns a flat key-value request query into a Mongo find plus
// pagination metadata. A Builder is constructed per request and never shared.
package query

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	keySearchTerm = "searchTerm"
	keySort       = "sort"
	keyFields     = "fields"
	keyPage       = "page"
	keyLimit      = "limit"

	defaultSort  = "-createdAt"
	defaultPage  = 1
	defaultLimit = 10
	createdField = "createdAt"
)

// reservedKeys carry control meaning and are never treated as filters.
var reservedKeys = []string{keySearchTerm, keySort, keyFields, keyPage, keyLimit}

// defaultReferencePaths are the fields holding document references; a search
// term that parses as an ObjectID matches these by exact equality.
var defaultReferencePaths = []string{"user", "tour", "payment"}

type Meta struct {
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	Total     int64 `json:"total"`
	TotalPage int   `json:"totalPage"`
}

// Population declares one relation expansion: the reference at Path is
// replaced with the referenced document from Coll, optionally limited to
// Select fields. Expansion decorates already-paginated results and never
// affects counts.
type Population struct {
	Path   string
	Coll   *mongo.Collection
	Select []string
}

func Path(path string, coll *mongo.Collection) Population {
	return Population{Path: path, Coll: coll}
}

func PathSelect(path string, coll *mongo.Collection, fields ...string) Population {
	return Population{Path: path, Coll: coll, Select: fields}
}

type Builder struct {
	coll        *mongo.Collection
	raw         map[string]string
	refPaths    []string
	filter      bson.M
	search      bson.M
	sort        bson.D
	projection  bson.D
	skip        int64
	limit       int64
	paginated   bool
	populations []Population
}

func New(coll *mongo.Collection, raw map[string]string) *Builder {
	if raw == nil {
		raw = map[string]string{}
	}
	return &Builder{
		coll:     coll,
		raw:      raw,
		refPaths: defaultReferencePaths,
	}
}

// WithReferencePaths overrides the set of fields treated as references
// during Search.
func (b *Builder) WithReferencePaths(paths ...string) *Builder {
	b.refPaths = paths
	return b
}

// Filter takes every non-reserved key as a literal field filter. Unknown
// keys pass through untouched; schema validation happens elsewhere.
// Calling it again with the same raw query replaces, not stacks, the filter.
func (b *Builder) Filter() *Builder {
	filter := bson.M{}
	for k, v := range b.raw {
		if isReserved(k) {
			continue
		}
		filter[k] = v
	}
	b.filter = filter
	return b
}

// Search builds an OR across searchable fields. Reference fields match by
// exact identifier equality when the term is a valid ObjectID; everything
// else matches by case-insensitive substring.
func (b *Builder) Search(searchable []string) *Builder {
	term := b.raw[keySearchTerm]
	if term == "" {
		return b
	}

	_, oidErr := primitive.ObjectIDFromHex(term)
	isIdentifier := oidErr == nil

	conditions := make([]bson.M, 0, len(searchable))
	for _, field := range searchable {
		if b.isReference(field) && isIdentifier {
			conditions = append(conditions, bson.M{field: term})
			continue
		}
		conditions = append(conditions, bson.M{field: bson.M{"$regex": term, "$options": "i"}})
	}

	if len(conditions) > 0 {
		b.search = bson.M{"$or": conditions}
	}
	return b
}

// Sort applies the comma-separated sort spec, a leading '-' meaning
// descending. Defaults to newest-first by creation time.
func (b *Builder) Sort() *Builder {
	spec := b.raw[keySort]
	if spec == "" {
		spec = defaultSort
	}

	sort := bson.D{}
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		direction := 1
		if strings.HasPrefix(field, "-") {
			direction = -1
			field = field[1:]
		}
		if field != "" {
			sort = append(sort, bson.E{Key: field, Value: direction})
		}
	}
	b.sort = sort
	return b
}

// Fields restricts the returned document fields; absent means all.
func (b *Builder) Fields() *Builder {
	spec := b.raw[keyFields]
	if spec == "" {
		return b
	}

	projection := bson.D{}
	for _, field := range strings.Split(spec, ",") {
		if field = strings.TrimSpace(field); field != "" {
			projection = append(projection, bson.E{Key: field, Value: 1})
		}
	}
	if len(projection) > 0 {
		b.projection = projection
	}
	return b
}

// Paginate computes skip/limit from page and limit, coercing absent or
// malformed values to page=1, limit=10.
func (b *Builder) Paginate() *Builder {
	page, limit := b.pageLimit()
	b.skip = int64(page-1) * int64(limit)
	b.limit = int64(limit)
	b.paginated = true
	return b
}

func (b *Builder) Populate(pops ...Population) *Builder {
	b.populations = append(b.populations, pops...)
	return b
}

// Build executes the composed query: narrowing, sort, field selection,
// pagination, then population of the already-paginated page.
func (b *Builder) Build(ctx context.Context) ([]bson.M, error) {
	opts := options.Find()
	if len(b.sort) > 0 {
		opts.SetSort(b.sort)
	}
	if len(b.projection) > 0 {
		opts.SetProjection(b.projection)
	}
	if b.paginated {
		opts.SetSkip(b.skip)
		opts.SetLimit(b.limit)
	}

	cursor, err := b.coll.Find(ctx, b.condition(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list query: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode list results: %w", err)
	}

	if err := b.expand(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Meta counts documents matching only the filter+search narrowing, before
// pagination, and derives totalPage.
func (b *Builder) Meta(ctx context.Context) (Meta, error) {
	page, limit := b.pageLimit()

	total, err := b.coll.CountDocuments(ctx, b.condition())
	if err != nil {
		return Meta{}, fmt.Errorf("failed to count documents: %w", err)
	}

	return Meta{
		Page:      page,
		Limit:     limit,
		Total:     total,
		TotalPage: totalPages(total, limit),
	}, nil
}

func totalPages(total int64, limit int) int {
	return int(math.Ceil(float64(total) / float64(limit)))
}

// condition combines the filter and search narrowing with AND.
func (b *Builder) condition() bson.M {
	switch {
	case len(b.filter) > 0 && b.search != nil:
		return bson.M{"$and": []bson.M{b.filter, b.search}}
	case b.search != nil:
		return b.search
	case len(b.filter) > 0:
		return b.filter
	default:
		return bson.M{}
	}
}

func (b *Builder) pageLimit() (int, int) {
	return parsePositive(b.raw[keyPage], defaultPage),
		parsePositive(b.raw[keyLimit], defaultLimit)
}

func (b *Builder) isReference(field string) bool {
	for _, p := range b.refPaths {
		if p == field {
			return true
		}
	}
	return false
}

func isReserved(key string) bool {
	for _, k := range reservedKeys {
		if k == key {
			return true
		}
	}
	return false
}

func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// expand resolves each population directive with one batched $in fetch per
// path and swaps reference values for the referenced documents in place.
func (b *Builder) expand(ctx context.Context, docs []bson.M) error {
	for _, pop := range b.populations {
		if pop.Coll == nil || len(docs) == 0 {
			continue
		}

		seen := map[string]struct{}{}
		ids := make([]primitive.ObjectID, 0, len(docs))
		for _, doc := range docs {
			hex, ok := referenceHex(doc[pop.Path])
			if !ok {
				continue
			}
			if _, dup := seen[hex]; dup {
				continue
			}
			oid, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				continue
			}
			seen[hex] = struct{}{}
			ids = append(ids, oid)
		}
		if len(ids) == 0 {
			continue
		}

		opts := options.Find()
		if len(pop.Select) > 0 {
			projection := bson.D{}
			for _, f := range pop.Select {
				projection = append(projection, bson.E{Key: f, Value: 1})
			}
			opts.SetProjection(projection)
		}

		cursor, err := pop.Coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
		if err != nil {
			return fmt.Errorf("failed to resolve %q references: %w", pop.Path, err)
		}
		var refs []bson.M
		if err := cursor.All(ctx, &refs); err != nil {
			return fmt.Errorf("failed to decode %q references: %w", pop.Path, err)
		}

		byID := make(map[string]bson.M, len(refs))
		for _, ref := range refs {
			if oid, ok := ref["_id"].(primitive.ObjectID); ok {
				byID[oid.Hex()] = ref
			}
		}

		for _, doc := range docs {
			if hex, ok := referenceHex(doc[pop.Path]); ok {
				if ref, found := byID[hex]; found {
					doc[pop.Path] = ref
				}
			}
		}
	}
	return nil
}

// referenceHex extracts a reference identifier regardless of whether it was
// stored as a hex string or a raw ObjectID.
func referenceHex(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case primitive.ObjectID:
		return t.Hex(), true
	default:
		return "", false
	}
}
