package ingest

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dreamware/shardadvisor/internal/catalog"
)

// sessionIdleGap is the maximum time between two profiled operations
// from the same client connection before they are considered separate
// sessions.
const sessionIdleGap = 30 * time.Second

// sampleSize bounds how many documents CatalogFromMongo samples per
// collection to estimate field statistics; sampling, not a full scan,
// keeps ingest cheap on large collections.
const sampleSize = 2000

// CatalogFromMongo builds a catalog.Catalog by listing db's collections,
// sampling each one for its schema shape, and mining db's profiler log
// (system.profile) for per-field query_use_count and predicate-kind
// tagging. db must have profiling enabled (db.setProfilingLevel(2)) for
// query_use_count to reflect anything beyond zero.
func CatalogFromMongo(ctx context.Context, db *mongo.Database) (*catalog.Catalog, error) {
	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	profile, err := scanProfile(ctx, db, time.Time{})
	if err != nil {
		return nil, err
	}

	cols := make([]catalog.Collection, 0, len(names))
	for _, name := range names {
		col, err := sampleCollection(ctx, db, name, profile[name])
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return catalog.New(cols, catalog.Workload{}), nil
}

type fieldProfile struct {
	useCount  int
	equality  bool
	rangeKind bool
}

// scanProfile reads system.profile entries at or after since, grouping
// observed predicate shapes by collection and field.
func scanProfile(ctx context.Context, db *mongo.Database, since time.Time) (map[string]map[string]*fieldProfile, error) {
	coll := db.Collection("system.profile")
	filter := bson.D{{Key: "ts", Value: bson.D{{Key: "$gte", Value: since}}}}
	cur, err := coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "ts", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]map[string]*fieldProfile)
	for cur.Next(ctx) {
		var entry struct {
			NS     string `bson:"ns"`
			Query  bson.M `bson:"query"`
			Filter bson.M `bson:"command"`
		}
		if err := cur.Decode(&entry); err != nil {
			continue
		}
		collName := collectionFromNamespace(entry.NS)
		if collName == "" {
			continue
		}
		predicates := entry.Query
		if predicates == nil {
			predicates = entry.Filter
		}
		if out[collName] == nil {
			out[collName] = make(map[string]*fieldProfile)
		}
		for field, value := range predicates {
			fp := out[collName][field]
			if fp == nil {
				fp = &fieldProfile{}
				out[collName][field] = fp
			}
			fp.useCount++
			if isRangeOperator(value) {
				fp.rangeKind = true
			} else {
				fp.equality = true
			}
		}
	}
	return out, cur.Err()
}

func isRangeOperator(v interface{}) bool {
	m, ok := v.(bson.M)
	if !ok {
		return false
	}
	for op := range m {
		switch op {
		case "$gt", "$gte", "$lt", "$lte":
			return true
		}
	}
	return false
}

func collectionFromNamespace(ns string) string {
	for i := 0; i < len(ns); i++ {
		if ns[i] == '.' {
			return ns[i+1:]
		}
	}
	return ""
}

// sampleCollection derives one catalog.Collection's statistics from a
// $sample aggregation plus the profiler-derived field usage.
func sampleCollection(ctx context.Context, db *mongo.Database, name string, profile map[string]*fieldProfile) (catalog.Collection, error) {
	coll := db.Collection(name)

	count, err := coll.EstimatedDocumentCount(ctx)
	if err != nil {
		return catalog.Collection{}, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: sampleSize}}}},
	}
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return catalog.Collection{}, err
	}
	defer cur.Close(ctx)

	distinctValues := make(map[string]map[interface{}]struct{})
	var totalBytes int64
	var sampled int64
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		raw, _ := bson.Marshal(doc)
		totalBytes += int64(len(raw))
		sampled++
		for field, value := range doc {
			if distinctValues[field] == nil {
				distinctValues[field] = make(map[interface{}]struct{})
			}
			distinctValues[field][value] = struct{}{}
		}
	}
	if err := cur.Err(); err != nil {
		return catalog.Collection{}, err
	}

	avgDocSize := 0.0
	if sampled > 0 {
		avgDocSize = float64(totalBytes) / float64(sampled)
	}

	fields := make(map[string]catalog.FieldStats, len(distinctValues))
	for field, values := range distinctValues {
		cardinality := int64(len(values))
		selectivity := 0.0
		if count > 0 {
			selectivity = float64(cardinality) / float64(count)
		}
		support := catalog.SupportNone
		useCount := 0
		if fp := profile[field]; fp != nil {
			useCount = fp.useCount
			switch {
			case fp.equality && fp.rangeKind:
				support = catalog.SupportBoth
			case fp.rangeKind:
				support = catalog.SupportRange
			case fp.equality:
				support = catalog.SupportEquality
			}
		}
		fields[field] = catalog.FieldStats{
			QueryUseCount: useCount,
			Cardinality:   cardinality,
			Selectivity:   selectivity,
			Support:       support,
		}
	}

	maxPages := estimateMaxPages(count, avgDocSize)
	return catalog.Collection{
		Name:       name,
		TupleCount: count,
		AvgDocSize: avgDocSize,
		MaxPages:   maxPages,
		Fields:     fields,
	}, nil
}

// mongoPageSize approximates WiredTiger's default page size, used only
// to turn a collection footprint into a page count for disk cost's
// max_pages statistic.
const mongoPageSize = 4096.0

func estimateMaxPages(tupleCount int64, avgDocSize float64) int64 {
	if avgDocSize <= 0 {
		return 0
	}
	bytes := float64(tupleCount) * avgDocSize
	pages := bytes / mongoPageSize
	if pages < 1 && tupleCount > 0 {
		pages = 1
	}
	return int64(pages)
}

// WorkloadFromMongo reads system.profile entries at or after since,
// groups them into sessions by client connection id and an idle-gap
// threshold, and projects each profiled operation into a catalog.Query.
func WorkloadFromMongo(ctx context.Context, db *mongo.Database, since time.Time) (*catalog.Workload, error) {
	coll := db.Collection("system.profile")
	filter := bson.D{{Key: "ts", Value: bson.D{{Key: "$gte", Value: since}}}}
	cur, err := coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "ts", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	type event struct {
		connID int64
		ts     time.Time
		query  catalog.Query
	}
	var events []event

	for cur.Next(ctx) {
		var entry struct {
			NS     string `bson:"ns"`
			Op     string `bson:"op"`
			TS     time.Time `bson:"ts"`
			ConnID int64     `bson:"client_s,omitempty"`
			Query  bson.M    `bson:"query"`
			Filter bson.M    `bson:"command"`
		}
		if err := cur.Decode(&entry); err != nil {
			continue
		}
		collName := collectionFromNamespace(entry.NS)
		if collName == "" {
			continue
		}
		predicates := entry.Query
		if predicates == nil {
			predicates = entry.Filter
		}
		events = append(events, event{
			connID: entry.ConnID,
			ts:     entry.TS,
			query:  toQuery(collName, entry.Op, predicates),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	byConn := make(map[int64][]event)
	for _, e := range events {
		byConn[e.connID] = append(byConn[e.connID], e)
	}

	var sessions []catalog.Session
	for _, evs := range byConn {
		var group []event
		flush := func() {
			if len(group) == 0 {
				return
			}
			queries := make([]catalog.Query, len(group))
			for i, e := range group {
				queries[i] = e.query
			}
			sessions = append(sessions, catalog.Session{
				StartTime: group[0].ts,
				EndTime:   group[len(group)-1].ts,
				Queries:   queries,
			})
			group = nil
		}
		for i, e := range evs {
			if i > 0 && e.ts.Sub(evs[i-1].ts) > sessionIdleGap {
				flush()
			}
			group = append(group, e)
		}
		flush()
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.Before(sessions[j].StartTime)
	})
	return &catalog.Workload{Sessions: sessions}, nil
}

func toQuery(collection, op string, predicates bson.M) catalog.Query {
	opType := catalog.OpSelect
	switch op {
	case "insert":
		opType = catalog.OpInsert
	case "update":
		opType = catalog.OpUpdate
	case "remove":
		opType = catalog.OpDelete
	}
	var preds []catalog.Predicate
	for field, value := range predicates {
		kind := catalog.PredicateEquality
		if isRangeOperator(value) {
			kind = catalog.PredicateRange
		}
		preds = append(preds, catalog.Predicate{Field: field, Kind: kind})
	}
	sort.Slice(preds, func(i, j int) bool { return preds[i].Field < preds[j].Field })
	return catalog.Query{Collection: collection, Type: opType, Predicates: preds}
}
