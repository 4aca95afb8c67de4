// Package memstore is an in-process document store with the query subset the agents use.
// It backs the "memory" driver and the package tests.
package memstore

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"hr-agent-backend/lib/docstore"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string][]bson.D
	names       []string
}

func New() *Store {
	return &Store{collections: map[string][]bson.D{}}
}

// Seed inserts documents and panics on encoding errors. Meant for fixtures.
func (s *Store) Seed(collection string, docs ...interface{}) []string {
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		id, err := s.InsertOne(context.Background(), collection, doc)
		if err != nil {
			panic(err)
		}
		ids = append(ids, id)
	}
	return ids
}

// EnsureCollection registers an empty collection.
func (s *Store) EnsureCollection(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(name)
}

func (s *Store) ensure(name string) {
	if _, ok := s.collections[name]; !ok {
		s.collections[name] = nil
		s.names = append(s.names, name)
	}
}

func (s *Store) ListCollections(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.names...), nil
}

func (s *Store) FindOne(_ context.Context, collection string, filter bson.M) (docstore.Record, error) {
	norm, err := normalizeM(filter)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.collections[collection] {
		if matches(doc, norm) {
			return clone(doc)
		}
	}
	return nil, nil
}

func (s *Store) Find(_ context.Context, collection string, filter bson.M, opts docstore.FindOptions) ([]docstore.Record, error) {
	norm, err := normalizeM(filter)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	found := []bson.D{}
	for _, doc := range s.collections[collection] {
		if matches(doc, norm) {
			found = append(found, doc)
		}
	}
	s.mu.RUnlock()

	if len(opts.Sort) > 0 {
		sortDocs(found, opts.Sort)
	}
	if opts.Skip > 0 {
		if int(opts.Skip) >= len(found) {
			found = nil
		} else {
			found = found[opts.Skip:]
		}
	}
	if opts.Limit > 0 && int(opts.Limit) < len(found) {
		found = found[:opts.Limit]
	}
	list := make([]docstore.Record, 0, len(found))
	for _, doc := range found {
		c, err := clone(doc)
		if err != nil {
			return nil, err
		}
		list = append(list, project(c, opts.Projection))
	}
	return list, nil
}

func (s *Store) InsertOne(_ context.Context, collection string, doc interface{}) (string, error) {
	d, err := toD(doc)
	if err != nil {
		return "", err
	}
	id, ok := docstore.Get(d, "_id")
	if !ok || id == nil {
		oid := primitive.NewObjectID()
		d = withoutKey(d, "_id")
		d = append(bson.D{{Key: "_id", Value: oid}}, d...)
		id = oid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(collection)
	s.collections[collection] = append(s.collections[collection], d)
	return docstore.String(id), nil
}

func (s *Store) UpdateOne(_ context.Context, collection string, filter bson.M, update bson.M) (docstore.UpdateResult, error) {
	norm, err := normalizeM(filter)
	if err != nil {
		return docstore.UpdateResult{}, err
	}
	upd, err := normalizeM(update)
	if err != nil {
		return docstore.UpdateResult{}, err
	}
	for key := range upd {
		if !strings.HasPrefix(key, "$") {
			return docstore.UpdateResult{}, errors.Errorf("update document requires atomic operators, got %q", key)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.collections[collection]
	for idx, doc := range docs {
		if !matches(doc, norm) {
			continue
		}
		next, err := applyUpdate(doc, upd)
		if err != nil {
			return docstore.UpdateResult{}, err
		}
		res := docstore.UpdateResult{Matched: 1}
		if !reflect.DeepEqual(doc, next) {
			res.Modified = 1
			docs[idx] = next
		}
		return res, nil
	}
	return docstore.UpdateResult{}, nil
}

func (s *Store) DeleteOne(_ context.Context, collection string, filter bson.M) (int64, error) {
	norm, err := normalizeM(filter)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.collections[collection]
	for idx, doc := range docs {
		if matches(doc, norm) {
			s.collections[collection] = append(docs[:idx:idx], docs[idx+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *Store) CountDocuments(_ context.Context, collection string, filter bson.M) (int64, error) {
	norm, err := normalizeM(filter)
	if err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, doc := range s.collections[collection] {
		if matches(doc, norm) {
			count++
		}
	}
	return count, nil
}

func (s *Store) Aggregate(ctx context.Context, collection string, pipeline []bson.M) ([]docstore.Record, error) {
	docs, err := s.Find(ctx, collection, nil, docstore.FindOptions{})
	if err != nil {
		return nil, err
	}
	for _, rawStage := range pipeline {
		stage, err := normalizeM(rawStage)
		if err != nil {
			return nil, err
		}
		if len(stage) != 1 {
			return nil, errors.New("aggregate stage must have exactly one operator")
		}
		for op, arg := range stage {
			switch op {
			case "$match":
				cond, _ := arg.(bson.M)
				filtered := docs[:0:0]
				for _, doc := range docs {
					if matches(doc, cond) {
						filtered = append(filtered, doc)
					}
				}
				docs = filtered
			case "$group":
				spec, _ := arg.(bson.M)
				docs, err = group(docs, spec)
				if err != nil {
					return nil, err
				}
			case "$sort":
				spec, _ := arg.(bson.M)
				sortSpec := bson.D{}
				for k, v := range spec {
					sortSpec = append(sortSpec, bson.E{Key: k, Value: v})
				}
				sortDocs(docs, sortSpec)
			case "$limit":
				n, _ := docstore.Float(arg)
				if int(n) < len(docs) {
					docs = docs[:int(n)]
				}
			default:
				return nil, errors.Errorf("aggregate stage %s is not supported", op)
			}
		}
	}
	return docs, nil
}

func group(docs []docstore.Record, spec bson.M) ([]docstore.Record, error) {
	type bucket struct {
		key    interface{}
		values map[string][]interface{}
		counts map[string]float64
	}
	buckets := []*bucket{}
	index := map[string]*bucket{}
	for _, doc := range docs {
		key := resolveExpr(doc, spec["_id"])
		hash := docstore.String(key)
		b, ok := index[hash]
		if !ok {
			b = &bucket{key: key, values: map[string][]interface{}{}, counts: map[string]float64{}}
			index[hash] = b
			buckets = append(buckets, b)
		}
		for field, acc := range spec {
			if field == "_id" {
				continue
			}
			accM, ok := acc.(bson.M)
			if !ok || len(accM) != 1 {
				return nil, errors.Errorf("group accumulator for %s is invalid", field)
			}
			for op, expr := range accM {
				switch op {
				case "$sum":
					if v, ok := docstore.Float(resolveExpr(doc, expr)); ok {
						b.counts[field] += v
					}
				case "$avg":
					if v := resolveExpr(doc, expr); v != nil {
						b.values[field] = append(b.values[field], v)
					}
				default:
					return nil, errors.Errorf("group accumulator %s is not supported", op)
				}
			}
		}
	}
	out := make([]docstore.Record, 0, len(buckets))
	for _, b := range buckets {
		rec := bson.D{{Key: "_id", Value: b.key}}
		for field, acc := range spec {
			if field == "_id" {
				continue
			}
			for op := range acc.(bson.M) {
				switch op {
				case "$sum":
					rec = append(rec, bson.E{Key: field, Value: b.counts[field]})
				case "$avg":
					var total float64
					var n int
					for _, v := range b.values[field] {
						if f, ok := docstore.Float(v); ok {
							total += f
							n++
						}
					}
					if n == 0 {
						rec = append(rec, bson.E{Key: field, Value: nil})
					} else {
						rec = append(rec, bson.E{Key: field, Value: total / float64(n)})
					}
				}
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func resolveExpr(doc docstore.Record, expr interface{}) interface{} {
	if s, ok := expr.(string); ok && strings.HasPrefix(s, "$") {
		v, _ := lookup(doc, s[1:])
		return v
	}
	return expr
}

func sortDocs(docs []bson.D, spec bson.D) {
	sort.SliceStable(docs, func(a, b int) bool {
		for _, e := range spec {
			dir, _ := docstore.Float(e.Value)
			va, _ := lookup(docs[a], e.Key)
			vb, _ := lookup(docs[b], e.Key)
			cmp, ok := compare(va, vb)
			if !ok || cmp == 0 {
				continue
			}
			if dir < 0 {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func project(doc bson.D, projection bson.M) bson.D {
	if len(projection) == 0 {
		return doc
	}
	include := false
	for key, v := range projection {
		if key == "_id" {
			continue
		}
		if f, ok := docstore.Float(v); ok && f != 0 {
			include = true
		}
	}
	keepID := true
	if v, ok := projection["_id"]; ok {
		if f, ok := docstore.Float(v); ok && f == 0 {
			keepID = false
		}
	}
	out := bson.D{}
	for _, e := range doc {
		if e.Key == "_id" {
			if keepID {
				out = append(out, e)
			}
			continue
		}
		_, listed := projection[e.Key]
		if include == listed {
			out = append(out, e)
		}
	}
	return out
}

func toD(doc interface{}) (bson.D, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encode document")
	}
	var d bson.D
	if err = bson.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "decode document")
	}
	return d, nil
}

func clone(doc bson.D) (bson.D, error) {
	return toD(doc)
}

func normalizeM(m bson.M) (bson.M, error) {
	if m == nil {
		return bson.M{}, nil
	}
	data, err := bson.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "encode filter")
	}
	var out bson.M
	if err = bson.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, "decode filter")
	}
	return out, nil
}

func withoutKey(d bson.D, key string) bson.D {
	out := d[:0:0]
	for _, e := range d {
		if e.Key != key {
			out = append(out, e)
		}
	}
	return out
}
