// Package datastore contains the default [domain.Store] implementation. It
// owns the in-memory document tree and wires the path navigator, the index
// store, the query engine and the persistence gateway together.
package datastore

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/vinicius-lino-figueiredo/pathdb/domain"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/aggregator"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/data"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/deserializer"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/idgenerator"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/index"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/pathnav"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/persistence"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/querier"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/serializer"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/storage"
	"github.com/vinicius-lino-figueiredo/pathdb/internal/adapter/timegetter"
	"github.com/vinicius-lino-figueiredo/pathdb/pkg/ctxsync"
)

// persistMode tells a mutator how to flush. Batch execution threads
// persistDeferred through its steps instead of toggling the store's
// autosave setting.
type persistMode int

const (
	persistAuto persistMode = iota
	persistDeferred
)

// defaultDeleteField is the element field matched against delete keys when
// none is configured.
const defaultDeleteField = "id"

// Store implements [domain.Store].
type Store struct {
	filename          string
	autoSave          bool
	createIfNotExists bool
	defaultValue      map[string]any
	enableIndexing    bool
	autoIndex         bool
	autoID            bool
	fileMode          os.FileMode
	dirMode           os.FileMode

	serializer    domain.Serializer
	deserializer  domain.Deserializer
	storage       domain.Storage
	persistence   domain.Persistence
	comparer      domain.Comparer
	decoder       domain.Decoder
	pathNavigator domain.PathNavigator
	indexes       domain.IndexStore
	querier       domain.Querier
	aggregator    domain.Aggregator
	timeGetter    domain.TimeGetter
	idGenerator   domain.IDGenerator

	executor *ctxsync.Mutex
	doc      map[string]any
	pending  int64
}

// NewStore returns a new implementation of [domain.Store]. The store must
// be opened before use.
func NewStore(options ...Option) (domain.Store, error) {
	s := &Store{
		autoSave:          true,
		createIfNotExists: true,
		enableIndexing:    true,
		autoIndex:         true,
		fileMode:          persistence.DefaultFileMode,
		dirMode:           persistence.DefaultDirMode,
		executor:          ctxsync.NewMutex(),
		doc:               map[string]any{},
	}
	for _, option := range options {
		option(s)
	}

	if s.comparer == nil {
		s.comparer = comparer.NewComparer()
	}
	if s.decoder == nil {
		s.decoder = decoder.NewDecoder()
	}
	if s.pathNavigator == nil {
		s.pathNavigator = pathnav.NewPathNavigator()
	}
	if s.serializer == nil {
		s.serializer = serializer.NewSerializer()
	}
	if s.deserializer == nil {
		s.deserializer = deserializer.NewDeserializer()
	}
	if s.storage == nil {
		s.storage = storage.NewStorage()
	}
	if s.timeGetter == nil {
		s.timeGetter = timegetter.NewTimeGetter()
	}
	if s.idGenerator == nil {
		s.idGenerator = idgenerator.NewIDGenerator()
	}
	if s.indexes == nil {
		s.indexes = index.NewIndexStore()
	}
	if s.aggregator == nil {
		s.aggregator = aggregator.NewAggregator(
			domain.WithAggregatorComparer(s.comparer),
			domain.WithAggregatorPathNavigator(s.pathNavigator),
		)
	}
	if s.querier == nil {
		s.querier = querier.NewQuerier(
			domain.WithQuerierComparer(s.comparer),
			domain.WithQuerierAggregator(s.aggregator),
			domain.WithQuerierTimeGetter(s.timeGetter),
			domain.WithQuerierPathNavigator(s.pathNavigator),
		)
	}
	if s.persistence == nil {
		if s.filename == "" {
			return nil, fmt.Errorf("%w: a filename is required", domain.ErrConfiguration)
		}
		p, err := persistence.NewPersistence(
			domain.WithPersistenceFilename(s.filename),
			domain.WithPersistenceFileMode(s.fileMode),
			domain.WithPersistenceDirMode(s.dirMode),
			domain.WithPersistenceCreateIfNotExists(s.createIfNotExists),
			domain.WithPersistenceDefaultValue(s.defaultValue),
			domain.WithPersistenceSerializer(s.serializer),
			domain.WithPersistenceDeserializer(s.deserializer),
			domain.WithPersistenceStorage(s.storage),
		)
		if err != nil {
			return nil, err
		}
		s.persistence = p
	}

	return s, nil
}

// Open implements [domain.Store].
func (s *Store) Open(ctx context.Context) error {
	if err := s.executor.LockWithContext(ctx); err != nil {
		return err
	}
	defer s.executor.Unlock()

	doc, err := s.persistence.Load(ctx)
	if err != nil {
		return err
	}
	s.doc = doc
	s.pending = 0

	if s.autoIndex && s.enableIndexing {
		for path := range s.indexes.Definitions() {
			if err := s.rebuildPath(ctx, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// Save implements [domain.Store].
func (s *Store) Save(ctx context.Context) error {
	if err := s.executor.LockWithContext(ctx); err != nil {
		return err
	}
	defer s.executor.Unlock()
	if s.pending == 0 {
		return nil
	}
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	if err := s.persistence.Persist(ctx, s.doc); err != nil {
		return err
	}
	s.pending = 0
	return nil
}

// flush runs the autosave policy after one mutation. Deferred mode leaves
// the pending counter for a later Save or the batch's final flush.
func (s *Store) flush(ctx context.Context, mode persistMode) error {
	if mode == persistDeferred || !s.autoSave {
		return nil
	}
	return s.persist(ctx)
}

// Get implements [domain.Store].
func (s *Store) Get(ctx context.Context, path string) (any, error) {
	if err := s.executor.LockWithContext(ctx); err != nil {
		return nil, err
	}
	defer s.executor.Unlock()

	value, ok := s.pathNavigator.Get(s.doc, path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrNotFound, path)
	}
	return data.Clone(value), nil
}

// Has implements [domain.Store].
func (s *Store) Has(ctx context.Context, path string) (bool, error) {
	if err := s.executor.LockWithContext(ctx); err != nil {
		return false, err
	}
	defer s.executor.Unlock()
	return s.pathNavigator.Has(s.doc, path), nil
}

// Scan implements [domain.Store].
func (s *Store) Scan(ctx context.Context, path string, target any) error {
	if target == nil {
		return fmt.Errorf("%w: scan target is nil", domain.ErrPrecondition)
	}
	value, err := s.Get(ctx, path)
	if err != nil {
		return err
	}
	return s.decoder.Decode(value, target)
}

// Set implements [domain.Store].
func (s *Store) Set(ctx context.Context, path string, value any) error {
	if err := s.executor.LockWithContext(ctx); err != nil {
		return err
	}
	defer s.executor.Unlock()
	return s.set(ctx, path, value, persistAuto)
}

func (s *Store) set(ctx context.Context, path string, value any, mode persistMode) error {
	normalized, err := data.Normalize(value)
	if err != nil {
		return err
	}

	old, _ := s.pathNavigator.Get(s.doc, path)
	if err := s.pathNavigator.Set(s.doc, path, normalized); err != nil {
		return err
	}
	s.pending++

	// A set invalidates indexes only when the old or the new value is
	// array-shaped.
	_, oldIsArray := old.([]any)
	_, newIsArray := normalized.([]any)
	if oldIsArray || newIsArray {
		if err := s.rebuildPath(ctx, path); err != nil {
			return err
		}
	}
	return s.flush(ctx, mode)
}

// Unset implements [domain.Store].
func (s *Store) Unset(ctx context.Context, path string) error {
	if err := s.executor.LockWithContext(ctx); err != nil {
		return err
	}
	defer s.executor.Unlock()
	return s.unset(ctx, path, persistAuto)
}

func (s *Store) unset(ctx context.Context, path string, mode persistMode) error {
	old, ok := s.pathNavigator.Get(s.doc, path)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrNotFound, path)
	}
	if err := s.pathNavigator.Unset(s.doc, path); err != nil {
		return err
	}
	s.pending++

	if _, wasArray := old.([]any); wasArray {
		if err := s.rebuildPath(ctx, path); err != nil {
			return err
		}
	}
	return s.flush(ctx, mode)
}

// Push implements [domain.Store].
func (s *Store) Push(ctx context.Context, path string, values ...any) error {
	if err := s.executor.LockWithContext(ctx); err != nil {
		return err
	}
	defer s.executor.Unlock()
	return s.push(ctx, path, values, persistAuto)
}

func (s *Store) push(ctx context.Context, path string, values []any, mode persistMode) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: push requires at least one value", domain.ErrPrecondition)
	}

	normalized := make([]any, len(values))
	for n, v := range values {
		nv, err := data.Normalize(v)
		if err != nil {
			return err
		}
		if s.autoID {
			if obj, ok := nv.(map[string]any); ok {
				if _, hasID := obj["id"]; !hasID {
					id, err := s.idGenerator.GenerateID()
					if err != nil {
						return err
					}
					obj["id"] = id
				}
			}
		}
		normalized[n] = nv
	}

	cur, exists := s.pathNavigator.Get(s.doc, path)
	var list []any
	switch {
	case !exists || cur == nil:
		list = normalized
	default:
		arr, ok := cur.([]any)
		if !ok {
			return fmt.Errorf("%w: cannot push onto non-array at %q", domain.ErrTypeMismatch, path)
		}
		list = append(arr, normalized...)
	}
	if err := s.pathNavigator.Set(s.doc, path, list); err != nil {
		return err
	}
	s.pending++

	if err := s.rebuildPath(ctx, path); err != nil {
		return err
	}
	return s.flush(ctx, mode)
}

// Delete implements [domain.Store].
func (s *Store) Delete(ctx context.Context, path string, options ...domain.DeleteOption) (int64, error) {
	if err := s.executor.LockWithContext(ctx); err != nil {
		return 0, err
	}
	defer s.executor.Unlock()

	opts := domain.DeleteOptions{Field: defaultDeleteField}
	for _, option := range options {
		option(&opts)
	}
	return s.delete(ctx, path, opts, persistAuto)
}

func (s *Store) delete(ctx context.Context, path string, opts domain.DeleteOptions, mode persistMode) (int64, error) {
	if opts.Field == "" {
		opts.Field = defaultDeleteField
	}

	cur, exists := s.pathNavigator.Get(s.doc, path)
	if !exists {
		return 0, fmt.Errorf("%w: %q", domain.ErrNotFound, path)
	}

	if arr, ok := cur.([]any); ok {
		return s.deleteFromArray(ctx, path, arr, opts, mode)
	}

	// Object or scalar target: keys unset child fields, no keys unsets
	// the whole path.
	if len(opts.Keys) > 0 {
		obj, ok := cur.(map[string]any)
		if !ok {
			return 0, fmt.Errorf("%w: cannot delete keys from non-object at %q", domain.ErrTypeMismatch, path)
		}
		var removed int64
		for _, key := range opts.Keys {
			name, ok := key.(string)
			if !ok {
				name = data.IndexKey(key)
			}
			if _, exists := obj[name]; exists {
				delete(obj, name)
				removed++
			}
		}
		s.pending++
		return removed, s.flush(ctx, mode)
	}

	if err := s.pathNavigator.Unset(s.doc, path); err != nil {
		return 0, err
	}
	s.pending++
	return 1, s.flush(ctx, mode)
}

func (s *Store) deleteFromArray(ctx context.Context, path string, arr []any, opts domain.DeleteOptions, mode persistMode) (int64, error) {
	var keep []any

	switch {
	case opts.Predicate != nil:
		keep = make([]any, 0, len(arr))
		for _, element := range arr {
			if !opts.Predicate(element) {
				keep = append(keep, element)
			}
		}
	case len(opts.Keys) > 0:
		remove := make(map[int]bool, len(opts.Keys))
		if s.enableIndexing && s.indexes.HasIndex(path, opts.Field) {
			// index-assisted removal: one lookup per key
			for _, key := range opts.Keys {
				for _, pos := range s.indexes.PositionsOf(path, opts.Field, key) {
					remove[pos] = true
				}
			}
		} else {
			for pos, element := range arr {
				obj, ok := element.(map[string]any)
				if !ok {
					continue
				}
				value, ok := obj[opts.Field]
				if !ok {
					continue
				}
				for _, key := range opts.Keys {
					comp, err := s.comparer.Compare(value, key)
					if err != nil {
						return 0, err
					}
					if comp == 0 {
						remove[pos] = true
						break
					}
				}
			}
		}
		keep = make([]any, 0, len(arr))
		for pos, element := range arr {
			if !remove[pos] {
				keep = append(keep, element)
			}
		}
	default:
		return 0, fmt.Errorf("%w: delete on an array requires a predicate or keys", domain.ErrPrecondition)
	}

	removed := int64(len(arr) - len(keep))
	if err := s.pathNavigator.Set(s.doc, path, keep); err != nil {
		return 0, err
	}
	s.pending++

	if err := s.rebuildPath(ctx, path); err != nil {
		return 0, err
	}
	return removed, s.flush(ctx, mode)
}

// Update implements [domain.Store].
func (s *Store) Update(ctx context.Context, path string, patch map[string]any, options ...domain.UpdateOption) error {
	if err := s.executor.LockWithContext(ctx); err != nil {
		return err
	}
	defer s.executor.Unlock()

	opts := domain.UpdateOptions{}
	for _, option := range options {
		option(&opts)
	}
	return s.update(ctx, path, patch, opts, persistAuto)
}

func (s *Store) update(ctx context.Context, path string, patch map[string]any, opts domain.UpdateOptions, mode persistMode) error {
	normalized, err := data.NormalizeObject(patch)
	if err != nil {
		return err
	}

	cur, exists := s.pathNavigator.Get(s.doc, path)
	if !exists {
		return fmt.Errorf("%w: %q", domain.ErrNotFound, path)
	}

	switch t := cur.(type) {
	case []any:
		if err := s.updateInArray(path, t, normalized, opts); err != nil {
			return err
		}
		s.pending++
		if err := s.rebuildPath(ctx, path); err != nil {
			return err
		}
	case map[string]any:
		data.Merge(t, normalized)
		s.pending++
	default:
		return fmt.Errorf("%w: cannot update scalar at %q", domain.ErrTypeMismatch, path)
	}
	return s.flush(ctx, mode)
}

func (s *Store) updateInArray(path string, arr []any, patch map[string]any, opts domain.UpdateOptions) error {
	if opts.Predicate == nil && len(opts.Where) == 0 {
		return fmt.Errorf("%w: update on an array requires a predicate or conditions", domain.ErrPrecondition)
	}

	if len(opts.Where) > 0 && s.enableIndexing && s.indexes.HasIndexes(path) {
		// The first indexed condition field wins; on a hit the patch is
		// merged without re-checking the remaining conditions.
		for _, field := range sortedKeys(opts.Where) {
			if !s.indexes.HasIndex(path, field) {
				continue
			}
			pos, ok := s.indexes.PositionOf(path, field, opts.Where[field])
			if !ok {
				break // fall back to the linear find
			}
			if pos < 0 || pos >= len(arr) {
				break
			}
			return s.mergeElement(arr, pos, patch)
		}
	}

	for pos, element := range arr {
		match, err := s.matchesUpdate(element, opts)
		if err != nil {
			return err
		}
		if match {
			return s.mergeElement(arr, pos, patch)
		}
	}
	return fmt.Errorf("%w: no element matched the update at %q", domain.ErrNotFound, path)
}

func (s *Store) matchesUpdate(element any, opts domain.UpdateOptions) (bool, error) {
	if opts.Predicate != nil {
		return opts.Predicate(element), nil
	}
	obj, ok := element.(map[string]any)
	if !ok {
		return false, nil
	}
	for field, expected := range opts.Where {
		value, ok := s.pathNavigator.Get(obj, field)
		if !ok {
			return false, nil
		}
		comp, err := s.comparer.Compare(value, expected)
		if err != nil {
			return false, err
		}
		if comp != 0 {
			return false, nil
		}
	}
	return true, nil
}

func (s *Store) mergeElement(arr []any, pos int, patch map[string]any) error {
	obj, ok := arr[pos].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: cannot merge into non-object element at position %d", domain.ErrTypeMismatch, pos)
	}
	data.Merge(obj, patch)
	return nil
}

// CreateIndex implements [domain.Store].
func (s *Store) CreateIndex(ctx context.Context, path, field string, kind domain.IndexKind) error {
	if err := s.executor.LockWithContext(ctx); err != nil {
		return err
	}
	defer s.executor.Unlock()
	return s.createIndex(ctx, path, field, kind)
}

func (s *Store) createIndex(ctx context.Context, path, field string, kind domain.IndexKind) error {
	if !s.enableIndexing {
		return domain.ErrIndexingDisabled
	}
	elements, err := s.collection(path)
	if err != nil {
		return err
	}
	return s.indexes.Create(ctx, path, field, kind, elements)
}

// DropIndex implements [domain.Store].
func (s *Store) DropIndex(ctx context.Context, path, field string) error {
	if err := s.executor.LockWithContext(ctx); err != nil {
		return err
	}
	defer s.executor.Unlock()
	return s.dropIndex(path, field)
}

func (s *Store) dropIndex(path, field string) error {
	if !s.enableIndexing {
		return domain.ErrIndexingDisabled
	}
	s.indexes.Drop(path, field)
	return nil
}

// Indexes implements [domain.Store].
func (s *Store) Indexes(ctx context.Context) (map[string]map[string]domain.IndexDefinition, error) {
	if err := s.executor.LockWithContext(ctx); err != nil {
		return nil, err
	}
	defer s.executor.Unlock()
	if !s.enableIndexing {
		return nil, domain.ErrIndexingDisabled
	}
	return s.indexes.Definitions(), nil
}

// PositionOf implements [domain.Store].
func (s *Store) PositionOf(ctx context.Context, path, field string, value any) (int, bool, error) {
	if err := s.executor.LockWithContext(ctx); err != nil {
		return 0, false, err
	}
	defer s.executor.Unlock()
	if !s.enableIndexing {
		return 0, false, domain.ErrIndexingDisabled
	}
	pos, ok := s.indexes.PositionOf(path, field, value)
	return pos, ok, nil
}

// PositionsOf implements [domain.Store].
func (s *Store) PositionsOf(ctx context.Context, path, field string, value any) ([]int, error) {
	if err := s.executor.LockWithContext(ctx); err != nil {
		return nil, err
	}
	defer s.executor.Unlock()
	if !s.enableIndexing {
		return nil, domain.ErrIndexingDisabled
	}
	return s.indexes.PositionsOf(path, field, value), nil
}

// Query implements [domain.Store].
func (s *Store) Query(ctx context.Context, path string, options ...domain.QueryOption) (*domain.QueryResult, error) {
	if err := s.executor.LockWithContext(ctx); err != nil {
		return nil, err
	}
	defer s.executor.Unlock()
	return s.query(ctx, path, options...)
}

func (s *Store) query(ctx context.Context, path string, options ...domain.QueryOption) (*domain.QueryResult, error) {
	elements, err := s.collection(path)
	if err != nil {
		return nil, err
	}
	var lookup domain.IndexLookup
	if s.enableIndexing {
		lookup = s.indexes
	}
	return s.querier.Query(ctx, path, elements, lookup, options...)
}

// OrderBy implements [domain.Store].
func (s *Store) OrderBy(ctx context.Context, path string, sort domain.Sort) ([]any, error) {
	res, err := s.Query(ctx, path, domain.WithQuerySort(sort))
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Paginate implements [domain.Store].
func (s *Store) Paginate(ctx context.Context, path string, page, pageSize int64, options ...domain.QueryOption) (*domain.QueryResult, error) {
	options = append(options, domain.WithQueryPage(page, pageSize))
	return s.Query(ctx, path, options...)
}

// Count implements [domain.Store].
func (s *Store) Count(ctx context.Context, path string, where map[string]any) (int64, error) {
	res, err := s.Query(ctx, path, domain.WithQueryWhere(where))
	if err != nil {
		return 0, err
	}
	return res.Stats.FilteredRecords, nil
}

// Aggregate implements [domain.Store].
func (s *Store) Aggregate(ctx context.Context, path string, aggregations []domain.Aggregation, where map[string]any) (map[string]any, error) {
	res, err := s.Query(ctx, path,
		domain.WithQueryWhere(where),
		domain.WithQueryAggregations(aggregations...),
	)
	if err != nil {
		return nil, err
	}
	return res.Aggregations, nil
}

// Distinct implements [domain.Store].
func (s *Store) Distinct(ctx context.Context, path, field string) ([]any, error) {
	res, err := s.Query(ctx, path)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	values := make([]any, 0, len(res.Data))
	for _, element := range res.Data {
		obj, ok := element.(map[string]any)
		if !ok {
			continue
		}
		value, ok := s.pathNavigator.Get(obj, field)
		if !ok {
			continue
		}
		key := data.IndexKey(value)
		if seen[key] {
			continue
		}
		seen[key] = true
		values = append(values, value)
	}
	return values, nil
}

// collection returns the array at path, failing with a type error when the
// path holds anything else. An absent path reads as an empty collection.
func (s *Store) collection(path string) ([]any, error) {
	cur, exists := s.pathNavigator.Get(s.doc, path)
	if !exists || cur == nil {
		return nil, nil
	}
	arr, ok := cur.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q does not hold an array", domain.ErrTypeMismatch, path)
	}
	return arr, nil
}

// rebuildPath recomputes every index registered on path before the mutation
// becomes externally visible. A path no longer holding an array rebuilds to
// empty entries.
func (s *Store) rebuildPath(ctx context.Context, path string) error {
	if !s.enableIndexing || !s.indexes.HasIndexes(path) {
		return nil
	}
	cur, _ := s.pathNavigator.Get(s.doc, path)
	elements, _ := cur.([]any)
	return s.indexes.Rebuild(ctx, path, elements)
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}
