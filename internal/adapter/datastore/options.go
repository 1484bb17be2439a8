package datastore

import (
	"os"

	"github.com/vinicius-lino-figueiredo/pathdb/domain"
)

// Option configures store behavior through the functional options pattern.
type Option func(*Store)

// WithFilename sets the backing file name for the store.
func WithFilename(f string) Option {
	return func(s *Store) {
		s.filename = f
	}
}

// WithAutoSave controls whether every mutation flushes the document to the
// backing file. Enabled by default; when disabled, only Save flushes.
func WithAutoSave(a bool) Option {
	return func(s *Store) {
		s.autoSave = a
	}
}

// WithCreateIfNotExists controls whether an absent backing file is created
// with the default document on Open instead of failing.
func WithCreateIfNotExists(c bool) Option {
	return func(s *Store) {
		s.createIfNotExists = c
	}
}

// WithDefaultValue sets the document written when the backing file is
// created on Open. Defaults to an empty object.
func WithDefaultValue(doc map[string]any) Option {
	return func(s *Store) {
		s.defaultValue = doc
	}
}

// WithEnableIndexing controls whether indexes can be created and consulted.
// When disabled, index operations fail with a configuration error and
// queries always scan linearly.
func WithEnableIndexing(e bool) Option {
	return func(s *Store) {
		s.enableIndexing = e
	}
}

// WithAutoIndex controls whether Open rebuilds all previously registered
// index definitions. A no-op on a fresh store.
func WithAutoIndex(a bool) Option {
	return func(s *Store) {
		s.autoIndex = a
	}
}

// WithAutoID makes Push assign a generated id to object elements lacking
// one.
func WithAutoID(a bool) Option {
	return func(s *Store) {
		s.autoID = a
	}
}

// WithFileMode sets the permissions of the backing file.
func WithFileMode(f os.FileMode) Option {
	return func(s *Store) {
		s.fileMode = f
	}
}

// WithDirMode sets the permissions of created parent directories.
func WithDirMode(d os.FileMode) Option {
	return func(s *Store) {
		s.dirMode = d
	}
}

// WithSerializer sets the serializer for converting the document to bytes.
func WithSerializer(se domain.Serializer) Option {
	return func(s *Store) {
		s.serializer = se
	}
}

// WithDeserializer sets the deserializer for converting bytes back to the
// document.
func WithDeserializer(d domain.Deserializer) Option {
	return func(s *Store) {
		s.deserializer = d
	}
}

// WithStorage sets the storage implementation for low-level file
// operations.
func WithStorage(st domain.Storage) Option {
	return func(s *Store) {
		s.storage = st
	}
}

// WithPersistence sets the persistence implementation loading and flushing
// the document.
func WithPersistence(p domain.Persistence) Option {
	return func(s *Store) {
		s.persistence = p
	}
}

// WithComparer sets the comparer for value comparison operations.
func WithComparer(c domain.Comparer) Option {
	return func(s *Store) {
		s.comparer = c
	}
}

// WithDecoder sets the decoder used by Scan.
func WithDecoder(d domain.Decoder) Option {
	return func(s *Store) {
		s.decoder = d
	}
}

// WithPathNavigator sets the navigator for nested path access.
func WithPathNavigator(n domain.PathNavigator) Option {
	return func(s *Store) {
		s.pathNavigator = n
	}
}

// WithIndexStore sets the index store implementation.
func WithIndexStore(i domain.IndexStore) Option {
	return func(s *Store) {
		s.indexes = i
	}
}

// WithQuerier sets the query engine implementation.
func WithQuerier(q domain.Querier) Option {
	return func(s *Store) {
		s.querier = q
	}
}

// WithAggregator sets the aggregator used by the query engine default.
func WithAggregator(a domain.Aggregator) Option {
	return func(s *Store) {
		s.aggregator = a
	}
}

// WithTimeGetter sets the clock used for execution statistics.
func WithTimeGetter(t domain.TimeGetter) Option {
	return func(s *Store) {
		s.timeGetter = t
	}
}

// WithIDGenerator sets the generator producing ids for pushed elements.
func WithIDGenerator(g domain.IDGenerator) Option {
	return func(s *Store) {
		s.idGenerator = g
	}
}
