// Package store caches coloring results in a badger key-value store so a
// mesh that was colored before can skip the DSATUR pass.
package store

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/chazu/roft/pkg/graph"
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/ugorji/go/codec"
)

// ErrNotFound is returned by Get when no entry exists for a key.
var ErrNotFound = errors.New("store: entry not found")

// entryVersion is bumped whenever the Entry layout or the edge numbering
// changes, so stale entries are treated as misses.
const entryVersion = 1

var keyPrefix = []byte("roft/coloring/")

// Key identifies a coloring: the mesh fingerprint plus the options that
// shape the edge graph and its colors.
type Key struct {
	Fingerprint uint64
	Augment     bool
	Policy      graph.ColorPolicy
}

func (k Key) bytes() []byte {
	b := make([]byte, 0, len(keyPrefix)+8+2)
	b = append(b, keyPrefix...)
	b = binary.BigEndian.AppendUint64(b, k.Fingerprint)
	aug := byte(0)
	if k.Augment {
		aug = 1
	}
	return append(b, aug, byte(k.Policy))
}

// Entry is a stored coloring.
type Entry struct {
	Version int   `codec:"v"`
	Nodes   int   `codec:"nodes"`
	Edges   int   `codec:"edges"`
	Colors  []int `codec:"colors"` // indexed by EdgeID
	Count   int   `codec:"count"`  // number of distinct colors
	Steps   int   `codec:"steps"`
}

// Store wraps a badger database.
type Store struct {
	db *badger.DB
	mh codec.MsgpackHandle
}

// Open opens the store in dir, creating it if needed. An empty dir keeps
// everything in memory for the life of the Store.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = klogLogger{}
	opts.MetricsEnabled = false
	if dir == "" {
		opts.InMemory = true
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "store: open %q", dir)
	}
	klog.V(2).Infof("store: opened %q (in memory: %v)", dir, opts.InMemory)
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return errors.Wrap(err, "store: close")
}

// Get returns the entry stored under k, or ErrNotFound. Entries written by
// an incompatible version are reported as ErrNotFound.
func (s *Store) Get(k Key) (*Entry, error) {
	var e Entry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k.bytes())
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return codec.NewDecoderBytes(val, &s.mh).Decode(&e)
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "store: get %016x", k.Fingerprint)
	}
	if e.Version != entryVersion {
		return nil, errors.Wrapf(ErrNotFound, "store: entry %016x has version %d", k.Fingerprint, e.Version)
	}
	return &e, nil
}

// Put stores e under k, replacing any previous entry.
func (s *Store) Put(k Key, e *Entry) error {
	e.Version = entryVersion
	var buf []byte
	if err := codec.NewEncoderBytes(&buf, &s.mh).Encode(e); err != nil {
		return errors.Wrap(err, "store: encode")
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k.bytes(), buf)
	})
	return errors.Wrapf(err, "store: put %016x", k.Fingerprint)
}

// Len returns the number of stored colorings.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, errors.Wrap(err, "store: len")
}

// Fingerprint hashes a mesh's vertex positions and triangle indices. Meshes
// with the same fingerprint produce the same edge graph.
func Fingerprint(m graph.Mesh) uint64 {
	h := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	put(uint64(m.VertexCount()))
	for i := 0; i < m.VertexCount(); i++ {
		x, y, z := m.Vertex(i)
		put(math.Float64bits(x))
		put(math.Float64bits(y))
		put(math.Float64bits(z))
	}
	put(uint64(m.TriangleCount()))
	for i := 0; i < m.TriangleCount(); i++ {
		t := m.Triangle(i)
		put(uint64(t[0])<<32 | uint64(t[1]))
		put(uint64(t[2]))
	}
	return h.Sum64()
}

// klogLogger routes badger's logging through klog.
type klogLogger struct{}

func (klogLogger) Errorf(format string, args ...interface{})   { klog.Errorf(format, args...) }
func (klogLogger) Warningf(format string, args ...interface{}) { klog.Warningf(format, args...) }
func (klogLogger) Infof(format string, args ...interface{})    { klog.V(2).Infof(format, args...) }
func (klogLogger) Debugf(format string, args ...interface{})   { klog.V(4).Infof(format, args...) }
