package keyring

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/allisson/navajo/secure"
	"github.com/allisson/navajo/validation"
)

// minKeyID is the smallest id allocation may produce; smaller values are
// rejected and redrawn to guarantee ids occupy the full 32-bit width.
const minKeyID = 1e8

// maxIDAttempts bounds id-allocation retries so a pathologically full
// keyring surfaces ErrDuplicateID instead of looping forever.
const maxIDAttempts = 10_000

// ringState is the keyring's entire mutable content, replaced wholesale
// on every lifecycle transition. Readers load a *ringState via an atomic
// pointer and never observe a partially-applied mutation; a concurrent
// Promote and Get either see the keyring before or after the promotion,
// never a state with two primaries or zero primaries.
type ringState[M Material] struct {
	keys      []*Key[M]
	primaryID uint32
}

func (s *ringState[M]) find(id uint32) (int, *Key[M]) {
	for i, k := range s.keys {
		if k.id == id {
			return i, k
		}
	}
	return -1, nil
}

func (s *ringState[M]) hasID(id uint32) bool {
	i, _ := s.find(id)
	return i >= 0
}

// Keyring is an ordered, rotatable set of keys for a single primitive
// kind, with exactly one primary key designated to produce new output.
// Mutating operations (Add, Promote, Enable, Disable, Remove,
// SetMetadata) take an internal write lock and are serialized against
// each other; read operations (Get, Primary, Keys, All) are lock-free,
// operating against an atomically-loaded immutable snapshot.
type Keyring[M Material] struct {
	state   atomic.Pointer[ringState[M]]
	writeMu sync.Mutex
	rand    io.Reader
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Keyring at construction time.
type Option[M Material] func(*Keyring[M])

// WithRand overrides the source of randomness used for id allocation.
// Defaults to crypto/rand.Reader; tests use a deterministic reader to
// exercise the collision-retry path.
func WithRand[M Material](r io.Reader) Option[M] {
	return func(k *Keyring[M]) { k.rand = r }
}

// WithClock overrides the clock used to stamp CreatedAt. Defaults to
// time.Now.
func WithClock[M Material](now func() time.Time) Option[M] {
	return func(k *Keyring[M]) { k.now = now }
}

// WithLogger overrides the logger used for non-sensitive lifecycle
// events (key added/promoted/enabled/disabled/removed). Defaults to
// slog.Default(). Key material and prefixes are never logged.
func WithLogger[M Material](logger *slog.Logger) Option[M] {
	return func(k *Keyring[M]) { k.logger = logger }
}

func newKeyring[M Material](opts ...Option[M]) *Keyring[M] {
	k := &Keyring[M]{rand: rand.Reader, now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// New constructs a Keyring holding a single Navajo-origin primary key
// wrapping material.
func New[M Material](material M, opts ...Option[M]) (*Keyring[M], error) {
	k := newKeyring(opts...)
	id, err := k.allocateID(nil)
	if err != nil {
		return nil, err
	}
	key := &Key[M]{
		id:        id,
		status:    StatusPrimary,
		origin:    OriginNavajo,
		material:  material,
		createdAt: k.now(),
	}
	k.state.Store(&ringState[M]{keys: []*Key[M]{key}, primaryID: id})
	return k, nil
}

// NewExternal constructs a Keyring holding a single External-origin
// primary key, identified on the wire by prefix rather than a 4-byte id.
func NewExternal[M Material](material M, prefix []byte, opts ...Option[M]) (*Keyring[M], error) {
	k := newKeyring(opts...)
	id, err := k.allocateID(nil)
	if err != nil {
		return nil, err
	}
	key := &Key[M]{
		id:        id,
		status:    StatusPrimary,
		origin:    OriginExternal,
		material:  material,
		prefix:    append([]byte(nil), prefix...),
		createdAt: k.now(),
	}
	k.state.Store(&ringState[M]{keys: []*Key[M]{key}, primaryID: id})
	return k, nil
}

// RestoredKey is the material-agnostic persisted shape of one key,
// used by Restore to reconstruct a Keyring from a deserialized
// envelope container.
type RestoredKey[M Material] struct {
	ID        uint32
	Status    Status
	Origin    Origin
	Material  M
	Metadata  map[string]any
	Prefix    []byte
	CreatedAt time.Time
}

// Restore reconstructs a Keyring from persisted key records, as
// produced by an envelope Open. Exactly one record must carry
// StatusPrimary and no two may share an id, mirroring the invariants
// New/Add maintain incrementally.
func Restore[M Material](records []RestoredKey[M], opts ...Option[M]) (*Keyring[M], error) {
	if len(records) == 0 {
		return nil, ErrEmptyKeyring
	}
	keys := make([]*Key[M], 0, len(records))
	seen := make(map[uint32]bool, len(records))
	var primaryID uint32
	primaryCount := 0
	for _, r := range records {
		if seen[r.ID] {
			return nil, ErrDuplicateID
		}
		seen[r.ID] = true
		if r.Status == StatusPrimary {
			primaryCount++
			primaryID = r.ID
		}
		keys = append(keys, &Key[M]{
			id:        r.ID,
			status:    r.Status,
			origin:    r.Origin,
			material:  r.Material,
			metadata:  r.Metadata,
			prefix:    append([]byte(nil), r.Prefix...),
			createdAt: r.CreatedAt,
		})
	}
	if primaryCount != 1 {
		return nil, ErrInvalidPrimaryCount
	}
	k := newKeyring(opts...)
	k.state.Store(&ringState[M]{keys: keys, primaryID: primaryID})
	return k, nil
}

func (k *Keyring[M]) load() *ringState[M] {
	return k.state.Load()
}

// allocateID draws a 32-bit id, rejecting values below minKeyID or ids
// already present in existing (nil when constructing the first key).
func (k *Keyring[M]) allocateID(existing *ringState[M]) (uint32, error) {
	var buf [4]byte
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		if _, err := io.ReadFull(k.rand, buf[:]); err != nil {
			return 0, err
		}
		id := binary.BigEndian.Uint32(buf[:])
		if id < minKeyID {
			continue
		}
		if existing != nil && existing.hasID(id) {
			continue
		}
		return id, nil
	}
	return 0, ErrDuplicateID
}

// Add appends a new Secondary, Navajo-origin key with a freshly drawn
// unique id. I4 (all keys share the same primitive kind) is enforced by
// the type system: a Keyring[M] can only ever hold M's, so a MAC
// keyring cannot acquire an AEAD key. Individual keys within a kind may
// use different algorithms of that kind (e.g. an AES-256-GCM primary
// alongside a ChaCha20-Poly1305 secondary).
func (k *Keyring[M]) Add(material M) (KeyInfo, error) {
	k.writeMu.Lock()
	defer k.writeMu.Unlock()

	cur := k.load()
	id, err := k.allocateID(cur)
	if err != nil {
		return KeyInfo{}, err
	}
	key := &Key[M]{
		id:        id,
		status:    StatusSecondary,
		origin:    OriginNavajo,
		material:  material,
		createdAt: k.now(),
	}
	next := append(append([]*Key[M]{}, cur.keys...), key)
	k.state.Store(&ringState[M]{keys: next, primaryID: cur.primaryID})
	k.logger.Info("keyring: key added", slog.Uint64("key_id", uint64(id)), slog.String("algorithm", material.Algorithm()))
	return key.Info(), nil
}

// AddExternal appends a new Secondary, External-origin key identified by
// prefix rather than an id.
func (k *Keyring[M]) AddExternal(material M, prefix []byte) (KeyInfo, error) {
	k.writeMu.Lock()
	defer k.writeMu.Unlock()

	cur := k.load()
	id, err := k.allocateID(cur)
	if err != nil {
		return KeyInfo{}, err
	}
	key := &Key[M]{
		id:        id,
		status:    StatusSecondary,
		origin:    OriginExternal,
		material:  material,
		prefix:    append([]byte(nil), prefix...),
		createdAt: k.now(),
	}
	next := append(append([]*Key[M]{}, cur.keys...), key)
	k.state.Store(&ringState[M]{keys: next, primaryID: cur.primaryID})
	k.logger.Info("keyring: external key added", slog.Uint64("key_id", uint64(id)), slog.String("algorithm", material.Algorithm()))
	return key.Info(), nil
}

// Get returns the key with the given id, or ErrKeyNotFound.
func (k *Keyring[M]) Get(id uint32) (*Key[M], error) {
	cur := k.load()
	_, key := cur.find(id)
	if key == nil {
		return nil, ErrKeyNotFound
	}
	return key, nil
}

// Primary returns the keyring's current primary key.
func (k *Keyring[M]) Primary() *Key[M] {
	cur := k.load()
	_, key := cur.find(cur.primaryID)
	return key
}

// Keys returns the keyring's KeyInfo summaries in insertion order.
func (k *Keyring[M]) Keys() []KeyInfo {
	cur := k.load()
	out := make([]KeyInfo, len(cur.keys))
	for i, key := range cur.keys {
		out[i] = key.Info()
	}
	return out
}

// All returns a snapshot of every key in the keyring, including Disabled
// ones, in insertion order. Used by primitives that must scan the full
// keyring for consumption (decrypt, verify, DAEAD lookup).
func (k *Keyring[M]) All() []*Key[M] {
	cur := k.load()
	out := make([]*Key[M], len(cur.keys))
	copy(out, cur.keys)
	return out
}

// Len returns the number of keys currently in the keyring.
func (k *Keyring[M]) Len() int {
	return len(k.load().keys)
}

// Promote sets the target key, whatever its current status, to Primary
// and demotes the incumbent primary to Secondary, implicitly enabling a
// Disabled target.
func (k *Keyring[M]) Promote(id uint32) error {
	k.writeMu.Lock()
	defer k.writeMu.Unlock()

	cur := k.load()
	targetIdx, target := cur.find(id)
	if target == nil {
		return ErrKeyNotFound
	}
	if id == cur.primaryID {
		return nil
	}

	next := append([]*Key[M]{}, cur.keys...)
	if oldIdx, oldPrimary := cur.find(cur.primaryID); oldPrimary != nil {
		next[oldIdx] = oldPrimary.withStatus(StatusSecondary)
	}
	next[targetIdx] = target.withStatus(StatusPrimary)
	k.state.Store(&ringState[M]{keys: next, primaryID: id})
	k.logger.Info("keyring: key promoted", slog.Uint64("key_id", uint64(id)), slog.Uint64("previous_primary_key_id", uint64(cur.primaryID)))
	return nil
}

// Enable transitions a Disabled key to Secondary. No-op if the key is
// already Secondary or Primary.
func (k *Keyring[M]) Enable(id uint32) error {
	k.writeMu.Lock()
	defer k.writeMu.Unlock()

	cur := k.load()
	idx, target := cur.find(id)
	if target == nil {
		return ErrKeyNotFound
	}
	if target.status != StatusDisabled {
		return nil
	}

	next := append([]*Key[M]{}, cur.keys...)
	next[idx] = target.withStatus(StatusSecondary)
	k.state.Store(&ringState[M]{keys: next, primaryID: cur.primaryID})
	k.logger.Info("keyring: key enabled", slog.Uint64("key_id", uint64(id)))
	return nil
}

// Disable transitions a Secondary key to Disabled. Rejects the primary
// key (I6). No-op if already Disabled.
func (k *Keyring[M]) Disable(id uint32) error {
	k.writeMu.Lock()
	defer k.writeMu.Unlock()

	cur := k.load()
	idx, target := cur.find(id)
	if target == nil {
		return ErrKeyNotFound
	}
	if id == cur.primaryID {
		return ErrPrimaryRequired
	}
	if target.status == StatusDisabled {
		return nil
	}

	next := append([]*Key[M]{}, cur.keys...)
	next[idx] = target.withStatus(StatusDisabled)
	k.state.Store(&ringState[M]{keys: next, primaryID: cur.primaryID})
	k.logger.Info("keyring: key disabled", slog.Uint64("key_id", uint64(id)))
	return nil
}

// Remove deletes the target key. Rejects the primary key (I5) and the
// last remaining key (I5). The removed key's material is zeroized.
func (k *Keyring[M]) Remove(id uint32) error {
	k.writeMu.Lock()
	defer k.writeMu.Unlock()

	cur := k.load()
	idx, target := cur.find(id)
	if target == nil {
		return ErrKeyNotFound
	}
	if len(cur.keys) == 1 {
		return ErrLastKey
	}
	if id == cur.primaryID {
		return ErrPrimaryRequired
	}

	next := make([]*Key[M], 0, len(cur.keys)-1)
	next = append(next, cur.keys[:idx]...)
	next = append(next, cur.keys[idx+1:]...)
	k.state.Store(&ringState[M]{keys: next, primaryID: cur.primaryID})

	target.material.Zero()
	secure.Zero(target.prefix)
	k.logger.Info("keyring: key removed", slog.Uint64("key_id", uint64(id)))
	return nil
}

// SetMetadata replaces the target key's metadata.
func (k *Keyring[M]) SetMetadata(id uint32, meta map[string]any) error {
	if err := validation.Metadata(meta); err != nil {
		return err
	}

	k.writeMu.Lock()
	defer k.writeMu.Unlock()

	cur := k.load()
	idx, target := cur.find(id)
	if target == nil {
		return ErrKeyNotFound
	}

	next := append([]*Key[M]{}, cur.keys...)
	next[idx] = target.withMetadata(meta)
	k.state.Store(&ringState[M]{keys: next, primaryID: cur.primaryID})
	return nil
}

// Close zeroizes every key's material. The keyring must not be used
// afterward.
func (k *Keyring[M]) Close() {
	k.writeMu.Lock()
	defer k.writeMu.Unlock()

	cur := k.load()
	for _, key := range cur.keys {
		key.material.Zero()
		secure.Zero(key.prefix)
	}
	k.state.Store(&ringState[M]{})
}
