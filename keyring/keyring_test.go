package keyring

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testMaterial struct {
	alg    string
	secret []byte
}

func (m *testMaterial) Algorithm() string { return m.alg }
func (m *testMaterial) Zero() {
	for i := range m.secret {
		m.secret[i] = 0
	}
}

func newTestMaterial(alg string) *testMaterial {
	return &testMaterial{alg: alg, secret: []byte("super-secret-key-material-bytes")}
}

// sequentialRand yields a fixed sequence of 4-byte big-endian values,
// looping, so tests can force an id-collision retry deterministically.
type sequentialRand struct {
	values [][4]byte
	i      int
}

func (r *sequentialRand) Read(p []byte) (int, error) {
	v := r.values[r.i%len(r.values)]
	r.i++
	n := copy(p, v[:])
	return n, nil
}

func TestNew(t *testing.T) {
	kr, err := New[*testMaterial](newTestMaterial("TEST"))
	require.NoError(t, err)
	assert.Equal(t, 1, kr.Len())

	primary := kr.Primary()
	require.NotNil(t, primary)
	assert.Equal(t, StatusPrimary, primary.Status())
	assert.Equal(t, OriginNavajo, primary.Origin())
	assert.GreaterOrEqual(t, primary.ID(), uint32(minKeyID))
}

func TestNewExternal(t *testing.T) {
	prefix := []byte("my-prefix")
	kr, err := NewExternal[*testMaterial](newTestMaterial("TEST"), prefix)
	require.NoError(t, err)

	primary := kr.Primary()
	assert.Equal(t, OriginExternal, primary.Origin())
	assert.Equal(t, prefix, primary.Prefix())
}

func TestAdd(t *testing.T) {
	kr, err := New[*testMaterial](newTestMaterial("TEST"))
	require.NoError(t, err)
	primaryID := kr.Primary().ID()

	info, err := kr.Add(newTestMaterial("TEST"))
	require.NoError(t, err)
	assert.Equal(t, StatusSecondary, info.Status)
	assert.NotEqual(t, primaryID, info.ID)
	assert.Equal(t, 2, kr.Len())

	t.Run("allows a different algorithm of the same kind", func(t *testing.T) {
		info, err := kr.Add(newTestMaterial("OTHER"))
		require.NoError(t, err)
		assert.Equal(t, "OTHER", info.Algorithm)
	})

	t.Run("retries past a colliding id", func(t *testing.T) {
		existingID := kr.Primary().ID()
		collide := [4]byte{byte(existingID >> 24), byte(existingID >> 16), byte(existingID >> 8), byte(existingID)}
		fresh := [4]byte{0x0A, 0x00, 0x00, 0x01}
		kr.rand = &sequentialRand{values: [][4]byte{collide, fresh}}
		info, err := kr.Add(newTestMaterial("TEST"))
		require.NoError(t, err)
		assert.NotEqual(t, existingID, info.ID)
	})
}

func TestGet(t *testing.T) {
	kr, err := New[*testMaterial](newTestMaterial("TEST"))
	require.NoError(t, err)
	id := kr.Primary().ID()

	key, err := kr.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, key.ID())

	_, err = kr.Get(999)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestPromote(t *testing.T) {
	kr, err := New[*testMaterial](newTestMaterial("TEST"))
	require.NoError(t, err)
	oldPrimaryID := kr.Primary().ID()

	info, err := kr.Add(newTestMaterial("TEST"))
	require.NoError(t, err)

	require.NoError(t, kr.Promote(info.ID))
	assert.Equal(t, info.ID, kr.Primary().ID())

	oldPrimary, err := kr.Get(oldPrimaryID)
	require.NoError(t, err)
	assert.Equal(t, StatusSecondary, oldPrimary.Status())

	t.Run("promoting a disabled key enables it", func(t *testing.T) {
		require.NoError(t, kr.Disable(oldPrimaryID))
		require.NoError(t, kr.Promote(oldPrimaryID))
		assert.Equal(t, oldPrimaryID, kr.Primary().ID())
	})

	t.Run("promoting current primary is a no-op", func(t *testing.T) {
		cur := kr.Primary().ID()
		require.NoError(t, kr.Promote(cur))
		assert.Equal(t, cur, kr.Primary().ID())
	})

	t.Run("unknown id", func(t *testing.T) {
		assert.ErrorIs(t, kr.Promote(999), ErrKeyNotFound)
	})
}

func TestEnableDisable(t *testing.T) {
	kr, err := New[*testMaterial](newTestMaterial("TEST"))
	require.NoError(t, err)
	primaryID := kr.Primary().ID()

	info, err := kr.Add(newTestMaterial("TEST"))
	require.NoError(t, err)

	t.Run("disable rejects primary", func(t *testing.T) {
		assert.ErrorIs(t, kr.Disable(primaryID), ErrPrimaryRequired)
	})

	t.Run("disable then status reflects it", func(t *testing.T) {
		require.NoError(t, kr.Disable(info.ID))
		key, err := kr.Get(info.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusDisabled, key.Status())
	})

	t.Run("disable is idempotent", func(t *testing.T) {
		require.NoError(t, kr.Disable(info.ID))
	})

	t.Run("enable transitions back to secondary", func(t *testing.T) {
		require.NoError(t, kr.Enable(info.ID))
		key, err := kr.Get(info.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusSecondary, key.Status())
	})

	t.Run("enable on secondary is a no-op", func(t *testing.T) {
		require.NoError(t, kr.Enable(info.ID))
	})

	t.Run("enable on primary is a no-op", func(t *testing.T) {
		require.NoError(t, kr.Enable(primaryID))
	})
}

func TestRemove(t *testing.T) {
	kr, err := New[*testMaterial](newTestMaterial("TEST"))
	require.NoError(t, err)
	primaryID := kr.Primary().ID()

	t.Run("rejects last key", func(t *testing.T) {
		assert.ErrorIs(t, kr.Remove(primaryID), ErrLastKey)
	})

	info, err := kr.Add(newTestMaterial("TEST"))
	require.NoError(t, err)

	t.Run("rejects primary", func(t *testing.T) {
		assert.ErrorIs(t, kr.Remove(primaryID), ErrPrimaryRequired)
	})

	t.Run("removes secondary and zeroizes material", func(t *testing.T) {
		key, err := kr.Get(info.ID)
		require.NoError(t, err)
		material := key.Material()

		require.NoError(t, kr.Remove(info.ID))
		assert.Equal(t, 1, kr.Len())

		_, err = kr.Get(info.ID)
		assert.ErrorIs(t, err, ErrKeyNotFound)

		for _, b := range material.secret {
			assert.Equal(t, byte(0), b)
		}
	})
}

func TestSetMetadata(t *testing.T) {
	kr, err := New[*testMaterial](newTestMaterial("TEST"))
	require.NoError(t, err)
	id := kr.Primary().ID()

	require.NoError(t, kr.SetMetadata(id, map[string]any{"team": "payments"}))
	key, err := kr.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "payments", key.Metadata()["team"])

	t.Run("rejects reserved JWK field names", func(t *testing.T) {
		err := kr.SetMetadata(id, map[string]any{"kty": "oct"})
		assert.Error(t, err)
	})
}

func TestKeys(t *testing.T) {
	kr, err := New[*testMaterial](newTestMaterial("TEST"))
	require.NoError(t, err)
	_, err = kr.Add(newTestMaterial("TEST"))
	require.NoError(t, err)
	_, err = kr.Add(newTestMaterial("TEST"))
	require.NoError(t, err)

	keys := kr.Keys()
	require.Len(t, keys, 3)
	// Insertion order preserved.
	assert.Equal(t, kr.Primary().ID(), keys[0].ID)
}

func TestKeyInfoStatusReflectsActualState(t *testing.T) {
	// Regression test: KeyInfo.Status must report the key's actual
	// lifecycle status, never a value derived from its position in the
	// keyring or from id comparison.
	kr, err := New[*testMaterial](newTestMaterial("TEST"))
	require.NoError(t, err)
	info, err := kr.Add(newTestMaterial("TEST"))
	require.NoError(t, err)

	require.NoError(t, kr.Disable(info.ID))
	key, err := kr.Get(info.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, key.Info().Status)
}

func TestWithClock(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	kr, err := New[*testMaterial](newTestMaterial("TEST"), WithClock[*testMaterial](func() time.Time { return fixed }))
	require.NoError(t, err)
	assert.True(t, fixed.Equal(kr.Primary().CreatedAt()))
}

func TestAllocateIDExhaustsRetries(t *testing.T) {
	// A reader that always yields a value below minKeyID can never
	// succeed, so allocation must surface ErrDuplicateID rather than
	// looping forever.
	r := &sequentialRand{values: [][4]byte{{0, 0, 0, 1}}}
	_, err := New[*testMaterial](newTestMaterial("TEST"), WithRand[*testMaterial](r))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestAllocateIDReadError(t *testing.T) {
	_, err := New[*testMaterial](newTestMaterial("TEST"), WithRand[*testMaterial](errReader{}))
	assert.Error(t, err)
}

type errReader struct{}

func (errReader) Read(p []byte) (int, error) { return 0, io.ErrUnexpectedEOF }

// TestConcurrentReadsDuringMutation exercises the atomic-snapshot model:
// readers calling Keys/Get/Primary concurrently with a writer adding and
// promoting keys must never observe a torn state (I2 holds at every
// instant a snapshot is read).
func TestConcurrentReadsDuringMutation(t *testing.T) {
	kr, err := New[*testMaterial](newTestMaterial("TEST"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				primaries := 0
				for _, info := range kr.Keys() {
					if info.Status == StatusPrimary {
						primaries++
					}
				}
				assert.Equal(t, 1, primaries)
			}
		}()
	}

	var lastID uint32
	for i := 0; i < 20; i++ {
		info, err := kr.Add(newTestMaterial("TEST"))
		require.NoError(t, err)
		require.NoError(t, kr.Promote(info.ID))
		lastID = info.ID
	}
	assert.Equal(t, lastID, kr.Primary().ID())

	close(stop)
	wg.Wait()
}

// TestLifecycleLogsOmitMaterial confirms lifecycle events are logged
// with the key id and algorithm but never the secret material bytes.
func TestLifecycleLogsOmitMaterial(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	secret := []byte("super-secret-key-bytes")
	kr, err := New[*testMaterial](&testMaterial{alg: "TEST", secret: secret}, WithLogger[*testMaterial](logger))
	require.NoError(t, err)

	info, err := kr.Add(newTestMaterial("TEST"))
	require.NoError(t, err)
	require.NoError(t, kr.Promote(info.ID))

	logged := buf.String()
	assert.Contains(t, logged, "key added")
	assert.Contains(t, logged, "key promoted")
	assert.NotContains(t, logged, string(secret))
}
