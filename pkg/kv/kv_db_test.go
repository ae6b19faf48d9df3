package kv_test

import (
	"errors"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/gridnav/pkg/datastructure"
	"warehouse/gridnav/pkg/kv"
	"warehouse/gridnav/pkg/types"
)

func newTestDB(t *testing.T) *kv.KVDB {
	t.Helper()
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	kvDB := kv.NewKVDB(db)
	t.Cleanup(func() { kvDB.Close() })
	return kvDB
}

func sampleLayout() datastructure.FloorLayout {
	return datastructure.FloorLayout{
		Columns: 6,
		Rows:    4,
		Walls:   []datastructure.Coordinate{{Column: 1, Row: 1}, {Column: 2, Row: 1}},
		Robots:  []datastructure.RobotPosition{{RobotID: "r1", Coord: datastructure.Coordinate{Column: 5, Row: 3}}},
	}
}

func TestLayoutStore(t *testing.T) {

	t.Run("layout roundtrips through save and get", func(t *testing.T) {
		kvDB := newTestDB(t)
		want := sampleLayout()

		require.NoError(t, kvDB.SaveLayout("mezzanine", want))
		got, err := kvDB.GetLayout("mezzanine")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("missing layout maps to not found", func(t *testing.T) {
		kvDB := newTestDB(t)

		_, err := kvDB.GetLayout("nope")
		var ierr *types.Error
		require.True(t, errors.As(err, &ierr))
		assert.Equal(t, types.ErrNotFound, ierr.Code())
	})

	t.Run("save overwrites a previous snapshot", func(t *testing.T) {
		kvDB := newTestDB(t)
		first := sampleLayout()
		require.NoError(t, kvDB.SaveLayout("main", first))

		second := first
		second.Walls = nil
		require.NoError(t, kvDB.SaveLayout("main", second))

		got, err := kvDB.GetLayout("main")
		require.NoError(t, err)
		assert.Empty(t, got.Walls)
	})

	t.Run("seed imports every named layout", func(t *testing.T) {
		kvDB := newTestDB(t)
		kvDB.SeedLayouts(map[string]datastructure.FloorLayout{
			"a": sampleLayout(),
			"b": {Columns: 2, Rows: 2},
		})

		for _, name := range []string{"a", "b"} {
			_, err := kvDB.GetLayout(name)
			assert.NoError(t, err)
		}
	})
}

func TestCodec(t *testing.T) {

	t.Run("compressed blob decodes back to the layout", func(t *testing.T) {
		want := sampleLayout()
		blob, err := kv.CompressLayout(want)
		require.NoError(t, err)

		got, err := kv.DecompressLayout(blob)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("garbage blob fails to decompress", func(t *testing.T) {
		_, err := kv.DecompressLayout([]byte("definitely not zstd"))
		assert.Error(t, err)
	})
}
