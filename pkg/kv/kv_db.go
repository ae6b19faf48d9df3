package kv

import (
	"errors"
	"log"

	"github.com/cockroachdb/pebble"
	ansi "github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"

	"warehouse/gridnav/pkg/concurrent"
	"warehouse/gridnav/pkg/datastructure"
	"warehouse/gridnav/pkg/types"
)

const layoutKeyPrefix = "layout/"

// KVDB stores named floor layouts in pebble, gob encoded and zstd
// compressed. Computed routes are never stored here; only input layouts are.
type KVDB struct {
	db *pebble.DB
}

func NewKVDB(db *pebble.DB) *KVDB {
	return &KVDB{db}
}

func (k *KVDB) Close() error {
	return k.db.Close()
}

// SaveLayout writes one layout under its name, overwriting any previous
// snapshot with the same name.
func (k *KVDB) SaveLayout(name string, layout datastructure.FloorLayout) error {
	val, err := CompressLayout(layout)
	if err != nil {
		return types.WrapErrorf(err, types.ErrInternalServerError, "encode layout %s", name)
	}
	if err := k.db.Set([]byte(layoutKeyPrefix+name), val, pebble.Sync); err != nil {
		return types.WrapErrorf(err, types.ErrInternalServerError, "save layout %s", name)
	}
	return nil
}

// GetLayout loads a layout by name.
func (k *KVDB) GetLayout(name string) (datastructure.FloorLayout, error) {
	val, closer, err := k.db.Get([]byte(layoutKeyPrefix + name))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return datastructure.FloorLayout{}, types.WrapErrorf(err, types.ErrNotFound,
				"layout %s not found", name)
		}
		return datastructure.FloorLayout{}, types.WrapErrorf(err, types.ErrInternalServerError,
			"get layout %s", name)
	}
	defer closer.Close()

	layout, err := DecompressLayout(val)
	if err != nil {
		return datastructure.FloorLayout{}, types.WrapErrorf(err, types.ErrInternalServerError,
			"decode layout %s", name)
	}
	return layout, nil
}

type saveLayoutJobItem struct {
	Name   string
	Layout datastructure.FloorLayout
}

// SeedLayouts bulk imports named layouts (a warehouse site file can carry
// dozens of floors). Writes go through the worker pool; a progress bar
// tracks the import.
func (k *KVDB) SeedLayouts(layouts map[string]datastructure.FloorLayout) {
	bar := progressbar.NewOptions(len(layouts),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][1/2][reset] saving floor layouts to pebble db..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	workers := concurrent.NewWorkerPool[saveLayoutJobItem, interface{}](4, len(layouts))

	for name, layout := range layouts {
		workers.AddJob(saveLayoutJobItem{Name: name, Layout: layout})
	}
	workers.CloseJobs()

	workers.Start(func(item saveLayoutJobItem) interface{} {
		if err := k.SaveLayout(item.Name, item.Layout); err != nil {
			log.Fatal(err)
		}
		bar.Add(1)
		return nil
	})
	workers.Wait()
}
