package kv

import (
	"bytes"
	"encoding/gob"

	"github.com/DataDog/zstd"

	"warehouse/gridnav/pkg/datastructure"
)

func Encode(layout datastructure.FloorLayout) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := gob.NewEncoder(buf)
	if err := enc.Encode(layout); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Decode(bb []byte) (datastructure.FloorLayout, error) {
	var layout datastructure.FloorLayout
	dec := gob.NewDecoder(bytes.NewReader(bb))
	err := dec.Decode(&layout)
	return layout, err
}

func Compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func Decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}

	return bb, nil
}

// CompressLayout gob encodes a layout and zstd compresses the blob, the
// form stored as a pebble value.
func CompressLayout(layout datastructure.FloorLayout) ([]byte, error) {
	bb, err := Encode(layout)
	if err != nil {
		return nil, err
	}
	return Compress(bb)
}

func DecompressLayout(val []byte) (datastructure.FloorLayout, error) {
	bb, err := Decompress(val)
	if err != nil {
		return datastructure.FloorLayout{}, err
	}
	return Decode(bb)
}
