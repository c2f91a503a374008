package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	levelErrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	. "github.com/objectmesh/objectmesh/logging"
)

type LevelDBIterator struct {
	snapshot *leveldb.Snapshot
	it       iterator.Iterator
	ranges   []*util.Range
	prefix   []byte
	err      error
}

func (it *LevelDBIterator) Next() bool {
	if it.it == nil {
		if len(it.ranges) == 0 {
			return false
		}

		it.prefix = it.ranges[0].Start
		it.it = it.snapshot.NewIterator(it.ranges[0], nil)
		it.ranges = it.ranges[1:]
	}

	if it.it.Next() {
		return true
	}

	if it.it.Error() != nil {
		prometheusRecordStorageError("iterator.next()", "")
		it.err = it.it.Error()
		it.ranges = []*util.Range{}
	}

	it.it.Release()
	it.it = nil
	it.prefix = nil

	return it.Next()
}

func (it *LevelDBIterator) Prefix() []byte {
	return it.prefix
}

func (it *LevelDBIterator) Key() []byte {
	if it.it == nil || it.err != nil {
		return nil
	}

	return it.it.Key()
}

func (it *LevelDBIterator) Value() []byte {
	if it.it == nil || it.err != nil {
		return nil
	}

	return it.it.Value()
}

func (it *LevelDBIterator) Release() {
	it.prefix = nil
	it.ranges = []*util.Range{}
	it.snapshot.Release()

	if it.it == nil {
		return
	}

	it.it.Release()
	it.it = nil
}

func (it *LevelDBIterator) Error() error {
	return it.err
}

type LevelDBStorageDriver struct {
	file    string
	options *opt.Options
	db      *leveldb.DB
}

func NewLevelDBStorageDriver(file string, options *opt.Options) *LevelDBStorageDriver {
	return &LevelDBStorageDriver{file, options, nil}
}

func (levelDriver *LevelDBStorageDriver) Open() error {
	levelDriver.Close()

	db, err := leveldb.OpenFile(levelDriver.file, levelDriver.options)

	if err != nil {
		prometheusRecordStorageError("open()", levelDriver.file)

		if levelErrors.IsCorrupted(err) {
			Log.Criticalf("LevelDB database is corrupted: %v", err.Error())

			return ECorrupted
		}

		return err
	}

	levelDriver.db = db

	return nil
}

func (levelDriver *LevelDBStorageDriver) Close() error {
	if levelDriver.db == nil {
		return nil
	}

	err := levelDriver.db.Close()

	levelDriver.db = nil

	return err
}

func (levelDriver *LevelDBStorageDriver) Recover() error {
	levelDriver.Close()

	db, err := leveldb.RecoverFile(levelDriver.file, levelDriver.options)

	if err != nil {
		prometheusRecordStorageError("recover()", levelDriver.file)

		return err
	}

	levelDriver.db = db

	return nil
}

func (levelDriver *LevelDBStorageDriver) Get(keys [][]byte) ([][]byte, error) {
	if levelDriver.db == nil {
		return nil, EClosed
	}

	if keys == nil {
		return [][]byte{}, nil
	}

	snapshot, err := levelDriver.db.GetSnapshot()

	defer snapshot.Release()

	if err != nil {
		prometheusRecordStorageError("get()", levelDriver.file)

		return nil, err
	}

	values := make([][]byte, len(keys))

	for i, key := range keys {
		if key == nil {
			values[i] = nil

			continue
		}

		values[i], err = snapshot.Get(key, nil)

		if err != nil {
			if err != leveldb.ErrNotFound {
				prometheusRecordStorageError("get()", levelDriver.file)

				return nil, err
			}

			values[i] = nil
		}
	}

	return values, nil
}

func (levelDriver *LevelDBStorageDriver) GetMatches(keys [][]byte) (StorageIterator, error) {
	if levelDriver.db == nil {
		return nil, EClosed
	}

	snapshot, err := levelDriver.db.GetSnapshot()

	if err != nil {
		prometheusRecordStorageError("getMatches()", levelDriver.file)

		snapshot.Release()

		return nil, err
	}

	ranges := make([]*util.Range, 0, len(keys))

	for _, key := range keys {
		if key == nil {
			continue
		}

		ranges = append(ranges, util.BytesPrefix(key))
	}

	return &LevelDBIterator{snapshot, nil, ranges, nil, nil}, nil
}

func (levelDriver *LevelDBStorageDriver) GetRange(min, max []byte) (StorageIterator, error) {
	if levelDriver.db == nil {
		return nil, EClosed
	}

	snapshot, err := levelDriver.db.GetSnapshot()

	if err != nil {
		prometheusRecordStorageError("getRange()", levelDriver.file)

		snapshot.Release()

		return nil, err
	}

	ranges := []*util.Range{&util.Range{Start: min, Limit: max}}

	return &LevelDBIterator{snapshot, nil, ranges, nil, nil}, nil
}

func (levelDriver *LevelDBStorageDriver) Batch(batch *Batch) error {
	if levelDriver.db == nil {
		return EClosed
	}

	if batch == nil {
		return nil
	}

	b := new(leveldb.Batch)

	for _, op := range batch.Ops() {
		if op.IsPut() {
			b.Put(op.Key(), op.Value())
		} else if op.IsDelete() {
			b.Delete(op.Key())
		}
	}

	err := levelDriver.db.Write(b, nil)

	if err != nil {
		prometheusRecordStorageError("batch()", levelDriver.file)
	}

	return err
}
