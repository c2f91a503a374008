package storage

type PrefixedStorageDriver struct {
	prefix        []byte
	storageDriver StorageDriver
}

func NewPrefixedStorageDriver(prefix []byte, storageDriver StorageDriver) *PrefixedStorageDriver {
	return &PrefixedStorageDriver{prefix, storageDriver}
}

// Open and Close are no-ops. The lifecycle of the underlying driver belongs
// to whoever created it since several prefixed drivers may share it.
func (psd *PrefixedStorageDriver) Open() error {
	return nil
}

func (psd *PrefixedStorageDriver) Close() error {
	return nil
}

func (psd *PrefixedStorageDriver) Recover() error {
	return psd.storageDriver.Recover()
}

func (psd *PrefixedStorageDriver) addPrefix(k []byte) []byte {
	result := make([]byte, 0, len(psd.prefix)+len(k))

	result = append(result, psd.prefix...)
	result = append(result, k...)

	return result
}

func (psd *PrefixedStorageDriver) Get(keys [][]byte) ([][]byte, error) {
	prefixKeys := make([][]byte, len(keys))

	for i, _ := range keys {
		prefixKeys[i] = psd.addPrefix(keys[i])
	}

	return psd.storageDriver.Get(prefixKeys)
}

func (psd *PrefixedStorageDriver) GetMatches(keys [][]byte) (StorageIterator, error) {
	prefixKeys := make([][]byte, len(keys))

	for i, _ := range keys {
		prefixKeys[i] = psd.addPrefix(keys[i])
	}

	iter, err := psd.storageDriver.GetMatches(prefixKeys)

	if err != nil {
		return nil, err
	}

	return &PrefixedIterator{psd.prefix, iter}, nil
}

func (psd *PrefixedStorageDriver) GetRange(start []byte, end []byte) (StorageIterator, error) {
	iter, err := psd.storageDriver.GetRange(psd.addPrefix(start), psd.addPrefix(end))

	if err != nil {
		return nil, err
	}

	return &PrefixedIterator{psd.prefix, iter}, nil
}

func (psd *PrefixedStorageDriver) Batch(batch *Batch) error {
	newBatch := NewBatch()

	for key, op := range batch.BatchOps {
		op.OpKey = psd.addPrefix([]byte(key))
		newBatch.BatchOps[string(psd.addPrefix([]byte(key)))] = op
	}

	return psd.storageDriver.Batch(newBatch)
}

type PrefixedIterator struct {
	prefix   []byte
	iterator StorageIterator
}

func (prefixedIterator *PrefixedIterator) Next() bool {
	return prefixedIterator.iterator.Next()
}

func (prefixedIterator *PrefixedIterator) Prefix() []byte {
	return prefixedIterator.iterator.Prefix()[len(prefixedIterator.prefix):]
}

func (prefixedIterator *PrefixedIterator) Key() []byte {
	return prefixedIterator.iterator.Key()[len(prefixedIterator.prefix):]
}

func (prefixedIterator *PrefixedIterator) Value() []byte {
	return prefixedIterator.iterator.Value()
}

func (prefixedIterator *PrefixedIterator) Release() {
	prefixedIterator.iterator.Release()
}

func (prefixedIterator *PrefixedIterator) Error() error {
	return prefixedIterator.iterator.Error()
}
