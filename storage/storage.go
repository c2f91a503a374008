package storage

import (
	"errors"
	"sort"
)

const (
	PUT = iota
	DEL = iota
)

var (
	EStorage   = errors.New("The storage driver experienced an error")
	ECorrupted = errors.New("The storage files are corrupted")
	EClosed    = errors.New("Driver is closed")
)

type StorageIterator interface {
	Next() bool
	Prefix() []byte
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

type StorageDriver interface {
	Open() error
	Close() error
	Recover() error
	Get([][]byte) ([][]byte, error)
	GetMatches([][]byte) (StorageIterator, error)
	GetRange([]byte, []byte) (StorageIterator, error)
	Batch(*Batch) error
}

type Op struct {
	OpType  int    `json:"type"`
	OpKey   []byte `json:"key"`
	OpValue []byte `json:"value"`
}

func (o *Op) IsDelete() bool {
	return o.OpType == DEL
}

func (o *Op) IsPut() bool {
	return o.OpType == PUT
}

func (o *Op) Key() []byte {
	return o.OpKey
}

func (o *Op) Value() []byte {
	return o.OpValue
}

type OpList []Op

func (opList OpList) Len() int {
	return len(opList)
}

func (opList OpList) Less(i, j int) bool {
	return string(opList[i].Key()) < string(opList[j].Key())
}

func (opList OpList) Swap(i, j int) {
	opList[i], opList[j] = opList[j], opList[i]
}

type Batch struct {
	BatchOps map[string]Op `json:"ops"`
}

func NewBatch() *Batch {
	return &Batch{make(map[string]Op)}
}

func (batch *Batch) Size() int {
	return len(batch.BatchOps)
}

func (batch *Batch) Put(key []byte, value []byte) *Batch {
	batch.BatchOps[string(key)] = Op{PUT, key, value}

	return batch
}

func (batch *Batch) Delete(key []byte) *Batch {
	batch.BatchOps[string(key)] = Op{DEL, key, nil}

	return batch
}

func (batch *Batch) Ops() map[string]Op {
	return batch.BatchOps
}

func (batch *Batch) SortedOps() []Op {
	opList := make([]Op, 0, len(batch.BatchOps))

	for _, op := range batch.BatchOps {
		opList = append(opList, op)
	}

	sort.Sort(OpList(opList))

	return opList
}
