package storage_test

import (
    "io/ioutil"
    "os"

    . "github.com/objectmesh/objectmesh/storage"

    . "github.com/onsi/ginkgo"
    . "github.com/onsi/gomega"
)

var _ = Describe("Storage", func() {
    var dbDir string
    var storageDriver StorageDriver

    BeforeEach(func() {
        var err error

        dbDir, err = ioutil.TempDir("", "storagetest")

        Expect(err).Should(BeNil())

        storageDriver = NewLevelDBStorageDriver(dbDir, nil)

        Expect(storageDriver.Open()).Should(BeNil())
    })

    AfterEach(func() {
        storageDriver.Close()
        os.RemoveAll(dbDir)
    })

    Describe("LevelDBStorageDriver", func() {
        It("Should read back what was written in a batch", func() {
            batch := NewBatch()
            batch.Put([]byte("a"), []byte("value-a"))
            batch.Put([]byte("b"), []byte("value-b"))

            Expect(storageDriver.Batch(batch)).Should(BeNil())

            values, err := storageDriver.Get([][]byte{ []byte("a"), []byte("b"), []byte("c") })

            Expect(err).Should(BeNil())
            Expect(values[0]).Should(Equal([]byte("value-a")))
            Expect(values[1]).Should(Equal([]byte("value-b")))
            Expect(values[2]).Should(BeNil())
        })

        It("Should delete keys that a batch deletes", func() {
            batch := NewBatch()
            batch.Put([]byte("a"), []byte("value-a"))

            Expect(storageDriver.Batch(batch)).Should(BeNil())

            batch = NewBatch()
            batch.Delete([]byte("a"))

            Expect(storageDriver.Batch(batch)).Should(BeNil())

            values, err := storageDriver.Get([][]byte{ []byte("a") })

            Expect(err).Should(BeNil())
            Expect(values[0]).Should(BeNil())
        })

        It("Should iterate over all keys matching a prefix", func() {
            batch := NewBatch()
            batch.Put([]byte("nodes.a"), []byte("1"))
            batch.Put([]byte("nodes.b"), []byte("2"))
            batch.Put([]byte("removed.c"), []byte("3"))

            Expect(storageDriver.Batch(batch)).Should(BeNil())

            iter, err := storageDriver.GetMatches([][]byte{ []byte("nodes.") })

            Expect(err).Should(BeNil())

            keys := make(map[string]string)

            for iter.Next() {
                keys[string(iter.Key())] = string(iter.Value())
            }

            iter.Release()

            Expect(iter.Error()).Should(BeNil())
            Expect(keys).Should(Equal(map[string]string{ "nodes.a": "1", "nodes.b": "2" }))
        })
    })

    Describe("PrefixedStorageDriver", func() {
        It("Should isolate keyspaces by prefix", func() {
            prefixedDriver := NewPrefixedStorageDriver([]byte("membership."), storageDriver)

            batch := NewBatch()
            batch.Put([]byte("nodes.a"), []byte("1"))

            Expect(prefixedDriver.Batch(batch)).Should(BeNil())

            values, err := prefixedDriver.Get([][]byte{ []byte("nodes.a") })

            Expect(err).Should(BeNil())
            Expect(values[0]).Should(Equal([]byte("1")))

            values, err = storageDriver.Get([][]byte{ []byte("membership.nodes.a") })

            Expect(err).Should(BeNil())
            Expect(values[0]).Should(Equal([]byte("1")))

            values, err = storageDriver.Get([][]byte{ []byte("nodes.a") })

            Expect(err).Should(BeNil())
            Expect(values[0]).Should(BeNil())
        })

        It("Should strip the prefix from iterated keys", func() {
            prefixedDriver := NewPrefixedStorageDriver([]byte("membership."), storageDriver)

            batch := NewBatch()
            batch.Put([]byte("nodes.a"), []byte("1"))

            Expect(prefixedDriver.Batch(batch)).Should(BeNil())

            iter, err := prefixedDriver.GetMatches([][]byte{ []byte("nodes.") })

            Expect(err).Should(BeNil())
            Expect(iter.Next()).Should(BeTrue())
            Expect(iter.Key()).Should(Equal([]byte("nodes.a")))
            Expect(iter.Prefix()).Should(Equal([]byte("nodes.")))

            iter.Release()
        })
    })
})
