package directory_test

import (
    . "github.com/objectmesh/objectmesh/data"
    . "github.com/objectmesh/objectmesh/directory"

    . "github.com/onsi/ginkgo"
    . "github.com/onsi/gomega"
)

var noneRemoved = func(nodeID NodeID) bool {
    return false
}

var _ = Describe("Merge", func() {
    var nodeA NodeID
    var nodeB NodeID
    var state *ObjectLocationState

    BeforeEach(func() {
        nodeA = RandomNodeID()
        nodeB = RandomNodeID()
        state = NewObjectLocationState()
    })

    Describe("#MergeObjectLocations", func() {
        Context("When an add event arrives for a node that is not yet a location", func() {
            It("Should insert the node and report a change", func() {
                updates := []LocationChangeEvent{
                    LocationChangeEvent{ NodeID: nodeA, IsAdd: true },
                }

                Expect(MergeObjectLocations(updates, state, noneRemoved)).Should(BeTrue())
                Expect(state.Locations).Should(Equal(map[NodeID]bool{ nodeA: true }))
            })
        })

        Context("When the same add event is applied twice", func() {
            It("Should keep one entry and report a change only for the first application", func() {
                updates := []LocationChangeEvent{
                    LocationChangeEvent{ NodeID: nodeA, IsAdd: true },
                }

                Expect(MergeObjectLocations(updates, state, noneRemoved)).Should(BeTrue())
                Expect(MergeObjectLocations(updates, state, noneRemoved)).Should(BeFalse())
                Expect(state.Locations).Should(Equal(map[NodeID]bool{ nodeA: true }))
            })
        })

        Context("When a remove event arrives for a node that is not a location", func() {
            It("Should report no change", func() {
                updates := []LocationChangeEvent{
                    LocationChangeEvent{ NodeID: nodeA, IsAdd: false },
                }

                Expect(MergeObjectLocations(updates, state, noneRemoved)).Should(BeFalse())
                Expect(state.Locations).Should(BeEmpty())
            })
        })

        Context("When an add and a remove for the same node arrive in one batch", func() {
            It("Should apply them in order and end with the node absent", func() {
                updates := []LocationChangeEvent{
                    LocationChangeEvent{ NodeID: nodeA, IsAdd: true },
                    LocationChangeEvent{ NodeID: nodeA, IsAdd: false },
                }

                Expect(MergeObjectLocations(updates, state, noneRemoved)).Should(BeTrue())
                Expect(state.Locations).Should(BeEmpty())
            })
        })

        Context("When an event carries a size of 0 after the size is known", func() {
            It("Should not overwrite the known size", func() {
                Expect(MergeObjectLocations([]LocationChangeEvent{
                    LocationChangeEvent{ NodeID: nodeA, IsAdd: true, Size: 5000 },
                }, state, noneRemoved)).Should(BeTrue())
                Expect(state.ObjectSize).Should(Equal(uint64(5000)))

                Expect(MergeObjectLocations([]LocationChangeEvent{
                    LocationChangeEvent{ NodeID: nodeA, IsAdd: false, Size: 0 },
                }, state, noneRemoved)).Should(BeTrue())
                Expect(state.ObjectSize).Should(Equal(uint64(5000)))
            })
        })

        Context("When an event carries a nonzero size", func() {
            It("Should overwrite the recorded size even if nothing else changes", func() {
                Expect(MergeObjectLocations([]LocationChangeEvent{
                    LocationChangeEvent{ NodeID: nodeA, IsAdd: true, Size: 100 },
                }, state, noneRemoved)).Should(BeTrue())

                Expect(MergeObjectLocations([]LocationChangeEvent{
                    LocationChangeEvent{ NodeID: nodeA, IsAdd: true, Size: 200 },
                }, state, noneRemoved)).Should(BeFalse())
                Expect(state.ObjectSize).Should(Equal(uint64(200)))
            })
        })

        Context("When a spill report arrives", func() {
            It("Should record the spill URL and spill node and report a change", func() {
                updates := []LocationChangeEvent{
                    LocationChangeEvent{ SpilledURL: "s3://bucket/object", SpilledNodeID: nodeB },
                }

                Expect(MergeObjectLocations(updates, state, noneRemoved)).Should(BeTrue())
                Expect(state.SpilledURL).Should(Equal("s3://bucket/object"))
                Expect(state.SpilledNodeID).Should(Equal(nodeB))
            })

            Context("And the URL matches the recorded one", func() {
                It("Should report a change only for the first report", func() {
                    updates := []LocationChangeEvent{
                        LocationChangeEvent{ SpilledURL: "s3://bucket/object", SpilledNodeID: nodeB },
                    }

                    Expect(MergeObjectLocations(updates, state, noneRemoved)).Should(BeTrue())
                    Expect(MergeObjectLocations(updates, state, noneRemoved)).Should(BeFalse())
                })
            })

            Context("And the URL differs from the recorded one", func() {
                It("Should replace both the URL and the spill node", func() {
                    Expect(MergeObjectLocations([]LocationChangeEvent{
                        LocationChangeEvent{ SpilledURL: "s3://bucket/object", SpilledNodeID: nodeB },
                    }, state, noneRemoved)).Should(BeTrue())

                    Expect(MergeObjectLocations([]LocationChangeEvent{
                        LocationChangeEvent{ SpilledURL: "s3://bucket/object2", SpilledNodeID: nodeA },
                    }, state, noneRemoved)).Should(BeTrue())

                    Expect(state.SpilledURL).Should(Equal("s3://bucket/object2"))
                    Expect(state.SpilledNodeID).Should(Equal(nodeA))
                })
            })

            Context("And the URL is empty", func() {
                It("Should panic", func() {
                    updates := []LocationChangeEvent{
                        LocationChangeEvent{ SpilledURL: "", SpilledNodeID: nodeB },
                    }

                    Expect(func() {
                        MergeObjectLocations(updates, state, noneRemoved)
                    }).Should(Panic())
                })
            })
        })

        Context("When a location's node is reported removed by the membership filter", func() {
            It("Should erase the node from the location set", func() {
                Expect(MergeObjectLocations([]LocationChangeEvent{
                    LocationChangeEvent{ NodeID: nodeA, IsAdd: true },
                    LocationChangeEvent{ NodeID: nodeB, IsAdd: true },
                }, state, noneRemoved)).Should(BeTrue())

                isRemoved := func(nodeID NodeID) bool {
                    return nodeID == nodeA
                }

                MergeObjectLocations(nil, state, isRemoved)

                Expect(state.Locations).Should(Equal(map[NodeID]bool{ nodeB: true }))
            })

            It("Should not report a change for the erasure alone", func() {
                Expect(MergeObjectLocations([]LocationChangeEvent{
                    LocationChangeEvent{ NodeID: nodeA, IsAdd: true },
                }, state, noneRemoved)).Should(BeTrue())

                isRemoved := func(nodeID NodeID) bool {
                    return nodeID == nodeA
                }

                Expect(MergeObjectLocations(nil, state, isRemoved)).Should(BeFalse())
                Expect(state.Locations).Should(BeEmpty())
            })
        })
    })
})
