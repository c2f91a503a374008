package routes_test

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"

    "github.com/gorilla/mux"

    . "github.com/objectmesh/objectmesh/data"
    . "github.com/objectmesh/objectmesh/directory"
    . "github.com/objectmesh/objectmesh/routes"

    . "github.com/onsi/ginkgo"
    . "github.com/onsi/gomega"
)

var _ = Describe("Routes", func() {
    var router *mux.Router
    var directoryFacade *MockDirectoryFacade
    var localNodeID NodeID

    BeforeEach(func() {
        localNodeID = RandomNodeID()
        directoryFacade = NewMockDirectoryFacade(localNodeID)
        router = mux.NewRouter()

        (&ObjectsEndpoint{ DirectoryFacade: directoryFacade }).Attach(router)
        (&NodesEndpoint{ DirectoryFacade: directoryFacade }).Attach(router)
    })

    Describe("/objects/{objectID}/locations", func() {
        Describe("GET", func() {
            Context("When the object ID cannot be parsed", func() {
                It("Should respond with status code http.StatusBadRequest", func() {
                    req := httptest.NewRequest("GET", "/objects/notanid/locations", nil)
                    resp := httptest.NewRecorder()

                    router.ServeHTTP(resp, req)

                    Expect(resp.Code).Should(Equal(http.StatusBadRequest))
                })
            })

            Context("When the object is not tracked", func() {
                It("Should respond with status code http.StatusNotFound", func() {
                    req := httptest.NewRequest("GET", "/objects/" + RandomObjectID().String() + "/locations", nil)
                    resp := httptest.NewRecorder()

                    router.ServeHTTP(resp, req)

                    Expect(resp.Code).Should(Equal(http.StatusNotFound))
                })
            })

            Context("When the object is tracked", func() {
                It("Should respond with its merged location state", func() {
                    objectID := RandomObjectID()
                    nodeID := RandomNodeID()
                    spilledNodeID := RandomNodeID()

                    directoryFacade.objectLocations[objectID] = ObjectLocationState{
                        Locations: map[NodeID]bool{ nodeID: true },
                        SpilledURL: "s3://bucket/object",
                        SpilledNodeID: spilledNodeID,
                        ObjectSize: 5000,
                    }

                    req := httptest.NewRequest("GET", "/objects/" + objectID.String() + "/locations", nil)
                    resp := httptest.NewRecorder()

                    router.ServeHTTP(resp, req)

                    Expect(resp.Code).Should(Equal(http.StatusOK))

                    var locationsResponse ObjectLocationsResponse

                    Expect(json.Unmarshal(resp.Body.Bytes(), &locationsResponse)).Should(BeNil())
                    Expect(locationsResponse.ObjectID).Should(Equal(objectID.String()))
                    Expect(locationsResponse.Locations).Should(Equal([]string{ nodeID.String() }))
                    Expect(locationsResponse.SpilledURL).Should(Equal("s3://bucket/object"))
                    Expect(locationsResponse.SpilledNodeID).Should(Equal(spilledNodeID.String()))
                    Expect(locationsResponse.ObjectSize).Should(Equal(uint64(5000)))
                })
            })
        })
    })

    Describe("/nodes", func() {
        Describe("GET", func() {
            It("Should respond with the connection info of every known remote node", func() {
                nodeID := RandomNodeID()

                directoryFacade.connections[nodeID] = RemoteConnectionInfo{ NodeID: nodeID, Host: "devices.example.com", Port: 8080 }

                req := httptest.NewRequest("GET", "/nodes", nil)
                resp := httptest.NewRecorder()

                router.ServeHTTP(resp, req)

                Expect(resp.Code).Should(Equal(http.StatusOK))

                var connections []NodeConnectionResponse

                Expect(json.Unmarshal(resp.Body.Bytes(), &connections)).Should(BeNil())
                Expect(connections).Should(HaveLen(1))
                Expect(connections[0].NodeID).Should(Equal(nodeID.String()))
                Expect(connections[0].Host).Should(Equal("devices.example.com"))
                Expect(connections[0].Port).Should(Equal(8080))
                Expect(connections[0].Connected).Should(BeTrue())
            })
        })
    })

    Describe("/nodes/{nodeID}", func() {
        Describe("GET", func() {
            Context("When the node ID cannot be parsed", func() {
                It("Should respond with status code http.StatusBadRequest", func() {
                    req := httptest.NewRequest("GET", "/nodes/notanid", nil)
                    resp := httptest.NewRecorder()

                    router.ServeHTTP(resp, req)

                    Expect(resp.Code).Should(Equal(http.StatusBadRequest))
                })
            })

            Context("When the node is unknown", func() {
                It("Should respond with status code http.StatusNotFound", func() {
                    req := httptest.NewRequest("GET", "/nodes/" + RandomNodeID().String(), nil)
                    resp := httptest.NewRecorder()

                    router.ServeHTTP(resp, req)

                    Expect(resp.Code).Should(Equal(http.StatusNotFound))
                })
            })

            Context("When the node is known", func() {
                It("Should respond with its connection info", func() {
                    nodeID := RandomNodeID()

                    directoryFacade.connections[nodeID] = RemoteConnectionInfo{ NodeID: nodeID, Host: "devices.example.com", Port: 8080 }

                    req := httptest.NewRequest("GET", "/nodes/" + nodeID.String(), nil)
                    resp := httptest.NewRecorder()

                    router.ServeHTTP(resp, req)

                    Expect(resp.Code).Should(Equal(http.StatusOK))

                    var connectionResponse NodeConnectionResponse

                    Expect(json.Unmarshal(resp.Body.Bytes(), &connectionResponse)).Should(BeNil())
                    Expect(connectionResponse.NodeID).Should(Equal(nodeID.String()))
                    Expect(connectionResponse.Connected).Should(BeTrue())
                })
            })
        })
    })
})
