package routes

import (
    "encoding/json"
    "io"
    "net/http"

    "github.com/gorilla/mux"

    "github.com/objectmesh/objectmesh/data"

    . "github.com/objectmesh/objectmesh/logging"
)

type NodesEndpoint struct {
    DirectoryFacade DirectoryFacade
}

func (nodesEndpoint *NodesEndpoint) Attach(router *mux.Router) {
    // List the reachable address of every known node other than this one
    router.HandleFunc("/nodes", func(w http.ResponseWriter, r *http.Request) {
        connections := nodesEndpoint.DirectoryFacade.AllNodeConnections()
        responses := make([]NodeConnectionResponse, 0, len(connections))

        for _, connectionInfo := range connections {
            responses = append(responses, MakeNodeConnectionResponse(connectionInfo))
        }

        encodedResponse, _ := json.Marshal(responses)

        w.Header().Set("Content-Type", "application/json; charset=utf8")
        w.WriteHeader(http.StatusOK)
        io.WriteString(w, string(encodedResponse) + "\n")
    }).Methods("GET")

    // Resolve one node to a reachable address
    router.HandleFunc("/nodes/{nodeID}", func(w http.ResponseWriter, r *http.Request) {
        nodeID, err := data.NodeIDFromString(mux.Vars(r)["nodeID"])

        if err != nil {
            Log.Warningf("GET /nodes/{nodeID}: Unable to parse node ID: %v", err)

            w.Header().Set("Content-Type", "application/json; charset=utf8")
            w.WriteHeader(http.StatusBadRequest)
            io.WriteString(w, "\n")

            return
        }

        connectionInfo := nodesEndpoint.DirectoryFacade.NodeConnectionInfo(nodeID)

        if !connectionInfo.Connected() {
            w.Header().Set("Content-Type", "application/json; charset=utf8")
            w.WriteHeader(http.StatusNotFound)
            io.WriteString(w, "\n")

            return
        }

        encodedResponse, _ := json.Marshal(MakeNodeConnectionResponse(connectionInfo))

        w.Header().Set("Content-Type", "application/json; charset=utf8")
        w.WriteHeader(http.StatusOK)
        io.WriteString(w, string(encodedResponse) + "\n")
    }).Methods("GET")
}
