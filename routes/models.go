package routes

import (
    "sort"

    "github.com/objectmesh/objectmesh/directory"
)

type ObjectLocationsResponse struct {
    ObjectID string `json:"objectID"`
    Locations []string `json:"locations"`
    SpilledURL string `json:"spilledURL"`
    SpilledNodeID string `json:"spilledNodeID,omitempty"`
    ObjectSize uint64 `json:"objectSize"`
}

func MakeObjectLocationsResponse(objectID string, state directory.ObjectLocationState) ObjectLocationsResponse {
    locations := make([]string, 0, len(state.Locations))

    for nodeID, _ := range state.Locations {
        locations = append(locations, nodeID.String())
    }

    sort.Strings(locations)

    response := ObjectLocationsResponse{
        ObjectID: objectID,
        Locations: locations,
        SpilledURL: state.SpilledURL,
        ObjectSize: state.ObjectSize,
    }

    if !state.SpilledNodeID.IsNil() {
        response.SpilledNodeID = state.SpilledNodeID.String()
    }

    return response
}

type NodeConnectionResponse struct {
    NodeID string `json:"nodeID"`
    Host string `json:"host"`
    Port int `json:"port"`
    Connected bool `json:"connected"`
}

func MakeNodeConnectionResponse(connectionInfo directory.RemoteConnectionInfo) NodeConnectionResponse {
    return NodeConnectionResponse{
        NodeID: connectionInfo.NodeID.String(),
        Host: connectionInfo.Host,
        Port: connectionInfo.Port,
        Connected: connectionInfo.Connected(),
    }
}
