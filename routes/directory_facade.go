package routes

import (
    "github.com/objectmesh/objectmesh/data"
    "github.com/objectmesh/objectmesh/directory"
)

// DirectoryFacade is the gateway between the HTTP endpoints and the node's
// event processing loop. Implementations serialize every call onto the loop
// so that handlers never touch directory state concurrently with it.
type DirectoryFacade interface {
    LocalNodeID() data.NodeID
    // Look up the merged location state of a tracked object
    ObjectLocations(objectID data.ObjectID) (directory.ObjectLocationState, error)
    // Resolve one node to a reachable address
    NodeConnectionInfo(nodeID data.NodeID) directory.RemoteConnectionInfo
    // Resolve every known node except the local one
    AllNodeConnections() []directory.RemoteConnectionInfo
}
