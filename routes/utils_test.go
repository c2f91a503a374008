package routes_test

import (
    . "github.com/objectmesh/objectmesh/data"
    . "github.com/objectmesh/objectmesh/directory"
)

type MockDirectoryFacade struct {
    localNodeID NodeID
    objectLocations map[ObjectID]ObjectLocationState
    connections map[NodeID]RemoteConnectionInfo
}

func NewMockDirectoryFacade(localNodeID NodeID) *MockDirectoryFacade {
    return &MockDirectoryFacade{
        localNodeID: localNodeID,
        objectLocations: make(map[ObjectID]ObjectLocationState),
        connections: make(map[NodeID]RemoteConnectionInfo),
    }
}

func (directoryFacade *MockDirectoryFacade) LocalNodeID() NodeID {
    return directoryFacade.localNodeID
}

func (directoryFacade *MockDirectoryFacade) ObjectLocations(objectID ObjectID) (ObjectLocationState, error) {
    state, ok := directoryFacade.objectLocations[objectID]

    if !ok {
        return ObjectLocationState{}, ENoSuchObject
    }

    return state, nil
}

func (directoryFacade *MockDirectoryFacade) NodeConnectionInfo(nodeID NodeID) RemoteConnectionInfo {
    connectionInfo, ok := directoryFacade.connections[nodeID]

    if !ok {
        return RemoteConnectionInfo{ NodeID: nodeID }
    }

    return connectionInfo
}

func (directoryFacade *MockDirectoryFacade) AllNodeConnections() []RemoteConnectionInfo {
    connections := make([]RemoteConnectionInfo, 0, len(directoryFacade.connections))

    for _, connectionInfo := range directoryFacade.connections {
        connections = append(connections, connectionInfo)
    }

    return connections
}
