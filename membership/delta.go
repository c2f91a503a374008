package membership

import (
    "github.com/objectmesh/objectmesh/data"
)

type MembershipDeltaType int

const (
    DeltaNodeAdd MembershipDeltaType = iota
    DeltaNodeUpdate MembershipDeltaType = iota
    DeltaNodeRemove MembershipDeltaType = iota
)

// MembershipDelta is one change to the cluster membership view as reported
// by the metadata store.
type MembershipDelta struct {
    Type MembershipDeltaType
    Delta interface{}
}

type NodeAdd struct {
    NodeID data.NodeID
    NodeConfig NodeConfig
}

type NodeUpdate struct {
    NodeID data.NodeID
    NodeConfig NodeConfig
}

type NodeRemove struct {
    NodeID data.NodeID
}
