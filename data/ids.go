package data

import (
    "encoding/hex"
    "errors"

    "github.com/google/uuid"
)

const IDSize = 16

var EBadID = errors.New("The id is not a valid hex encoding of a 16 byte value")

// NodeID identifies a cluster node. It is an opaque fixed-size binary
// value normally assigned when a node first joins the cluster.
type NodeID [IDSize]byte

var NilNodeID NodeID

func RandomNodeID() NodeID {
    return NodeID(uuid.New())
}

func NodeIDFromString(s string) (NodeID, error) {
    var nodeID NodeID

    decoded, err := hex.DecodeString(s)

    if err != nil || len(decoded) != IDSize {
        return NilNodeID, EBadID
    }

    copy(nodeID[:], decoded)

    return nodeID, nil
}

func (nodeID NodeID) IsNil() bool {
    return nodeID == NilNodeID
}

func (nodeID NodeID) String() string {
    return hex.EncodeToString(nodeID[:])
}

func (nodeID NodeID) MarshalText() ([]byte, error) {
    return []byte(nodeID.String()), nil
}

func (nodeID *NodeID) UnmarshalText(text []byte) error {
    decoded, err := NodeIDFromString(string(text))

    if err != nil {
        return err
    }

    *nodeID = decoded

    return nil
}

// ObjectID identifies a logical data object tracked by the cluster.
type ObjectID [IDSize]byte

var NilObjectID ObjectID

func RandomObjectID() ObjectID {
    return ObjectID(uuid.New())
}

func ObjectIDFromString(s string) (ObjectID, error) {
    var objectID ObjectID

    decoded, err := hex.DecodeString(s)

    if err != nil || len(decoded) != IDSize {
        return NilObjectID, EBadID
    }

    copy(objectID[:], decoded)

    return objectID, nil
}

func (objectID ObjectID) IsNil() bool {
    return objectID == NilObjectID
}

func (objectID ObjectID) String() string {
    return hex.EncodeToString(objectID[:])
}

func (objectID ObjectID) MarshalText() ([]byte, error) {
    return []byte(objectID.String()), nil
}

func (objectID *ObjectID) UnmarshalText(text []byte) error {
    decoded, err := ObjectIDFromString(string(text))

    if err != nil {
        return err
    }

    *objectID = decoded

    return nil
}
