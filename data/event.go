package data

// LocationChangeEvent is one observed fact about an object reported by the
// metadata store: either a node gained or lost a copy of the object, or the
// object was spilled to external storage. Size carries the object size when
// the sender knows it. A size of 0 means the size was not provided, not that
// the object is empty.
type LocationChangeEvent struct {
    NodeID NodeID `json:"nodeID"`
    IsAdd bool `json:"isAdd"`
    Size uint64 `json:"size"`
    SpilledURL string `json:"spilledURL"`
    SpilledNodeID NodeID `json:"spilledNodeID"`
}

// IsSpillReport is true when the event reports a spill rather than a
// location add or remove. The two kinds are mutually exclusive.
func (event *LocationChangeEvent) IsSpillReport() bool {
    return event.NodeID.IsNil()
}
