package directory

import (
    "github.com/objectmesh/objectmesh/data"

    . "github.com/objectmesh/objectmesh/logging"
)

// ObjectLocationState is the merged knowledge about one object: the set of
// nodes believed to hold a copy, where the object was spilled if it was, and
// its size. An ObjectSize of 0 means the size is not yet known.
type ObjectLocationState struct {
    Locations map[data.NodeID]bool
    SpilledURL string
    SpilledNodeID data.NodeID
    ObjectSize uint64
}

func NewObjectLocationState() *ObjectLocationState {
    return &ObjectLocationState{
        Locations: make(map[data.NodeID]bool),
    }
}

// MergeObjectLocations folds a batch of location change events into state.
// The caller must supply the cumulative state built from all previous
// batches for the object. Events are applied in the given order as a diff
// against that state, so a duplicate add or remove is a no-op.
//
// After the events are applied every location whose node isRemoved reports
// as removed is erased from the set. That last pass does not contribute to
// the returned flag: the flag reports whether the event batch itself changed
// the externally observable state. Callers that need to notify on
// membership-driven removals must detect those themselves the way
// HandleNodeRemoved does.
func MergeObjectLocations(updates []data.LocationChangeEvent, state *ObjectLocationState, isRemoved func(data.NodeID) bool) bool {
    changed := false

    for _, update := range updates {
        // A size of 0 means the sender did not include a size, such as on a
        // removal event. It never clears a previously learned size.
        if update.Size > 0 {
            state.ObjectSize = update.Size
        }

        if !update.IsSpillReport() {
            if update.IsAdd && !state.Locations[update.NodeID] {
                state.Locations[update.NodeID] = true
                changed = true
            } else if !update.IsAdd && state.Locations[update.NodeID] {
                delete(state.Locations, update.NodeID)
                changed = true
            }

            continue
        }

        if update.SpilledURL == "" {
            // The metadata store is a trusted internal sender. A spill
            // report without a URL means its invariants are broken, not ours
            Log.Panicf("Received a spill report with an empty URL for spill node %s", update.SpilledNodeID.String())
        }

        if update.SpilledURL != state.SpilledURL {
            Log.Debugf("Received object spilled at %s by node %s", update.SpilledURL, update.SpilledNodeID.String())

            state.SpilledURL = update.SpilledURL
            state.SpilledNodeID = update.SpilledNodeID
            changed = true
        }
    }

    for nodeID, _ := range state.Locations {
        if isRemoved(nodeID) {
            delete(state.Locations, nodeID)
        }
    }

    return changed
}
