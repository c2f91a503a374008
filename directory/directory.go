package directory

import (
    "errors"

    "github.com/google/uuid"

    "github.com/objectmesh/objectmesh/data"
    "github.com/objectmesh/objectmesh/membership"

    . "github.com/objectmesh/objectmesh/logging"
)

var ESubscriberExists = errors.New("A callback is already registered for this subscriber and object")
var ENoSuchSubscriber = errors.New("No callback is registered for this subscriber and object")
var ENoSuchObject = errors.New("The object is not tracked by the directory")

// LocationChangeCallback is invoked with a snapshot of an object's merged
// location state every time that state changes. Callbacks run synchronously
// on the directory's event processing thread and must not block.
type LocationChangeCallback func(objectID data.ObjectID, locations map[data.NodeID]bool, spilledURL string, spilledNodeID data.NodeID, objectSize uint64)

// RemoteConnectionInfo describes how to reach a node for object transfer.
// An unknown node yields a zero address and Connected() == false. That is a
// valid outcome, not an error.
type RemoteConnectionInfo struct {
    NodeID data.NodeID
    Host string
    Port int
}

func (connectionInfo *RemoteConnectionInfo) Connected() bool {
    return connectionInfo.Host != "" || connectionInfo.Port != 0
}

type objectListener struct {
    state *ObjectLocationState
    callbacks map[string]LocationChangeCallback
    callbackOrder []string
}

func newObjectListener() *objectListener {
    return &objectListener{
        state: NewObjectLocationState(),
        callbacks: make(map[string]LocationChangeCallback),
    }
}

// ObjectDirectory tracks the merged location state of every subscribed
// object and dispatches change notifications to local subscribers. All of
// its methods must run on a single logical thread of control: location
// updates, node removal signals and subscription changes are folded in one
// at a time and no internal locking is used.
type ObjectDirectory struct {
    membershipTable membership.MembershipTable
    listeners map[data.ObjectID]*objectListener
}

func NewObjectDirectory(membershipTable membership.MembershipTable) *ObjectDirectory {
    return &ObjectDirectory{
        membershipTable: membershipTable,
        listeners: make(map[data.ObjectID]*objectListener),
    }
}

// NewSubscriberID generates an identity for a subscriber to register
// callbacks under.
func NewSubscriberID() string {
    return uuid.New().String()
}

// SubscribeObjectLocations registers a callback to be invoked whenever the
// object's merged location state changes. The object becomes tracked on its
// first subscription if it was not already.
func (objectDirectory *ObjectDirectory) SubscribeObjectLocations(subscriberID string, objectID data.ObjectID, callback LocationChangeCallback) error {
    listener, ok := objectDirectory.listeners[objectID]

    if !ok {
        listener = newObjectListener()
        objectDirectory.listeners[objectID] = listener
        prometheusSetTrackedObjects(len(objectDirectory.listeners))
    }

    if _, ok := listener.callbacks[subscriberID]; ok {
        return ESubscriberExists
    }

    listener.callbacks[subscriberID] = callback
    listener.callbackOrder = append(listener.callbackOrder, subscriberID)

    return nil
}

// UnsubscribeObjectLocations removes a subscriber's callback. When the last
// subscriber for an object unsubscribes the object's state is dropped and it
// becomes untracked.
func (objectDirectory *ObjectDirectory) UnsubscribeObjectLocations(subscriberID string, objectID data.ObjectID) error {
    listener, ok := objectDirectory.listeners[objectID]

    if !ok {
        return ENoSuchObject
    }

    if _, ok := listener.callbacks[subscriberID]; !ok {
        return ENoSuchSubscriber
    }

    delete(listener.callbacks, subscriberID)

    for i, id := range listener.callbackOrder {
        if id == subscriberID {
            listener.callbackOrder = append(listener.callbackOrder[:i], listener.callbackOrder[i+1:]...)

            break
        }
    }

    if len(listener.callbacks) == 0 {
        delete(objectDirectory.listeners, objectID)
        prometheusSetTrackedObjects(len(objectDirectory.listeners))
    }

    return nil
}

// ProcessLocationUpdate merges a batch of location change events delivered
// by the metadata store subscription into the object's state and notifies
// the object's subscribers if the batch changed it. The object becomes
// tracked on its first event if it was not already.
func (objectDirectory *ObjectDirectory) ProcessLocationUpdate(objectID data.ObjectID, updates []data.LocationChangeEvent) {
    listener, ok := objectDirectory.listeners[objectID]

    if !ok {
        listener = newObjectListener()
        objectDirectory.listeners[objectID] = listener
        prometheusSetTrackedObjects(len(objectDirectory.listeners))
    }

    prometheusRecordLocationUpdate(len(updates))

    changed := MergeObjectLocations(updates, listener.state, objectDirectory.membershipTable.IsRemoved)

    if changed {
        objectDirectory.notifySubscribers(objectID, listener)
    }
}

// HandleNodeRemoved purges a removed node from the location set of every
// tracked object that referenced it and re-notifies those objects'
// subscribers. The membership table must already report the node as removed
// when this is called: the purge itself is performed by the merge engine's
// membership filter pass running against an empty event batch.
func (objectDirectory *ObjectDirectory) HandleNodeRemoved(nodeID data.NodeID) {
    // Callbacks may subscribe or unsubscribe while this runs, so iterate
    // over a snapshot of the tracked object set
    objectIDs := make([]data.ObjectID, 0, len(objectDirectory.listeners))

    for objectID, _ := range objectDirectory.listeners {
        objectIDs = append(objectIDs, objectID)
    }

    for _, objectID := range objectIDs {
        listener, ok := objectDirectory.listeners[objectID]

        if !ok || !listener.state.Locations[nodeID] {
            continue
        }

        // An empty update leaves the merge engine with nothing to apply but
        // its membership filter pass, which removes the node. The filter
        // pass never reports a change so the pre-check on the location set
        // above stands in for the merge result here.
        MergeObjectLocations(nil, listener.state, objectDirectory.membershipTable.IsRemoved)

        objectDirectory.notifySubscribers(objectID, listener)
    }
}

// GetObjectLocations returns a snapshot of the merged location state of a
// tracked object.
func (objectDirectory *ObjectDirectory) GetObjectLocations(objectID data.ObjectID) (ObjectLocationState, bool) {
    listener, ok := objectDirectory.listeners[objectID]

    if !ok {
        return ObjectLocationState{}, false
    }

    return ObjectLocationState{
        Locations: copyLocations(listener.state.Locations),
        SpilledURL: listener.state.SpilledURL,
        SpilledNodeID: listener.state.SpilledNodeID,
        ObjectSize: listener.state.ObjectSize,
    }, true
}

func (objectDirectory *ObjectDirectory) TrackedObjectCount() int {
    return len(objectDirectory.listeners)
}

// LookupRemoteConnectionInfo resolves a node to a reachable address using
// the membership table.
func (objectDirectory *ObjectDirectory) LookupRemoteConnectionInfo(nodeID data.NodeID) RemoteConnectionInfo {
    connectionInfo := RemoteConnectionInfo{ NodeID: nodeID }
    nodeConfig := objectDirectory.membershipTable.Get(nodeID)

    if nodeConfig != nil {
        connectionInfo.Host = nodeConfig.Address.Host
        connectionInfo.Port = nodeConfig.Address.Port
    }

    return connectionInfo
}

// LookupAllRemoteConnections resolves every known node except the local one.
// Nodes whose address lookup comes back empty are left out: they are not yet
// connected, which is not an error.
func (objectDirectory *ObjectDirectory) LookupAllRemoteConnections() []RemoteConnectionInfo {
    nodes := objectDirectory.membershipTable.GetAll()
    remoteConnections := make([]RemoteConnectionInfo, 0, len(nodes))

    for nodeID, _ := range nodes {
        if nodeID == objectDirectory.membershipTable.GetSelfID() {
            continue
        }

        connectionInfo := objectDirectory.LookupRemoteConnectionInfo(nodeID)

        if connectionInfo.Connected() {
            remoteConnections = append(remoteConnections, connectionInfo)
        }
    }

    return remoteConnections
}

func (objectDirectory *ObjectDirectory) notifySubscribers(objectID data.ObjectID, listener *objectListener) {
    locations := copyLocations(listener.state.Locations)
    callbackOrder := make([]string, len(listener.callbackOrder))
    copy(callbackOrder, listener.callbackOrder)

    Log.Debugf("Object %s locations changed: %d locations, spilled URL %q, size %d", objectID.String(), len(locations), listener.state.SpilledURL, listener.state.ObjectSize)

    for _, subscriberID := range callbackOrder {
        callback, ok := listener.callbacks[subscriberID]

        if !ok {
            // the subscriber was removed by an earlier callback in this dispatch
            continue
        }

        prometheusRecordCallbackInvocation()
        callback(objectID, locations, listener.state.SpilledURL, listener.state.SpilledNodeID, listener.state.ObjectSize)
    }
}

func copyLocations(locations map[data.NodeID]bool) map[data.NodeID]bool {
    locationsCopy := make(map[data.NodeID]bool, len(locations))

    for nodeID, _ := range locations {
        locationsCopy[nodeID] = true
    }

    return locationsCopy
}
