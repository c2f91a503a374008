package node

import (
    "errors"
    "sync"

    "github.com/objectmesh/objectmesh/data"
    "github.com/objectmesh/objectmesh/directory"
    "github.com/objectmesh/objectmesh/membership"
    "github.com/objectmesh/objectmesh/server"
    "github.com/objectmesh/objectmesh/shared"
    "github.com/objectmesh/objectmesh/storage"
    "github.com/objectmesh/objectmesh/transport"

    . "github.com/objectmesh/objectmesh/logging"
)

var EStopped = errors.New("The node is stopped")

// Node wires the pieces of a locator node together: the storage driver, the
// membership table restored from it, the object directory, the metadata
// store subscription and the HTTP server. All directory and membership
// mutations run on one event loop goroutine; everything else schedules work
// onto that loop.
type Node struct {
    localNodeID data.NodeID
    storageDriver storage.StorageDriver
    clusterMembership *membership.ClusterMembership
    objectDirectory *directory.ObjectDirectory
    subscriber *transport.MetadataSubscriber
    httpServer *server.Server
    tasks chan func()
    stopped chan int
    stopOnce sync.Once
}

func New(serverConfig shared.YAMLServerConfig) *Node {
    node := &Node{
        localNodeID: serverConfig.LocalNodeID(),
        storageDriver: storage.NewLevelDBStorageDriver(serverConfig.DBFile, nil),
        subscriber: transport.NewMetadataSubscriber(serverConfig.MetadataStore.Host, serverConfig.MetadataStore.Port),
        tasks: make(chan func()),
        stopped: make(chan int),
    }

    node.clusterMembership = membership.NewClusterMembership(node.localNodeID, storage.NewPrefixedStorageDriver([]byte("membership."), node.storageDriver))
    node.objectDirectory = directory.NewObjectDirectory(node.clusterMembership)
    node.httpServer = server.NewServer(server.ServerConfig{
        Host: serverConfig.Host,
        Port: serverConfig.Port,
        DirectoryFacade: &NodeDirectoryFacade{ node },
    })

    return node
}

func (node *Node) ID() data.NodeID {
    return node.localNodeID
}

// Start opens storage, restores the membership view, starts the metadata
// store subscription and then serves the HTTP API. It blocks until the node
// is stopped.
func (node *Node) Start() error {
    if err := node.openStorageDriver(); err != nil {
        return err
    }

    if err := node.clusterMembership.Restore(); err != nil {
        node.storageDriver.Close()

        return err
    }

    node.subscriber.Start()

    go node.run()

    defer node.Stop()

    Log.Infof("Locator node %s starting", node.localNodeID.String())

    return node.httpServer.Start()
}

func (node *Node) Stop() {
    node.stopOnce.Do(func() {
        close(node.stopped)
        node.subscriber.Stop()
        node.httpServer.Stop()
        node.storageDriver.Close()
    })
}

func (node *Node) openStorageDriver() error {
    err := node.storageDriver.Open()

    if err == nil {
        return nil
    }

    if err != storage.ECorrupted {
        Log.Errorf("Error opening storage driver: %v", err.Error())

        return err
    }

    Log.Error("Storage files are corrupted. Attempting automatic recovery now...")

    if recoverError := node.storageDriver.Recover(); recoverError != nil {
        Log.Criticalf("Unable to recover storage files. Reason: %v", recoverError.Error())

        return storage.EStorage
    }

    Log.Info("Storage recovery successful!")

    return nil
}

// run is the node's single logical thread of control. Every subscription
// notification and every facade call is processed here to completion before
// the next is handled, so the directory and the merge engine never need
// internal locking.
func (node *Node) run() {
    for {
        select {
        case notification, ok := <-node.subscriber.Notifications():
            if !ok {
                return
            }

            node.handleNotification(notification)
        case task := <-node.tasks:
            task()
        case <-node.stopped:
            return
        }
    }
}

func (node *Node) handleNotification(notification transport.SubscriptionNotification) {
    if notification.LocationUpdate != nil {
        node.objectDirectory.ProcessLocationUpdate(notification.LocationUpdate.ObjectID, notification.LocationUpdate.Updates)

        return
    }

    if notification.MembershipDelta == nil {
        return
    }

    delta := *notification.MembershipDelta

    if err := node.clusterMembership.Apply(delta); err != nil {
        Log.Errorf("Unable to apply membership delta: %v", err.Error())

        return
    }

    if delta.Type == membership.DeltaNodeRemove {
        // The membership table now reports the node as removed, which is
        // what lets the merge engine's filter pass purge it from every
        // object that referenced it
        node.objectDirectory.HandleNodeRemoved(delta.Delta.(membership.NodeRemove).NodeID)
    }
}

// schedule runs a task on the event loop and waits for it to finish.
func (node *Node) schedule(task func()) error {
    done := make(chan int)

    select {
    case node.tasks <- func() {
        task()
        close(done)
    }:
    case <-node.stopped:
        return EStopped
    }

    <-done

    return nil
}

// SubscribeObjectLocations registers a local subscriber's callback for an
// object's location changes. The callback runs on the node's event loop.
func (node *Node) SubscribeObjectLocations(subscriberID string, objectID data.ObjectID, callback directory.LocationChangeCallback) error {
    var err error

    if scheduleErr := node.schedule(func() {
        err = node.objectDirectory.SubscribeObjectLocations(subscriberID, objectID, callback)
    }); scheduleErr != nil {
        return scheduleErr
    }

    return err
}

func (node *Node) UnsubscribeObjectLocations(subscriberID string, objectID data.ObjectID) error {
    var err error

    if scheduleErr := node.schedule(func() {
        err = node.objectDirectory.UnsubscribeObjectLocations(subscriberID, objectID)
    }); scheduleErr != nil {
        return scheduleErr
    }

    return err
}

// NodeDirectoryFacade adapts a Node to the routes.DirectoryFacade interface
// consumed by the HTTP endpoints.
type NodeDirectoryFacade struct {
    node *Node
}

func (nodeFacade *NodeDirectoryFacade) LocalNodeID() data.NodeID {
    return nodeFacade.node.localNodeID
}

func (nodeFacade *NodeDirectoryFacade) ObjectLocations(objectID data.ObjectID) (directory.ObjectLocationState, error) {
    var state directory.ObjectLocationState
    var ok bool

    if err := nodeFacade.node.schedule(func() {
        state, ok = nodeFacade.node.objectDirectory.GetObjectLocations(objectID)
    }); err != nil {
        return directory.ObjectLocationState{}, err
    }

    if !ok {
        return directory.ObjectLocationState{}, directory.ENoSuchObject
    }

    return state, nil
}

func (nodeFacade *NodeDirectoryFacade) NodeConnectionInfo(nodeID data.NodeID) directory.RemoteConnectionInfo {
    var connectionInfo directory.RemoteConnectionInfo

    nodeFacade.node.schedule(func() {
        connectionInfo = nodeFacade.node.objectDirectory.LookupRemoteConnectionInfo(nodeID)
    })

    return connectionInfo
}

func (nodeFacade *NodeDirectoryFacade) AllNodeConnections() []directory.RemoteConnectionInfo {
    var connections []directory.RemoteConnectionInfo = []directory.RemoteConnectionInfo{}

    nodeFacade.node.schedule(func() {
        connections = nodeFacade.node.objectDirectory.LookupAllRemoteConnections()
    })

    return connections
}
