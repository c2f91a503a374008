package membership

import (
    "encoding/json"
    "errors"
    "sync"

    "github.com/objectmesh/objectmesh/data"
    "github.com/objectmesh/objectmesh/storage"

    . "github.com/objectmesh/objectmesh/logging"
)

var ENoSuchDelta = errors.New("The membership delta type is not supported")
var ENoSuchNode = errors.New("The node specified in the update does not exist")

var nodesPrefix = []byte("nodes.")
var removedPrefix = []byte("removed.")

type PeerAddress struct {
    Host string `json:"host"`
    Port int `json:"port"`
}

func (peerAddress *PeerAddress) IsEmpty() bool {
    return peerAddress.Host == "" && peerAddress.Port == 0
}

type NodeConfig struct {
    NodeID data.NodeID `json:"nodeID"`
    Address PeerAddress `json:"address"`
}

// MembershipTable is the read-only cluster membership view consumed by the
// object directory. It is the source of truth for which nodes are currently
// part of the cluster and how to reach them.
type MembershipTable interface {
    Get(nodeID data.NodeID) *NodeConfig
    GetAll() map[data.NodeID]NodeConfig
    GetSelfID() data.NodeID
    IsRemoved(nodeID data.NodeID) bool
}

// ClusterMembership tracks the node table and removed-node tombstones fed to
// it by metadata store deltas. It is mutated only by Apply and its AddNode,
// UpdateNode and RemoveNode methods. When constructed with a storage driver
// it persists every change so a restarting node comes back up with its last
// known view of the cluster.
type ClusterMembership struct {
    localNodeID data.NodeID
    lock sync.RWMutex
    nodes map[data.NodeID]*NodeConfig
    removed map[data.NodeID]bool
    storageDriver storage.StorageDriver
}

func NewClusterMembership(localNodeID data.NodeID, storageDriver storage.StorageDriver) *ClusterMembership {
    return &ClusterMembership{
        localNodeID: localNodeID,
        nodes: make(map[data.NodeID]*NodeConfig),
        removed: make(map[data.NodeID]bool),
        storageDriver: storageDriver,
    }
}

// Restore loads the persisted node table and tombstones from the storage
// driver. It should be called once before the first delta is applied.
func (clusterMembership *ClusterMembership) Restore() error {
    if clusterMembership.storageDriver == nil {
        return nil
    }

    clusterMembership.lock.Lock()
    defer clusterMembership.lock.Unlock()

    iter, err := clusterMembership.storageDriver.GetMatches([][]byte{nodesPrefix, removedPrefix})

    if err != nil {
        Log.Errorf("Unable to restore membership table: %v", err.Error())

        return storage.EStorage
    }

    defer iter.Release()

    for iter.Next() {
        if string(iter.Prefix()) == string(nodesPrefix) {
            var nodeConfig NodeConfig

            if err := json.Unmarshal(iter.Value(), &nodeConfig); err != nil {
                Log.Errorf("Unable to parse stored node config at key %s: %v", string(iter.Key()), err.Error())

                return storage.ECorrupted
            }

            clusterMembership.nodes[nodeConfig.NodeID] = &nodeConfig

            continue
        }

        nodeID, err := data.NodeIDFromString(string(iter.Key()[len(removedPrefix):]))

        if err != nil {
            Log.Errorf("Unable to parse stored tombstone key %s: %v", string(iter.Key()), err.Error())

            return storage.ECorrupted
        }

        clusterMembership.removed[nodeID] = true
    }

    if iter.Error() != nil {
        Log.Errorf("Unable to restore membership table: %v", iter.Error().Error())

        return storage.EStorage
    }

    Log.Infof("Restored membership table: %d known nodes, %d removed", len(clusterMembership.nodes), len(clusterMembership.removed))

    return nil
}

// Apply folds one metadata store delta into the membership view.
func (clusterMembership *ClusterMembership) Apply(delta MembershipDelta) error {
    switch delta.Type {
    case DeltaNodeAdd:
        return clusterMembership.AddNode(delta.Delta.(NodeAdd).NodeConfig)
    case DeltaNodeUpdate:
        return clusterMembership.UpdateNode(delta.Delta.(NodeUpdate).NodeConfig)
    case DeltaNodeRemove:
        return clusterMembership.RemoveNode(delta.Delta.(NodeRemove).NodeID)
    default:
        return ENoSuchDelta
    }
}

func (clusterMembership *ClusterMembership) AddNode(nodeConfig NodeConfig) error {
    clusterMembership.lock.Lock()
    defer clusterMembership.lock.Unlock()

    if _, ok := clusterMembership.nodes[nodeConfig.NodeID]; ok {
        // adding a node that is already present leaves the existing config in place
        return nil
    }

    config := nodeConfig
    clusterMembership.nodes[nodeConfig.NodeID] = &config
    delete(clusterMembership.removed, nodeConfig.NodeID)

    if clusterMembership.storageDriver == nil {
        return nil
    }

    encodedNodeConfig, err := json.Marshal(&config)

    if err != nil {
        return err
    }

    // clear any tombstone left over from a past removal of this node ID
    batch := storage.NewBatch()
    batch.Put(nodeKey(config.NodeID), encodedNodeConfig)
    batch.Delete(removedKey(config.NodeID))

    if err := clusterMembership.storageDriver.Batch(batch); err != nil {
        Log.Errorf("Unable to persist config for node %s: %v", config.NodeID.String(), err.Error())

        return storage.EStorage
    }

    return nil
}

func (clusterMembership *ClusterMembership) UpdateNode(nodeConfig NodeConfig) error {
    clusterMembership.lock.Lock()
    defer clusterMembership.lock.Unlock()

    currentNodeConfig, ok := clusterMembership.nodes[nodeConfig.NodeID]

    if !ok {
        return ENoSuchNode
    }

    currentNodeConfig.Address.Host = nodeConfig.Address.Host
    currentNodeConfig.Address.Port = nodeConfig.Address.Port

    return clusterMembership.persistNode(currentNodeConfig)
}

func (clusterMembership *ClusterMembership) RemoveNode(nodeID data.NodeID) error {
    clusterMembership.lock.Lock()
    defer clusterMembership.lock.Unlock()

    if _, ok := clusterMembership.nodes[nodeID]; !ok && clusterMembership.removed[nodeID] {
        return nil
    }

    delete(clusterMembership.nodes, nodeID)
    clusterMembership.removed[nodeID] = true

    if clusterMembership.storageDriver == nil {
        return nil
    }

    batch := storage.NewBatch()
    batch.Delete(nodeKey(nodeID))
    batch.Put(removedKey(nodeID), []byte{})

    if err := clusterMembership.storageDriver.Batch(batch); err != nil {
        Log.Errorf("Unable to persist removal of node %s: %v", nodeID.String(), err.Error())

        return storage.EStorage
    }

    return nil
}

func (clusterMembership *ClusterMembership) Get(nodeID data.NodeID) *NodeConfig {
    clusterMembership.lock.RLock()
    defer clusterMembership.lock.RUnlock()

    nodeConfig, ok := clusterMembership.nodes[nodeID]

    if !ok {
        return nil
    }

    config := *nodeConfig

    return &config
}

func (clusterMembership *ClusterMembership) GetAll() map[data.NodeID]NodeConfig {
    clusterMembership.lock.RLock()
    defer clusterMembership.lock.RUnlock()

    nodes := make(map[data.NodeID]NodeConfig, len(clusterMembership.nodes))

    for nodeID, nodeConfig := range clusterMembership.nodes {
        nodes[nodeID] = *nodeConfig
    }

    return nodes
}

func (clusterMembership *ClusterMembership) GetSelfID() data.NodeID {
    return clusterMembership.localNodeID
}

func (clusterMembership *ClusterMembership) IsRemoved(nodeID data.NodeID) bool {
    clusterMembership.lock.RLock()
    defer clusterMembership.lock.RUnlock()

    return clusterMembership.removed[nodeID]
}

func (clusterMembership *ClusterMembership) persistNode(nodeConfig *NodeConfig) error {
    if clusterMembership.storageDriver == nil {
        return nil
    }

    encodedNodeConfig, err := json.Marshal(nodeConfig)

    if err != nil {
        return err
    }

    batch := storage.NewBatch()
    batch.Put(nodeKey(nodeConfig.NodeID), encodedNodeConfig)

    if err := clusterMembership.storageDriver.Batch(batch); err != nil {
        Log.Errorf("Unable to persist config for node %s: %v", nodeConfig.NodeID.String(), err.Error())

        return storage.EStorage
    }

    return nil
}

func nodeKey(nodeID data.NodeID) []byte {
    return append(append([]byte{}, nodesPrefix...), []byte(nodeID.String())...)
}

func removedKey(nodeID data.NodeID) []byte {
    return append(append([]byte{}, removedPrefix...), []byte(nodeID.String())...)
}
