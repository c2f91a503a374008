package transport

import (
    "encoding/json"
    "errors"

    "github.com/objectmesh/objectmesh/data"
    "github.com/objectmesh/objectmesh/membership"
)

const (
    SUBSCRIPTION_LOCATION_UPDATE = iota
    SUBSCRIPTION_NODE_ADDED = iota
    SUBSCRIPTION_NODE_UPDATED = iota
    SUBSCRIPTION_NODE_REMOVED = iota
)

var EBadMessage = errors.New("The subscription message was not properly formatted. Unable to parse it.")

type rawSubscriptionMessage struct {
    MessageType int `json:"type"`
    MessageBody json.RawMessage `json:"body"`
}

type LocationUpdateMessage struct {
    ObjectID data.ObjectID `json:"objectID"`
    Updates []data.LocationChangeEvent `json:"updates"`
}

type NodeAddedMessage struct {
    NodeConfig membership.NodeConfig `json:"nodeConfig"`
}

type NodeUpdatedMessage struct {
    NodeConfig membership.NodeConfig `json:"nodeConfig"`
}

type NodeRemovedMessage struct {
    NodeID data.NodeID `json:"nodeID"`
}

// SubscriptionNotification is one decoded message from the metadata store
// subscription stream. Exactly one field is set.
type SubscriptionNotification struct {
    LocationUpdate *LocationUpdateMessage
    MembershipDelta *membership.MembershipDelta
}

func decodeSubscriptionMessage(rawMessage *rawSubscriptionMessage) (SubscriptionNotification, error) {
    switch rawMessage.MessageType {
    case SUBSCRIPTION_LOCATION_UPDATE:
        var locationUpdate LocationUpdateMessage

        if err := json.Unmarshal(rawMessage.MessageBody, &locationUpdate); err != nil {
            return SubscriptionNotification{}, EBadMessage
        }

        return SubscriptionNotification{ LocationUpdate: &locationUpdate }, nil
    case SUBSCRIPTION_NODE_ADDED:
        var nodeAdded NodeAddedMessage

        if err := json.Unmarshal(rawMessage.MessageBody, &nodeAdded); err != nil {
            return SubscriptionNotification{}, EBadMessage
        }

        return SubscriptionNotification{ MembershipDelta: &membership.MembershipDelta{ Type: membership.DeltaNodeAdd, Delta: membership.NodeAdd{ NodeID: nodeAdded.NodeConfig.NodeID, NodeConfig: nodeAdded.NodeConfig } } }, nil
    case SUBSCRIPTION_NODE_UPDATED:
        var nodeUpdated NodeUpdatedMessage

        if err := json.Unmarshal(rawMessage.MessageBody, &nodeUpdated); err != nil {
            return SubscriptionNotification{}, EBadMessage
        }

        return SubscriptionNotification{ MembershipDelta: &membership.MembershipDelta{ Type: membership.DeltaNodeUpdate, Delta: membership.NodeUpdate{ NodeID: nodeUpdated.NodeConfig.NodeID, NodeConfig: nodeUpdated.NodeConfig } } }, nil
    case SUBSCRIPTION_NODE_REMOVED:
        var nodeRemoved NodeRemovedMessage

        if err := json.Unmarshal(rawMessage.MessageBody, &nodeRemoved); err != nil {
            return SubscriptionNotification{}, EBadMessage
        }

        return SubscriptionNotification{ MembershipDelta: &membership.MembershipDelta{ Type: membership.DeltaNodeRemove, Delta: membership.NodeRemove{ NodeID: nodeRemoved.NodeID } } }, nil
    default:
        return SubscriptionNotification{}, EBadMessage
    }
}
