package transport

import (
    "errors"
    "strconv"
    "sync"
    "time"

    "github.com/gorilla/websocket"

    . "github.com/objectmesh/objectmesh/logging"
)

const RECONNECT_WAIT_MAX_SECONDS = 32

var EStopped = errors.New("Subscriber stopped")

// MetadataSubscriber maintains a websocket subscription to the metadata
// store and delivers decoded notifications on a channel, in the order the
// store sent them. It reconnects with capped exponential backoff until
// Stop is called. Per object ordering is preserved because a single read
// loop feeds the channel.
type MetadataSubscriber struct {
    host string
    port int
    dialer *websocket.Dialer
    notifications chan SubscriptionNotification
    closeChan chan bool
    csLock sync.Mutex
    connection *websocket.Conn
    closed bool
}

func NewMetadataSubscriber(host string, port int) *MetadataSubscriber {
    return &MetadataSubscriber{
        host: host,
        port: port,
        dialer: websocket.DefaultDialer,
        notifications: make(chan SubscriptionNotification),
        closeChan: make(chan bool, 1),
    }
}

func (subscriber *MetadataSubscriber) Notifications() <-chan SubscriptionNotification {
    return subscriber.notifications
}

// Start runs the connect/read loop in the background. The notifications
// channel is closed once the subscriber is stopped.
func (subscriber *MetadataSubscriber) Start() {
    go subscriber.run()
}

func (subscriber *MetadataSubscriber) Stop() {
    subscriber.csLock.Lock()
    defer subscriber.csLock.Unlock()

    if subscriber.closed {
        return
    }

    subscriber.closed = true
    subscriber.closeChan <- true

    if subscriber.connection != nil {
        subscriber.connection.Close()
    }
}

func (subscriber *MetadataSubscriber) run() {
    defer close(subscriber.notifications)

    for {
        connection, err := subscriber.connect()

        if err != nil {
            return
        }

        subscriber.readLoop(connection)

        subscriber.csLock.Lock()
        closed := subscriber.closed
        subscriber.connection = nil
        subscriber.csLock.Unlock()

        if closed {
            return
        }

        Log.Warningf("Lost subscription connection to metadata store at %s on port %d. Reconnecting...", subscriber.host, subscriber.port)
    }
}

func (subscriber *MetadataSubscriber) connect() (*websocket.Conn, error) {
    reconnectWaitSeconds := 1

    for {
        conn, _, err := subscriber.dialer.Dial("ws://" + subscriber.host + ":" + strconv.Itoa(subscriber.port) + "/subscription", nil)

        if err != nil {
            Log.Warningf("Unable to connect to metadata store at %s on port %d: %v. Reconnecting in %ds...", subscriber.host, subscriber.port, err, reconnectWaitSeconds)

            select {
            case <-time.After(time.Second * time.Duration(reconnectWaitSeconds)):
            case <-subscriber.closeChan:
                Log.Debugf("Cancelled connection retry sequence to metadata store")

                return nil, EStopped
            }

            if reconnectWaitSeconds != RECONNECT_WAIT_MAX_SECONDS {
                reconnectWaitSeconds *= 2
            }

            continue
        }

        subscriber.csLock.Lock()

        if subscriber.closed {
            subscriber.csLock.Unlock()

            conn.Close()

            return nil, EStopped
        }

        subscriber.connection = conn
        subscriber.csLock.Unlock()

        Log.Infof("Subscribed to metadata store at %s on port %d", subscriber.host, subscriber.port)

        return conn, nil
    }
}

func (subscriber *MetadataSubscriber) readLoop(connection *websocket.Conn) {
    for {
        var rawMessage rawSubscriptionMessage

        err := connection.ReadJSON(&rawMessage)

        if err != nil {
            if err.Error() == "websocket: close 1000 (normal)" {
                Log.Infof("Received a normal websocket close message from the metadata store")
            } else {
                Log.Errorf("Error reading from metadata store subscription: %v", err)
            }

            connection.Close()

            return
        }

        notification, err := decodeSubscriptionMessage(&rawMessage)

        if err != nil {
            Log.Errorf("The metadata store sent a misformatted message (type %d). Unable to parse: %v", rawMessage.MessageType, err)

            connection.Close()

            return
        }

        subscriber.notifications <- notification
    }
}
