package main

import (
    "fmt"
)

func init() {
    registerCommand("conf", generateConfig, confUsage)
}

var confUsage string =
`Usage: objectmesh conf > objectmesh.yaml
`

var templateConfig string =
`# The db field specifies the directory where this node keeps its persistent
# state, such as its last known view of the cluster membership. If it doesn't
# exist it will be created.
# **REQUIRED**
db: /tmp/objectmesh

# The host and port fields specify where the node's HTTP API is served
host: localhost
port: 9090

# The nodeID field is this node's identity in the cluster: a hex encoded
# 16 byte value. It must be unique across the cluster and stable across
# restarts of this node.
# **REQUIRED**
nodeID: 00000000000000000000000000000001

# The metadataStore fields specify where to reach the cluster metadata
# store's subscription endpoint. The node receives object location updates
# and cluster membership changes from it.
# **REQUIRED**
metadataStore:
    host: localhost
    port: 8080

# The log level can be one of critical, error, warning, notice, info or debug
logLevel: info
`

func generateConfig() {
    fmt.Print(templateConfig)
}
