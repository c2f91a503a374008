package main

import (
    "fmt"
    "os"

    "github.com/objectmesh/objectmesh/node"
    "github.com/objectmesh/objectmesh/shared"

    . "github.com/objectmesh/objectmesh/logging"
)

func init() {
    registerCommand("start", startNode, startUsage)
}

var startUsage string =
`Usage: objectmesh start -conf=[config file]
`

func startNode() {
    var sc shared.YAMLServerConfig

    err := sc.LoadFromFile(*optConfigFile)

    if err != nil {
        fmt.Fprintf(os.Stderr, "Unable to load config file: %s\n", err.Error())

        os.Exit(1)
    }

    SetLoggingLevel(sc.LogLevel)

    locatorNode := node.New(sc)

    if err := locatorNode.Start(); err != nil {
        os.Exit(1)
    }
}
