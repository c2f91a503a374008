package main

import (
    "encoding/json"
    "fmt"
    "net/http"
    "os"
    "strconv"

    "github.com/olekukonko/tablewriter"

    "github.com/objectmesh/objectmesh/routes"
)

func init() {
    registerCommand("status", clusterStatus, statusUsage)
}

var statusUsage string =
`Usage: objectmesh status -host=[node host] -port=[node port]
`

func clusterStatus() {
    response, err := http.Get("http://" + *optHost + ":" + strconv.Itoa(*optPort) + "/nodes")

    if err != nil {
        fmt.Fprintf(os.Stderr, "Unable to contact node at %s on port %d: %s\n", *optHost, *optPort, err.Error())

        os.Exit(1)
    }

    defer response.Body.Close()

    if response.StatusCode != http.StatusOK {
        fmt.Fprintf(os.Stderr, "Node at %s on port %d responded with status %d\n", *optHost, *optPort, response.StatusCode)

        os.Exit(1)
    }

    var connections []routes.NodeConnectionResponse

    if err := json.NewDecoder(response.Body).Decode(&connections); err != nil {
        fmt.Fprintf(os.Stderr, "Unable to parse response: %s\n", err.Error())

        os.Exit(1)
    }

    table := tablewriter.NewWriter(os.Stdout)
    table.SetHeader([]string{ "Node ID", "Host", "Port", "Connected" })

    for _, connection := range connections {
        table.Append([]string{
            connection.NodeID,
            connection.Host,
            strconv.Itoa(connection.Port),
            strconv.FormatBool(connection.Connected),
        })
    }

    table.Render()
}
