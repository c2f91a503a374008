package main

import (
    "flag"
    "fmt"
    "os"
    "sort"
)

var optConfigFile *string = flag.String("conf", "", "Config file to use for this node")
var optHost *string = flag.String("host", "localhost", "Host of the node to contact")
var optPort *int = flag.Int("port", 9090, "Port of the node to contact")

var commands map[string]func() = make(map[string]func())
var commandUsages map[string]string = make(map[string]string)

func registerCommand(name string, command func(), usage string) {
    commands[name] = command
    commandUsages[name] = usage
}

func usage() {
    fmt.Fprintf(os.Stderr, "Usage: objectmesh <command> [arguments]\n\nCommands:\n")

    names := make([]string, 0, len(commands))

    for name, _ := range commands {
        names = append(names, name)
    }

    sort.Strings(names)

    for _, name := range names {
        fmt.Fprintf(os.Stderr, "\n%s", commandUsages[name])
    }
}

func main() {
    if len(os.Args) < 2 {
        usage()

        os.Exit(1)
    }

    command, ok := commands[os.Args[1]]

    if !ok {
        fmt.Fprintf(os.Stderr, "%s is not a recognized command\n\n", os.Args[1])

        usage()

        os.Exit(1)
    }

    flag.CommandLine.Parse(os.Args[2:])

    command()
}
