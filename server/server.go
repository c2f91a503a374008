package server

import (
    "net"
    "net/http"
    "strconv"
    "time"

    "github.com/gorilla/mux"
    "github.com/prometheus/client_golang/prometheus/promhttp"

    "github.com/objectmesh/objectmesh/routes"

    . "github.com/objectmesh/objectmesh/logging"
)

type ServerConfig struct {
    Host string
    Port int
    DirectoryFacade routes.DirectoryFacade
}

// Server exposes the directory's read API and the prometheus metrics
// endpoint over HTTP.
type Server struct {
    httpServer *http.Server
    listener net.Listener
    host string
    port int
    directoryFacade routes.DirectoryFacade
}

func NewServer(serverConfig ServerConfig) *Server {
    return &Server{
        host: serverConfig.Host,
        port: serverConfig.Port,
        directoryFacade: serverConfig.DirectoryFacade,
    }
}

func (server *Server) Port() int {
    return server.port
}

// Start listens and serves until Stop is called or the listener fails.
func (server *Server) Start() error {
    router := mux.NewRouter()

    (&routes.ObjectsEndpoint{ DirectoryFacade: server.directoryFacade }).Attach(router)
    (&routes.NodesEndpoint{ DirectoryFacade: server.directoryFacade }).Attach(router)

    router.Handle("/metrics", promhttp.Handler()).Methods("GET")

    server.httpServer = &http.Server{
        Handler: router,
        WriteTimeout: 15 * time.Second,
        ReadTimeout: 15 * time.Second,
    }

    listener, err := net.Listen("tcp", server.host + ":" + strconv.Itoa(server.port))

    if err != nil {
        Log.Errorf("Error listening on port %d: %v", server.port, err)

        return err
    }

    server.listener = listener

    Log.Infof("Listening external (%s:%d)", server.host, server.port)

    return server.httpServer.Serve(server.listener)
}

func (server *Server) Stop() error {
    if server.listener != nil {
        server.listener.Close()
    }

    return nil
}
