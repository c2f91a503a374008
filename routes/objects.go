package routes

import (
    "encoding/json"
    "io"
    "net/http"

    "github.com/gorilla/mux"

    "github.com/objectmesh/objectmesh/data"
    "github.com/objectmesh/objectmesh/directory"

    . "github.com/objectmesh/objectmesh/logging"
)

type ObjectsEndpoint struct {
    DirectoryFacade DirectoryFacade
}

func (objectsEndpoint *ObjectsEndpoint) Attach(router *mux.Router) {
    // Query the merged location state of a tracked object
    router.HandleFunc("/objects/{objectID}/locations", func(w http.ResponseWriter, r *http.Request) {
        objectID, err := data.ObjectIDFromString(mux.Vars(r)["objectID"])

        if err != nil {
            Log.Warningf("GET /objects/{objectID}/locations: Unable to parse object ID: %v", err)

            w.Header().Set("Content-Type", "application/json; charset=utf8")
            w.WriteHeader(http.StatusBadRequest)
            io.WriteString(w, "\n")

            return
        }

        state, err := objectsEndpoint.DirectoryFacade.ObjectLocations(objectID)

        if err == directory.ENoSuchObject {
            w.Header().Set("Content-Type", "application/json; charset=utf8")
            w.WriteHeader(http.StatusNotFound)
            io.WriteString(w, "\n")

            return
        }

        if err != nil {
            Log.Warningf("GET /objects/{objectID}/locations: %v", err)

            w.Header().Set("Content-Type", "application/json; charset=utf8")
            w.WriteHeader(http.StatusInternalServerError)
            io.WriteString(w, "\n")

            return
        }

        encodedResponse, _ := json.Marshal(MakeObjectLocationsResponse(objectID.String(), state))

        w.Header().Set("Content-Type", "application/json; charset=utf8")
        w.WriteHeader(http.StatusOK)
        io.WriteString(w, string(encodedResponse) + "\n")
    }).Methods("GET")
}
