package shared

import (
    "errors"
    "fmt"
    "io/ioutil"

    "gopkg.in/yaml.v2"

    "github.com/objectmesh/objectmesh/data"

    . "github.com/objectmesh/objectmesh/logging"
)

type YAMLServerConfig struct {
    DBFile string `yaml:"db"`
    Port int `yaml:"port"`
    Host string `yaml:"host"`
    NodeID string `yaml:"nodeID"`
    MetadataStore YAMLMetadataStore `yaml:"metadataStore"`
    LogLevel string `yaml:"logLevel"`
}

type YAMLMetadataStore struct {
    Host string `yaml:"host"`
    Port int `yaml:"port"`
}

func (ysc *YAMLServerConfig) LoadFromFile(file string) error {
    rawConfig, err := ioutil.ReadFile(file)

    if err != nil {
        return err
    }

    err = yaml.Unmarshal(rawConfig, ysc)

    if err != nil {
        return err
    }

    return ysc.Validate()
}

func (ysc *YAMLServerConfig) Validate() error {
    if len(ysc.DBFile) == 0 {
        return errors.New("No database directory (db) was specified")
    }

    if !isValidPort(ysc.Port) {
        return errors.New(fmt.Sprintf("%d is an invalid port for the directory server", ysc.Port))
    }

    if _, err := data.NodeIDFromString(ysc.NodeID); err != nil {
        return errors.New(fmt.Sprintf("%s is not a valid node ID. It must be a hex encoded 16 byte value", ysc.NodeID))
    }

    if len(ysc.MetadataStore.Host) == 0 {
        return errors.New("No metadata store host was specified")
    }

    if !isValidPort(ysc.MetadataStore.Port) {
        return errors.New(fmt.Sprintf("%d is an invalid port for the metadata store", ysc.MetadataStore.Port))
    }

    if len(ysc.LogLevel) != 0 && !LogLevelIsValid(ysc.LogLevel) {
        return errors.New(fmt.Sprintf("%s is not a valid log level", ysc.LogLevel))
    }

    if len(ysc.LogLevel) == 0 {
        ysc.LogLevel = "info"
    }

    return nil
}

func (ysc *YAMLServerConfig) LocalNodeID() data.NodeID {
    nodeID, _ := data.NodeIDFromString(ysc.NodeID)

    return nodeID
}

func isValidPort(p int) bool {
    return p > 0 && p < (1 << 16)
}
