package state

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Codec encodes file records. Implementations honour the json tags of the
// stored types so every format uses the same keys.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Extension() string
}

// JSONCodec writes indented JSON.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (JSONCodec) Extension() string { return ".json" }

// YAMLCodec writes YAML. Values are bridged through their JSON form, so json
// tags decide the YAML keys.
type YAMLCodec struct{}

func (YAMLCodec) Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return yaml.Marshal(generic)
}

func (YAMLCodec) Unmarshal(data []byte, v any) error {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return err
	}
	raw, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("yaml document is not representable as json: %w", err)
	}
	return json.Unmarshal(raw, v)
}

func (YAMLCodec) Extension() string { return ".yaml" }
