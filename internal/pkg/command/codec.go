package command

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// MaxMessageSize bounds a single command or reply. Uploads travel inline.
const MaxMessageSize = 16 << 20

// Method returns the gRPC method path for a command of a service.
func Method(service, command string) string {
	return "/" + service + "/" + command
}

func encode(v any) (*structpb.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("command: marshal payload: %w", err)
	}
	return encodeJSON(b)
}

func encodeJSON(b []byte) (*structpb.Value, error) {
	var out structpb.Value
	if err := protojson.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("command: convert payload: %w", err)
	}
	return &out, nil
}

func decodeJSON(v *structpb.Value) (json.RawMessage, error) {
	if v.GetKind() == nil {
		return json.RawMessage("null"), nil
	}
	b, err := protojson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("command: convert reply: %w", err)
	}
	return b, nil
}

func decode(v *structpb.Value, out any) error {
	if out == nil {
		return nil
	}
	b, err := decodeJSON(v)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("command: unmarshal reply: %w", err)
	}
	return nil
}
