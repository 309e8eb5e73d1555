package types

import "fmt"

// KVCommand is the closed set of key-value commands an operator can
// inject into the cluster: Put(k,v) | Delete(k) | Get(k). On the wire
// it is an externally-tagged JSON object, e.g. {"Put":{"key":"x","value":"1"}}.
type KVCommand struct {
	Put    *PutCommand    `json:"Put,omitempty"`
	Delete *DeleteCommand `json:"Delete,omitempty"`
	Get    *GetCommand    `json:"Get,omitempty"`
}

// PutCommand writes a value for a key.
type PutCommand struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DeleteCommand removes a key.
type DeleteCommand struct {
	Key string `json:"key"`
}

// GetCommand reads a key.
type GetCommand struct {
	Key string `json:"key"`
}

// NewPut builds a Put command.
func NewPut(key, value string) KVCommand {
	return KVCommand{Put: &PutCommand{Key: key, Value: value}}
}

// NewDelete builds a Delete command.
func NewDelete(key string) KVCommand {
	return KVCommand{Delete: &DeleteCommand{Key: key}}
}

// NewGet builds a Get command.
func NewGet(key string) KVCommand {
	return KVCommand{Get: &GetCommand{Key: key}}
}

// Kind renders a short human label, used in UI/log lines.
func (c KVCommand) Kind() string {
	switch {
	case c.Put != nil:
		return fmt.Sprintf("put %s=%s", c.Put.Key, c.Put.Value)
	case c.Delete != nil:
		return fmt.Sprintf("delete %s", c.Delete.Key)
	case c.Get != nil:
		return fmt.Sprintf("get %s", c.Get.Key)
	default:
		return "empty command"
	}
}
