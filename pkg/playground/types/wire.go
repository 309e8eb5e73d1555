package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Round is the consensus layer's leadership epoch as self-reported by
// a replica: (round_num, leader), totally ordered lexicographically.
type Round struct {
	RoundNum uint32 `json:"round_num"`
	Leader   NodeID `json:"leader"`
}

// Less reports whether r is lexicographically smaller than other,
// comparing RoundNum first and Leader as a tiebreaker.
func (r Round) Less(other Round) bool {
	if r.RoundNum != other.RoundNum {
		return r.RoundNum < other.RoundNum
	}
	return r.Leader < other.Leader
}

// Request is the coordinator->replica envelope: {"APIRequest": <KVCommand>}.
type Request struct {
	APIRequest KVCommand `json:"APIRequest"`
}

// EncodeRequest serializes a KVCommand as a newline-terminated frame,
// ready to be written directly to a replica's client socket.
func EncodeRequest(cmd KVCommand) ([]byte, error) {
	data, err := json.Marshal(Request{APIRequest: cmd})
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ResponseKind discriminates the closed set of self-report envelopes a
// replica emits over its client socket.
type ResponseKind int

const (
	// ResponseUnknown marks a line that parsed as JSON but matched none
	// of the known APIResponse variants; it must be ignored, not treated
	// as an error.
	ResponseUnknown ResponseKind = iota
	ResponseDecided
	ResponseGet
	ResponseNewRound
	ResponseHappiness
)

// Response is a parsed APIResponse envelope. Exactly one of the
// Decided/Get/NewRound/Happiness accessors is meaningful, selected by Kind.
type Response struct {
	Kind ResponseKind

	DecidedIndex uint64

	GetKey   string
	GetValue *string // nil when the replica reports no value for the key

	NewRound      *Round // nil when the replica self-reports "no round yet"
	HasNewRound   bool   // true iff the wire envelope was the NewRound variant at all
	HappinessFlag bool
}

// ParseResponse decodes a single newline-delimited APIResponse frame
// (the trailing newline may or may not still be present; it is
// trimmed). Unknown envelopes decode successfully with Kind ==
// ResponseUnknown rather than failing, matching the "ignore unknown
// envelope" rule; malformed JSON, or a known variant whose body has the
// wrong shape, is a parse error.
func ParseResponse(line []byte) (Response, error) {
	line = bytes.TrimRight(line, "\r\n")

	var outer struct {
		APIResponse json.RawMessage `json:"APIResponse"`
	}
	if err := json.Unmarshal(line, &outer); err != nil {
		return Response{}, fmt.Errorf("malformed envelope: %w", err)
	}
	if outer.APIResponse == nil {
		return Response{Kind: ResponseUnknown}, nil
	}

	var variants map[string]json.RawMessage
	if err := json.Unmarshal(outer.APIResponse, &variants); err != nil {
		return Response{}, fmt.Errorf("malformed APIResponse body: %w", err)
	}

	if raw, ok := variants["Decided"]; ok {
		var idx uint64
		if err := json.Unmarshal(raw, &idx); err != nil {
			return Response{}, fmt.Errorf("malformed Decided response: %w", err)
		}
		return Response{Kind: ResponseDecided, DecidedIndex: idx}, nil
	}

	if raw, ok := variants["Get"]; ok {
		var tuple [2]json.RawMessage
		if err := json.Unmarshal(raw, &tuple); err != nil {
			return Response{}, fmt.Errorf("malformed Get response: %w", err)
		}
		var key string
		if err := json.Unmarshal(tuple[0], &key); err != nil {
			return Response{}, fmt.Errorf("malformed Get response key: %w", err)
		}
		var value *string
		if err := json.Unmarshal(tuple[1], &value); err != nil {
			return Response{}, fmt.Errorf("malformed Get response value: %w", err)
		}
		return Response{Kind: ResponseGet, GetKey: key, GetValue: value}, nil
	}

	if raw, ok := variants["NewRound"]; ok {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return Response{Kind: ResponseNewRound, HasNewRound: true, NewRound: nil}, nil
		}
		var round Round
		if err := json.Unmarshal(raw, &round); err != nil {
			return Response{}, fmt.Errorf("malformed NewRound response: %w", err)
		}
		return Response{Kind: ResponseNewRound, HasNewRound: true, NewRound: &round}, nil
	}

	if raw, ok := variants["Happiness"]; ok {
		var flag bool
		if err := json.Unmarshal(raw, &flag); err != nil {
			return Response{}, fmt.Errorf("malformed Happiness response: %w", err)
		}
		return Response{Kind: ResponseHappiness, HappinessFlag: flag}, nil
	}

	return Response{Kind: ResponseUnknown}, nil
}
