package types

import "testing"

func TestParseResponse_NewRound(t *testing.T) {
	resp, err := ParseResponse([]byte(`{"APIResponse":{"NewRound":{"round_num":7,"leader":2}}}` + "\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Kind != ResponseNewRound {
		t.Fatalf("expected ResponseNewRound, got %v", resp.Kind)
	}
	if resp.NewRound == nil || resp.NewRound.RoundNum != 7 || resp.NewRound.Leader != 2 {
		t.Errorf("unexpected round: %+v", resp.NewRound)
	}
}

func TestParseResponse_NewRoundNull(t *testing.T) {
	resp, err := ParseResponse([]byte(`{"APIResponse":{"NewRound":null}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Kind != ResponseNewRound || resp.NewRound != nil {
		t.Errorf("expected a nil NewRound, got %+v", resp)
	}
}

func TestParseResponse_Get(t *testing.T) {
	resp, err := ParseResponse([]byte(`{"APIResponse":{"Get":["x","1"]}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Kind != ResponseGet || resp.GetKey != "x" || resp.GetValue == nil || *resp.GetValue != "1" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestParseResponse_GetMissingValue(t *testing.T) {
	resp, err := ParseResponse([]byte(`{"APIResponse":{"Get":["x",null]}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.GetValue != nil {
		t.Errorf("expected a nil value, got %v", *resp.GetValue)
	}
}

func TestParseResponse_Decided(t *testing.T) {
	resp, err := ParseResponse([]byte(`{"APIResponse":{"Decided":42}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Kind != ResponseDecided || resp.DecidedIndex != 42 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestParseResponse_Happiness(t *testing.T) {
	resp, err := ParseResponse([]byte(`{"APIResponse":{"Happiness":true}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Kind != ResponseHappiness || !resp.HappinessFlag {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestParseResponse_UnknownEnvelopeIsIgnoredNotError(t *testing.T) {
	resp, err := ParseResponse([]byte(`{"SomethingElse":{}}`))
	if err != nil {
		t.Fatalf("unknown envelopes must not error, got: %v", err)
	}
	if resp.Kind != ResponseUnknown {
		t.Errorf("expected ResponseUnknown, got %v", resp.Kind)
	}
}

func TestParseResponse_MalformedJSONErrors(t *testing.T) {
	if _, err := ParseResponse([]byte(`not json`)); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestEncodeRequest_RoundTrips(t *testing.T) {
	data, err := EncodeRequest(NewPut("x", "1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"APIRequest":{"Put":{"key":"x","value":"1"}}}` + "\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestRound_Less(t *testing.T) {
	lower := Round{RoundNum: 1, Leader: 9}
	higher := Round{RoundNum: 2, Leader: 1}
	if !lower.Less(higher) {
		t.Error("expected lower round to be Less")
	}
	if higher.Less(lower) {
		t.Error("expected higher round to not be Less")
	}

	tieBroken := Round{RoundNum: 1, Leader: 1}
	if !tieBroken.Less(lower) {
		t.Error("expected tie to break on leader id")
	}
}
