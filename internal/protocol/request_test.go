package protocol

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/scrollpane/internal/scroll"
	"github.com/dshills/scrollpane/internal/styled"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Request
	}{
		{
			name:  "add relative",
			input: `{"id":1,"type":"add","content":{"type":"relative","index":0,"entry":[{"type":"text","value":"hi"}]}}`,
			want:  AddRequest(1, scroll.Relative(0), styled.Entry{styled.Text("hi")}),
		},
		{
			name:  "add negative relative",
			input: `{"id":2,"type":"add","content":{"type":"relative","index":-3,"entry":[]}}`,
			want:  AddRequest(2, scroll.Relative(-3), styled.Entry{}),
		},
		{
			name:  "add absolute with colour",
			input: `{"id":3,"type":"add","content":{"type":"absolute","index":4,"entry":[{"type":"colour","value":"red"},{"type":"text","value":"x"}]}}`,
			want:  AddRequest(3, scroll.Absolute(4), styled.Entry{styled.Paint(styled.MustParseColour("red")), styled.Text("x")}),
		},
		{
			name:  "remove",
			input: `{"id":4,"type":"remove","content":{"uid":9}}`,
			want:  RemoveRequest(4, 9),
		},
		{
			name:  "update",
			input: `{"type":"update","id":5,"content":{"uid":9,"new":[{"type":"text","value":"y"}]}}`,
			want:  UpdateRequest(5, 9, styled.Entry{styled.Text("y")}),
		},
		{
			name:  "multiple",
			input: `{"id":6,"type":"multiple","content":{"requests":[{"id":7,"type":"remove","content":{"uid":1}},{"id":8,"type":"multiple","content":{"requests":[]}}]}}`,
			want: MultipleRequest(6,
				RemoveRequest(7, 1),
				Request{ID: 8, Kind: RequestMultiple, Requests: []Request{}},
			),
		},
		{
			name:  "unknown fields ignored",
			input: `{"id":9,"type":"remove","extra":true,"content":{"uid":2,"new":[]}}`,
			want:  RemoveRequest(9, 2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantID  uint32
	}{
		{"not json", `{`, nil, 0},
		{"null", `null`, ErrMissingID, 0},
		{"missing id", `{"type":"remove","content":{"uid":1}}`, ErrMissingID, 0},
		{"unknown type", `{"id":3,"type":"clear","content":{}}`, ErrUnknownRequest, 3},
		{"missing content", `{"id":4,"type":"remove"}`, ErrMissingContent, 4},
		{"null content", `{"id":5,"type":"remove","content":null}`, ErrMissingContent, 5},
		{"missing uid", `{"id":6,"type":"remove","content":{}}`, ErrMissingField, 6},
		{"update missing new", `{"id":7,"type":"update","content":{"uid":1}}`, ErrMissingField, 7},
		{"add missing entry", `{"id":8,"type":"add","content":{"type":"relative","index":0}}`, ErrMissingField, 8},
		{"add missing index", `{"id":9,"type":"add","content":{"type":"relative","entry":[]}}`, ErrMissingField, 9},
		{"unknown position", `{"id":10,"type":"add","content":{"type":"middle","index":0,"entry":[]}}`, ErrUnknownPosition, 10},
		{"negative absolute", `{"id":11,"type":"add","content":{"type":"absolute","index":-1,"entry":[]}}`, ErrIndexRange, 11},
		{"relative overflow", `{"id":12,"type":"add","content":{"type":"relative","index":2147483648,"entry":[]}}`, ErrIndexRange, 12},
		{"bad chunk", `{"id":13,"type":"add","content":{"type":"relative","index":0,"entry":[{"type":"blink","value":1}]}}`, styled.ErrUnknownChunk, 13},
		{"missing requests", `{"id":14,"type":"multiple","content":{}}`, ErrMissingField, 14},
		{"bad nested", `{"id":15,"type":"multiple","content":{"requests":[{"type":"remove","content":{"uid":1}}]}}`, ErrMissingID, 15},
		{"negative uid", `{"id":16,"type":"remove","content":{"uid":-1}}`, nil, 16},
		{"truncated", `{"id":17,"type":"remove","content":{"uid"`, nil, 17},
		{"string id", `{"id":"18","type":"remove","content":{"uid":1}}`, nil, 0},
		{"fractional id", `{"id":1.5,"type":"remove","content":{"uid":1}}`, nil, 0},
		{"negative id", `{"id":-2,"type":"remove","content":{"uid":1}}`, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			if err == nil {
				t.Fatal("Decode() expected error")
			}

			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Decode() error %T is not *DecodeError", err)
			}
			if de.ID != tt.wantID {
				t.Errorf("DecodeError.ID = %d, want %d", de.ID, tt.wantID)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequestMarshalRoundTrip(t *testing.T) {
	reqs := []Request{
		AddRequest(1, scroll.Absolute(3), styled.Entry{styled.Text("a")}),
		AddRequest(2, scroll.Relative(-1), nil),
		RemoveRequest(3, 4),
		UpdateRequest(5, 6, styled.Entry{styled.Paint(styled.ColourReset), styled.Text("b")}),
		MultipleRequest(7, RemoveRequest(8, 1), AddRequest(9, scroll.End, styled.Entry{})),
	}

	for _, req := range reqs {
		data, err := json.Marshal(req)
		if err != nil {
			t.Fatalf("Marshal(%v) error = %v", req.Kind, err)
		}
		got, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode(%s) error = %v", data, err)
		}

		want := req
		if want.Kind == RequestAdd && want.Entry == nil {
			want.Entry = styled.Entry{}
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip %s = %+v, want %+v", data, got, want)
		}
	}
}

func TestRequestMarshalWire(t *testing.T) {
	data, err := json.Marshal(RemoveRequest(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":1,"type":"remove","content":{"uid":2}}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestRequestKindString(t *testing.T) {
	for name, kind := range requestKinds {
		if kind.String() != name {
			t.Errorf("%d.String() = %q, want %q", kind, kind.String(), name)
		}
	}
	if RequestKind(0).String() != "unknown" {
		t.Error("zero kind should be unknown")
	}
}
