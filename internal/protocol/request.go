package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/dshills/scrollpane/internal/scroll"
	"github.com/dshills/scrollpane/internal/styled"
)

// RequestKind identifies the operation a request performs.
type RequestKind uint8

const (
	// RequestAdd inserts an entry at a position.
	RequestAdd RequestKind = iota + 1
	// RequestRemove deletes an entry by uid.
	RequestRemove
	// RequestUpdate replaces an entry by uid.
	RequestUpdate
	// RequestMultiple batches nested requests.
	RequestMultiple
)

var requestKinds = map[string]RequestKind{
	"add":      RequestAdd,
	"remove":   RequestRemove,
	"update":   RequestUpdate,
	"multiple": RequestMultiple,
}

// String returns the wire name of the kind.
func (k RequestKind) String() string {
	switch k {
	case RequestAdd:
		return "add"
	case RequestRemove:
		return "remove"
	case RequestUpdate:
		return "update"
	case RequestMultiple:
		return "multiple"
	default:
		return "unknown"
	}
}

// Request is a decoded scroll request. Only the fields relevant to Kind are
// meaningful.
type Request struct {
	ID   uint32
	Kind RequestKind

	// Add
	Position scroll.Position
	Entry    styled.Entry

	// Remove, Update
	UID uint32
	New styled.Entry

	// Multiple
	Requests []Request
}

// AddRequest builds an add request.
func AddRequest(id uint32, pos scroll.Position, entry styled.Entry) Request {
	return Request{ID: id, Kind: RequestAdd, Position: pos, Entry: entry}
}

// RemoveRequest builds a remove request.
func RemoveRequest(id, uid uint32) Request {
	return Request{ID: id, Kind: RequestRemove, UID: uid}
}

// UpdateRequest builds an update request.
func UpdateRequest(id, uid uint32, entry styled.Entry) Request {
	return Request{ID: id, Kind: RequestUpdate, UID: uid, New: entry}
}

// MultipleRequest builds a batch request.
func MultipleRequest(id uint32, reqs ...Request) Request {
	return Request{ID: id, Kind: RequestMultiple, Requests: reqs}
}

// Decode parses a request payload. Failures are returned as *DecodeError.
func Decode(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, &DecodeError{ID: probeID(data), Err: err}
	}
	if req.Kind == 0 {
		return Request{}, &DecodeError{ID: probeID(data), Err: ErrMissingContent}
	}
	return req, nil
}

// probeID recovers the id of a malformed request so the reply can be
// correlated. It tolerates truncated or otherwise invalid JSON after the id.
func probeID(data []byte) uint32 {
	id := gjson.GetBytes(data, "id")
	if id.Type != gjson.Number {
		return 0
	}
	if id.Num < 0 || id.Num > math.MaxUint32 || id.Num != math.Trunc(id.Num) {
		return 0
	}
	return uint32(id.Num)
}

type requestWire struct {
	ID      *uint32         `json:"id"`
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

type addWire struct {
	Type  string        `json:"type"`
	Index *int64        `json:"index"`
	Entry *styled.Entry `json:"entry"`
}

type uidWire struct {
	UID *uint32       `json:"uid"`
	New *styled.Entry `json:"new,omitempty"`
}

type multipleWire struct {
	Requests *[]Request `json:"requests"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Request) UnmarshalJSON(data []byte) error {
	var w requestWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ID == nil {
		return ErrMissingID
	}

	kind, ok := requestKinds[w.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRequest, w.Type)
	}
	content := bytes.TrimSpace(w.Content)
	if len(content) == 0 || bytes.Equal(content, []byte("null")) {
		return fmt.Errorf("%s request %d: %w", kind, *w.ID, ErrMissingContent)
	}

	req := Request{ID: *w.ID, Kind: kind}
	var err error
	switch kind {
	case RequestAdd:
		err = req.decodeAdd(content)
	case RequestRemove, RequestUpdate:
		err = req.decodeUID(content)
	case RequestMultiple:
		err = req.decodeMultiple(content)
	}
	if err != nil {
		return fmt.Errorf("%s request %d: %w", kind, req.ID, err)
	}

	*r = req
	return nil
}

func (r *Request) decodeAdd(content []byte) error {
	var w addWire
	if err := json.Unmarshal(content, &w); err != nil {
		return err
	}
	if w.Index == nil {
		return fmt.Errorf("%w %q", ErrMissingField, "index")
	}
	if w.Entry == nil {
		return fmt.Errorf("%w %q", ErrMissingField, "entry")
	}

	index := *w.Index
	switch w.Type {
	case "absolute":
		if index < 0 || index > math.MaxUint32 {
			return fmt.Errorf("%w: absolute %d", ErrIndexRange, index)
		}
		r.Position = scroll.Absolute(uint32(index))
	case "relative":
		if index < math.MinInt32 || index > math.MaxInt32 {
			return fmt.Errorf("%w: relative %d", ErrIndexRange, index)
		}
		r.Position = scroll.Relative(int32(index))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPosition, w.Type)
	}

	r.Entry = *w.Entry
	return nil
}

func (r *Request) decodeUID(content []byte) error {
	var w uidWire
	if err := json.Unmarshal(content, &w); err != nil {
		return err
	}
	if w.UID == nil {
		return fmt.Errorf("%w %q", ErrMissingField, "uid")
	}
	r.UID = *w.UID

	if r.Kind == RequestUpdate {
		if w.New == nil {
			return fmt.Errorf("%w %q", ErrMissingField, "new")
		}
		r.New = *w.New
	}
	return nil
}

func (r *Request) decodeMultiple(content []byte) error {
	var w multipleWire
	if err := json.Unmarshal(content, &w); err != nil {
		return err
	}
	if w.Requests == nil {
		return fmt.Errorf("%w %q", ErrMissingField, "requests")
	}
	r.Requests = *w.Requests
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r Request) MarshalJSON() ([]byte, error) {
	var content any
	switch r.Kind {
	case RequestAdd:
		w := addWire{Entry: nonNil(r.Entry)}
		var index int64
		if r.Position.Kind == scroll.PositionRelative {
			w.Type = "relative"
			index = int64(r.Position.Offset)
		} else {
			w.Type = "absolute"
			index = int64(r.Position.Index)
		}
		w.Index = &index
		content = w
	case RequestRemove:
		content = uidWire{UID: &r.UID}
	case RequestUpdate:
		content = uidWire{UID: &r.UID, New: nonNil(r.New)}
	case RequestMultiple:
		reqs := r.Requests
		if reqs == nil {
			reqs = []Request{}
		}
		content = multipleWire{Requests: &reqs}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownRequest, r.Kind)
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	id := r.ID
	return json.Marshal(requestWire{ID: &id, Type: r.Kind.String(), Content: raw})
}

func nonNil(e styled.Entry) *styled.Entry {
	if e == nil {
		e = styled.Entry{}
	}
	return &e
}
