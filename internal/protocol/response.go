package protocol

import (
	"encoding/json"
	"fmt"
)

// ResponseKind identifies the outcome reported by a response.
type ResponseKind uint8

const (
	// ResponseCreated reports a stored add and carries the new uid.
	ResponseCreated ResponseKind = iota + 1
	// ResponseUpdated reports a successful update.
	ResponseUpdated
	// ResponseRemoved reports a successful remove.
	ResponseRemoved
	// ResponseNotFound reports an unknown uid or an add outside the window.
	ResponseNotFound
	// ResponseReceived acknowledges a batch request.
	ResponseReceived
	// ResponseMultiple wraps the responses of one processing round.
	ResponseMultiple
	// ResponseError reports a request that could not be decoded.
	ResponseError
)

// The acknowledgement keeps its historical spelling; existing clients match
// on it.
var responseNames = map[ResponseKind]string{
	ResponseCreated:  "created",
	ResponseUpdated:  "updated",
	ResponseRemoved:  "removed",
	ResponseNotFound: "not found",
	ResponseReceived: "recieved",
	ResponseMultiple: "multiple",
	ResponseError:    "error",
}

var responseKinds = func() map[string]ResponseKind {
	m := make(map[string]ResponseKind, len(responseNames))
	for k, v := range responseNames {
		m[v] = k
	}
	return m
}()

// String returns the wire name of the kind.
func (k ResponseKind) String() string {
	if name, ok := responseNames[k]; ok {
		return name
	}
	return "unknown"
}

// Response is a reply to a request.
type Response struct {
	ID   uint32
	Kind ResponseKind

	// UID is set for ResponseCreated.
	UID uint32

	// Message is set for ResponseError.
	Message string

	// Responses is set for ResponseMultiple.
	Responses []Response
}

// Created returns a created response for uid.
func Created(id, uid uint32) Response {
	return Response{ID: id, Kind: ResponseCreated, UID: uid}
}

// Updated returns an updated response.
func Updated(id uint32) Response {
	return Response{ID: id, Kind: ResponseUpdated}
}

// Removed returns a removed response.
func Removed(id uint32) Response {
	return Response{ID: id, Kind: ResponseRemoved}
}

// NotFound returns a not found response.
func NotFound(id uint32) Response {
	return Response{ID: id, Kind: ResponseNotFound}
}

// Received returns a batch acknowledgement.
func Received(id uint32) Response {
	return Response{ID: id, Kind: ResponseReceived}
}

// Multiple wraps responses in an envelope carrying id.
func Multiple(id uint32, responses []Response) Response {
	return Response{ID: id, Kind: ResponseMultiple, Responses: responses}
}

// Error returns an error response.
func Error(id uint32, err error) Response {
	return Response{ID: id, Kind: ResponseError, Message: err.Error()}
}

type responseWire struct {
	ID        *uint32         `json:"id,omitempty"`
	Type      string          `json:"type"`
	UID       *uint32         `json:"uid,omitempty"`
	Message   string          `json:"message,omitempty"`
	Responses *[]responseWire `json:"responses,omitempty"`
}

func (r Response) wire(withID bool) (responseWire, error) {
	name, ok := responseNames[r.Kind]
	if !ok {
		return responseWire{}, fmt.Errorf("%w: %d", ErrUnknownResponse, r.Kind)
	}

	w := responseWire{Type: name}
	if withID {
		id := r.ID
		w.ID = &id
	}

	switch r.Kind {
	case ResponseCreated:
		uid := r.UID
		w.UID = &uid
	case ResponseError:
		w.Message = r.Message
	case ResponseMultiple:
		nested := make([]responseWire, 0, len(r.Responses))
		for _, sub := range r.Responses {
			sw, err := sub.wire(false)
			if err != nil {
				return responseWire{}, err
			}
			nested = append(nested, sw)
		}
		w.Responses = &nested
	}
	return w, nil
}

// MarshalJSON implements json.Marshaler.
func (r Response) MarshalJSON() ([]byte, error) {
	w, err := r.wire(true)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. Nested responses get a zero ID.
func (r *Response) UnmarshalJSON(data []byte) error {
	var w responseWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	resp, err := w.response()
	if err != nil {
		return err
	}
	*r = resp
	return nil
}

func (w responseWire) response() (Response, error) {
	kind, ok := responseKinds[w.Type]
	if !ok {
		return Response{}, fmt.Errorf("%w: %q", ErrUnknownResponse, w.Type)
	}

	r := Response{Kind: kind, Message: w.Message}
	if w.ID != nil {
		r.ID = *w.ID
	}
	if w.UID != nil {
		r.UID = *w.UID
	}
	if w.Responses != nil {
		r.Responses = make([]Response, 0, len(*w.Responses))
		for _, sw := range *w.Responses {
			sub, err := sw.response()
			if err != nil {
				return Response{}, err
			}
			r.Responses = append(r.Responses, sub)
		}
	}
	return r, nil
}
