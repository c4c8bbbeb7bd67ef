// Package protocol defines the scroll request/response messages exchanged
// over the bus and their JSON encoding.
//
// A request envelope carries a caller-chosen id, a type and a content object:
//
//	{"id":1,"type":"add","content":{"type":"relative","index":0,"entry":[...]}}
//	{"id":2,"type":"remove","content":{"uid":7}}
//	{"id":3,"type":"update","content":{"uid":7,"new":[...]}}
//	{"id":4,"type":"multiple","content":{"requests":[...]}}
//
// Responses echo the id of the request they answer. Responses nested in a
// multiple envelope carry no id of their own.
package protocol

// Bus tags used by the scroll component.
const (
	// RequestTag marks inbound scroll requests.
	RequestTag = "!scroll-request"

	// ResponseTag marks replies sent back to a requester.
	ResponseTag = "!scroll-response"

	// ReadyTag is broadcast once when the component starts accepting requests.
	ReadyTag = "!scroll-ready"
)
