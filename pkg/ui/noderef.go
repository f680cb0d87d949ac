package ui

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/a-h/templ"
)

var nodeRefSeq atomic.Uint64

// NodeRef identifies the element a component renders so callers can find it
// after rendering. It is rendered as a data-ref attribute. Ownership passes
// to whichever element attaches it last; a delegate that takes over a render
// is expected to attach the NodeRef it receives.
type NodeRef struct {
	id       string
	mu       sync.RWMutex
	tag      string
	attached atomic.Uint64
}

// NewNodeRef returns a NodeRef with a process-unique ID.
func NewNodeRef() *NodeRef {
	return &NodeRef{id: "ref-" + strconv.FormatUint(nodeRefSeq.Add(1), 10)}
}

// NewNamedNodeRef returns a NodeRef with a caller-chosen ID.
func NewNamedNodeRef(id string) *NodeRef {
	return &NodeRef{id: id}
}

// ID returns the value rendered in the data-ref attribute.
func (r *NodeRef) ID() string {
	if r == nil {
		return ""
	}
	return r.id
}

// Attach records that the element tag now carries r.
func (r *NodeRef) Attach(tag string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.tag = tag
	r.mu.Unlock()
	r.attached.Add(1)
}

// Tag returns the tag of the element r was last attached to.
func (r *NodeRef) Tag() string {
	if r == nil {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tag
}

// IsSet reports whether r has been attached to an element.
func (r *NodeRef) IsSet() bool {
	return r.attachments() > 0
}

// Attrs attaches r to tag and returns the attribute that carries it, for use
// as a spread in templ markup:
//
//	<a { props.NodeRef.Attrs("a")... } href="#">Docs</a>
func (r *NodeRef) Attrs(tag string) templ.Attributes {
	if r == nil {
		return templ.Attributes{}
	}
	r.Attach(tag)
	return templ.Attributes{"data-ref": r.id}
}

func (r *NodeRef) attachments() uint64 {
	if r == nil {
		return 0
	}
	return r.attached.Load()
}
