// Package rag defines the document-retrieval collaborator boundary. The
// agent core never builds vector stores itself; it only appends retrieved
// grounding text to the response prompt when a retriever is configured.
package rag

import "context"

// Context is retrieved grounding material for one query.
type Context struct {
	Text    string
	Sources []string
}

// Retriever produces grounding context for a query from user-uploaded
// documents. Implementations live outside this module.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (Context, error)
}

// Nop is a Retriever that never returns context, for deployments without
// document upload.
type Nop struct{}

func (Nop) Retrieve(ctx context.Context, query string) (Context, error) {
	return Context{}, nil
}

var _ Retriever = Nop{}
