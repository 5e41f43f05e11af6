// Package connector defines the polymorphic contract every data-source
// wrapper implements: tool discovery and invocation, resources, prompts,
// and credential lifecycle, behind one uniform interface.
package connector

import "context"

// Connector is the uniform capability set every data source implements.
// All methods may suspend on I/O; implementations must be safe for the
// registry to call at most once at a time (the registry serializes calls to
// a single connector via its handle's mutex) but concurrently across
// distinct connectors.
type Connector interface {
	// Name is the stable, lowercase-kebab registry key and tool namespace.
	Name() string
	// Description is a short human-readable summary.
	Description() string
	// CredentialProvider names the credential owner; defaults to Name() but
	// may be shared across connectors (e.g. "openai-search" -> "openai").
	CredentialProvider() string

	ConfigSchema() ConfigSchema

	Initialize(ctx context.Context, req InitializeRequest) (InitializeResult, error)
	ListTools(ctx context.Context, cursor string) (ListToolsResult, error)
	CallTool(ctx context.Context, req CallRequest) (CallResult, error)

	ListResources(ctx context.Context, cursor string) (ListResourcesResult, error)
	ReadResource(ctx context.Context, uri string) (ResourceContent, error)
	ListPrompts(ctx context.Context) (ListPromptsResult, error)
	GetPrompt(ctx context.Context, name string) (GetPromptResult, error)

	GetAuthDetails(ctx context.Context) (AuthDetails, error)
	SetAuthDetails(ctx context.Context, details AuthDetails) error
	TestAuth(ctx context.Context) error
}

// Base provides no-op implementations of the protocol-compatibility methods
// (list_resources/read_resource/list_prompts/get_prompt) so concrete
// connectors only implement what they actually support.
type Base struct{}

func (Base) ListResources(ctx context.Context, cursor string) (ListResourcesResult, error) {
	return ListResourcesResult{}, nil
}

func (Base) ReadResource(ctx context.Context, uri string) (ResourceContent, error) {
	return ResourceContent{}, ResourceNotFound("no resources exposed")
}

func (Base) ListPrompts(ctx context.Context) (ListPromptsResult, error) {
	return ListPromptsResult{}, nil
}

func (Base) GetPrompt(ctx context.Context, name string) (GetPromptResult, error) {
	return GetPromptResult{}, ResourceNotFound("unknown prompt %q", name)
}
