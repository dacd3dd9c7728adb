package llm

// Request carries one completion call to a provider.
type Request struct {
	Prompt      string
	System      string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Response is the provider-neutral completion result.
type Response struct {
	Content    string
	StopReason string
	TokensUsed int
}
