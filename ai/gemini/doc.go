// Package gemini provides AI service implementations backed by the Google Gemini API.
//
// Chat completions and embeddings go through the google.golang.org/genai SDK
// using the Gemini API backend. An API key is required.
//
//	config := ai.NewConfig(
//	    ai.WithProvider(ai.ProviderGemini),
//	    ai.WithAPIKey(os.Getenv("GEMINI_API_KEY")),
//	    ai.WithChatModel("gemini-2.5-flash"),
//	    ai.WithEmbeddingModel("text-embedding-004"),
//	)
//	provider, err := gemini.NewProvider(ctx, config)
package gemini
