// Package jsontl is a translation pipeline for JSON localization files.
//
// Jsontl extracts the string leaves of a JSON document, protects
// interpolation placeholders ({{name}}, {0}, %s, ...), translates the
// stripped texts through an AI provider with two-level concurrent
// batching and a persistent cache, then restores the placeholders,
// applies glossary rules, and reassembles a document of identical shape.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/translatekit/jsontl"
//	    "github.com/translatekit/jsontl/cache"
//	    "github.com/translatekit/jsontl/document"
//	    "github.com/translatekit/jsontl/provider"
//	)
//
//	func main() {
//	    factory := provider.Factory(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    pipeline, err := jsontl.NewPipeline("es", factory,
//	        jsontl.WithSourceLang("en"),
//	        jsontl.WithCache(cache.NewInMemoryCache(0)),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    doc, _ := document.Decode(strings.NewReader(`{"greeting": "Hello, {{name}}!"}`))
//	    result, err := pipeline.Translate(context.Background(), doc)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    document.Encode(os.Stdout, result.Document)
//	}
package jsontl
