// Package provider defines the translation client interface and implementations.
package provider

import "github.com/translatekit/jsontl"

// Client is the interface for translation backends.
// This is an alias to the main package interface for convenience.
type Client = jsontl.Client

// ClientFactory is an alias to the main package type.
type ClientFactory = jsontl.ClientFactory
