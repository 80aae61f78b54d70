package loader

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Source selects where the schema document is read from.
type Source string

const (
	// SourceFile reads the schema from the local filesystem.
	SourceFile Source = "file"
	// SourceWeb downloads the schema over HTTP.
	SourceWeb Source = "web"
)

// DefaultURL is the registry of the 1.0 branch.
const DefaultURL = "https://raw.githubusercontent.com/KhronosGroup/Vulkan-Docs/1.0/src/spec/vk.xml"

// Service fetches schema documents
type Service struct {
	source     Source
	timeout    time.Duration
	retryMax   int
	httpClient *http.Client
	logger     *zap.Logger
	debug      Debugger
}

// Debugger interface for logging
type Debugger interface {
	Printf(format string, v ...interface{})
}

// Option is a functional option for configuring Service
type Option func(*Service)

// noOpDebugger is a no-op debugger
type noOpDebugger struct{}

func (n *noOpDebugger) Printf(format string, v ...interface{}) {}
