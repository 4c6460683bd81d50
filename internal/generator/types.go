package generator

// Test types accepted by the generator.
const (
	TestTypeUnit = "unit"
	TestTypeUI   = "ui"
)

// Default class names used when the model output yields none.
const (
	DefaultUnitClassName = "GeneratedUnitTests"
	DefaultUIClassName   = "GeneratedUITests"
)

// AppContext carries what is known about the app under test. All fields are
// optional; an empty context produces a prompt with no context section.
type AppContext struct {
	AppName            string              `json:"app_name,omitempty"`
	Screens            []string            `json:"screens,omitempty"`
	UIElements         map[string][]string `json:"ui_elements,omitempty"`
	AccessibilityIDs   []string            `json:"accessibility_ids,omitempty"`
	CustomTypes        []string            `json:"custom_types,omitempty"`
	SourceCodeSnippets string              `json:"source_code_snippets,omitempty"`
}

// Request asks for one generated test.
type Request struct {
	TestDescription string      `json:"test_description"`
	TestType        string      `json:"test_type"`
	AppContext      *AppContext `json:"app_context,omitempty"`
	ClassName       string      `json:"class_name,omitempty"`

	// IncludeComments defaults to true when absent from the request body.
	IncludeComments *bool `json:"include_comments,omitempty"`
}

// WantComments resolves the IncludeComments default.
func (r Request) WantComments() bool {
	return r.IncludeComments == nil || *r.IncludeComments
}

// Response is one generated test plus generation metadata.
type Response struct {
	SwiftCode string         `json:"swift_code"`
	TestType  string         `json:"test_type"`
	ClassName string         `json:"class_name"`
	Metadata  map[string]any `json:"metadata"`
}
