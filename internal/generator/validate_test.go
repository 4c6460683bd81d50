package generator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashgrovelabs/testsmith/internal/generator"
)

const passingUITest = `import XCTest

final class LoginFlowUITests: XCTestCase {
    var app: XCUIApplication!

    override func setUpWithError() throws {
        continueAfterFailure = false
        app = XCUIApplication()
        app.launch()
    }

    override func tearDownWithError() throws {
        app = nil
    }

    func testLoginSucceeds() throws {
        let button = app.buttons["loginButton"]
        XCTAssertTrue(button.waitForExistence(timeout: 5))
        button.tap()
    }
}
`

func TestValidateXCUITestContract_AllPass(t *testing.T) {
	checks := generator.ValidateXCUITestContract(passingUITest)

	assert.True(t, checks.AllPassed())
	assert.Empty(t, checks.Failed())
}

func TestValidateXCUITestContract_Predicates(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		failed []string
	}{
		{
			name: "empty code fails everything",
			code: "",
			failed: []string{
				"has_xcuiapplication",
				"has_app_launch",
				"has_wait_for_existence",
				"has_assertions",
				"has_setup_teardown",
			},
		},
		{
			name:   "missing launch",
			code:   "XCUIApplication()\nwaitForExistence(timeout: 5)\nXCTAssertTrue(x)\nsetUpWithError tearDownWithError",
			failed: []string{"has_app_launch"},
		},
		{
			name:   "predicate expectation counts as waiting",
			code:   "XCUIApplication()\napp.launch()\nXCTNSPredicateExpectation\nXCTAssertEqual(a, b)\nsetUpWithError tearDownWithError",
			failed: nil,
		},
		{
			name:   "setup without teardown",
			code:   "XCUIApplication()\napp.launch()\nwaitForExistence(timeout: 5)\nXCTAssertNotNil(x)\nsetUpWithError",
			failed: []string{"has_setup_teardown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := generator.ValidateXCUITestContract(tt.code)
			assert.Equal(t, tt.failed, checks.Failed())
			assert.Equal(t, len(tt.failed) == 0, checks.AllPassed())
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", "import XCTest", "import XCTest"},
		{"swift fence", "```swift\nimport XCTest\n```", "import XCTest"},
		{"bare fence", "```\nimport XCTest\n```", "import XCTest"},
		{"surrounding whitespace", "  \n```swift\nimport XCTest\n```\n  ", "import XCTest"},
		{"unterminated fence", "```swift\nimport XCTest", "import XCTest"},
		{"fences inside code stay", "let s = \"```\"", "let s = \"```\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, generator.StripCodeFences(tt.in))
		})
	}
}

func TestExtractClassName(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"plain class", "import XCTest\n\nclass LoginTests: XCTestCase {\n}", "LoginTests"},
		{"final class", "final class CartUITests: XCTestCase {", "CartUITests"},
		{"no test case class", "class Helper {\n}", "GeneratedUnitTests"},
		{"empty", "", "GeneratedUnitTests"},
		{"first match wins", "class FirstTests: XCTestCase {}\nclass SecondTests: XCTestCase {}", "FirstTests"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, generator.ExtractClassName(tt.code, generator.DefaultUnitClassName))
		})
	}
}
