package generator

import "strings"

// ContractChecks is the per-predicate result of validating generated UI
// test code against the generation contract.
type ContractChecks struct {
	HasXCUIApplication  bool `json:"has_xcuiapplication"`
	HasAppLaunch        bool `json:"has_app_launch"`
	HasWaitForExistence bool `json:"has_wait_for_existence"`
	HasAssertions       bool `json:"has_assertions"`
	HasSetupTeardown    bool `json:"has_setup_teardown"`
}

// ValidateXCUITestContract checks generated Swift against the XCUITest
// contract the system prompt demands. Validation is advisory: results ride
// along in response metadata and never fail the request.
func ValidateXCUITestContract(swiftCode string) ContractChecks {
	return ContractChecks{
		HasXCUIApplication: strings.Contains(swiftCode, "XCUIApplication()"),
		HasAppLaunch:       strings.Contains(swiftCode, "app.launch()"),
		HasWaitForExistence: strings.Contains(swiftCode, "waitForExistence(timeout:") ||
			strings.Contains(swiftCode, "XCTNSPredicateExpectation"),
		HasAssertions: strings.Contains(swiftCode, "XCTAssertTrue") ||
			strings.Contains(swiftCode, "XCTAssertEqual") ||
			strings.Contains(swiftCode, "XCTAssertFalse") ||
			strings.Contains(swiftCode, "XCTAssertNotNil"),
		HasSetupTeardown: strings.Contains(swiftCode, "setUpWithError") &&
			strings.Contains(swiftCode, "tearDownWithError"),
	}
}

// AllPassed reports whether every contract predicate held.
func (c ContractChecks) AllPassed() bool {
	return c.HasXCUIApplication && c.HasAppLaunch && c.HasWaitForExistence &&
		c.HasAssertions && c.HasSetupTeardown
}

// Failed lists the names of failed predicates, in declaration order.
func (c ContractChecks) Failed() []string {
	var failed []string
	for _, check := range []struct {
		name string
		ok   bool
	}{
		{"has_xcuiapplication", c.HasXCUIApplication},
		{"has_app_launch", c.HasAppLaunch},
		{"has_wait_for_existence", c.HasWaitForExistence},
		{"has_assertions", c.HasAssertions},
		{"has_setup_teardown", c.HasSetupTeardown},
	} {
		if !check.ok {
			failed = append(failed, check.name)
		}
	}
	return failed
}

// StripCodeFences removes markdown code fences that models emit despite
// being told not to.
func StripCodeFences(swiftCode string) string {
	s := strings.TrimSpace(swiftCode)
	if strings.HasPrefix(s, "```swift") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```swift"))
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

// ExtractClassName pulls the XCTestCase subclass name out of generated
// Swift, handling both "class X: XCTestCase" and "final class X: XCTestCase".
// Returns fallback when no class declaration is found.
func ExtractClassName(swiftCode, fallback string) string {
	for _, line := range strings.Split(swiftCode, "\n") {
		if !strings.Contains(line, "class ") || !strings.Contains(line, ": XCTestCase") {
			continue
		}
		after := line[strings.Index(line, "class ")+len("class "):]
		name, _, found := strings.Cut(after, ":")
		if !found {
			continue
		}
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return fallback
}
