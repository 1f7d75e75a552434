package synth

import (
	"fmt"

	"github.com/caseforge/caseforge/types"
)

const caseSystemPrompt = "You are an expert QA engineer generating test cases from UI elements."

const scriptSystemPrompt = "You are an expert QA automation engineer generating Python Selenium scripts."

// casePrompt asks for a JSON list of test case objects keyed by the wire
// column names. The output contract (JSON list only, no surrounding prose)
// is what the strict parser depends on.
func casePrompt(elementsJSON, url string, count int) string {
	return fmt.Sprintf(`Analyze the following UI elements extracted from the website %s:
`+"```json\n%s\n```"+`

Based on these elements, generate %d meaningful test cases covering common user interactions like navigation, form interaction (if any), and viewing content. Focus on positive and simple negative scenarios relevant to the visible elements.

Present the test cases ONLY as a valid JSON list of objects. Each object must have the following keys:
- "Test Case ID": A unique identifier (e.g., TC001, TC002).
- "Test Scenario": A brief description of the test objective.
- "Steps to Execute": Numbered steps describing how to perform the test manually. Mention specific element identifiers (text, id, placeholder) where possible from the JSON above.
- "Expected Result": What should happen after executing the steps.

Example format for a single test case object:
{
  "Test Case ID": "TC001",
  "Test Scenario": "Verify user can navigate to the 'Contact' page",
  "Steps to Execute": "1. Go to the homepage.\n2. Click on the link with text 'Contact'.",
  "Expected Result": "The contact page should load successfully."
}

Ensure the entire output is *only* the JSON list, starting with '[' and ending with ']'. Do not include any introductory text, explanations, or markdown formatting outside the JSON structure itself.`, url, elementsJSON, count)
}

// scriptPrompt asks for one complete, runnable Python Selenium script for a
// single test case, with the element descriptors as selector context.
func scriptPrompt(tc types.TestCase, elementsJSON, url string) string {
	return fmt.Sprintf(`Generate a complete, runnable Python Selenium script to automate the following test case for the website %s.

Test Case ID: %s
Test Scenario: %s
Steps to Execute:
%s
Expected Result: %s

Use the following UI element details extracted from the page for context when choosing selectors. Prefer using ID, then Name, then CSS Selector, then Link Text, then XPath. Handle potential waits for elements to be clickable or visible.
`+"```json\n%s\n```"+`

The script should:
1. Include necessary imports (Selenium webdriver, By, time, etc.).
2. Set up the ChromeDriver (using webdriver-manager is preferred). Run in headless mode.
3. Navigate to the base URL: %s.
4. Implement the test steps using Selenium commands with robust locators and reasonable waits after clicks or navigation.
5. Include a basic assertion relevant to the expected result or the final step.
6. Print a success or failure message to the console based on the assertion.
7. Include teardown code to close the browser in a finally block.
8. Be fully contained within a single Python code block.

Output *only* the Python code for the script. Do not include any explanations, introductory text, or markdown formatting like `+"```python ...```"+`.`,
		url, tc.ID, tc.Scenario, tc.Steps, tc.Expected, elementsJSON, url)
}
