package synth

import (
	"context"
	"fmt"
	"strings"

	"github.com/caseforge/caseforge/types"
)

// SynthesizeScript generates one automation script for a test case. Always
// returns a string: failures are encoded as a comment-style error payload
// that downstream code treats as opaque text.
func (c *Client) SynthesizeScript(ctx context.Context, tc types.TestCase, elementsJSON, url string) string {
	c.logger.Info("generating script", map[string]any{
		"case_id": tc.ID,
		"model":   c.config.Model,
	})

	raw, err := c.generate(ctx, scriptSystemPrompt, scriptPrompt(tc, elementsJSON, url),
		DefaultScriptTemperature, DefaultScriptMaxTokens)
	if err != nil {
		c.logger.Error("script synthesis failure", map[string]any{
			"case_id": tc.ID,
			"error":   err.Error(),
		})
		return fmt.Sprintf("%s: script generation failed\n# %s", types.ScriptErrorPrefix, err.Error())
	}

	return StripFences(raw)
}

// StripFences removes a surrounding markdown code fence when the model adds
// one despite instructions.
func StripFences(code string) string {
	code = strings.TrimSpace(code)
	for _, prefix := range []string{"```python", "```"} {
		if strings.HasPrefix(code, prefix) {
			code = strings.TrimSpace(strings.TrimPrefix(code, prefix))
			break
		}
	}
	code = strings.TrimSuffix(code, "```")
	return strings.TrimSpace(code)
}
