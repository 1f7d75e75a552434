package synth

import (
	"context"

	"github.com/caseforge/caseforge/types"
)

// SynthesizeCases asks the model for count test cases grounded on the
// element payload. Never returns an error: any transport or parse fault is
// expressed as a marker result, per the synthesizer boundary contract.
func (c *Client) SynthesizeCases(ctx context.Context, elementsJSON, url string, count int) types.CaseResult {
	c.logger.Info("generating test cases", map[string]any{
		"count": count,
		"model": c.config.Model,
	})

	raw, err := c.generate(ctx, caseSystemPrompt, casePrompt(elementsJSON, url, count),
		DefaultCaseTemperature, DefaultCaseMaxTokens)
	if err != nil {
		c.logger.Error("case synthesis transport failure", map[string]any{
			"error": err.Error(),
		})
		return types.CaseResult{Marker: &types.ErrorMarker{
			Kind:     types.ErrAPI,
			Scenario: "API Communication Issue",
			Detail:   err.Error(),
		}}
	}

	result := ParseCases(raw)
	if result.Marker != nil {
		c.logger.Error("case synthesis parse failure", map[string]any{
			"response_bytes": len(raw),
		})
		return result
	}

	c.logger.Info("parsed test cases", map[string]any{
		"count": len(result.Cases),
	})
	return result
}
