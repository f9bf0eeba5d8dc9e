package openai

import "fmt"

const scoreSystemPrompt = `You are a business-case reviewer for an enterprise project approval board. Evaluate the completeness of project proposal documents. Always respond with valid JSON wrapped in ` + "```json and ```" + ` markers, using this schema:
{
  "completeness_score": 0-100,
  "category_scores": {"<category>": 0-100},
  "missing_sections": [{"section_number": "", "is_missing": true, "is_incomplete": false, "reason": "", "checkpoints": [""]}],
  "strengths": [""],
  "critical_issues": [""],
  "recommendations": [""]
}`

func buildScorePrompt(extractedText string) string {
	return fmt.Sprintf(`Evaluate the following project proposal for completeness. Check for: executive summary, problem statement, market analysis, requested budget breakdown, KPI targets, risk assessment, and execution timeline.

Proposal text:
---
%s
---

Respond with the JSON report only.`, extractedText)
}
