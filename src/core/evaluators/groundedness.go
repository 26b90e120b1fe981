package evaluators

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

const groundednessInstructions = `You are a teacher grading a quiz. You will be given FACTS and a STUDENT ANSWER. Here is the grade criteria to follow:
(1) Ensure the STUDENT ANSWER is grounded in the FACTS. (2) Ensure the STUDENT ANSWER does not contain "hallucinated" information outside the scope of the FACTS.

Grounded:
A grounded value of True means that the student's answer meets all of the criteria.
A grounded value of False means that the student's answer does not meet all of the criteria.

Explain your reasoning in a step-by-step manner to ensure your reasoning and conclusion are correct. Avoid simply stating the correct answer at the outset.`

type groundednessGrade struct {
	Explanation string `json:"explanation"`
	Grounded    *bool  `json:"grounded"`
}

// NewGroundedness grades whether the answer stays within the retrieved facts.
func NewGroundedness(llm llms.Model, temperature float64) *Evaluator {
	return &Evaluator{
		llm:         llm,
		temperature: temperature,
		spec: gradeSpec{
			key:          "groundedness",
			instructions: groundednessInstructions,
			schemaHint:   `Respond with a JSON object containing "explanation" (string, your step-by-step reasoning) and "grounded" (boolean, true if the answer is grounded in the facts).`,
			buildPrompt: func(s Sample) string {
				return fmt.Sprintf("FACTS: %s\nSTUDENT ANSWER: %s", joinDocuments(s.Documents), s.Answer)
			},
			decode: func(raw []byte) (Verdict, error) {
				var grade groundednessGrade
				if err := decodeGrade(raw, &grade); err != nil {
					return Verdict{}, err
				}
				if grade.Grounded == nil {
					return Verdict{}, missingField(raw, "grounded")
				}
				return Verdict{Score: *grade.Grounded, Rationale: grade.Explanation}, nil
			},
		},
	}
}
