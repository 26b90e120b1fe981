package evaluators

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

const correctnessInstructions = `You are a teacher grading a quiz. You will be given a QUESTION, the GROUND TRUTH (correct) ANSWER, and the STUDENT ANSWER. Here is the grade criteria to follow:
(1) Grade the student answers based ONLY on their factual accuracy relative to the ground truth answer. (2) Ensure that the student answer does not contain any conflicting statements.
(3) It is OK if the student answer contains more information than the ground truth answer, as long as it is factually accurate relative to the  ground truth answer.

Correctness:
A correctness value of True means that the student's answer meets all of the criteria.
A correctness value of False means that the student's answer does not meet all of the criteria.

Explain your reasoning in a step-by-step manner to ensure your reasoning and conclusion are correct. Avoid simply stating the correct answer at the outset.`

// correctnessGrade is the structured output the correctness judge must emit.
type correctnessGrade struct {
	Explanation string `json:"explanation"`
	Correct     *bool  `json:"correct"`
}

// NewCorrectness grades answer accuracy against the reference answer.
func NewCorrectness(llm llms.Model, temperature float64) *Evaluator {
	return &Evaluator{
		llm:         llm,
		temperature: temperature,
		spec: gradeSpec{
			key:              "correctness",
			instructions:     correctnessInstructions,
			schemaHint:       `Respond with a JSON object containing "explanation" (string, your step-by-step reasoning) and "correct" (boolean, true if the answer is correct).`,
			requireReference: true,
			buildPrompt: func(s Sample) string {
				return fmt.Sprintf("QUESTION: %s\nGROUND TRUTH ANSWER: %s\nSTUDENT ANSWER: %s",
					s.Question, s.Reference, s.Answer)
			},
			decode: func(raw []byte) (Verdict, error) {
				var grade correctnessGrade
				if err := decodeGrade(raw, &grade); err != nil {
					return Verdict{}, err
				}
				if grade.Correct == nil {
					return Verdict{}, missingField(raw, "correct")
				}
				return Verdict{Score: *grade.Correct, Rationale: grade.Explanation}, nil
			},
		},
	}
}
