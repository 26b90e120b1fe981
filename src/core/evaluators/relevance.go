package evaluators

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

const relevanceInstructions = `You are a teacher grading a quiz. You will be given a QUESTION and a STUDENT ANSWER. Here is the grade criteria to follow:
(1) Ensure the STUDENT ANSWER is concise and relevant to the QUESTION
(2) Ensure the STUDENT ANSWER helps to answer the QUESTION

Relevance:
A relevance value of True means that the student's answer meets all of the criteria.
A relevance value of False means that the student's answer does not meet all of the criteria.

Explain your reasoning in a step-by-step manner to ensure your reasoning and conclusion are correct. Avoid simply stating the correct answer at the outset.`

type relevanceGrade struct {
	Explanation string `json:"explanation"`
	Relevant    *bool  `json:"relevant"`
}

// NewRelevance grades whether the answer addresses the question.
func NewRelevance(llm llms.Model, temperature float64) *Evaluator {
	return &Evaluator{
		llm:         llm,
		temperature: temperature,
		spec: gradeSpec{
			key:          "relevance",
			instructions: relevanceInstructions,
			schemaHint:   `Respond with a JSON object containing "explanation" (string, your step-by-step reasoning) and "relevant" (boolean, true if the answer addresses the question).`,
			buildPrompt: func(s Sample) string {
				return fmt.Sprintf("QUESTION: %s\nSTUDENT ANSWER: %s", s.Question, s.Answer)
			},
			decode: func(raw []byte) (Verdict, error) {
				var grade relevanceGrade
				if err := decodeGrade(raw, &grade); err != nil {
					return Verdict{}, err
				}
				if grade.Relevant == nil {
					return Verdict{}, missingField(raw, "relevant")
				}
				return Verdict{Score: *grade.Relevant, Rationale: grade.Explanation}, nil
			},
		},
	}
}
