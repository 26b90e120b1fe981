package evaluators

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

const retrievalRelevanceInstructions = `You are a teacher grading a quiz. You will be given a QUESTION and a set of FACTS provided by the student. Here is the grade criteria to follow:
(1) You goal is to identify FACTS that are completely unrelated to the QUESTION
(2) If the facts contain ANY keywords or semantic meaning related to the question, consider them relevant
(3) It is OK if the facts have SOME information that is unrelated to the question as long as (2) is met

Relevance:
A relevance value of True means that the FACTS contain ANY keywords or semantic meaning related to the QUESTION and are therefore relevant.
A relevance value of False means that the FACTS are completely unrelated to the QUESTION.

Explain your reasoning in a step-by-step manner to ensure your reasoning and conclusion are correct. Avoid simply stating the correct answer at the outset.`

type retrievalRelevanceGrade struct {
	Explanation string `json:"explanation"`
	Relevant    *bool  `json:"relevant"`
}

// NewRetrievalRelevance grades whether the retrieved documents relate to the
// question at all.
func NewRetrievalRelevance(llm llms.Model, temperature float64) *Evaluator {
	return &Evaluator{
		llm:         llm,
		temperature: temperature,
		spec: gradeSpec{
			key:          "retrieval_relevance",
			instructions: retrievalRelevanceInstructions,
			schemaHint:   `Respond with a JSON object containing "explanation" (string, your step-by-step reasoning) and "relevant" (boolean, true if the retrieved documents are relevant to the question).`,
			buildPrompt: func(s Sample) string {
				return fmt.Sprintf("FACTS: %s\nQUESTION: %s", joinDocuments(s.Documents), s.Question)
			},
			decode: func(raw []byte) (Verdict, error) {
				var grade retrievalRelevanceGrade
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
