package dataset

// SeedExamples are the reference question/answer pairs registered when the
// dataset is first created.
var SeedExamples = []Example{
	{
		Question: "In Neel Nanda’s Quickstart Guide, what is the goal of mechanistic interpretability?",
		Answer:   "To reverse-engineer trained networks—like reversing a program from its binary—to understand the internal algorithms and cognition.",
	},
	{
		Question: "According to the Quickstart Guide, what minimal setup is recommended to start practical transformer MI work?",
		Answer:   "Copy the TransformerLens demo into a Google Colab with a free GPU and experiment on a small model.",
	},
	{
		Question: "Which architecture does the Barebones Guide say you must deeply understand for MI, and which variant is most relevant?",
		Answer:   "Transformers, especially decoder-only GPT-style models like GPT-2.",
	},
	{
		Question: "Which two tensor tools does the Barebones Guide strongly recommend to avoid common PyTorch pitfalls?",
		Answer:   "einops for reshaping and einsum for tensor multiplication.",
	},
	{
		Question: "In ‘Toy Models of Superposition’, what is superposition and why is it useful?",
		Answer:   "Representing more features than dimensions; with sparse features this compresses information, though it introduces interference requiring nonlinear filtering.",
	},
	{
		Question: "In the toy example from ‘Toy Models of Superposition’, what changes when features become sparse?",
		Answer:   "The model stores additional features in superposition instead of just learning an orthogonal basis for the top features.",
	},
	{
		Question: "What is the IOI task Redwood studied, and how large was the circuit they found?",
		Answer:   "Choosing the correct recipient in sentences like “... gave a drink to ...”; they found a 26-head attention circuit grouped into seven classes.",
	},
	{
		Question: "Name one interaction phenomenon between attention heads observed in the IOI work.",
		Answer:   "Heads communicate with pointers—passing positions rather than copying content.",
	},
	{
		Question: "What does the transformer circuits framework help you do when understanding models?",
		Answer:   "Decompose a transformer into identifiable parts (circuits/effective weights) so the overall model is more tractable to analyze.",
	},
	{
		Question: "Which large multi-head circuit example is cited in the ‘Transformer Circuits Framework’ post?",
		Answer:   "The 26-head mechanism for detecting indirect objects (IOI) in GPT-2 small.",
	},
}
