// Package classifier provides ordering.Classifier implementations backed by
// language models.
//
// LLM talks to an OpenRouter-compatible endpoint through services/llm;
// Gemini uses the Google GenAI SDK. Both send the same JSON prompt and
// parse {"order": [...]}. Neither validates the permutation; the ordering
// resolver re-checks every answer before using it.
package classifier
