// Package extract turns a free-text instruction into the typed filter a
// retrieval strategy needs.
//
// Every call makes exactly one JSON-constrained request to an ai.ChatModel.
// The answer is decoded loosely and validated field by field: enum labels are
// mapped through core.ParseWorkStyle and core.ParseWorkType, placeholder
// strings such as "none" become nil, and salaries may arrive as numbers or as
// text. Invalid fields are dropped and reported through an error wrapping
// core.ErrExtraction, while the remaining fields are still returned. Callers
// use the returned filter regardless of the error.
package extract
